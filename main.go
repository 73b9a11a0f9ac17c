package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"newsguard/config"
	"newsguard/detector"
	nghttp "newsguard/http"
	"newsguard/logging"
	"newsguard/ml"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Close()

	// 2. Load artifacts once; nothing is served without them
	det, err := detector.FromConfig(cfg, logger.Logger)
	if err != nil {
		var loadErr *ml.LoadError
		if errors.As(err, &loadErr) {
			logger.Error("model artifacts unavailable",
				zap.String("artifact", loadErr.Artifact),
				zap.String("path", loadErr.Path),
				zap.Error(loadErr.Err),
			)
		}
		return err
	}
	if err := det.CheckCompatibility(); err != nil {
		logger.Warn("vectorizer and classifier disagree, every prediction will fail", zap.Error(err))
	}
	info := det.Info()
	logger.Info("models loaded",
		zap.String("vectorizer", cfg.Model.VectorizerPath),
		zap.String("classifier", cfg.Model.ClassifierPath),
		zap.String("classifier_type", info.ClassifierType),
		zap.Int("features", info.VectorizerDim),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Log level follows config edits
	go func() {
		err := config.Watch(ctx, configPath, logger.Logger, func(next *config.Config) {
			if err := logger.SetLevel(next.Log.Level); err != nil {
				logger.Warn("keeping log level", zap.Error(err))
				return
			}
			logger.Info("log level updated", zap.String("level", next.Log.Level))
		})
		if err != nil {
			logger.Warn("config watch disabled", zap.Error(err))
		}
	}()

	// 4. Start HTTP server
	server := nghttp.NewServer(nghttp.ServerConfig{
		Port:           cfg.HTTP.Port,
		Timeout:        cfg.HTTP.Timeout,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
	}, det, logger.Logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// 5. Handle graceful shutdown
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("exiting")
	return nil
}
