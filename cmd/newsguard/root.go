package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"newsguard/config"
	"newsguard/detector"
	"newsguard/logging"
)

var (
	configPath     string
	vectorizerPath string
	classifierPath string
	stopwordsPath  string
	stemmerName    string
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:          "newsguard",
	Short:        "Fake news detection tooling",
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML config to take model paths from")
	flags.StringVar(&vectorizerPath, "vectorizer", "", "vectorizer artifact (.json or .gob)")
	flags.StringVar(&classifierPath, "classifier", "", "classifier artifact (.json or .gob)")
	flags.StringVar(&stopwordsPath, "stopwords", "", "stopword list replacing the built-in English one")
	flags.StringVar(&stemmerName, "stemmer", "", "stemmer: nltk or porter (default from config)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

// settings merges the config file (or defaults) with explicit flags.
func settings() (*config.Config, error) {
	var cfg *config.Config
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		def := config.Default()
		cfg = &def
	}

	if vectorizerPath != "" {
		cfg.Model.VectorizerPath = vectorizerPath
	}
	if classifierPath != "" {
		cfg.Model.ClassifierPath = classifierPath
	}
	if stopwordsPath != "" {
		cfg.NLP.StopwordsPath = stopwordsPath
	}
	if stemmerName != "" {
		cfg.NLP.Stemmer = stemmerName
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	// stdout belongs to command output
	logCfg := cfg.Log
	logCfg.File = ""
	return logging.New(logCfg)
}

func loadDetector(cfg *config.Config, logger *zap.Logger) (*detector.Detector, error) {
	det, err := detector.FromConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("cannot classify without models: %w", err)
	}
	return det, nil
}
