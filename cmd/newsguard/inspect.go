package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Load the model artifacts and report on them",
	Args:  cobra.NoArgs,
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := settings()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	det, err := loadDetector(cfg, logger.Logger)
	if err != nil {
		return err
	}

	info := det.Info()
	fmt.Fprintf(cmd.OutOrStdout(), "vectorizer:  %s (%d features)\n", cfg.Model.VectorizerPath, info.VectorizerDim)
	fmt.Fprintf(cmd.OutOrStdout(), "classifier:  %s (%s, %d features)\n", cfg.Model.ClassifierPath, info.ClassifierType, info.ClassifierDim)
	if len(info.Classes) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "classes:     %v\n", info.Classes)
	}
	if err := det.CheckCompatibility(); err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "compatible:  no (%v)\n", err)
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "compatible:  yes")
	return nil
}
