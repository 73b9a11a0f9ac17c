package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"newsguard/detector"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [text|-]",
	Short: "Print the normalized form of the text",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	text, err := inputText(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := settings()
	if err != nil {
		return err
	}
	normalizer, err := detector.NewNormalizer(cfg.NLP)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), normalizer.Normalize(text))
	return nil
}
