package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"newsguard/detector"
)

var classifyJSON bool

var classifyCmd = &cobra.Command{
	Use:   "classify [text|-]",
	Short: "Classify news text as reliable or unreliable",
	Long: `Classifies the given text. With no argument, or "-", the text is read
from standard input.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "output the full result as JSON")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	text, err := inputText(cmd, args)
	if err != nil {
		return err
	}
	if detector.IsBlank(text) {
		return detector.ErrEmptyInput
	}

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

	result, err := det.Classify(text)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	if classifyJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (raw=%d score=%.4f)\n", result.Label, result.Raw, result.Score)
	return nil
}

// inputText returns the single argument, or stdin when it is absent or "-".
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
