package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"newsguard/ml"
)

var convertCmd = &cobra.Command{
	Use:   "convert vectorizer|classifier <in> <out>",
	Short: "Re-encode a model artifact",
	Long: `Reads an artifact and writes it back out. The format of each file follows
its extension (.json or .gob), so a JSON export from training can be turned into
a compact gob file.`,
	Args:      cobra.ExactArgs(3),
	ValidArgs: []string{"vectorizer", "classifier"},
	RunE:      runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	kind, in, out := args[0], args[1], args[2]

	switch kind {
	case "vectorizer":
		v, err := ml.LoadVectorizer(in)
		if err != nil {
			return err
		}
		if err := ml.SaveVectorizer(out, v); err != nil {
			return err
		}
	case "classifier":
		c, err := ml.LoadClassifier(in)
		if err != nil {
			return err
		}
		if err := ml.SaveClassifier(out, c); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown artifact %q, want vectorizer or classifier", kind)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	return nil
}
