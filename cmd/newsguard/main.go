// Command newsguard is the offline companion of the server: it classifies and
// normalizes text from the terminal, inspects model artifacts and converts
// them between JSON and gob.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
