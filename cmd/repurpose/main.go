// Package main is the repurpose CLI: local or remote scoring, the builtin
// example pairs, and catalog seeding.
package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"theranova/backend/internal/dataset"
)

var rootCmd = &cobra.Command{
	Use:   "repurpose",
	Short: "Score molecule/disease pairs for repurposing potential",
	Long: `repurpose scores how promising it is to repurpose a molecule for a
disease, using the same trial registry and competitor data as the HTTP
service. Scoring runs locally unless --remote points at a running service.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}
		logrus.SetLevel(parsed)
		logrus.SetOutput(os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("dataset", "", "YAML or JSON dataset file (default: builtin dataset)")
}

// datasetFromFlags returns the file named by --dataset, or the builtin dataset.
func datasetFromFlags(cmd *cobra.Command) (*dataset.Dataset, error) {
	path, _ := cmd.Flags().GetString("dataset")
	if path == "" {
		return dataset.Default(), nil
	}
	return dataset.LoadFile(path)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
