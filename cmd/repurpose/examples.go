package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"theranova/backend/internal/api"
	"theranova/backend/internal/scoring"
)

type examplePair struct {
	molecule string
	disease  string
}

var builtinExamples = []examplePair{
	{"Metformin", "Alzheimer"},
	{"Ivermectin", "COVID-19"},
	{"UnknownDrug", "RareDisease"},
	{"Metformin", "Parkinson"},
}

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Score the builtin example pairs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := datasetFromFlags(cmd)
		if err != nil {
			return err
		}
		scorer := scoring.NewScorer(data)
		out := cmd.OutOrStdout()
		for _, ex := range builtinExamples {
			fmt.Fprintf(out, "=== %s / %s\n", ex.molecule, ex.disease)
			result := scorer.Compute(ex.molecule, ex.disease)
			if err := writeJSON(out, api.ScoreResponseFromResult(result, api.NewAnalysisID())); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(examplesCmd)
}
