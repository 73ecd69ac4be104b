package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"theranova/backend/internal/api"
	"theranova/backend/internal/scoreclient"
	"theranova/backend/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one molecule/disease pair",
	Long: `Score prints the RepurposeScore response for one pair as JSON. With
--remote the request is sent to a running service; otherwise the pair is
scored in-process against --dataset or the builtin dataset.`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().String("molecule", "", "candidate molecule (required)")
	scoreCmd.Flags().String("disease", "", "target disease (required)")
	scoreCmd.Flags().String("remote", "", "base URL of a running service, e.g. http://localhost:8000")
	scoreCmd.Flags().Duration("timeout", 10*time.Second, "remote request timeout")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	molecule, _ := cmd.Flags().GetString("molecule")
	disease, _ := cmd.Flags().GetString("disease")
	remote, _ := cmd.Flags().GetString("remote")

	req := api.ScoreRequest{Molecule: molecule, Disease: disease}
	if err := req.Validate(); err != nil {
		return err
	}

	if remote != "" {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		client, err := scoreclient.NewClient(scoreclient.Config{BaseURL: remote, Timeout: timeout})
		if err != nil {
			return err
		}
		if err := client.Health(cmd.Context()); err != nil {
			return fmt.Errorf("remote %s not healthy: %w", remote, err)
		}
		resp, err := client.Score(cmd.Context(), molecule, disease)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), resp)
	}

	data, err := datasetFromFlags(cmd)
	if err != nil {
		return err
	}
	result := scoring.NewScorer(data).Compute(molecule, disease)
	return writeJSON(cmd.OutOrStdout(), api.ScoreResponseFromResult(result, api.NewAnalysisID()))
}
