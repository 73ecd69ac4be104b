package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"theranova/backend/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write a dataset into a SQLite catalog",
	Long: `Seed replaces the contents of the catalog at --db with --dataset or the
builtin dataset. Point the server at the catalog with REPURPOSE_CATALOG_DB.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print a dataset as YAML",
	Long: `Export prints the catalog at --db, or --dataset/the builtin dataset when
--db is empty, in the YAML layout accepted by --dataset and REPURPOSE_DATASET_PATH.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	seedCmd.Flags().String("db", "", "path to the SQLite catalog (required)")
	_ = seedCmd.MarkFlagRequired("db")
	exportCmd.Flags().String("db", "", "path to a SQLite catalog to export")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")

	data, err := datasetFromFlags(cmd)
	if err != nil {
		return err
	}

	db, err := store.Open(dbPath, true)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logrus.WithError(cerr).Warn("close catalog")
		}
	}()

	if err := db.ReplaceDataset(data); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %s with %d trial(s) and %d competitor(s)\n",
		dbPath, len(data.Trials()), len(data.Competitors()))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")

	data, err := datasetFromFlags(cmd)
	if err != nil {
		return err
	}
	if dbPath != "" {
		db, err := store.Open(dbPath, true)
		if err != nil {
			return err
		}
		defer db.Close()
		if data, err = db.LoadDataset(); err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
	}

	out, err := data.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
