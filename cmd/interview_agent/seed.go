package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/questions"
)

var (
	seedFile     string
	seedParallel int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the question bank into the database",
	Long:  `Insert seed questions into the database. Questions whose id or text already exist are skipped.`,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML seed file (default is the built-in question bank)")
	seedCmd.Flags().IntVar(&seedParallel, "parallel", 4, "Concurrent insert batches")
	rootCmd.AddCommand(seedCmd)
}

func loadSeed(path string) ([]questions.SeedQuestion, error) {
	if path == "" {
		return questions.DefaultSeed()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return questions.LoadSeed(f)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}

	seed, err := loadSeed(seedFile)
	if err != nil {
		return err
	}

	database, err := db.Connect(cmd.Context(), cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(cmd.Context()); err != nil {
		return err
	}
	bank := database.Questions()
	inserted, err := bank.Seed(cmd.Context(), seed, seedParallel)
	if err != nil {
		return err
	}
	total, err := bank.Count(cmd.Context())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "inserted %d of %d questions, bank holds %d\n", inserted, len(seed), total)
	return nil
}
