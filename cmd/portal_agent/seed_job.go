package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-portal/internal/store"
	"github.com/jonathan/cv-portal/internal/types"
)

var (
	seedJobID      string
	seedUserID     string
	seedCVPath     string
	seedStatus     string
	seedConfigPath string
)

var seedJobCmd = &cobra.Command{
	Use:   "seed-job",
	Short: "Seed a CV job document",
	Long: `Write a completed CV job document into the store from a parsed CV JSON
file, for local testing of portal generation.`,
	RunE: runSeedJob,
}

func init() {
	seedJobCmd.Flags().StringVar(&seedJobID, "job", "", "Job ID (default: generated)")
	seedJobCmd.Flags().StringVar(&seedUserID, "user", "", "Owning user ID (required)")
	seedJobCmd.Flags().StringVar(&seedCVPath, "cv", "", "Path to parsed CV JSON file (required)")
	seedJobCmd.Flags().StringVar(&seedStatus, "status", string(types.JobStatusCompleted), "Job status to seed")
	seedJobCmd.Flags().StringVar(&seedConfigPath, "config", "", "Path to JSON config file")
	_ = seedJobCmd.MarkFlagRequired("user")
	_ = seedJobCmd.MarkFlagRequired("cv")
	rootCmd.AddCommand(seedJobCmd)
}

func runSeedJob(cmd *cobra.Command, _ []string) error {
	cfg, err := loadAgentConfig(seedConfigPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for seeding")
	}

	data, err := os.ReadFile(seedCVPath)
	if err != nil {
		return fmt.Errorf("failed to read CV file: %w", err)
	}
	var parsed types.ParsedCV
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse CV JSON: %w", err)
	}

	jobID := seedJobID
	if jobID == "" {
		jobID = "job_" + uuid.NewString()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	docs := store.NewPostgresStore(pool, "documents")
	if err := docs.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure document schema: %w", err)
	}

	now := time.Now().UTC()
	job := &types.PortalJob{
		ID:         jobID,
		UserID:     seedUserID,
		Status:     types.JobStatus(seedStatus),
		ParsedData: &parsed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := store.NewJobStore(docs).Put(ctx, job); err != nil {
		return fmt.Errorf("failed to seed job: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), jobID)
	return nil
}
