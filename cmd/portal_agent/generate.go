package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cv-portal/internal/config"
	"github.com/jonathan/cv-portal/internal/generation"
	"github.com/jonathan/cv-portal/internal/llm"
	"github.com/jonathan/cv-portal/internal/observability"
	"github.com/jonathan/cv-portal/internal/portal"
	"github.com/jonathan/cv-portal/internal/preview"
	"github.com/jonathan/cv-portal/internal/store"
)

var (
	generateJobID      string
	generateUserID     string
	generateConfigPath string
	generateTheme      string
	generateVerbose    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a portal for one CV job",
	Long: `Run the full portal generation pipeline for a single job and print the
result. Requires DATABASE_URL unless the job was seeded into the same
process with seed-job.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateJobID, "job", "", "CV job ID (required)")
	generateCmd.Flags().StringVar(&generateUserID, "user", "", "Owning user ID (required)")
	generateCmd.Flags().StringVar(&generateConfigPath, "config", "", "Path to JSON config file")
	generateCmd.Flags().StringVar(&generateTheme, "theme", "", "Path to JSON theme overrides (primaryColor, accentColor, font)")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print detailed result output")
	_ = generateCmd.MarkFlagRequired("job")
	_ = generateCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadAgentConfig(generateConfigPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for one-shot generation")
	}

	var portalConfig map[string]any
	if generateTheme != "" {
		data, err := os.ReadFile(generateTheme)
		if err != nil {
			return fmt.Errorf("failed to read theme file: %w", err)
		}
		if err := json.Unmarshal(data, &portalConfig); err != nil {
			return fmt.Errorf("failed to parse theme JSON: %w", err)
		}
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

	services, closeServices, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeServices()

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	generator := portal.NewGenerator(
		store.NewJobStore(docs),
		store.NewPortalStore(docs),
		services,
		portal.WithLogger(logger.Sugar()),
	)

	result := generator.Generate(ctx, portal.Request{
		JobID:        generateJobID,
		UserID:       generateUserID,
		PortalConfig: portalConfig,
	})

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintResult(result)
	if generateVerbose {
		printer.PrintSteps(result.StepsCompleted)
	}

	if !result.Success {
		return fmt.Errorf("portal generation failed: %s", result.Error.Message)
	}
	return nil
}

// buildServices wires the generation services from configuration: real LLM
// extraction, deployment and PDF rendering when configured, simulated
// otherwise.
func buildServices(ctx context.Context, cfg config.Config) (generation.Services, func(), error) {
	services := generation.Simulated()
	closeFn := func() {}

	if cfg.GeminiAPIKey != "" && !cfg.DisableLLM {
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
		if err != nil {
			return services, closeFn, fmt.Errorf("failed to create LLM client: %w", err)
		}
		services.Content = &generation.LLMExtractor{Client: client}
		closeFn = func() { _ = client.Close() }
	}
	if cfg.DeployURL != "" {
		services.Deployer = generation.NewSpaceDeployer(cfg.DeployURL, cfg.DeployToken)
	}
	if cfg.QRSize > 0 {
		services.QR = &generation.CodeGenerator{Size: cfg.QRSize}
	}
	if cfg.RenderPDF {
		services.Assets = &generation.DefaultAssetBuilder{Renderer: &preview.Renderer{}}
	}
	return services, closeFn, nil
}
