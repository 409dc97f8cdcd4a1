package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Justaguy666/PetCareX-sub000/internal/config"
	"github.com/Justaguy666/PetCareX-sub000/internal/schema"
	"github.com/Justaguy666/PetCareX-sub000/internal/seeder"
	"github.com/Justaguy666/PetCareX-sub000/internal/store"
)

var (
	seedPlanPath string
	seedDryRun   bool
	seedVerbose  bool
	seedTruncate bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run the full seeding plan",
	Long: `Generate and persist synthetic records for every entity type in the
plan, in the plan's dependency order. Per-record constraint rejections are
logged and skipped; the run ends with a requested/generated/persisted
summary table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, plan, err := loadRun()
		if err != nil {
			return err
		}

		if seedDryRun {
			plan.DryRun = true
		}
		if seedVerbose {
			plan.Verbose = true
		}
		if seedTruncate {
			plan.Truncate = true
		}

		ctx := context.Background()
		s, _, cleanup, err := buildSeeder(ctx, cfg, plan.Verbose)
		if err != nil {
			return err
		}
		defer cleanup()

		return s.Run(ctx, plan)
	},
}

// loadRun loads and validates the config plus the YAML plan.
func loadRun() (*config.Config, *seeder.Plan, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, nil, err
	}

	if seedPlanPath != "" {
		cfg.PlanPath = seedPlanPath
	}
	plan, err := seeder.LoadPlan(cfg.PlanPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, plan, nil
}

// buildSeeder wires the store, the schema enum resolver and the reporter
// into a ready Seeder. The returned cleanup closes both.
func buildSeeder(ctx context.Context, cfg *config.Config, verbose bool) (*seeder.Seeder, *seeder.Reporter, func(), error) {
	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, nil, nil, err
	}

	st, err := store.Open(ctx, cfg.Database.Provider, dbURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var resolver *schema.Resolver
	if files, err := cfg.GetSchemaFiles(); err == nil && len(files) > 0 {
		resolver, err = schema.ParseFiles(files)
		if err != nil {
			st.Close()
			return nil, nil, nil, err
		}
	}

	reporter, err := seeder.NewReporter(cfg.WarningsDir, verbose)
	if err != nil {
		st.Close()
		return nil, nil, nil, err
	}

	cleanup := func() {
		reporter.Close()
		st.Close()
	}
	return seeder.New(cfg, st, resolver, reporter), reporter, cleanup, nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedPlanPath, "plan", "", "Override the plan file path")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "Generate snapshots without writing to the store")
	seedCmd.Flags().BoolVar(&seedVerbose, "verbose", false, "Print per-stage progress and warnings")
	seedCmd.Flags().BoolVar(&seedTruncate, "truncate", false, "Clear the plan's tables before seeding")
}
