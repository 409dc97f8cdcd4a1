package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Justaguy666/PetCareX-sub000/internal/config"
)

var seedEntityVerbose bool

var seedEntityCmd = &cobra.Command{
	Use:   "seed-entity <entity-type> <count>",
	Short: "Seed a single entity type",
	Long: `Seed just one entity type, resolving its immediate foreign-key
dependencies from the store. An unknown entity type or an empty dependency
set is fatal and performs no writes.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", args[1], err)
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			return err
		}

		ctx := context.Background()
		s, _, cleanup, err := buildSeeder(ctx, cfg, seedEntityVerbose)
		if err != nil {
			return err
		}
		defer cleanup()

		return s.SeedOne(ctx, args[0], count)
	},
}

func init() {
	rootCmd.AddCommand(seedEntityCmd)
	seedEntityCmd.Flags().BoolVar(&seedEntityVerbose, "verbose", false, "Print per-stage progress and warnings")
}
