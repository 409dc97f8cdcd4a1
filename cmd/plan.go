package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Justaguy666/PetCareX-sub000/internal/domain"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Validate the seed plan and print the processing order",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, plan, err := loadRun()
		if err != nil {
			return err
		}

		order := make([]string, 0, len(plan.Stages))
		total := 0
		for _, stage := range plan.Stages {
			order = append(order, stage.Entity)
			total += stage.Count
		}

		color.Green("📊 Plan valid: %d entity types, %d records requested", len(plan.Stages), total)
		color.Cyan("📋 Processing order: %s", strings.Join(order, " → "))

		for _, stage := range plan.Stages {
			deps := domain.Dependencies[stage.Entity]
			if len(deps) == 0 {
				fmt.Printf("  %-24s %6d\n", stage.Entity, stage.Count)
				continue
			}
			fmt.Printf("  %-24s %6d  (needs %s)\n", stage.Entity, stage.Count, strings.Join(deps, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
