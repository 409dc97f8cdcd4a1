package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Justaguy666/PetCareX-sub000/internal/config"
	"github.com/Justaguy666/PetCareX-sub000/internal/domain"
	"github.com/Justaguy666/PetCareX-sub000/internal/store"
)

// statusCmd prints per-table row counts so a run's effect can be checked
// without leaving the CLI.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show row counts for every seedable table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		dbURL, err := cfg.GetDatabaseURL()
		if err != nil {
			return err
		}

		ctx := context.Background()
		st, err := store.Open(ctx, cfg.Database.Provider, dbURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer st.Close()

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TABLE\tROWS")
		for _, table := range seedOrder() {
			n, err := st.Count(ctx, table)
			if err != nil {
				fmt.Fprintf(tw, "%s\t(error: %v)\n", table, err)
				continue
			}
			fmt.Fprintf(tw, "%s\t%d\n", table, n)
		}
		return tw.Flush()
	},
}

// seedOrder is a dependency-respecting listing of every seedable table.
func seedOrder() []string {
	visited := make(map[string]bool)
	var order []string

	var visit func(string)
	visit = func(table string) {
		if visited[table] {
			return
		}
		visited[table] = true
		for _, dep := range domain.Dependencies[table] {
			visit(dep)
		}
		order = append(order, table)
	}

	// Deterministic traversal over the known tables.
	for _, table := range []string{
		domain.TableUsers, domain.TableEmployees, domain.TableBranches,
		domain.TableMobilizations, domain.TablePets,
		domain.TableProducts, domain.TableMedicines, domain.TableVaccines, domain.TablePackages,
		domain.TableBranchProducts, domain.TableBranchMedicines,
		domain.TableBranchVaccines, domain.TableBranchPackages,
		domain.TablePromotions, domain.TablePromoScopes, domain.TablePromoApps,
		domain.TableInvoices, domain.TableServices,
		domain.TableMedicalExams, domain.TableInjections, domain.TablePkgInjections,
		domain.TableProductSales, domain.TablePrescriptions, domain.TableVaccineUses,
		domain.TableAppointments,
	} {
		visit(table)
	}
	return order
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
