package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "1.3.0"
)

var rootCmd = &cobra.Command{
	Use:   "petseed",
	Short: "Constraint-aware synthetic data seeder for the PetCareX clinic schema",
	Long: `petseed generates large volumes of plausible veterinary-clinic records
(owners, pets, staff, appointments, inventories, invoices, promotions) that
satisfy the schema's foreign keys, uniqueness constraints and business
invariants, then persists them in dependency order.

Database support:
- PostgreSQL (pgx pool, or lib/pq via the postgres-pq provider)
- MySQL
- SQLite (embedded, handy for dry runs)`,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("petseed version %s\n", Version)
			os.Exit(0)
		}
		cmd.Help()
	},
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		color.Red("❌ %v", err)
		return err
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./petcarex.config.json)")
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("petcarex.config")
	}

	viper.AutomaticEnv()
	viper.ReadInConfig()
}
