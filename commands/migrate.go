package commands

import (
	"metal-risk-engine/app"
	"metal-risk-engine/config"
	"metal-risk-engine/database"

	"github.com/spf13/cobra"
)

// migrateCmd creates or updates the schema and seeds the metal registry.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema and seed the metal registry",
	Long: `Create or update the five tables (metals, price_data,
macroeconomic_data, technical_features, risk_events) with their unique
indexes, check constraints, and cascade foreign keys, then seed the metal
registry with GOLD, SILVER, and COPPER. Seeding is idempotent: running
migrate twice leaves exactly three registry rows.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadFromEnv()

		application, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer application.Close()

		return database.NewSchemaRepository(application.DB()).InitSchema()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
