package commands

import (
	"fmt"

	"metal-risk-engine/config"
	"metal-risk-engine/database"
	"metal-risk-engine/database/analytics"

	"github.com/spf13/cobra"
)

// verifyCmd runs the read-only verification queries.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Print row counts and per-metal coverage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadFromEnv()

		db, err := database.NewConnection(database.Config{
			Host:     cfg.DatabaseHost,
			Port:     cfg.DatabasePort,
			User:     cfg.DatabaseUser,
			Password: cfg.DatabasePassword,
			DBName:   cfg.DatabaseName,
		})
		if err != nil {
			return err
		}
		defer db.Close()

		repo := analytics.NewRepository(db.GetConn())

		counts, err := repo.TableCounts()
		if err != nil {
			return err
		}
		fmt.Println("====================")
		fmt.Println("TABLE COUNTS")
		fmt.Println("====================")
		for _, c := range counts {
			fmt.Printf("%-22s %d\n", c.Table, c.Rows)
		}

		coverage, err := repo.Coverage()
		if err != nil {
			return err
		}
		fmt.Println("\nPrice coverage:")
		printCoverage(coverage)

		featCoverage, err := repo.FeatureCoverage()
		if err != nil {
			return err
		}
		fmt.Println("\nFeature coverage:")
		printCoverage(featCoverage)

		total, flagged, err := repo.RiskEventCounts()
		if err != nil {
			return err
		}
		fmt.Printf("\nRisk events: %d labeled days, %d flagged\n", total, flagged)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func printCoverage(rows []analytics.MetalCoverage) {
	for _, c := range rows {
		if c.FirstDate == nil || c.LastDate == nil {
			fmt.Printf("  %s: no rows\n", c.Name)
			continue
		}
		fmt.Printf("  %s: %d rows | %s -> %s\n",
			c.Name, c.Rows,
			c.FirstDate.Format("2006-01-02"),
			c.LastDate.Format("2006-01-02"))
	}
}
