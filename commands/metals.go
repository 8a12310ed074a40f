package commands

import (
	"fmt"

	"metal-risk-engine/app"
	"metal-risk-engine/config"
	"metal-risk-engine/database/metals"

	"github.com/spf13/cobra"
)

var (
	metalName       string
	metalTicker     string
	metalMarketType string
)

// metalsCmd groups the instrument-registry subcommands.
var metalsCmd = &cobra.Command{
	Use:   "metals",
	Short: "Manage the instrument registry",
}

var metalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered instruments",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closeDB, err := metalsRepo()
		if err != nil {
			return err
		}
		defer closeDB()

		all, err := repo.List()
		if err != nil {
			return err
		}
		for _, m := range all {
			fmt.Printf("%-8s %-10s %-8s %s\n", m.Symbol, m.YFinanceTicker, m.MarketType, m.Name)
		}
		return nil
	},
}

var metalsAddCmd = &cobra.Command{
	Use:   "add SYMBOL",
	Short: "Register an instrument (idempotent by symbol)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closeDB, err := metalsRepo()
		if err != nil {
			return err
		}
		defer closeDB()

		metal, err := repo.Register(args[0], metalName, metalTicker, metalMarketType)
		if err != nil {
			return err
		}
		fmt.Printf("✅ %s registered (id %d, ticker %s)\n", metal.Symbol, metal.MetalID, metal.YFinanceTicker)
		return nil
	},
}

var metalsRemoveCmd = &cobra.Command{
	Use:   "remove SYMBOL",
	Short: "Delete an instrument and all its price, feature, and risk rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closeDB, err := metalsRepo()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := repo.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("✅ %s removed (cascaded to dependent rows)\n", args[0])
		return nil
	},
}

func init() {
	metalsAddCmd.Flags().StringVar(&metalName, "name", "", "Display name")
	metalsAddCmd.Flags().StringVar(&metalTicker, "ticker", "", "Yahoo Finance ticker (required)")
	metalsAddCmd.Flags().StringVar(&metalMarketType, "market-type", "industrial", "Market type (precious or industrial)")
	metalsAddCmd.MarkFlagRequired("ticker")

	metalsCmd.AddCommand(metalsListCmd, metalsAddCmd, metalsRemoveCmd)
	rootCmd.AddCommand(metalsCmd)
}

func metalsRepo() (*metals.Repository, func(), error) {
	cfg := config.LoadFromEnv()
	application, err := app.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return application.Metals(), func() { application.Close() }, nil
}
