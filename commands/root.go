// Package commands defines the CLI: migrate, ingest, features, verify, and
// the long-running run daemon.
package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "metal-risk-engine",
	Short: "Metal commodity risk feature store",
	Long: `A PostgreSQL-backed feature store for metal commodity risk prediction.

The store holds daily OHLCV prices for gold, silver, and copper futures,
market-wide macro indicators, derived technical features (returns, moving
averages, Bollinger bands, RSI, MACD), and threshold-labeled daily risk
events.

Typical workflow:
  metal-risk-engine migrate     # create schema, seed the metal registry
  metal-risk-engine ingest      # pull prices and macro data from Yahoo Finance
  metal-risk-engine features    # compute features and risk labels
  metal-risk-engine verify      # row counts and per-metal coverage
  metal-risk-engine run         # daemon: scheduled daily pipeline`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
