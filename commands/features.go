package commands

import (
	"context"
	"fmt"

	"metal-risk-engine/app"
	"metal-risk-engine/config"

	"github.com/spf13/cobra"
)

var (
	featuresSymbol    string
	featuresThreshold float64
)

// featuresCmd computes technical features and risk labels.
var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Compute technical features and risk labels from stored prices",
	Long: `Read each metal's price history ascending by date, compute the
technical feature rows (returns, SMA/EMA, Bollinger bands, RSI-14, MACD,
range and volume features) and the risk-event labels, and store them.
Rows already on disk are left untouched (first write wins).

A day is labeled a risk event when the absolute percent change of the
close strictly exceeds the configured threshold (RISK_THRESHOLD_PCT,
default 3.0).

Examples:
  metal-risk-engine features
  metal-risk-engine features --symbol GOLD
  metal-risk-engine features --threshold 2.0`,
	RunE: runFeatures,
}

func init() {
	featuresCmd.Flags().StringVar(&featuresSymbol, "symbol", "", "Process a single metal symbol")
	featuresCmd.Flags().Float64Var(&featuresThreshold, "threshold", 0, "Override the risk threshold percent")
	rootCmd.AddCommand(featuresCmd)
}

func runFeatures(cmd *cobra.Command, args []string) error {
	cfg := config.LoadFromEnv()
	if featuresThreshold > 0 {
		cfg.Risk.ThresholdPct = featuresThreshold
	}

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	if featuresSymbol != "" {
		metal, err := application.Metals().Lookup(featuresSymbol)
		if err != nil {
			return err
		}
		featN, riskN, err := application.Pipeline().RunMetal(*metal)
		if err != nil {
			return err
		}
		fmt.Printf("✅ %s: %d feature rows, %d risk labels inserted\n", metal.Symbol, featN, riskN)
		return nil
	}

	summary, err := application.Pipeline().RunAll(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("✅ %d metals processed: %d feature rows, %d risk labels inserted\n",
		summary.MetalsProcessed, summary.FeatureRows, summary.RiskRows)
	return nil
}
