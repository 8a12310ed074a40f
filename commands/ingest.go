package commands

import (
	"context"

	"metal-risk-engine/app"
	"metal-risk-engine/config"

	"github.com/spf13/cobra"
)

var (
	ingestPricesOnly bool
	ingestMacroOnly  bool
	ingestStart      string
	ingestEnd        string
)

// ingestCmd pulls prices and macro data into the store.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Pull daily prices and macro indicators from Yahoo Finance",
	Long: `Fetch daily OHLCV bars for every registered metal and the macro
series (DXY, VIX, 10y treasury yield, S&P 500), and append them to the
store. Writes are idempotent: the first row for a (metal, date) key wins
and re-runs never duplicate.

Examples:
  metal-risk-engine ingest
  metal-risk-engine ingest --prices-only
  metal-risk-engine ingest --start 2020-01-01 --end 2024-12-31`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestPricesOnly, "prices-only", false, "Skip the macro fetch")
	ingestCmd.Flags().BoolVar(&ingestMacroOnly, "macro-only", false, "Skip the price fetch")
	ingestCmd.Flags().StringVar(&ingestStart, "start", "", "Override fetch window start (YYYY-MM-DD)")
	ingestCmd.Flags().StringVar(&ingestEnd, "end", "", "Override fetch window end (YYYY-MM-DD)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := config.LoadFromEnv()
	if ingestStart != "" {
		cfg.Ingest.StartDate = ingestStart
	}
	if ingestEnd != "" {
		cfg.Ingest.EndDate = ingestEnd
	}

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	ctx := context.Background()
	switch {
	case ingestPricesOnly:
		return application.Ingest().RunPrices(ctx)
	case ingestMacroOnly:
		return application.Ingest().RunMacro(ctx)
	default:
		return application.Ingest().Run(ctx)
	}
}
