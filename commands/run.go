package commands

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"metal-risk-engine/app"
	"metal-risk-engine/config"
	"metal-risk-engine/scheduler"

	"github.com/spf13/cobra"
)

var runOnStart bool

// runCmd starts the scheduler daemon.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daily ingest + feature pipeline on a cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadFromEnv()

		application, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer application.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sched := scheduler.NewScheduler(ctx, application.Ingest(), application.Pipeline())
		if err := sched.RegisterAll(cfg.Schedule.DailyCron); err != nil {
			return err
		}

		sched.Start()
		defer sched.Stop()

		if runOnStart || cfg.Schedule.RunOnStart {
			log.Println("[INFO] RUN_ON_START set, running pipeline now")
			sched.RunDailyNow()
		}

		// Block until interrupted.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		log.Printf("[INFO] received %s, shutting down", sig)
		cancel()
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "run the pipeline once immediately, then follow the schedule")
	rootCmd.AddCommand(runCmd)
}
