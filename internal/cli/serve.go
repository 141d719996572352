package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"daily-checklist/internal/service"
)

const serveCmdName = "serve"

func newRolloverCmd(app *App) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "rollover",
		Short: "Report today's rollover, or force a new one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !force {
				if app.day.Performed {
					fmt.Fprintf(out, "Rolled over %s, %d tasks pending.\n", archivedLabel(app.day.Archived), app.day.Pending)
				} else {
					fmt.Fprintln(out, "Day already initialized.")
				}
				return nil
			}
			today := time.Now().In(app.Config.Location).Format(service.DayLayout)
			result, err := app.Rollover.PerformRollover(cmd.Context(), today)
			if err != nil {
				return err
			}
			printWarnings(cmd, result.Warnings)
			fmt.Fprintf(out, "Lists reset, %d tasks pending.\n", result.Pending)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Archive today's lists and reseed now")
	return cmd
}

func archivedLabel(day string) string {
	if day == "" {
		return "without archiving"
	}
	return "archiving " + day
}

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   serveCmdName,
		Short: "Keep running and roll the lists over every day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), app)
		},
	}
}

func runServe(ctx context.Context, app *App) error {
	job := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		result, err := app.Rollover.InitializeDay(jobCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("rollover: %v", err)
			return
		}
		if result.Performed {
			log.Printf("[info] day initialized pending=%d warnings=%d", result.Pending, len(result.Warnings))
		}
	}

	scheduler := service.NewSchedulerService(app.Config.Location)
	daily, err := scheduler.ScheduleDaily(app.Config.RolloverTime, job)
	if err != nil {
		return fmt.Errorf("schedule rollover: %w", err)
	}
	// Catches a rollover missed while the machine was asleep.
	if app.Config.CheckInterval > 0 {
		if _, err := scheduler.ScheduleInterval(app.Config.CheckInterval, job); err != nil {
			return fmt.Errorf("schedule check: %w", err)
		}
	}

	job()
	scheduler.Start()
	defer scheduler.Stop()

	log.Printf("[info] checklist serving, next rollover at %s", scheduler.Next(daily).Format(time.RFC3339))
	<-ctx.Done()
	log.Println("[info] shutting down")
	return nil
}
