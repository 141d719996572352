package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive [YYYY-MM]",
		Short: "Show archived days of a month (current month by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period := time.Now().In(app.Config.Location).Format("2006-01")
			if len(args) == 1 {
				if _, err := time.Parse("2006-01", args[0]); err != nil {
					return fmt.Errorf("invalid month %q, expected YYYY-MM", args[0])
				}
				period = args[0]
			}

			days, err := app.Archive.ListByPeriod(cmd.Context(), period)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(days) == 0 {
				fmt.Fprintf(out, "No archived days in %s.\n", period)
				return nil
			}
			for _, d := range days {
				fmt.Fprintf(out, "%s  completed %d, left open %d\n", d.Day, len(d.Completed), len(d.Pending))
				for _, t := range d.Completed {
					fmt.Fprintf(out, "  [x] %s\n", t.Name)
				}
				for _, t := range d.Pending {
					fmt.Fprintf(out, "  [ ] %s\n", t.Name)
				}
			}
			return nil
		},
	}
}
