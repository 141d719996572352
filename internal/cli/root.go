package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"daily-checklist/internal/config"
	"daily-checklist/internal/repository"
	"daily-checklist/internal/service"
)

// App holds the services the commands operate on.
type App struct {
	Config     config.Config
	Tasks      *service.TaskService
	Catalog    *service.CatalogService
	Rollover   *service.RolloverService
	Categories *service.CategoryService
	Archive    *repository.ArchiveRepository

	// day is what the start-of-command day check did.
	day service.RolloverResult
}

// NewRootCmd builds the command tree. Every command except serve starts by
// initializing the day, so the first run after midnight rolls the lists over.
func NewRootCmd(app *App) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "checklist",
		Short: "Daily checklist with recurring basic tasks",
		Long: `checklist keeps a pending and a completed list of tasks.

Every new day the lists are archived, the completed list is cleared and the
basic tasks from the catalog are put back on the pending list.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !verbose && cmd.Name() != serveCmdName {
				log.SetOutput(io.Discard)
			}
			if cmd.Name() == serveCmdName {
				return nil
			}
			return initializeDay(cmd, app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, app)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log state changes to stderr")

	root.AddCommand(
		newListCmd(app),
		newAddCmd(app),
		newDoneCmd(app),
		newUndoCmd(app),
		newRemoveCmd(app),
		newRolloverCmd(app),
		newCatalogCmd(app),
		newCategoriesCmd(app),
		newArchiveCmd(app),
		newServeCmd(app),
	)
	return root
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(ctx context.Context, app *App, args []string) int {
	root := NewRootCmd(app)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", userMessage(err))
		return 1
	}
	return 0
}

func initializeDay(cmd *cobra.Command, app *App) error {
	result, err := app.Rollover.InitializeDay(cmd.Context())
	if err != nil {
		return err
	}
	app.day = result
	printWarnings(cmd, result.Warnings)
	if result.Performed {
		fmt.Fprintf(cmd.ErrOrStderr(), "New day: %d tasks pending.\n", result.Pending)
	}
	return nil
}

func printWarnings(cmd *cobra.Command, warnings []service.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", w)
	}
}

// userMessage turns service errors into the notices shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrValidation):
		return err.Error()
	case errors.Is(err, service.ErrNotFound):
		return fmt.Sprintf("%v (the list has changed, run `checklist list`)", err)
	case errors.Is(err, service.ErrStorage):
		return fmt.Sprintf("save/load failed: %v", err)
	default:
		return err.Error()
	}
}
