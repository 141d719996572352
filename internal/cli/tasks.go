package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"daily-checklist/internal/model"
)

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show pending and completed tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, app)
		},
	}
}

func runList(cmd *cobra.Command, app *App) error {
	pending, completed, err := app.Tasks.LoadData(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Pending (%d)\n", len(pending))
	if len(pending) == 0 {
		fmt.Fprintln(out, "  nothing to do")
	}
	for _, t := range pending {
		fmt.Fprintf(out, "  %s  %-30s  %s\n", shortID(t.ID), t.Name, t.Category)
	}

	fmt.Fprintf(out, "\nCompleted (%d)\n", len(completed))
	if len(completed) == 0 {
		fmt.Fprintln(out, "  nothing completed yet")
	}
	for _, t := range completed {
		done := ""
		if t.CompletedAt != nil {
			done = t.CompletedAt.In(app.Config.Location).Format("15:04")
		}
		fmt.Fprintf(out, "  %s  %-30s  %s  %s\n", shortID(t.ID), t.Name, t.Category, done)
	}
	return nil
}

func newAddCmd(app *App) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Add a pending task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := app.Tasks.Add(cmd.Context(), strings.Join(args, " "), category)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q\n", shortID(item.ID), item.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Task category")
	return cmd
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a pending task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pending, _, err := app.Tasks.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveID(pending, args[0])
			if err != nil {
				return err
			}
			item, err := app.Tasks.Complete(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %q\n", item.Name)
			return nil
		},
	}
}

func newUndoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <id>",
		Short: "Move a completed task back to pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, completed, err := app.Tasks.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveID(completed, args[0])
			if err != nil {
				return err
			}
			item, err := app.Tasks.Uncomplete(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reopened %q\n", item.Name)
			return nil
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	var fromCompleted bool
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task permanently",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pending, completed, err := app.Tasks.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			list := pending
			if fromCompleted {
				list = completed
			}
			id, err := resolveID(list, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Remove(cmd.Context(), id, fromCompleted); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", shortID(id))
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromCompleted, "completed", false, "Delete from the completed list")
	return cmd
}

func newCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := app.Categories.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range categories {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

// resolveID accepts a full id or a unique prefix of one. Unknown and blank
// ids are passed through so the service reports them as not found.
func resolveID(items []model.TaskItem, arg string) (string, error) {
	if strings.TrimSpace(arg) == "" {
		return arg, nil
	}
	var matches []string
	for _, t := range items {
		if t.ID == arg {
			return arg, nil
		}
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return arg, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %q is ambiguous (%d matches)", arg, len(matches))
	}
}

// shortID keeps enough of an id to tell tasks apart on screen. Basic task ids
// keep their prefix.
func shortID(id string) string {
	const n = 8
	head := ""
	if strings.HasPrefix(id, model.BasicIDPrefix) {
		head, id = model.BasicIDPrefix, strings.TrimPrefix(id, model.BasicIDPrefix)
	}
	if len(id) > n {
		id = id[:n]
	}
	return head + id
}
