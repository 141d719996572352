package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"daily-checklist/internal/model"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the basic tasks that come back every day",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List basic tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, warnings := app.Catalog.Load(cmd.Context())
			printWarnings(cmd, warnings)
			for _, t := range templates {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s  %-30s  %s\n", shortID(t.ID), t.Name, t.Category)
			}
			return nil
		},
	}

	var category string
	add := &cobra.Command{
		Use:   "add <name...>",
		Short: "Add a basic task, starting with the next day",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := app.Catalog.Add(cmd.Context(), strings.Join(args, " "), category)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added basic task %s %q\n", shortID(tpl.ID), tpl.Name)
			return nil
		},
	}
	add.Flags().StringVarP(&category, "category", "c", "", "Task category")

	remove := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a basic task from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := app.Catalog.EnsureInitialized(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveID(templateItems(templates), args[0])
			if err != nil {
				return err
			}
			if err := app.Catalog.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed basic task %s\n", shortID(id))
			return nil
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}

func templateItems(templates []model.Template) []model.TaskItem {
	items := make([]model.TaskItem, 0, len(templates))
	for _, t := range templates {
		items = append(items, model.TaskItem{ID: t.ID, Name: t.Name, Category: t.Category})
	}
	return items
}
