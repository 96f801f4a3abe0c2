package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/envelope-dev/envelope/internal/model"
	"github.com/envelope-dev/envelope/internal/money"
)

func newCategoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage budget categories",
	}
	cmd.AddCommand(newCategoryAddCommand())
	cmd.AddCommand(newCategoryListCommand())
	return cmd
}

func newCategoryAddCommand() *cobra.Command {
	var name, kind, color, due string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a budget category",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), budgetDir(cmd))
			if err != nil {
				return err
			}
			defer ws.close()

			spec, err := parseDueSpec(due)
			if err != nil {
				return err
			}
			c, err := ws.budget.AddCategory(model.BudgetCategory{
				Name:  name,
				Kind:  model.CategoryKind(kind),
				Color: color,
				Due:   spec,
			})
			if err != nil {
				return err
			}
			if err := ws.persist(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("Added category %s (%s)\n", c.Name, c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "category name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&kind, "kind", "variable", "category kind (fixed|variable|periodic|income)")
	cmd.Flags().StringVar(&color, "color", "", "display color")
	cmd.Flags().StringVar(&due, "due", "", "due date: day of month (1-31) or \"last\"")
	return cmd
}

// parseDueSpec parses the --due flag: empty, a day number, or "last".
func parseDueSpec(due string) (model.DueDateSpec, error) {
	switch {
	case due == "":
		return model.DueDateSpec{Kind: model.DueNone}, nil
	case due == "last":
		return model.DueDateSpec{Kind: model.DueLastDay}, nil
	default:
		day, err := strconv.Atoi(due)
		if err != nil || day < 1 || day > 31 {
			return model.DueDateSpec{}, fmt.Errorf("invalid due date %q: want 1-31 or \"last\"", due)
		}
		return model.DueDateSpec{Kind: model.DueDay, Day: day}, nil
	}
}

func newCategoryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories with assigned amounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), budgetDir(cmd))
			if err != nil {
				return err
			}
			defer ws.close()

			for _, c := range ws.budget.Categories() {
				fmt.Printf("%-36s  %-8s  %-20s  %s\n", c.ID, c.Kind, c.Name, money.Format(c.AssignedAmount, ws.cfg.Currency))
			}
			fmt.Printf("\nReady to assign: %s\n", money.Format(ws.budget.ReadyToAssign(), ws.cfg.Currency))
			return nil
		},
	}
}
