package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/envelope-dev/envelope/internal/auditlog"
	"github.com/envelope-dev/envelope/internal/budget"
	"github.com/envelope-dev/envelope/internal/money"
)

// undoFile holds the most recent undoable assignment operation.
const undoFile = "undo.yaml"

func newAssignCommand() *cobra.Command {
	var allowNegative bool

	cmd := &cobra.Command{
		Use:   "assign <category-id> <amount>",
		Short: "Assign money to a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), budgetDir(cmd))
			if err != nil {
				return err
			}
			defer ws.close()

			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", args[1], err)
			}
			if err := ws.budget.Assign(args[0], amount, allowNegative); err != nil {
				return err
			}
			if err := ws.persist(cmd.Context()); err != nil {
				return err
			}
			if err := auditlog.Append(ws.dir, auditlog.Entry{
				Timestamp: time.Now(),
				Op:        "assign",
				Details:   fmt.Sprintf("assigned %s", amount),
				Ref:       args[0],
			}); err != nil {
				return err
			}
			printReadyToAssign(ws)
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowNegative, "allow-negative", false, "allow a negative assignment")
	return cmd
}

func newQuickAssignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "quick-assign <category-id>",
		Short: "Assign the entire ready-to-assign value to one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), budgetDir(cmd))
			if err != nil {
				return err
			}
			defer ws.close()

			rec, err := ws.budget.QuickAssignRemaining(args[0])
			if err != nil {
				return err
			}
			if err := ws.persist(cmd.Context()); err != nil {
				return err
			}
			if err := saveUndoRecord(ws.dir, rec); err != nil {
				return err
			}
			if err := auditlog.Append(ws.dir, auditlog.Entry{
				Timestamp: time.Now(),
				Op:        "quick-assign",
				Details:   rec.Description,
				Ref:       args[0],
			}); err != nil {
				return err
			}
			printReadyToAssign(ws)
			return nil
		},
	}
}

func newDistributeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "distribute <category-id>...",
		Short: "Split the ready-to-assign value evenly across categories",
		Long: "Splits the current ready-to-assign value across the given categories.\n" +
			"Each category gets the total divided by N truncated to cents; leftover\n" +
			"cents go to the first category listed, so nothing is lost to rounding.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), budgetDir(cmd))
			if err != nil {
				return err
			}
			defer ws.close()

			rec, err := ws.budget.DistributeEvenly(args)
			if err != nil {
				return err
			}
			if err := ws.persist(cmd.Context()); err != nil {
				return err
			}
			if err := saveUndoRecord(ws.dir, rec); err != nil {
				return err
			}
			if err := auditlog.Append(ws.dir, auditlog.Entry{
				Timestamp: time.Now(),
				Op:        "distribute",
				Details:   rec.Description,
				Ref:       strings.Join(args, ","),
			}); err != nil {
				return err
			}
			printReadyToAssign(ws)
			return nil
		},
	}
}

func newUndoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the most recent quick-assign or distribute",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), budgetDir(cmd))
			if err != nil {
				return err
			}
			defer ws.close()

			rec, err := loadUndoRecord(ws.dir)
			if err != nil {
				return err
			}
			if err := ws.budget.Undo(rec, time.Now(), ws.cfg.Undo.Window()); err != nil {
				return err
			}
			if err := ws.persist(cmd.Context()); err != nil {
				return err
			}
			if err := os.Remove(filepath.Join(ws.dir, undoFile)); err != nil {
				return fmt.Errorf("clearing undo record: %w", err)
			}
			if err := auditlog.Append(ws.dir, auditlog.Entry{
				Timestamp: time.Now(),
				Op:        "undo",
				Details:   rec.Description,
			}); err != nil {
				return err
			}
			fmt.Printf("Undid: %s\n", rec.Description)
			printReadyToAssign(ws)
			return nil
		},
	}
}

func saveUndoRecord(dir string, rec *budget.UndoRecord) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling undo record: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, undoFile), data, 0o644); err != nil {
		return fmt.Errorf("writing undo record: %w", err)
	}
	return nil
}

func loadUndoRecord(dir string) (*budget.UndoRecord, error) {
	data, err := os.ReadFile(filepath.Join(dir, undoFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("nothing to undo")
		}
		return nil, fmt.Errorf("reading undo record: %w", err)
	}
	var rec budget.UndoRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing undo record: %w", err)
	}
	return &rec, nil
}

func printReadyToAssign(ws *workspace) {
	rta := ws.budget.ReadyToAssign()
	fmt.Printf("Ready to assign: %s\n", money.Format(rta, ws.cfg.Currency))
	if rta.IsNegative() {
		fmt.Println("Warning: categories are over-committed relative to funds")
	}
}
