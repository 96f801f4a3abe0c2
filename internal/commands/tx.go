package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/envelope-dev/envelope/internal/model"
	"github.com/envelope-dev/envelope/internal/money"
)

func newTxCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
	}
	cmd.AddCommand(newTxAddCommand())
	cmd.AddCommand(newTxListCommand())
	cmd.AddCommand(newTxEditCommand())
	cmd.AddCommand(newTxDeleteCommand())
	return cmd
}

func newTxAddCommand() *cobra.Command {
	var account, amount, kind, desc, date, category, notes string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), budgetDir(cmd))
			if err != nil {
				return err
			}
			defer ws.close()

			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amount, err)
			}
			when, err := time.Parse("2006-01-02", date)
			if err != nil {
				return fmt.Errorf("parsing date %q: %w", date, err)
			}
			tx, err := ws.ledger.RecordTransaction(model.Transaction{
				Date:        when,
				Amount:      amt,
				Kind:        model.TransactionKind(kind),
				Description: desc,
				CategoryID:  category,
				AccountID:   account,
				Notes:       notes,
			})
			if err != nil {
				return err
			}
			if err := ws.persist(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("Recorded %s %s (%s)\n", tx.Kind, money.Format(tx.Amount, ws.cfg.Currency), tx.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account ID (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&amount, "amount", "", "amount magnitude (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&kind, "kind", "expense", "income or expense")
	cmd.Flags().StringVar(&desc, "desc", "", "description")
	cmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&category, "category", "", "category ID")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	return cmd
}

func newTxListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List transactions with a running net-worth balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), budgetDir(cmd))
			if err != nil {
				return err
			}
			defer ws.close()

			for _, p := range ws.ledger.RunningBalance() {
				tx := p.Transaction
				fmt.Printf("%s  %-36s  %-7s  %12s  %12s  %s\n",
					tx.Date.Format(ws.cfg.Dates.DisplayFormat), tx.ID, tx.Kind,
					money.Format(tx.Amount, ws.cfg.Currency),
					money.Format(p.Balance, ws.cfg.Currency),
					tx.Description)
			}
			return nil
		},
	}
}

func newTxEditCommand() *cobra.Command {
	var account, amount, kind, desc, date, category, notes string

	cmd := &cobra.Command{
		Use:   "edit <transaction-id>",
		Short: "Edit a transaction (reverse old effect, apply new)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), budgetDir(cmd))
			if err != nil {
				return err
			}
			defer ws.close()

			txs := ws.ledger.Transactions()
			var current *model.Transaction
			for i := range txs {
				if txs[i].ID == args[0] {
					current = &txs[i]
					break
				}
			}
			if current == nil {
				return fmt.Errorf("transaction %s not found", args[0])
			}

			updated := *current
			if cmd.Flags().Changed("account") {
				updated.AccountID = account
			}
			if cmd.Flags().Changed("amount") {
				amt, err := decimal.NewFromString(amount)
				if err != nil {
					return fmt.Errorf("parsing amount %q: %w", amount, err)
				}
				updated.Amount = amt
			}
			if cmd.Flags().Changed("kind") {
				updated.Kind = model.TransactionKind(kind)
			}
			if cmd.Flags().Changed("desc") {
				updated.Description = desc
			}
			if cmd.Flags().Changed("date") {
				when, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("parsing date %q: %w", date, err)
				}
				updated.Date = when
			}
			if cmd.Flags().Changed("category") {
				updated.CategoryID = category
			}
			if cmd.Flags().Changed("notes") {
				updated.Notes = notes
			}

			if _, err := ws.ledger.EditTransaction(args[0], updated); err != nil {
				return err
			}
			if err := ws.persist(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("Edited transaction %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account ID")
	cmd.Flags().StringVar(&amount, "amount", "", "amount magnitude")
	cmd.Flags().StringVar(&kind, "kind", "", "income or expense")
	cmd.Flags().StringVar(&desc, "desc", "", "description")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&category, "category", "", "category ID")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	return cmd
}

func newTxDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction, reversing its effect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), budgetDir(cmd))
			if err != nil {
				return err
			}
			defer ws.close()

			if err := ws.ledger.DeleteTransaction(args[0]); err != nil {
				return err
			}
			if err := ws.db.DeleteTransaction(cmd.Context(), args[0]); err != nil {
				return err
			}
			if err := ws.persist(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("Deleted transaction %s\n", args[0])
			return nil
		},
	}
}
