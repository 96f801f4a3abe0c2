package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/envelope-dev/envelope/internal/model"
	"github.com/envelope-dev/envelope/internal/money"
)

func newAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newAccountAddCommand())
	cmd.AddCommand(newAccountListCommand())
	cmd.AddCommand(newAccountDeleteCommand())
	return cmd
}

func newAccountAddCommand() *cobra.Command {
	var name, accountType, starting string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), budgetDir(cmd))
			if err != nil {
				return err
			}
			defer ws.close()

			startingBalance, err := decimal.NewFromString(starting)
			if err != nil {
				return fmt.Errorf("parsing starting balance %q: %w", starting, err)
			}
			a, err := ws.ledger.AddAccount(model.Account{
				Name:            name,
				Type:            model.AccountType(accountType),
				StartingBalance: startingBalance,
			})
			if err != nil {
				return err
			}
			if err := ws.persist(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("Added account %s (%s)\n", a.Name, a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&accountType, "type", "checking", "account type (checking|savings|cash|credit)")
	cmd.Flags().StringVar(&starting, "starting", "0", "starting balance")
	return cmd
}

func newAccountListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts with balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), budgetDir(cmd))
			if err != nil {
				return err
			}
			defer ws.close()

			for _, a := range ws.ledger.Accounts() {
				fmt.Printf("%-36s  %-10s  %-20s  %s\n", a.ID, a.Type, a.Name, money.Format(a.Balance, ws.cfg.Currency))
			}
			fmt.Printf("\nTotal: %s\n", money.Format(ws.ledger.TotalBalance(), ws.cfg.Currency))
			return nil
		},
	}
}

func newAccountDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account-id>",
		Short: "Delete an account, unlinking its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), budgetDir(cmd))
			if err != nil {
				return err
			}
			defer ws.close()

			if err := ws.ledger.DeleteAccount(args[0]); err != nil {
				return err
			}
			if err := ws.db.DeleteAccount(cmd.Context(), args[0]); err != nil {
				return err
			}
			if err := ws.persist(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("Deleted account %s\n", args[0])
			return nil
		},
	}
}
