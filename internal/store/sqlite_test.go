package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envelope-dev/envelope/internal/model"
)

func TestOpen_CreatesSchema(t *testing.T) {
	s := openTestStore(t)

	accounts, err := s.Accounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestOpen_IdempotentMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Re-opening an existing database must not fail on already-applied
	// migrations.
	s, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestAccountRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := model.Account{
		ID: "a-1", Name: "Checking", Type: model.AccountTypeChecking,
		StartingBalance: dec("1000"), Balance: dec("954.80"),
	}
	require.NoError(t, s.SaveAccount(ctx, a))

	got, err := s.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.Name, got[0].Name)
	assert.True(t, got[0].Balance.Equal(a.Balance), "exact decimal round trip")
	assert.True(t, got[0].StartingBalance.Equal(a.StartingBalance))

	// Upsert updates in place.
	a.Balance = dec("900")
	require.NoError(t, s.SaveAccount(ctx, a))
	got, err = s.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Balance.Equal(dec("900")))

	require.NoError(t, s.DeleteAccount(ctx, "a-1"))
	got, err = s.Accounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTransactionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tx := model.Transaction{
		ID: "t-1", Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		Amount: dec("45.20"), Kind: model.KindExpense, Description: "Groceries",
		CategoryID: "c-1", AccountID: "a-1", Notes: "weekly shop", Seq: 7,
	}
	require.NoError(t, s.SaveTransaction(ctx, tx))

	got, err := s.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tx.ID, got[0].ID)
	assert.True(t, got[0].Date.Equal(tx.Date))
	assert.True(t, got[0].Amount.Equal(tx.Amount))
	assert.Equal(t, tx.Kind, got[0].Kind)
	assert.Equal(t, tx.Seq, got[0].Seq)

	require.NoError(t, s.DeleteTransaction(ctx, "t-1"))
	got, err = s.Transactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTransactions_OrderedBySeq(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"t-c", "t-a", "t-b"} {
		require.NoError(t, s.SaveTransaction(ctx, model.Transaction{
			ID: id, Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Amount: dec("1"), Kind: model.KindExpense, Seq: 3 - i,
		}))
	}
	got, err := s.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].Seq, got[1].Seq, got[2].Seq})
}

func TestCategoryRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c := model.BudgetCategory{
		ID: "c-1", Name: "Rent", AssignedAmount: dec("1200"),
		Kind: model.CategoryFixed, Color: "#ff0000",
		Due: model.DueDateSpec{Kind: model.DueDay, Day: 1},
	}
	require.NoError(t, s.SaveCategory(ctx, c))

	got, err := s.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, c.Name, got[0].Name)
	assert.True(t, got[0].AssignedAmount.Equal(c.AssignedAmount))
	assert.Equal(t, c.Due, got[0].Due)
}

func TestDeleteCategory_RemovesAllocations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCategory(ctx, model.BudgetCategory{
		ID: "c-1", Name: "Rent", AssignedAmount: dec("0"), Kind: model.CategoryFixed,
		Due: model.DueDateSpec{Kind: model.DueNone},
	}))
	require.NoError(t, s.SaveAllocation(ctx, model.MonthlyAllocation{
		CategoryID: "c-1", MonthKey: "2025-01", Assigned: dec("100"), Rollover: dec("0"),
	}))

	require.NoError(t, s.DeleteCategory(ctx, "c-1"))

	allocs, err := s.Allocations(ctx)
	require.NoError(t, err)
	assert.Empty(t, allocs)
}

func TestAllocationRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := model.MonthlyAllocation{
		CategoryID: "c-1", MonthKey: "2025-02", Assigned: dec("250.50"), Rollover: dec("12.25"),
	}
	require.NoError(t, s.SaveAllocation(ctx, a))

	// Upsert on the (category, month) key.
	a.Assigned = dec("300")
	require.NoError(t, s.SaveAllocation(ctx, a))

	got, err := s.Allocations(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Assigned.Equal(dec("300")))
	assert.True(t, got[0].Rollover.Equal(dec("12.25")))
}

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "budget.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
