package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envelope-dev/envelope/internal/model"
)

func TestRecordTransaction_SignedEffects(t *testing.T) {
	s := NewStore()
	acct := addAccount(t, s, "Checking", "1000")

	_, err := s.RecordTransaction(model.Transaction{
		Date: date(2025, 1, 10), Amount: dec("250"), Kind: model.KindIncome,
		Description: "paycheck", AccountID: acct.ID,
	})
	require.NoError(t, err)

	_, err = s.RecordTransaction(model.Transaction{
		Date: date(2025, 1, 12), Amount: dec("40.50"), Kind: model.KindExpense,
		Description: "groceries", AccountID: acct.ID,
	})
	require.NoError(t, err)

	got, ok := s.Account(acct.ID)
	require.True(t, ok)
	assert.True(t, got.Balance.Equal(dec("1209.50")), "got %s", got.Balance)
	assert.NotPanics(t, s.CheckInvariant)
}

func TestRecordTransaction_Validation(t *testing.T) {
	s := NewStore()
	acct := addAccount(t, s, "Checking", "0")

	_, err := s.RecordTransaction(model.Transaction{
		Date: date(2025, 1, 1), Amount: dec("10"), Kind: "transfer", AccountID: acct.ID,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transaction kind")

	_, err = s.RecordTransaction(model.Transaction{
		Date: date(2025, 1, 1), Amount: dec("-10"), Kind: model.KindExpense, AccountID: acct.ID,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-negative magnitude")

	_, err = s.RecordTransaction(model.Transaction{
		Date: date(2025, 1, 1), Amount: dec("10"), Kind: model.KindExpense, AccountID: "nope",
	})
	require.ErrorIs(t, err, ErrAccountNotFound)

	// Nothing mutated.
	got, _ := s.Account(acct.ID)
	assert.True(t, got.Balance.IsZero())
}

func TestEditTransaction_MoveAcrossAccounts(t *testing.T) {
	// A $100 expense on A edited to a $150 expense on B: A gets the full
	// reversal, B the full new effect, nothing else moves.
	s := NewStore()
	a := addAccount(t, s, "AccountA", "1000")
	b := addAccount(t, s, "AccountB", "1000")

	tx, err := s.RecordTransaction(model.Transaction{
		Date: date(2025, 3, 5), Amount: dec("100"), Kind: model.KindExpense,
		Description: "dinner", AccountID: a.ID,
	})
	require.NoError(t, err)

	edited := tx
	edited.Amount = dec("150")
	edited.AccountID = b.ID
	_, err = s.EditTransaction(tx.ID, edited)
	require.NoError(t, err)

	gotA, _ := s.Account(a.ID)
	gotB, _ := s.Account(b.ID)
	assert.True(t, gotA.Balance.Equal(dec("1000")), "A reversed to %s", gotA.Balance)
	assert.True(t, gotB.Balance.Equal(dec("850")), "B applied to %s", gotB.Balance)
	assert.NotPanics(t, s.CheckInvariant)
}

func TestEditTransaction_ValidatesBeforeMutating(t *testing.T) {
	s := NewStore()
	a := addAccount(t, s, "Checking", "500")
	tx, err := s.RecordTransaction(model.Transaction{
		Date: date(2025, 2, 1), Amount: dec("50"), Kind: model.KindExpense, AccountID: a.ID,
	})
	require.NoError(t, err)

	bad := tx
	bad.AccountID = "missing"
	_, err = s.EditTransaction(tx.ID, bad)
	require.ErrorIs(t, err, ErrAccountNotFound)

	// The old effect must not have been reversed.
	got, _ := s.Account(a.ID)
	assert.True(t, got.Balance.Equal(dec("450")))
	assert.NotPanics(t, s.CheckInvariant)
}

func TestDeleteTransaction_ReversesEffect(t *testing.T) {
	s := NewStore()
	a := addAccount(t, s, "Checking", "200")
	tx, err := s.RecordTransaction(model.Transaction{
		Date: date(2025, 4, 1), Amount: dec("75.25"), Kind: model.KindExpense, AccountID: a.ID,
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteTransaction(tx.ID))
	got, _ := s.Account(a.ID)
	assert.True(t, got.Balance.Equal(dec("200")))
	assert.Empty(t, s.Transactions())
	assert.NotPanics(t, s.CheckInvariant)
}

func TestInvariant_ArbitraryEditSequence(t *testing.T) {
	s := NewStore()
	a := addAccount(t, s, "A", "100")
	b := addAccount(t, s, "B", "0")

	tx1, err := s.RecordTransaction(model.Transaction{Date: date(2025, 1, 1), Amount: dec("20"), Kind: model.KindExpense, AccountID: a.ID})
	require.NoError(t, err)
	tx2, err := s.RecordTransaction(model.Transaction{Date: date(2025, 1, 2), Amount: dec("500"), Kind: model.KindIncome, AccountID: b.ID})
	require.NoError(t, err)

	edit := tx1
	edit.Kind = model.KindIncome
	_, err = s.EditTransaction(tx1.ID, edit)
	require.NoError(t, err)
	require.NoError(t, s.DeleteTransaction(tx2.ID))
	edit.Amount = dec("0")
	_, err = s.EditTransaction(tx1.ID, edit)
	require.NoError(t, err)

	for _, acct := range s.Accounts() {
		sum := acct.StartingBalance
		for _, tx := range s.Transactions() {
			if tx.AccountID == acct.ID {
				sum = sum.Add(tx.SignedAmount())
			}
		}
		assert.True(t, acct.Balance.Equal(sum), "%s: balance %s != derived %s", acct.Name, acct.Balance, sum)
	}
	assert.NotPanics(t, s.CheckInvariant)
}

func TestDeleteAccount_UnlinksTransactions(t *testing.T) {
	s := NewStore()
	a := addAccount(t, s, "Doomed", "10")
	tx, err := s.RecordTransaction(model.Transaction{
		Date: date(2025, 5, 1), Amount: dec("30"), Kind: model.KindIncome, AccountID: a.ID,
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteAccount(a.ID))

	txs := s.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, tx.ID, txs[0].ID)
	assert.Empty(t, txs[0].AccountID, "transaction should be unlinked, not deleted")
	assert.NotPanics(t, s.CheckInvariant)
}

func TestCheckInvariant_PanicsOnDrift(t *testing.T) {
	s := NewStore()
	a := addAccount(t, s, "Checking", "100")

	// Corrupt the balance behind the store's back, as a persistence-layer
	// bug would.
	s.mu.Lock()
	s.accounts[a.ID].Balance = dec("999")
	s.mu.Unlock()

	assert.Panics(t, s.CheckInvariant)
}

func TestRunningBalance_DateOrderWithStableTies(t *testing.T) {
	s := NewStore()
	a := addAccount(t, s, "A", "100")
	b := addAccount(t, s, "B", "50")

	// Recorded out of date order; two share a date.
	_, err := s.RecordTransaction(model.Transaction{Date: date(2025, 1, 20), Amount: dec("10"), Kind: model.KindExpense, Description: "late", AccountID: a.ID})
	require.NoError(t, err)
	_, err = s.RecordTransaction(model.Transaction{Date: date(2025, 1, 5), Amount: dec("40"), Kind: model.KindIncome, Description: "early", AccountID: b.ID})
	require.NoError(t, err)
	_, err = s.RecordTransaction(model.Transaction{Date: date(2025, 1, 5), Amount: dec("5"), Kind: model.KindExpense, Description: "early tie", AccountID: b.ID})
	require.NoError(t, err)

	points := s.RunningBalance()
	require.Len(t, points, 3)

	// Baseline 150; walk: +40 -> 190, -5 -> 185, -10 -> 175.
	assert.Equal(t, "early", points[0].Transaction.Description)
	assert.True(t, points[0].Balance.Equal(dec("190")), "got %s", points[0].Balance)
	assert.Equal(t, "early tie", points[1].Transaction.Description)
	assert.True(t, points[1].Balance.Equal(dec("185")), "got %s", points[1].Balance)
	assert.Equal(t, "late", points[2].Transaction.Description)
	assert.True(t, points[2].Balance.Equal(dec("175")), "got %s", points[2].Balance)
}

func addAccount(t *testing.T, s *Store, name, starting string) model.Account {
	t.Helper()
	a, err := s.AddAccount(model.Account{
		Name: name, Type: model.AccountTypeChecking, StartingBalance: dec(starting),
	})
	require.NoError(t, err)
	return a
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
