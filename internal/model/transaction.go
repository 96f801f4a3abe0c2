package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is the direction of a transaction.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// Valid reports whether k is a known kind.
func (k TransactionKind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is a single dated money movement.
//
// Amount is always a non-negative magnitude; Kind carries the sign.
// CategoryID and AccountID are optional references and may be empty.
type Transaction struct {
	ID          string
	Date        time.Time
	Amount      decimal.Decimal
	Kind        TransactionKind
	Description string
	CategoryID  string
	AccountID   string
	Notes       string

	// Seq is the record order assigned by the ledger store. It breaks date
	// ties in running-balance views and is stable across edits.
	Seq int
}

// SignedAmount returns the effect of the transaction on an account balance:
// positive for income, negative for expense.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
