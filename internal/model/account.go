package model

import "github.com/shopspring/decimal"

// AccountType classifies accounts held in the ledger.
type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeCash     AccountType = "cash"
	AccountTypeCredit   AccountType = "credit"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCash, AccountTypeCredit:
		return true
	}
	return false
}

// Account is a balance-bearing account in the ledger.
//
// Balance is derived state: it always equals StartingBalance plus the sum of
// signed effects of the transactions currently linked to the account. Only the
// ledger store may change it.
type Account struct {
	ID              string
	Name            string
	Type            AccountType
	StartingBalance decimal.Decimal
	Balance         decimal.Decimal
}
