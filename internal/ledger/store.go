package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/envelope-dev/envelope/internal/model"
)

// ErrAccountNotFound is returned when an operation references an unknown account.
var ErrAccountNotFound = errors.New("account not found")

// ErrTransactionNotFound is returned when an operation references an unknown transaction.
var ErrTransactionNotFound = errors.New("transaction not found")

// Store owns accounts and transactions and their balance-consistency
// invariant: for every account,
//
//	balance == startingBalance + sum(signed amounts of linked transactions)
//
// All mutations happen under one mutex; no caller can observe a
// reversed-but-not-reapplied edit.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*model.Account
	txs      map[string]*model.Transaction
	nextSeq  int
}

// NewStore creates an empty ledger store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*model.Account),
		txs:      make(map[string]*model.Transaction),
		nextSeq:  1,
	}
}

// Load rebuilds a store from persisted accounts and transactions. Persisted
// balances are trusted as-is; CheckInvariant reports whether they still agree
// with the transaction set.
func Load(accounts []model.Account, txs []model.Transaction) *Store {
	s := NewStore()
	for _, a := range accounts {
		cp := a
		s.accounts[a.ID] = &cp
	}
	for _, t := range txs {
		cp := t
		s.txs[t.ID] = &cp
		if t.Seq >= s.nextSeq {
			s.nextSeq = t.Seq + 1
		}
	}
	return s
}

// AddAccount registers a new account. Balance starts at StartingBalance.
func (s *Store) AddAccount(a model.Account) (model.Account, error) {
	if !a.Type.Valid() {
		return model.Account{}, fmt.Errorf("invalid account type %q", a.Type)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if _, ok := s.accounts[a.ID]; ok {
		return model.Account{}, fmt.Errorf("account %s already exists", a.ID)
	}
	a.Balance = a.StartingBalance
	s.accounts[a.ID] = &a
	return a, nil
}

// RecordTransaction validates and stores a transaction, applying its signed
// effect to the linked account's balance (income adds, expense subtracts).
// An empty AccountID records the transaction without touching any balance.
func (s *Store) RecordTransaction(tx model.Transaction) (model.Transaction, error) {
	if !tx.Kind.Valid() {
		return model.Transaction{}, fmt.Errorf("invalid transaction kind %q", tx.Kind)
	}
	if tx.Amount.IsNegative() {
		return model.Transaction{}, fmt.Errorf("amount must be a non-negative magnitude, got %s", tx.Amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.AccountID != "" {
		if _, ok := s.accounts[tx.AccountID]; !ok {
			return model.Transaction{}, fmt.Errorf("recording transaction: %w: %s", ErrAccountNotFound, tx.AccountID)
		}
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if _, ok := s.txs[tx.ID]; ok {
		return model.Transaction{}, fmt.Errorf("transaction %s already exists", tx.ID)
	}
	tx.Seq = s.nextSeq
	s.nextSeq++

	s.applyLocked(tx)
	s.txs[tx.ID] = &tx
	return tx, nil
}

// EditTransaction replaces the transaction with the given ID: the old effect
// is reversed on the old account and the new effect applied on the new
// account (which may differ) in one atomic step. The ID and record order are
// preserved. All validation happens before any balance changes.
func (s *Store) EditTransaction(id string, updated model.Transaction) (model.Transaction, error) {
	if !updated.Kind.Valid() {
		return model.Transaction{}, fmt.Errorf("invalid transaction kind %q", updated.Kind)
	}
	if updated.Amount.IsNegative() {
		return model.Transaction{}, fmt.Errorf("amount must be a non-negative magnitude, got %s", updated.Amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.txs[id]
	if !ok {
		return model.Transaction{}, fmt.Errorf("editing transaction: %w: %s", ErrTransactionNotFound, id)
	}
	if updated.AccountID != "" {
		if _, ok := s.accounts[updated.AccountID]; !ok {
			return model.Transaction{}, fmt.Errorf("editing transaction: %w: %s", ErrAccountNotFound, updated.AccountID)
		}
	}

	s.reverseLocked(*old)
	updated.ID = old.ID
	updated.Seq = old.Seq
	s.applyLocked(updated)
	s.txs[id] = &updated
	return updated, nil
}

// DeleteTransaction reverses the transaction's effect on its linked account
// and removes it.
func (s *Store) DeleteTransaction(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.txs[id]
	if !ok {
		return fmt.Errorf("deleting transaction: %w: %s", ErrTransactionNotFound, id)
	}
	s.reverseLocked(*tx)
	delete(s.txs, id)
	return nil
}

// DeleteAccount removes an account. Linked transactions are unlinked (their
// AccountID cleared), not deleted: the rows keep their history but no longer
// contribute to any balance. Deleting an account with a nonzero balance is
// allowed and logged as a warning.
func (s *Store) DeleteAccount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return fmt.Errorf("deleting account: %w: %s", ErrAccountNotFound, id)
	}
	if !a.Balance.IsZero() {
		slog.Warn("deleting account with nonzero balance",
			"account", a.Name, "balance", a.Balance.String())
	}
	for _, tx := range s.txs {
		if tx.AccountID == id {
			tx.AccountID = ""
		}
	}
	delete(s.accounts, id)
	return nil
}

// Account returns a copy of the account with the given ID.
func (s *Store) Account(id string) (model.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return model.Account{}, false
	}
	return *a, true
}

// Accounts returns copies of all accounts, sorted by name.
func (s *Store) Accounts() []model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Transactions returns copies of all transactions in record order.
func (s *Store) Transactions() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Transaction, 0, len(s.txs))
	for _, tx := range s.txs {
		out = append(out, *tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// TotalBalance returns the sum of all account balances.
func (s *Store) TotalBalance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalBalanceLocked()
}

func (s *Store) totalBalanceLocked() decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// CheckInvariant recomputes every account balance from its starting balance
// and linked transactions and panics on any mismatch. A mismatch means a
// mutation bypassed the store's entry points; that is a defect, so it fails
// loudly rather than auto-correcting.
func (s *Store) CheckInvariant() {
	s.mu.Lock()
	defer s.mu.Unlock()

	sums := make(map[string]decimal.Decimal, len(s.accounts))
	for id, a := range s.accounts {
		sums[id] = a.StartingBalance
	}
	for _, tx := range s.txs {
		if tx.AccountID == "" {
			continue
		}
		if sum, ok := sums[tx.AccountID]; ok {
			sums[tx.AccountID] = sum.Add(tx.SignedAmount())
		}
	}
	for id, a := range s.accounts {
		if !a.Balance.Equal(sums[id]) {
			panic(fmt.Sprintf("ledger invariant violation: account %s balance %s != starting %s + transaction effects (%s)",
				a.Name, a.Balance, a.StartingBalance, sums[id]))
		}
	}
}

func (s *Store) applyLocked(tx model.Transaction) {
	if tx.AccountID == "" {
		return
	}
	if a, ok := s.accounts[tx.AccountID]; ok {
		a.Balance = a.Balance.Add(tx.SignedAmount())
	}
}

func (s *Store) reverseLocked(tx model.Transaction) {
	if tx.AccountID == "" {
		return
	}
	if a, ok := s.accounts[tx.AccountID]; ok {
		a.Balance = a.Balance.Sub(tx.SignedAmount())
	}
}
