package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/envelope-dev/envelope/internal/model"
)

// BalancePoint pairs a transaction with the net-worth balance after it.
type BalancePoint struct {
	Transaction model.Transaction
	Balance     decimal.Decimal
}

// RunningBalance walks all transactions in date order (ties broken by record
// order) and accumulates their signed effects on top of the sum of account
// starting balances. This is a net-worth trajectory across all accounts,
// distinct from any single account's balance. Transactions not linked to a
// live account appear in the walk but do not move the balance.
func (s *Store) RunningBalance() []BalancePoint {
	s.mu.Lock()
	txs := make([]model.Transaction, 0, len(s.txs))
	for _, tx := range s.txs {
		txs = append(txs, *tx)
	}
	baseline := decimal.Zero
	for _, a := range s.accounts {
		baseline = baseline.Add(a.StartingBalance)
	}
	linked := make(map[string]bool, len(s.accounts))
	for id := range s.accounts {
		linked[id] = true
	}
	s.mu.Unlock()

	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.Before(txs[j].Date)
		}
		return txs[i].Seq < txs[j].Seq
	})

	points := make([]BalancePoint, 0, len(txs))
	balance := baseline
	for _, tx := range txs {
		if tx.AccountID != "" && linked[tx.AccountID] {
			balance = balance.Add(tx.SignedAmount())
		}
		points = append(points, BalancePoint{Transaction: tx, Balance: balance})
	}
	return points
}
