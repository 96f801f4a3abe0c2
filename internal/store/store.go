// Package store is the durability collaborator. The engine operates on an
// in-memory authoritative working set; this package only loads and persists
// it. Every save returns an error; a failed save is never swallowed.
package store

import (
	"context"

	"github.com/envelope-dev/envelope/internal/model"
)

// Store provides durable CRUD for the four persisted entities.
type Store interface {
	SaveAccount(ctx context.Context, a model.Account) error
	Accounts(ctx context.Context) ([]model.Account, error)
	DeleteAccount(ctx context.Context, id string) error

	SaveTransaction(ctx context.Context, t model.Transaction) error
	Transactions(ctx context.Context) ([]model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	SaveCategory(ctx context.Context, c model.BudgetCategory) error
	Categories(ctx context.Context) ([]model.BudgetCategory, error)
	DeleteCategory(ctx context.Context, id string) error

	SaveAllocation(ctx context.Context, a model.MonthlyAllocation) error
	Allocations(ctx context.Context) ([]model.MonthlyAllocation, error)

	Close() error
}
