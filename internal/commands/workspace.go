package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/envelope-dev/envelope/internal/budget"
	"github.com/envelope-dev/envelope/internal/config"
	"github.com/envelope-dev/envelope/internal/ledger"
	"github.com/envelope-dev/envelope/internal/store"
)

// dbFile is the sqlite database inside a budget directory.
const dbFile = "budget.db"

// workspace is one opened budget directory: config, database, and the
// in-memory working set rebuilt from it.
type workspace struct {
	dir    string
	cfg    *config.Config
	db     *store.SQLite
	ledger *ledger.Store
	budget *budget.Ledger
}

// openWorkspace loads the config and database from dir and rebuilds the
// working set. The ledger invariant is checked immediately: a corrupted
// database fails loudly here, not deep inside a later operation.
func openWorkspace(ctx context.Context, dir string) (*workspace, error) {
	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("opening budget at %s: %w", dir, err)
	}
	db, err := store.Open(filepath.Join(dir, dbFile))
	if err != nil {
		return nil, err
	}

	accounts, err := db.Accounts(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	txs, err := db.Transactions(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	cats, err := db.Categories(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	allocs, err := db.Allocations(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	ls := ledger.Load(accounts, txs)
	ls.CheckInvariant()

	return &workspace{
		dir:    dir,
		cfg:    cfg,
		db:     db,
		ledger: ls,
		budget: budget.Load(ls, cats, allocs),
	}, nil
}

// persist writes the whole working set back through the store. Every failure
// propagates; a save that does not stick is an error, never a warning.
func (w *workspace) persist(ctx context.Context) error {
	for _, a := range w.ledger.Accounts() {
		if err := w.db.SaveAccount(ctx, a); err != nil {
			return err
		}
	}
	for _, t := range w.ledger.Transactions() {
		if err := w.db.SaveTransaction(ctx, t); err != nil {
			return err
		}
	}
	for _, c := range w.budget.Categories() {
		if err := w.db.SaveCategory(ctx, c); err != nil {
			return err
		}
	}
	for _, a := range w.budget.Allocations() {
		if err := w.db.SaveAllocation(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (w *workspace) close() error {
	return w.db.Close()
}
