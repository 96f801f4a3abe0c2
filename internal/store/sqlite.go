package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/envelope-dev/envelope/internal/model"

	_ "modernc.org/sqlite"
)

// SQLite is the Store implementation backed by a single sqlite file.
type SQLite struct {
	db *sql.DB
}

// Open opens (creating if needed) the sqlite database at dbPath and runs
// pending migrations.
func Open(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("opened budget database", "path", dbPath)
	return &SQLite{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveAccount inserts or updates an account.
func (s *SQLite) SaveAccount(ctx context.Context, a model.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, type, starting_balance, balance)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			starting_balance = excluded.starting_balance,
			balance = excluded.balance`,
		a.ID, a.Name, string(a.Type), a.StartingBalance.String(), a.Balance.String())
	if err != nil {
		return fmt.Errorf("save account %s: %w", a.ID, err)
	}
	return nil
}

// Accounts returns all persisted accounts.
func (s *SQLite) Accounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, starting_balance, balance FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		var a model.Account
		var typ, starting, balance string
		if err := rows.Scan(&a.ID, &a.Name, &typ, &starting, &balance); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.Type = model.AccountType(typ)
		if a.StartingBalance, err = decimal.NewFromString(starting); err != nil {
			return nil, fmt.Errorf("account %s starting balance %q: %w", a.ID, starting, err)
		}
		if a.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("account %s balance %q: %w", a.ID, balance, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteAccount removes an account row.
func (s *SQLite) DeleteAccount(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}
	return nil
}

// SaveTransaction inserts or updates a transaction.
func (s *SQLite) SaveTransaction(ctx context.Context, t model.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, date, amount, kind, description, category_id, account_id, notes, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			amount = excluded.amount,
			kind = excluded.kind,
			description = excluded.description,
			category_id = excluded.category_id,
			account_id = excluded.account_id,
			notes = excluded.notes,
			seq = excluded.seq`,
		t.ID, t.Date.Format(time.RFC3339), t.Amount.String(), string(t.Kind),
		t.Description, t.CategoryID, t.AccountID, t.Notes, t.Seq)
	if err != nil {
		return fmt.Errorf("save transaction %s: %w", t.ID, err)
	}
	return nil
}

// Transactions returns all persisted transactions in record order.
func (s *SQLite) Transactions(ctx context.Context) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, amount, kind, description, category_id, account_id, notes, seq
		 FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var date, amount, kind string
		if err := rows.Scan(&t.ID, &date, &amount, &kind, &t.Description, &t.CategoryID, &t.AccountID, &t.Notes, &t.Seq); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Date, err = time.Parse(time.RFC3339, date); err != nil {
			return nil, fmt.Errorf("transaction %s date %q: %w", t.ID, date, err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction %s amount %q: %w", t.ID, amount, err)
		}
		t.Kind = model.TransactionKind(kind)
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteTransaction removes a transaction row.
func (s *SQLite) DeleteTransaction(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}

// SaveCategory inserts or updates a budget category.
func (s *SQLite) SaveCategory(ctx context.Context, c model.BudgetCategory) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, assigned_amount, kind, color, due_kind, due_day)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			assigned_amount = excluded.assigned_amount,
			kind = excluded.kind,
			color = excluded.color,
			due_kind = excluded.due_kind,
			due_day = excluded.due_day`,
		c.ID, c.Name, c.AssignedAmount.String(), string(c.Kind), c.Color,
		string(c.Due.Kind), c.Due.Day)
	if err != nil {
		return fmt.Errorf("save category %s: %w", c.ID, err)
	}
	return nil
}

// Categories returns all persisted budget categories.
func (s *SQLite) Categories(ctx context.Context) ([]model.BudgetCategory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, assigned_amount, kind, color, due_kind, due_day FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []model.BudgetCategory
	for rows.Next() {
		var c model.BudgetCategory
		var assigned, kind, dueKind string
		if err := rows.Scan(&c.ID, &c.Name, &assigned, &kind, &c.Color, &dueKind, &c.Due.Day); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if c.AssignedAmount, err = decimal.NewFromString(assigned); err != nil {
			return nil, fmt.Errorf("category %s assigned amount %q: %w", c.ID, assigned, err)
		}
		c.Kind = model.CategoryKind(kind)
		c.Due.Kind = model.DueDateKind(dueKind)
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCategory removes a category row and its allocations.
func (s *SQLite) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM allocations WHERE category_id = ?`, id); err != nil {
		return fmt.Errorf("delete allocations for category %s: %w", id, err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return nil
}

// SaveAllocation inserts or updates a monthly allocation, keyed by
// (category, month).
func (s *SQLite) SaveAllocation(ctx context.Context, a model.MonthlyAllocation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO allocations (category_id, month_key, assigned, rollover)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(category_id, month_key) DO UPDATE SET
			assigned = excluded.assigned,
			rollover = excluded.rollover`,
		a.CategoryID, a.MonthKey, a.Assigned.String(), a.Rollover.String())
	if err != nil {
		return fmt.Errorf("save allocation %s/%s: %w", a.CategoryID, a.MonthKey, err)
	}
	return nil
}

// Allocations returns all persisted monthly allocations.
func (s *SQLite) Allocations(ctx context.Context) ([]model.MonthlyAllocation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category_id, month_key, assigned, rollover FROM allocations ORDER BY month_key, category_id`)
	if err != nil {
		return nil, fmt.Errorf("query allocations: %w", err)
	}
	defer rows.Close()

	var out []model.MonthlyAllocation
	for rows.Next() {
		var a model.MonthlyAllocation
		var assigned, rollover string
		if err := rows.Scan(&a.CategoryID, &a.MonthKey, &assigned, &rollover); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		if a.Assigned, err = decimal.NewFromString(assigned); err != nil {
			return nil, fmt.Errorf("allocation %s/%s assigned %q: %w", a.CategoryID, a.MonthKey, assigned, err)
		}
		if a.Rollover, err = decimal.NewFromString(rollover); err != nil {
			return nil, fmt.Errorf("allocation %s/%s rollover %q: %w", a.CategoryID, a.MonthKey, rollover, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
