package budget

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUndoExpired is returned when an undo record is applied past its window.
var ErrUndoExpired = errors.New("undo window expired")

// previousAmount is one captured (category, amount-before) pair.
type previousAmount struct {
	CategoryID string          `yaml:"category_id"`
	Amount     decimal.Decimal `yaml:"amount"`
}

// UndoRecord is an explicit value object describing how to revert one
// assignment operation: a description plus the prior assigned amount of every
// touched category. It is applied only through the ledger's own entry points.
//
// The expiry window is cooperative: the record carries its creation time and
// Undo compares it against the caller-supplied clock, so a caller may choose
// to honor a late undo by passing a larger window. The recommended policy is
// to reject.
type UndoRecord struct {
	Description string           `yaml:"description"`
	CreatedAt   time.Time        `yaml:"created_at"`
	Previous    []previousAmount `yaml:"previous"`
}

func newUndoRecord(description string, prev ...previousAmount) *UndoRecord {
	return &UndoRecord{
		Description: description,
		CreatedAt:   time.Now(),
		Previous:    prev,
	}
}

// Expired reports whether the record is older than window at time now.
func (r *UndoRecord) Expired(now time.Time, window time.Duration) bool {
	return now.Sub(r.CreatedAt) > window
}

// Undo restores every captured (category, previousAmount) pair. Records older
// than window are rejected with ErrUndoExpired before any mutation. Restoring
// bypasses the negative-amount check: putting a category back into a state it
// was already in is always legal.
func (l *Ledger) Undo(rec *UndoRecord, now time.Time, window time.Duration) error {
	if rec == nil || len(rec.Previous) == 0 {
		return ValidationError{Op: "undo", Reason: "empty undo record"}
	}
	if rec.Expired(now, window) {
		return fmt.Errorf("undoing %q: %w", rec.Description, ErrUndoExpired)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Validate every target first so a partial restore is impossible.
	for _, p := range rec.Previous {
		if _, ok := l.cats[p.CategoryID]; !ok {
			return fmt.Errorf("undoing %q: %w: %s", rec.Description, ErrCategoryNotFound, p.CategoryID)
		}
	}
	for _, p := range rec.Previous {
		if err := l.setAssignedLocked(p.CategoryID, p.Amount); err != nil {
			return err
		}
	}
	return nil
}
