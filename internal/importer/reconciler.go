package importer

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/envelope-dev/envelope/internal/ledger"
	"github.com/envelope-dev/envelope/internal/model"
)

// RowError is a conversion failure isolated to one statement row. Row is the
// line number in the source file, counting the header as line 1.
type RowError struct {
	Row int
	Msg string
}

func (e RowError) Error() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Msg)
}

// Result summarizes one import batch. SuccessCount+FailureCount always equals
// the number of data rows attempted; Errors holds one entry per failed row in
// source order.
type Result struct {
	SuccessCount int
	FailureCount int
	Errors       []RowError
}

// Messages returns the row-addressable error strings in order.
func (r Result) Messages() []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Error()
	}
	return out
}

// Options tune row conversion.
type Options struct {
	// DateFormats overrides the tolerant date parser's layouts.
	DateFormats []string
	// DefaultKind classifies rows from a single unsigned amount column.
	// Zero value means signed amounts are expected (negative = expense).
	DefaultKind model.TransactionKind
	// CategoryID, when set, is attached to every created transaction.
	CategoryID string
}

// Reconciler converts statement rows into validated ledger transactions.
// Every successful row goes through the ledger store's RecordTransaction, so
// imports can never bypass the balance invariant.
type Reconciler struct {
	store *ledger.Store
	opts  Options
}

// NewReconciler creates a Reconciler writing into store.
func NewReconciler(store *ledger.Store, opts Options) *Reconciler {
	return &Reconciler{store: store, opts: opts}
}

// Import validates the mapping against the headers and target account, then
// converts every data row. Mapping problems reject the whole batch before any
// mutation; row problems are isolated, recorded, and never abort the batch.
func (r *Reconciler) Import(headers []string, rows [][]string, accountID string, m Mapping) (Result, error) {
	if verrs := ValidateMapping(m, accountID); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return Result{}, fmt.Errorf("import rejected: %s", strings.Join(msgs, "; "))
	}
	if _, ok := r.store.Account(accountID); !ok {
		return Result{}, fmt.Errorf("import rejected: %w: %s", ledger.ErrAccountNotFound, accountID)
	}
	cols, err := resolveColumns(headers, m)
	if err != nil {
		return Result{}, fmt.Errorf("import rejected: %w", err)
	}

	// Duplicate index over existing transactions; rows created during this
	// batch are added as they land so in-batch duplicates are caught too.
	seen := make(map[string]bool)
	for _, tx := range r.store.Transactions() {
		seen[dupKey(tx.Date, tx.Amount, tx.Description)] = true
	}

	var result Result
	for i, row := range rows {
		line := i + 2 // header is line 1
		tx, rerr := r.convertRow(row, cols, accountID, line)
		if rerr != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, *rerr)
			continue
		}
		key := dupKey(tx.Date, tx.Amount, tx.Description)
		if seen[key] {
			result.FailureCount++
			result.Errors = append(result.Errors, RowError{Row: line,
				Msg: fmt.Sprintf("duplicate of existing transaction (%s %s %q)", tx.Date.Format("2006-01-02"), tx.Amount, tx.Description)})
			continue
		}
		if _, err := r.store.RecordTransaction(tx); err != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, RowError{Row: line, Msg: err.Error()})
			continue
		}
		seen[key] = true
		result.SuccessCount++
	}

	slog.Info("statement import finished",
		"rows", len(rows), "imported", result.SuccessCount, "failed", result.FailureCount)
	return result, nil
}

// columns holds resolved indices; -1 means unmapped.
type columns struct {
	date, desc, debit, credit, amount, notes int
}

func resolveColumns(headers []string, m Mapping) (columns, error) {
	idx := func(name string) (int, error) {
		if name == "" {
			return -1, nil
		}
		for i, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
				return i, nil
			}
		}
		return -1, fmt.Errorf("mapped column %q not found in headers", name)
	}

	var c columns
	var err error
	if c.date, err = idx(m.Date); err != nil {
		return columns{}, err
	}
	if c.desc, err = idx(m.Description); err != nil {
		return columns{}, err
	}
	if c.debit, err = idx(m.Debit); err != nil {
		return columns{}, err
	}
	if c.credit, err = idx(m.Credit); err != nil {
		return columns{}, err
	}
	if c.amount, err = idx(m.Amount); err != nil {
		return columns{}, err
	}
	if c.notes, err = idx(m.Notes); err != nil {
		return columns{}, err
	}
	return c, nil
}

func (r *Reconciler) convertRow(row []string, c columns, accountID string, line int) (model.Transaction, *RowError) {
	field := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rawDate := field(c.date)
	date, err := ParseDate(rawDate, r.opts.DateFormats)
	if err != nil {
		return model.Transaction{}, &RowError{Row: line, Msg: fmt.Sprintf("invalid date '%s'", rawDate)}
	}

	var amount decimal.Decimal
	var kind model.TransactionKind
	if c.amount >= 0 {
		amount, kind, err = classifySigned(field(c.amount), r.opts.DefaultKind)
	} else {
		amount, kind, err = classifyDebitCredit(field(c.debit), field(c.credit))
	}
	if err != nil {
		return model.Transaction{}, &RowError{Row: line, Msg: err.Error()}
	}

	return model.Transaction{
		Date:        date,
		Amount:      amount,
		Kind:        kind,
		Description: field(c.desc),
		CategoryID:  r.opts.CategoryID,
		AccountID:   accountID,
		Notes:       field(c.notes),
	}, nil
}

// classifyDebitCredit maps a debit/credit column pair to a kind: a non-empty
// debit is an expense, a non-empty credit is income. Both empty and both set
// are row errors.
func classifyDebitCredit(debit, credit string) (decimal.Decimal, model.TransactionKind, error) {
	switch {
	case debit == "" && credit == "":
		return decimal.Zero, "", fmt.Errorf("both debit and credit are empty")
	case debit != "" && credit != "":
		return decimal.Zero, "", fmt.Errorf("ambiguous row: both debit (%q) and credit (%q) are set", debit, credit)
	case debit != "":
		amt, err := parseAmount(debit)
		if err != nil {
			return decimal.Zero, "", err
		}
		return amt, model.KindExpense, nil
	default:
		amt, err := parseAmount(credit)
		if err != nil {
			return decimal.Zero, "", err
		}
		return amt, model.KindIncome, nil
	}
}

// classifySigned maps a single amount column to a kind. With no default kind
// configured, the sign decides: negative is an expense, positive income.
// Sources that export unsigned values configure a default kind instead, and
// every row takes it.
func classifySigned(raw string, defaultKind model.TransactionKind) (decimal.Decimal, model.TransactionKind, error) {
	amt, err := parseAmount(raw)
	if err != nil {
		return decimal.Zero, "", err
	}
	if defaultKind != "" {
		return amt.Abs(), defaultKind, nil
	}
	if amt.IsNegative() {
		return amt.Abs(), model.KindExpense, nil
	}
	return amt, model.KindIncome, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer(",", "", "$", "", "€", "", "£", "", "(", "-", ")", "").Replace(raw)
	amt, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	return amt, nil
}

func dupKey(date time.Time, amount decimal.Decimal, description string) string {
	return date.Format("2006-01-02") + "|" + amount.String() + "|" + description
}
