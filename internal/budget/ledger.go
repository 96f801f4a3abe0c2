package budget

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/envelope-dev/envelope/internal/ledger"
	"github.com/envelope-dev/envelope/internal/model"
	"github.com/envelope-dev/envelope/internal/monthkey"
)

// ErrCategoryNotFound is returned when an operation references an unknown category.
var ErrCategoryNotFound = errors.New("category not found")

// ValidationError describes a rejected assignment. It is returned before any
// mutation occurs.
type ValidationError struct {
	Op     string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Ledger tracks committed ("assigned") amounts per category and per month.
// It reads account balances from the ledger store it assigns against.
type Ledger struct {
	mu     sync.Mutex
	store  *ledger.Store
	cats   map[string]*model.BudgetCategory
	allocs map[string]*model.MonthlyAllocation // keyed categoryID + "|" + monthKey
}

// NewLedger creates an empty assignment ledger backed by store.
func NewLedger(store *ledger.Store) *Ledger {
	return &Ledger{
		store:  store,
		cats:   make(map[string]*model.BudgetCategory),
		allocs: make(map[string]*model.MonthlyAllocation),
	}
}

// Load rebuilds an assignment ledger from persisted categories and allocations.
func Load(store *ledger.Store, cats []model.BudgetCategory, allocs []model.MonthlyAllocation) *Ledger {
	l := NewLedger(store)
	for _, c := range cats {
		cp := c
		l.cats[c.ID] = &cp
	}
	for _, a := range allocs {
		cp := a
		l.allocs[allocKey(a.CategoryID, a.MonthKey)] = &cp
	}
	return l
}

func allocKey(categoryID, monthKey string) string {
	return categoryID + "|" + monthKey
}

// AddCategory registers a new budget category with nothing assigned yet.
func (l *Ledger) AddCategory(c model.BudgetCategory) (model.BudgetCategory, error) {
	if !c.Kind.Valid() {
		return model.BudgetCategory{}, fmt.Errorf("invalid category kind %q", c.Kind)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, ok := l.cats[c.ID]; ok {
		return model.BudgetCategory{}, fmt.Errorf("category %s already exists", c.ID)
	}
	l.cats[c.ID] = &c
	return c, nil
}

// Assign sets a category's assigned amount. Zero is a valid assignment (a
// tracked-but-unfunded category). A negative amount is rejected unless
// allowNegative is set. Driving ready-to-assign negative is never a reason
// to reject: over-commitment is a warning state, not an error.
func (l *Ledger) Assign(categoryID string, amount decimal.Decimal, allowNegative bool) error {
	if amount.IsNegative() && !allowNegative {
		return ValidationError{Op: "assign", Reason: fmt.Sprintf("negative amount %s requires an explicit override", amount)}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.setAssignedLocked(categoryID, amount)
}

func (l *Ledger) setAssignedLocked(categoryID string, amount decimal.Decimal) error {
	c, ok := l.cats[categoryID]
	if !ok {
		return fmt.Errorf("assigning: %w: %s", ErrCategoryNotFound, categoryID)
	}
	c.AssignedAmount = amount
	return nil
}

// ReadyToAssign is the derived zero-based-budgeting value:
//
//	sum(account balances) - sum(category assigned amounts)
//
// It is computed from current balances only; income transactions are already
// reflected there and must not be added again. Zero means fully assigned
// (the terminal success state), positive means money remains, negative means
// categories are over-committed, which is a warning for the caller, never an
// error.
func (l *Ledger) ReadyToAssign() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readyToAssignLocked()
}

func (l *Ledger) readyToAssignLocked() decimal.Decimal {
	assigned := decimal.Zero
	for _, c := range l.cats {
		assigned = assigned.Add(c.AssignedAmount)
	}
	return l.store.TotalBalance().Sub(assigned)
}

// QuickAssignRemaining adds the entire current ready-to-assign value to one
// category and returns an undo record capturing the prior amount.
func (l *Ledger) QuickAssignRemaining(categoryID string) (*UndoRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.cats[categoryID]
	if !ok {
		return nil, fmt.Errorf("quick-assigning: %w: %s", ErrCategoryNotFound, categoryID)
	}
	remaining := l.readyToAssignLocked()

	rec := newUndoRecord(fmt.Sprintf("quick-assign %s to %s", remaining, c.Name),
		previousAmount{CategoryID: c.ID, Amount: c.AssignedAmount})
	c.AssignedAmount = c.AssignedAmount.Add(remaining)
	return rec, nil
}

// DistributeEvenly splits the current ready-to-assign value across the given
// categories. Each category receives the total divided by N truncated to two
// decimal places; the leftover cents go to the first category in the caller's
// order, so the deltas always sum to the original value exactly.
func (l *Ledger) DistributeEvenly(categoryIDs []string) (*UndoRecord, error) {
	if len(categoryIDs) == 0 {
		return nil, ValidationError{Op: "distribute", Reason: "no categories given"}
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	cats := make([]*model.BudgetCategory, len(categoryIDs))
	for i, id := range categoryIDs {
		c, ok := l.cats[id]
		if !ok {
			return nil, fmt.Errorf("distributing: %w: %s", ErrCategoryNotFound, id)
		}
		cats[i] = c
	}

	total := l.readyToAssignLocked()
	n := decimal.NewFromInt(int64(len(cats)))
	share := total.Div(n).Truncate(2)
	remainder := total.Sub(share.Mul(n))

	prev := make([]previousAmount, len(cats))
	for i, c := range cats {
		prev[i] = previousAmount{CategoryID: c.ID, Amount: c.AssignedAmount}
	}
	rec := newUndoRecord(fmt.Sprintf("distribute %s across %d categories", total, len(cats)), prev...)

	for i, c := range cats {
		delta := share
		if i == 0 {
			delta = delta.Add(remainder)
		}
		c.AssignedAmount = c.AssignedAmount.Add(delta)
	}
	return rec, nil
}

// Allocate upserts the committed amount for a category in a month. The key
// is normalized to the canonical "YYYY-MM" form. The category's current
// assigned amount is left alone; callers that want both use Assign as well.
func (l *Ledger) Allocate(categoryID, key string, assigned decimal.Decimal) error {
	year, month, err := monthkey.Parse(key)
	if err != nil {
		return err
	}
	key = monthkey.Format(year, month)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.cats[categoryID]; !ok {
		return fmt.Errorf("allocating: %w: %s", ErrCategoryNotFound, categoryID)
	}
	k := allocKey(categoryID, key)
	if a, ok := l.allocs[k]; ok {
		a.Assigned = assigned
		return nil
	}
	l.allocs[k] = &model.MonthlyAllocation{CategoryID: categoryID, MonthKey: key, Assigned: assigned}
	return nil
}

// CarryOver records the unspent remainder of one month as the next month's
// rollover for a category, creating the next month's allocation if needed.
func (l *Ledger) CarryOver(categoryID, fromKey string, unspent decimal.Decimal) error {
	year, month, err := monthkey.Parse(fromKey)
	if err != nil {
		return err
	}
	next := monthkey.Normalize(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0))

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.cats[categoryID]; !ok {
		return fmt.Errorf("carrying over: %w: %s", ErrCategoryNotFound, categoryID)
	}
	k := allocKey(categoryID, next)
	if a, ok := l.allocs[k]; ok {
		a.Rollover = unspent
		return nil
	}
	l.allocs[k] = &model.MonthlyAllocation{CategoryID: categoryID, MonthKey: next, Rollover: unspent}
	return nil
}

// Allocation returns the allocation for a category and month, if present.
func (l *Ledger) Allocation(categoryID, key string) (model.MonthlyAllocation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.allocs[allocKey(categoryID, key)]
	if !ok {
		return model.MonthlyAllocation{}, false
	}
	return *a, true
}

// Category returns a copy of the category with the given ID.
func (l *Ledger) Category(id string) (model.BudgetCategory, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.cats[id]
	if !ok {
		return model.BudgetCategory{}, false
	}
	return *c, true
}

// Categories returns copies of all categories, sorted by name.
func (l *Ledger) Categories() []model.BudgetCategory {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.BudgetCategory, 0, len(l.cats))
	for _, c := range l.cats {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Allocations returns copies of all monthly allocations, sorted by
// (month key, category ID).
func (l *Ledger) Allocations() []model.MonthlyAllocation {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.MonthlyAllocation, 0, len(l.allocs))
	for _, a := range l.allocs {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MonthKey != out[j].MonthKey {
			return out[i].MonthKey < out[j].MonthKey
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}
