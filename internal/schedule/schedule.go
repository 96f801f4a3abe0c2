// Package schedule resolves category due dates. The engine only computes
// effective dates; scheduling and cancelling reminders belongs to the
// notification collaborator behind the Notifier interface.
package schedule

import (
	"fmt"
	"time"

	"github.com/envelope-dev/envelope/internal/model"
)

// Notifier schedules and cancels due-date reminders for categories. The
// resolved effective date is passed through unchanged.
type Notifier interface {
	Schedule(categoryID string, due time.Time, offsets []time.Duration) error
	Cancel(categoryID string) error
}

// EffectiveDueDate resolves a due-date spec within a month. A day-of-month
// spec past the month's length clamps to the last day (day 31 in February
// resolves to the 28th or 29th). The second return is false when the spec
// has no due date.
func EffectiveDueDate(spec model.DueDateSpec, year int, month time.Month, loc *time.Location) (time.Time, bool) {
	switch spec.Kind {
	case model.DueDay:
		lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
		day := spec.Day
		if day > lastDay {
			day = lastDay
		}
		if day < 1 {
			day = 1
		}
		return time.Date(year, month, day, 0, 0, 0, 0, loc), true
	case model.DueLastDay:
		return time.Date(year, month+1, 0, 0, 0, 0, 0, loc), true
	default:
		return time.Time{}, false
	}
}

// Plan resolves a category's due date for the month and hands it to the
// notifier; categories without a due date get any pending reminder cancelled.
func Plan(n Notifier, cat model.BudgetCategory, year int, month time.Month, loc *time.Location, offsets []time.Duration) error {
	due, ok := EffectiveDueDate(cat.Due, year, month, loc)
	if !ok {
		if err := n.Cancel(cat.ID); err != nil {
			return fmt.Errorf("cancelling reminder for %s: %w", cat.Name, err)
		}
		return nil
	}
	if err := n.Schedule(cat.ID, due, offsets); err != nil {
		return fmt.Errorf("scheduling reminder for %s: %w", cat.Name, err)
	}
	return nil
}
