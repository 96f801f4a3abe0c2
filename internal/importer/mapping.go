package importer

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ColumnRole is the meaning assigned to one statement column.
type ColumnRole string

const (
	RoleDate        ColumnRole = "date"
	RoleDescription ColumnRole = "description"
	RoleDebit       ColumnRole = "debit"
	RoleCredit      ColumnRole = "credit"
	RoleAmount      ColumnRole = "amount"
	RoleNotes       ColumnRole = "notes"
)

// Mapping maps statement header names to column roles. An empty field means
// the role is unmapped. Either Amount alone, or Debit and Credit together,
// must be mapped before conversion.
type Mapping struct {
	Date        string
	Description string
	Debit       string
	Credit      string
	Amount      string
	Notes       string
}

// roleKeywords drive header inference. Debit/credit keywords are checked
// before the generic amount keywords so headers like "Debit Amount" land on
// the right role.
var roleKeywords = []struct {
	role     ColumnRole
	keywords []string
}{
	{RoleDate, []string{"date", "posted", "posting"}},
	{RoleDescription, []string{"description", "desc", "memo", "payee", "narrative", "details"}},
	{RoleDebit, []string{"debit", "withdrawal", "moneyout", "paidout"}},
	{RoleCredit, []string{"credit", "deposit", "moneyin", "paidin"}},
	{RoleNotes, []string{"notes", "note", "comment", "remarks"}},
	{RoleAmount, []string{"amount", "value"}},
}

// maxHeaderDistance is the edit-distance ceiling for the fuzzy fallback.
const maxHeaderDistance = 2

// InferMapping suggests a column mapping for the given headers using
// case-insensitive keyword matching, falling back to Levenshtein distance for
// near-miss spellings ("Ammount", "Descripton"). The first matching header
// wins each role. The result is a default suggestion only; callers must
// confirm or override it before converting rows.
func InferMapping(headers []string) Mapping {
	var m Mapping
	for _, h := range headers {
		norm := normalizeHeader(h)
		if norm == "" {
			continue
		}
		role, ok := inferRole(norm)
		if !ok {
			continue
		}
		switch role {
		case RoleDate:
			if m.Date == "" {
				m.Date = h
			}
		case RoleDescription:
			if m.Description == "" {
				m.Description = h
			}
		case RoleDebit:
			if m.Debit == "" {
				m.Debit = h
			}
		case RoleCredit:
			if m.Credit == "" {
				m.Credit = h
			}
		case RoleAmount:
			if m.Amount == "" {
				m.Amount = h
			}
		case RoleNotes:
			if m.Notes == "" {
				m.Notes = h
			}
		}
	}
	return m
}

func inferRole(norm string) (ColumnRole, bool) {
	for _, rk := range roleKeywords {
		for _, kw := range rk.keywords {
			if strings.Contains(norm, kw) {
				return rk.role, true
			}
		}
	}
	// Fuzzy pass only after every exact keyword has had a chance.
	for _, rk := range roleKeywords {
		for _, kw := range rk.keywords {
			if levenshtein.ComputeDistance(norm, kw) <= maxHeaderDistance {
				return rk.role, true
			}
		}
	}
	return "", false
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, h)
}

// ValidationError describes one reason a whole import batch was rejected
// before conversion started.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidateMapping checks a confirmed mapping and target account before any
// row is converted. Any returned error rejects the whole batch; nothing is
// partially committed.
func ValidateMapping(m Mapping, accountID string) []ValidationError {
	var errs []ValidationError
	if m.Date == "" {
		errs = append(errs, ValidationError{Field: "date", Reason: "a date column must be mapped"})
	}
	if m.Description == "" {
		errs = append(errs, ValidationError{Field: "description", Reason: "a description column must be mapped"})
	}

	hasAmount := m.Amount != ""
	hasDebit := m.Debit != ""
	hasCredit := m.Credit != ""
	switch {
	case hasAmount && (hasDebit || hasCredit):
		errs = append(errs, ValidationError{Field: "amount", Reason: "map either a single amount column or debit/credit columns, not both"})
	case !hasAmount && !(hasDebit && hasCredit):
		errs = append(errs, ValidationError{Field: "amount", Reason: "map a single amount column, or both debit and credit columns"})
	}

	if accountID == "" {
		errs = append(errs, ValidationError{Field: "account", Reason: "a target account must be selected"})
	}
	return errs
}
