package query

import (
	"ProjectFinance/internal/entity"
	"strings"

	"github.com/shopspring/decimal"
)

// Predicate is a conjunction of record conditions, always scoped to one owner.
// Store adapters translate it to their native filter; Match is the reference
// evaluation used by the in-memory adapter.
type Predicate struct {
	OwnerID   string
	Type      string
	Category  string
	Keyword   string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Range     DateRange
}

// OwnerPredicate selects every record of ownerID.
func OwnerPredicate(ownerID string) Predicate {
	return Predicate{OwnerID: ownerID}
}

// BuildPredicate maps criteria plus an already resolved range to a predicate.
// Type and category are compared verbatim, so unknown values match nothing.
func BuildPredicate(ownerID string, c FilterCriteria, r DateRange) Predicate {
	return Predicate{
		OwnerID:   ownerID,
		Type:      c.Type,
		Category:  c.Category,
		Keyword:   c.Keyword,
		MinAmount: c.MinAmount,
		MaxAmount: c.MaxAmount,
		Range:     r,
	}
}

func (p Predicate) WithRange(r DateRange) Predicate {
	p.Range = r
	return p
}

func (p Predicate) Match(rec entity.FinanceRecord) bool {
	if rec.UserID != p.OwnerID {
		return false
	}
	if p.Type != "" && string(rec.Type) != p.Type {
		return false
	}
	if p.Category != "" && string(rec.Category) != p.Category {
		return false
	}
	if p.MinAmount != nil && rec.Amount.LessThan(*p.MinAmount) {
		return false
	}
	if p.MaxAmount != nil && rec.Amount.GreaterThan(*p.MaxAmount) {
		return false
	}
	if p.Keyword != "" {
		kw := strings.ToLower(p.Keyword)
		if !strings.Contains(strings.ToLower(rec.Title), kw) &&
			!strings.Contains(strings.ToLower(string(rec.Category)), kw) {
			return false
		}
	}
	return p.Range.Contains(rec.CreatedAt)
}
