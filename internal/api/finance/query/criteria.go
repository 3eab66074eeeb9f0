// Package query turns loosely typed filter parameters into record predicates
// and folds selected records into summary statistics. Nothing here touches
// the store.
package query

import (
	"ProjectFinance/internal/api/finance"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FilterCriteria is the typed form of finance.RawFilter. Empty strings and nil
// pointers mean the dimension was not supplied.
type FilterCriteria struct {
	Type      string
	Category  string
	Keyword   string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	StartDate *time.Time
	EndDate   *time.Time
	Month     *int
	Year      *int
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp accepts RFC3339 and the date-only / zone-less ISO forms.
// Zone-less input is read as UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a valid date", finance.ErrInvalidParameter, raw)
}

// Years outside [MinYear, MaxYear] are rejected; the store cannot hold the
// resulting timestamps. Months are normalised by time.Date but bounded so the
// resolved window stays representable.
const (
	MinYear  = 1
	MaxYear  = 9999
	maxMonth = 12 * MaxYear
)

// ParseYear parses a calendar year and enforces [MinYear, MaxYear].
func ParseYear(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: year %q is not an integer", finance.ErrInvalidParameter, raw)
	}
	if y < MinYear || y > MaxYear {
		return 0, fmt.Errorf("%w: year %d is outside %d..%d", finance.ErrInvalidParameter, y, MinYear, MaxYear)
	}
	return y, nil
}

// ParseCriteria coerces raw text parameters into FilterCriteria. It fails with
// finance.ErrInvalidParameter on the first malformed number or timestamp.
// Type and category are passed through untouched.
func ParseCriteria(raw finance.RawFilter) (FilterCriteria, error) {
	c := FilterCriteria{
		Type:     strings.TrimSpace(raw.Type),
		Category: strings.TrimSpace(raw.Category),
		Keyword:  raw.Keyword,
	}

	var err error
	if c.MinAmount, err = parseAmount("minAmount", raw.MinAmount); err != nil {
		return FilterCriteria{}, err
	}
	if c.MaxAmount, err = parseAmount("maxAmount", raw.MaxAmount); err != nil {
		return FilterCriteria{}, err
	}
	if c.StartDate, err = parseOptionalTimestamp("startDate", raw.StartDate); err != nil {
		return FilterCriteria{}, err
	}
	if c.EndDate, err = parseOptionalTimestamp("endDate", raw.EndDate); err != nil {
		return FilterCriteria{}, err
	}
	if strings.TrimSpace(raw.Year) != "" {
		y, err := ParseYear(raw.Year)
		if err != nil {
			return FilterCriteria{}, err
		}
		c.Year = &y
	}
	if c.Month, err = parseInt("month", raw.Month); err != nil {
		return FilterCriteria{}, err
	}
	if c.Month != nil && (*c.Month > maxMonth || *c.Month < -maxMonth) {
		return FilterCriteria{}, fmt.Errorf("%w: month %d is out of range", finance.ErrInvalidParameter, *c.Month)
	}

	return c, nil
}

func parseAmount(name, raw string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q is not numeric", finance.ErrInvalidParameter, name, raw)
	}
	return &d, nil
}

func parseOptionalTimestamp(name, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q is not a valid date", finance.ErrInvalidParameter, name, raw)
	}
	return &t, nil
}

func parseInt(name, raw string) (*int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q is not an integer", finance.ErrInvalidParameter, name, raw)
	}
	return &n, nil
}
