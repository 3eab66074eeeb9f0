package entity

import (
	"ProjectFinance/internal/api/finance"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type RecordType string

const (
	RecordTypeIncome  RecordType = "income"
	RecordTypeExpense RecordType = "expense"
)

func (t RecordType) IsValid() bool {
	switch t {
	case RecordTypeIncome, RecordTypeExpense:
		return true
	default:
		return false
	}
}

type Category string

const (
	CategorySalary         Category = "salary"
	CategoryEducation      Category = "education"
	CategoryHealth         Category = "health"
	CategoryFood           Category = "food"
	CategoryTransportation Category = "transportation"
	CategoryEntertainment  Category = "entertainment"
	CategoryUtilities      Category = "utilities"
	CategoryOthers         Category = "others"

	// CategoryUncategorized is never stored; stats use it for rows without a category.
	CategoryUncategorized Category = "uncategorized"
)

func (c Category) IsValid() bool {
	switch c {
	case CategorySalary, CategoryEducation, CategoryHealth, CategoryFood,
		CategoryTransportation, CategoryEntertainment, CategoryUtilities, CategoryOthers:
		return true
	default:
		return false
	}
}

// Amounts are stored as NUMERIC(20, 4): at most AmountScale fractional digits
// and a magnitude below 10^16.
const AmountScale = 4

var maxAmount = decimal.New(1, 16)

// ValidateAmount rejects amounts the store cannot hold exactly. Trailing zeros
// beyond the scale are accepted.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", finance.ErrInvalidRecord)
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return fmt.Errorf("%w: amount must have at most %d decimal places", finance.ErrInvalidRecord, AmountScale)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("%w: amount must be below %s", finance.ErrInvalidRecord, maxAmount)
	}
	return nil
}

type FinanceRecord struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Type      RecordType      `json:"type"`
	Category  Category        `json:"category"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (r *FinanceRecord) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("%w: owner is required", finance.ErrInvalidRecord)
	}

	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", finance.ErrInvalidRecord)
	}

	if err := ValidateAmount(r.Amount); err != nil {
		return err
	}

	if !r.Type.IsValid() {
		return fmt.Errorf("%w: type must be income or expense", finance.ErrInvalidRecord)
	}

	if !r.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", finance.ErrInvalidRecord, r.Category)
	}

	return nil
}
