package query

import (
	"ProjectFinance/internal/entity"
	"sort"

	"github.com/shopspring/decimal"
)

type Summary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type MonthlyStat struct {
	Month        int             `json:"month"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}

type PeriodReport struct {
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}

type GroupKey string

const (
	GroupByCategory GroupKey = "category"
	GroupByType     GroupKey = "type"
)

func (k GroupKey) IsValid() bool {
	return k == GroupByCategory || k == GroupByType
}

type GroupTotal struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
}

func Summarize(records []entity.FinanceRecord) Summary {
	income, expense := decimal.Zero, decimal.Zero
	for _, rec := range records {
		switch rec.Type {
		case entity.RecordTypeIncome:
			income = income.Add(rec.Amount)
		case entity.RecordTypeExpense:
			expense = expense.Add(rec.Amount)
		}
	}

	return Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}
}

// GroupValue is the bucket a record falls into for key. Records without a
// category land in "uncategorized".
func GroupValue(rec entity.FinanceRecord, key GroupKey) string {
	switch key {
	case GroupByType:
		return string(rec.Type)
	default:
		if rec.Category == "" {
			return string(entity.CategoryUncategorized)
		}
		return string(rec.Category)
	}
}

// FoldGroups sums amounts per key and sorts the groups by total, largest first.
// Groups with equal totals keep first-seen order, callers must not rely on it.
func FoldGroups(records []entity.FinanceRecord, key GroupKey) []GroupTotal {
	index := make(map[string]int)
	groups := make([]GroupTotal, 0)

	for _, rec := range records {
		k := GroupValue(rec, key)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, GroupTotal{Key: k, Total: decimal.Zero})
		}
		groups[i].Total = groups[i].Total.Add(rec.Amount)
	}

	SortGroups(groups)
	return groups
}

func SortGroups(groups []GroupTotal) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Total.GreaterThan(groups[j].Total)
	})
}

func CategoryTotalsFromGroups(groups []GroupTotal) []CategoryTotal {
	totals := make([]CategoryTotal, 0, len(groups))
	for _, g := range groups {
		totals = append(totals, CategoryTotal{Category: g.Key, Total: g.Total})
	}
	return totals
}

func CategoryStats(records []entity.FinanceRecord) []CategoryTotal {
	return CategoryTotalsFromGroups(FoldGroups(records, GroupByCategory))
}

// MonthlyStats buckets records by the UTC month of CreatedAt. The result
// always has twelve entries, January first. Records are expected to be
// restricted to a single year already.
func MonthlyStats(records []entity.FinanceRecord) []MonthlyStat {
	stats := make([]MonthlyStat, 12)
	for i := range stats {
		stats[i] = MonthlyStat{
			Month:        i + 1,
			TotalIncome:  decimal.Zero,
			TotalExpense: decimal.Zero,
			Balance:      decimal.Zero,
		}
	}

	for _, rec := range records {
		m := &stats[rec.CreatedAt.UTC().Month()-1]
		switch rec.Type {
		case entity.RecordTypeIncome:
			m.TotalIncome = m.TotalIncome.Add(rec.Amount)
		case entity.RecordTypeExpense:
			m.TotalExpense = m.TotalExpense.Add(rec.Amount)
		}
	}

	for i := range stats {
		stats[i].Balance = stats[i].TotalIncome.Sub(stats[i].TotalExpense)
	}

	return stats
}

func NewPeriodReport(startDate, endDate string, records []entity.FinanceRecord) PeriodReport {
	s := Summarize(records)
	return PeriodReport{
		StartDate:    startDate,
		EndDate:      endDate,
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		Balance:      s.Balance,
	}
}
