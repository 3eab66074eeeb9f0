package query

import (
	"ProjectFinance/internal/entity"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s got %s", want, got)
}

func TestSummarize(t *testing.T) {
	t.Run("empty input is all zero", func(t *testing.T) {
		s := Summarize(nil)
		assertDecimal(t, "0", s.TotalIncome)
		assertDecimal(t, "0", s.TotalExpense)
		assertDecimal(t, "0", s.Balance)
	})

	t.Run("balance is income minus expense", func(t *testing.T) {
		records := []entity.FinanceRecord{
			record("u1", "pay", 1000, entity.RecordTypeIncome, entity.CategorySalary, utc(2024, time.January, 5)),
			record("u1", "rent", 400, entity.RecordTypeExpense, entity.CategoryUtilities, utc(2024, time.January, 6)),
			record("u1", "food", 150, entity.RecordTypeExpense, entity.CategoryFood, utc(2024, time.January, 7)),
		}
		s := Summarize(records)
		assertDecimal(t, "1000", s.TotalIncome)
		assertDecimal(t, "550", s.TotalExpense)
		assertDecimal(t, "450", s.Balance)
		assert.True(t, s.Balance.Equal(s.TotalIncome.Sub(s.TotalExpense)))
	})

	t.Run("fractional amounts do not drift", func(t *testing.T) {
		var records []entity.FinanceRecord
		for i := 0; i < 10; i++ {
			r := record("u1", "coffee", 0, entity.RecordTypeExpense, entity.CategoryFood, utc(2024, time.January, 1))
			r.Amount = decimal.RequireFromString("0.1")
			records = append(records, r)
		}
		assertDecimal(t, "1", Summarize(records).TotalExpense)
	})
}

func TestCategoryStats(t *testing.T) {
	records := []entity.FinanceRecord{
		record("u1", "a", 30, entity.RecordTypeExpense, entity.CategoryFood, utc(2024, time.January, 1)),
		record("u1", "b", 500, entity.RecordTypeIncome, entity.CategorySalary, utc(2024, time.January, 2)),
		record("u1", "c", 45, entity.RecordTypeExpense, entity.CategoryFood, utc(2024, time.January, 3)),
		record("u1", "d", 20, entity.RecordTypeExpense, "", utc(2024, time.January, 4)),
	}

	stats := CategoryStats(records)
	require.Len(t, stats, 3)
	assert.Equal(t, "salary", stats[0].Category)
	assert.Equal(t, "food", stats[1].Category)
	assertDecimal(t, "75", stats[1].Total)
	assert.Equal(t, "uncategorized", stats[2].Category)

	sum := decimal.Zero
	for i, s := range stats {
		sum = sum.Add(s.Total)
		if i > 0 {
			assert.False(t, s.Total.GreaterThan(stats[i-1].Total), "groups must be non-increasing")
		}
	}
	assertDecimal(t, "595", sum)

	assert.Empty(t, CategoryStats(nil))
}

func TestCategoryStatsEqualTotals(t *testing.T) {
	// Order among equal totals is unspecified; only membership is checked.
	records := []entity.FinanceRecord{
		record("u1", "a", 10, entity.RecordTypeExpense, entity.CategoryFood, utc(2024, time.January, 1)),
		record("u1", "b", 10, entity.RecordTypeExpense, entity.CategoryHealth, utc(2024, time.January, 1)),
	}
	stats := CategoryStats(records)
	require.Len(t, stats, 2)
	assert.ElementsMatch(t, []string{"food", "health"}, []string{stats[0].Category, stats[1].Category})
}

func TestFoldGroupsByType(t *testing.T) {
	records := []entity.FinanceRecord{
		record("u1", "a", 10, entity.RecordTypeExpense, entity.CategoryFood, utc(2024, time.January, 1)),
		record("u1", "b", 300, entity.RecordTypeIncome, entity.CategorySalary, utc(2024, time.January, 1)),
		record("u1", "c", 15, entity.RecordTypeExpense, entity.CategoryHealth, utc(2024, time.January, 1)),
	}
	groups := FoldGroups(records, GroupByType)
	require.Len(t, groups, 2)
	assert.Equal(t, "income", groups[0].Key)
	assert.Equal(t, "expense", groups[1].Key)

	s := Summarize(records)
	assert.True(t, s.TotalIncome.Equal(groups[0].Total))
	assert.True(t, s.TotalExpense.Equal(groups[1].Total))
}

func TestMonthlyStats(t *testing.T) {
	t.Run("twelve zero entries for an empty year", func(t *testing.T) {
		stats := MonthlyStats(nil)
		require.Len(t, stats, 12)
		for i, m := range stats {
			assert.Equal(t, i+1, m.Month)
			assertDecimal(t, "0", m.TotalIncome)
			assertDecimal(t, "0", m.TotalExpense)
			assertDecimal(t, "0", m.Balance)
		}
	})

	t.Run("buckets by utc month", func(t *testing.T) {
		jakarta := time.FixedZone("WIB", 7*3600)
		records := []entity.FinanceRecord{
			record("u1", "pay", 1000, entity.RecordTypeIncome, entity.CategorySalary, utc(2024, time.January, 25)),
			record("u1", "rent", 300, entity.RecordTypeExpense, entity.CategoryUtilities, utc(2024, time.January, 28)),
			// 1 March 05:00 in Jakarta is still 29 February in UTC.
			record("u1", "late", 50, entity.RecordTypeExpense, entity.CategoryFood, time.Date(2024, time.March, 1, 5, 0, 0, 0, jakarta)),
			record("u1", "bonus", 200, entity.RecordTypeIncome, entity.CategorySalary, utc(2024, time.December, 31)),
		}
		stats := MonthlyStats(records)
		require.Len(t, stats, 12)

		assertDecimal(t, "1000", stats[0].TotalIncome)
		assertDecimal(t, "300", stats[0].TotalExpense)
		assertDecimal(t, "700", stats[0].Balance)

		assertDecimal(t, "50", stats[1].TotalExpense)
		assertDecimal(t, "-50", stats[1].Balance)
		assertDecimal(t, "0", stats[2].TotalExpense)

		assertDecimal(t, "200", stats[11].Balance)
	})
}

func TestNewPeriodReportEchoesDates(t *testing.T) {
	records := []entity.FinanceRecord{
		record("u1", "pay", 80, entity.RecordTypeIncome, entity.CategorySalary, utc(2024, time.June, 2)),
		record("u1", "bus", 30, entity.RecordTypeExpense, entity.CategoryTransportation, utc(2024, time.June, 3)),
	}
	r := NewPeriodReport("2024-06-01", "2024-06-30", records)
	assert.Equal(t, "2024-06-01", r.StartDate)
	assert.Equal(t, "2024-06-30", r.EndDate)
	assertDecimal(t, "80", r.TotalIncome)
	assertDecimal(t, "30", r.TotalExpense)
	assertDecimal(t, "50", r.Balance)
}
