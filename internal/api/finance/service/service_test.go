package financeService

import (
	"ProjectFinance/internal/api/finance"
	"ProjectFinance/internal/api/finance/query"
	financeRepository "ProjectFinance/internal/api/finance/repository"
	"ProjectFinance/internal/entity"
	"ProjectFinance/pkg/utils"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.June, 15, 9, 30, 0, 0, time.UTC)

type memoryCache struct {
	mu       sync.Mutex
	values   map[string][]byte
	counters map[string]int64
	fail     bool
	sets     int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string][]byte{}, counters: map[string]int64{}}
}

func (c *memoryCache) GetObject(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return false, errors.New("cache down")
	}
	raw, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, jsoniter.Unmarshal(raw, dest)
}

func (c *memoryCache) SetObject(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("cache down")
	}
	raw, err := jsoniter.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	c.sets++
	return nil
}

func (c *memoryCache) GetInt(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return 0, errors.New("cache down")
	}
	return c.counters[key], nil
}

func (c *memoryCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return 0, errors.New("cache down")
	}
	c.counters[key]++
	return c.counters[key], nil
}

func (c *memoryCache) Close() error { return nil }

type failingRepository struct{}

func (failingRepository) NewClient(bool) (financeRepository.Client, error) {
	return financeRepository.Client{}, errors.New("dial tcp: connection refused")
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService(t *testing.T, repo financeRepository.Repository, cache *memoryCache) *financeService {
	t.Helper()
	var svc IFinanceService
	if cache == nil {
		svc = NewFinanceService(discardLogger(), repo, nil, time.Minute, utils.New())
	} else {
		svc = NewFinanceService(discardLogger(), repo, cache, time.Minute, utils.New())
	}
	s := svc.(*financeService)
	s.now = func() time.Time { return fixedNow }
	return s
}

func amount(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func seed(t *testing.T, repo financeRepository.Repository, records ...entity.FinanceRecord) {
	t.Helper()
	client, err := repo.NewClient(false)
	require.NoError(t, err)
	for _, r := range records {
		require.NoError(t, client.Finance.CreateRecord(context.Background(), r))
	}
}

func rec(id, owner, title, amt string, typ entity.RecordType, category entity.Category, created time.Time) entity.FinanceRecord {
	return entity.FinanceRecord{
		ID:        id,
		UserID:    owner,
		Title:     title,
		Amount:    decimal.RequireFromString(amt),
		Type:      typ,
		Category:  category,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func at(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}

func seededService(t *testing.T, cache *memoryCache) *financeService {
	t.Helper()
	repo := financeRepository.NewMemory(discardLogger())
	seed(t, repo,
		rec("r1", "alice", "Salary June", "3000", entity.RecordTypeIncome, entity.CategorySalary, at(2024, time.June, 1)),
		rec("r2", "alice", "Groceries", "120.50", entity.RecordTypeExpense, entity.CategoryFood, at(2024, time.June, 3)),
		rec("r3", "alice", "Bus pass", "45", entity.RecordTypeExpense, entity.CategoryTransportation, at(2024, time.May, 20)),
		rec("r4", "alice", "Dinner out", "60", entity.RecordTypeExpense, entity.CategoryFood, at(2023, time.December, 31)),
		rec("r5", "bob", "Salary", "9999", entity.RecordTypeIncome, entity.CategorySalary, at(2024, time.June, 1)),
	)
	return newTestService(t, repo, cache)
}

func ids(records []entity.FinanceRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestListAllScopedToOwner(t *testing.T) {
	svc := seededService(t, nil)

	records, err := svc.ListAll(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"r2", "r1", "r3", "r4"}, ids(records))

	records, err = svc.ListAll(context.Background(), "carol")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFilter(t *testing.T) {
	svc := seededService(t, nil)
	ctx := context.Background()

	t.Run("year and keyword", func(t *testing.T) {
		records, err := svc.Filter(ctx, "alice", finance.RawFilter{Year: "2024", Keyword: "FOOD"})
		require.NoError(t, err)
		assert.Equal(t, []string{"r2"}, ids(records))
	})

	t.Run("month defaults to the current year", func(t *testing.T) {
		records, err := svc.Filter(ctx, "alice", finance.RawFilter{Month: "5"})
		require.NoError(t, err)
		assert.Equal(t, []string{"r3"}, ids(records))
	})

	t.Run("amount bounds are inclusive", func(t *testing.T) {
		records, err := svc.Filter(ctx, "alice", finance.RawFilter{MinAmount: "45", MaxAmount: "120.50"})
		require.NoError(t, err)
		assert.Equal(t, []string{"r2", "r3", "r4"}, ids(records))
	})

	t.Run("unknown category matches nothing", func(t *testing.T) {
		records, err := svc.Filter(ctx, "alice", finance.RawFilter{Category: "crypto"})
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("malformed amount", func(t *testing.T) {
		_, err := svc.Filter(ctx, "alice", finance.RawFilter{MinAmount: "ten"})
		assert.ErrorIs(t, err, finance.ErrInvalidParameter)
	})

	t.Run("malformed date", func(t *testing.T) {
		_, err := svc.Filter(ctx, "alice", finance.RawFilter{StartDate: "yesterday"})
		assert.ErrorIs(t, err, finance.ErrInvalidParameter)
	})
}

func TestSummary(t *testing.T) {
	svc := seededService(t, nil)

	summary, err := svc.Summary(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("3000").Equal(summary.TotalIncome))
	assert.True(t, decimal.RequireFromString("225.50").Equal(summary.TotalExpense))
	assert.True(t, decimal.RequireFromString("2774.50").Equal(summary.Balance))
}

func TestCategoryStats(t *testing.T) {
	svc := seededService(t, nil)
	ctx := context.Background()

	stats, err := svc.CategoryStats(ctx, "alice", finance.RawFilter{})
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, "salary", stats[0].Category)
	assert.Equal(t, "food", stats[1].Category)
	assert.True(t, decimal.RequireFromString("180.50").Equal(stats[1].Total))

	stats, err = svc.CategoryStats(ctx, "alice", finance.RawFilter{Year: "2024", Month: "6"})
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.True(t, decimal.RequireFromString("120.50").Equal(stats[1].Total))

	_, err = svc.CategoryStats(ctx, "alice", finance.RawFilter{Year: "twenty"})
	assert.ErrorIs(t, err, finance.ErrInvalidParameter)

	// Non-date dimensions are ignored here.
	_, err = svc.CategoryStats(ctx, "alice", finance.RawFilter{MinAmount: "abc"})
	assert.NoError(t, err)
}

func TestMonthlyStats(t *testing.T) {
	svc := seededService(t, nil)
	ctx := context.Background()

	stats, err := svc.MonthlyStats(ctx, "alice", "2024")
	require.NoError(t, err)
	require.Len(t, stats, 12)
	assert.True(t, decimal.RequireFromString("45").Equal(stats[4].TotalExpense))
	assert.True(t, decimal.RequireFromString("2879.50").Equal(stats[5].Balance))
	assert.True(t, stats[11].TotalExpense.IsZero())

	_, err = svc.MonthlyStats(ctx, "alice", "")
	assert.ErrorIs(t, err, finance.ErrMissingParameter)

	_, err = svc.MonthlyStats(ctx, "alice", "2024a")
	assert.ErrorIs(t, err, finance.ErrInvalidParameter)

	stats, err = svc.MonthlyStats(ctx, "alice", "99999999999")
	assert.ErrorIs(t, err, finance.ErrInvalidParameter)
	assert.Nil(t, stats)
}

func TestPeriodReport(t *testing.T) {
	svc := seededService(t, nil)
	ctx := context.Background()

	report, err := svc.PeriodReport(ctx, "alice", "2024-05-20T12:00:00Z", "2024-06-03T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-20T12:00:00Z", report.StartDate)
	assert.Equal(t, "2024-06-03T12:00:00Z", report.EndDate)
	assert.True(t, decimal.RequireFromString("3000").Equal(report.TotalIncome))
	assert.True(t, decimal.RequireFromString("165.50").Equal(report.TotalExpense), "both ends are inclusive")

	_, err = svc.PeriodReport(ctx, "alice", "2024-06-01", "")
	assert.ErrorIs(t, err, finance.ErrMissingParameter)

	_, err = svc.PeriodReport(ctx, "alice", "2024-06-30", "2024-06-01")
	assert.ErrorIs(t, err, finance.ErrInvalidParameter)

	_, err = svc.PeriodReport(ctx, "alice", "2024-06-01", "not-a-date")
	assert.ErrorIs(t, err, finance.ErrInvalidParameter)
}

func TestStoreFailuresBecomeStoreUnavailable(t *testing.T) {
	svc := newTestService(t, failingRepository{}, nil)
	ctx := context.Background()

	_, err := svc.ListAll(ctx, "alice")
	assert.ErrorIs(t, err, finance.ErrStoreUnavailable)

	_, err = svc.Summary(ctx, "alice")
	assert.ErrorIs(t, err, finance.ErrStoreUnavailable)

	_, err = svc.CategoryStats(ctx, "alice", finance.RawFilter{})
	assert.ErrorIs(t, err, finance.ErrStoreUnavailable)

	err = svc.Delete(ctx, "alice", "r1")
	assert.ErrorIs(t, err, finance.ErrStoreUnavailable)
}

func TestValidationPrecedesStoreAccess(t *testing.T) {
	svc := newTestService(t, failingRepository{}, nil)
	ctx := context.Background()

	_, err := svc.MonthlyStats(ctx, "alice", "")
	assert.ErrorIs(t, err, finance.ErrMissingParameter)

	_, err = svc.MonthlyStats(ctx, "alice", "99999999999")
	assert.ErrorIs(t, err, finance.ErrInvalidParameter)

	_, err = svc.PeriodReport(ctx, "alice", "2024-02-01", "2024-01-01")
	assert.ErrorIs(t, err, finance.ErrInvalidParameter)

	_, err = svc.Create(ctx, "alice", finance.CreateRecordRequest{Title: "x", Amount: amount("-1"), Type: "expense", Category: "food"})
	assert.ErrorIs(t, err, finance.ErrInvalidRecord)
}

func TestAmountLimitsAgreeAcrossStores(t *testing.T) {
	cases := []struct {
		amount string
		valid  bool
	}{
		{"0", true},
		{"12.3456", true},
		{"12.34560000", true},
		{"9999999999999999.9999", true},
		{"0.00005", false},
		{"12.34567", false},
		{"10000000000000000", false},
		{"-1", false},
	}

	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			req := finance.CreateRecordRequest{Title: "x", Amount: amount(tc.amount), Type: "expense", Category: "food"}

			memorySvc := newTestService(t, financeRepository.NewMemory(discardLogger()), nil)
			created, memErr := memorySvc.Create(context.Background(), "alice", req)

			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			if tc.valid {
				mock.ExpectExec("INSERT INTO finance_records").WillReturnResult(sqlmock.NewResult(0, 1))
			}
			postgresSvc := newTestService(t, financeRepository.New(sqlx.NewDb(db, "postgres"), discardLogger()), nil)
			_, pgErr := postgresSvc.Create(context.Background(), "alice", req)

			if tc.valid {
				require.NoError(t, memErr)
				require.NoError(t, pgErr)
				assert.True(t, created.Amount.Equal(created.Amount.Round(entity.AmountScale)))
			} else {
				assert.ErrorIs(t, memErr, finance.ErrInvalidRecord)
				assert.ErrorIs(t, pgErr, finance.ErrInvalidRecord)
			}
			assert.NoError(t, mock.ExpectationsWereMet())

			_, err = memorySvc.Update(context.Background(), "alice", "missing", finance.UpdateRecordRequest{Amount: amount(tc.amount)})
			if tc.valid {
				assert.ErrorIs(t, err, finance.ErrRecordNotFound)
			} else {
				assert.ErrorIs(t, err, finance.ErrInvalidRecord)
			}
		})
	}
}

func TestCreateUpdateDelete(t *testing.T) {
	svc := seededService(t, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", finance.CreateRecordRequest{
		Title:    "Pharmacy",
		Amount:   amount("12.30"),
		Type:     "expense",
		Category: "health",
	})
	require.NoError(t, err)
	assert.Len(t, created.ID, 26)
	assert.Equal(t, fixedNow, created.CreatedAt)
	assert.Equal(t, "alice", created.UserID)

	_, err = svc.Create(ctx, "alice", finance.CreateRecordRequest{Title: "x", Amount: amount("1"), Type: "gift", Category: "food"})
	assert.ErrorIs(t, err, finance.ErrInvalidRecord)

	_, err = svc.Create(ctx, "alice", finance.CreateRecordRequest{Title: "x", Type: "income", Category: "food"})
	assert.ErrorIs(t, err, finance.ErrInvalidRecord)

	newTitle := "Pharmacy and vitamins"
	updated, err := svc.Update(ctx, "alice", created.ID, finance.UpdateRecordRequest{Title: &newTitle, Amount: amount("20")})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, entity.CategoryHealth, updated.Category)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	_, err = svc.Update(ctx, "bob", created.ID, finance.UpdateRecordRequest{Title: &newTitle})
	assert.ErrorIs(t, err, finance.ErrRecordNotFound)

	_, err = svc.Update(ctx, "alice", "missing", finance.UpdateRecordRequest{Title: &newTitle})
	assert.ErrorIs(t, err, finance.ErrRecordNotFound)

	badType := "loan"
	_, err = svc.Update(ctx, "alice", created.ID, finance.UpdateRecordRequest{Type: &badType})
	assert.ErrorIs(t, err, finance.ErrInvalidRecord)

	assert.ErrorIs(t, svc.Delete(ctx, "bob", created.ID), finance.ErrRecordNotFound)
	require.NoError(t, svc.Delete(ctx, "alice", created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, "alice", created.ID), finance.ErrRecordNotFound)
}

func TestStatsCache(t *testing.T) {
	t.Run("writes invalidate cached stats", func(t *testing.T) {
		cache := newMemoryCache()
		svc := seededService(t, cache)
		ctx := context.Background()

		first, err := svc.Summary(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, cache.sets)

		again, err := svc.Summary(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, first.Balance.Equal(again.Balance))
		assert.Equal(t, 1, cache.sets, "second read is served from cache")

		_, err = svc.Create(ctx, "alice", finance.CreateRecordRequest{Title: "Bonus", Amount: amount("100"), Type: "income", Category: "salary"})
		require.NoError(t, err)

		after, err := svc.Summary(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, first.Balance.Add(decimal.NewFromInt(100)).Equal(after.Balance))
	})

	t.Run("cached category stats round trip", func(t *testing.T) {
		cache := newMemoryCache()
		svc := seededService(t, cache)
		ctx := context.Background()

		fresh, err := svc.CategoryStats(ctx, "alice", finance.RawFilter{})
		require.NoError(t, err)
		cached, err := svc.CategoryStats(ctx, "alice", finance.RawFilter{})
		require.NoError(t, err)
		require.Len(t, cached, len(fresh))
		for i := range fresh {
			assert.Equal(t, fresh[i].Category, cached[i].Category)
			assert.True(t, fresh[i].Total.Equal(cached[i].Total))
		}
	})

	t.Run("cache failure falls back to the store", func(t *testing.T) {
		cache := newMemoryCache()
		cache.fail = true
		svc := seededService(t, cache)

		stats, err := svc.MonthlyStats(context.Background(), "alice", "2024")
		require.NoError(t, err)
		assert.Len(t, stats, 12)

		_, err = svc.Create(context.Background(), "alice", finance.CreateRecordRequest{Title: "t", Amount: amount("1"), Type: "income", Category: "others"})
		assert.NoError(t, err)
	})
}

func TestGroupKeysAgree(t *testing.T) {
	svc := seededService(t, nil)
	client, err := svc.financeRepository.NewClient(false)
	require.NoError(t, err)

	records, err := svc.ListAll(context.Background(), "alice")
	require.NoError(t, err)

	groups, err := client.Finance.Aggregate(context.Background(), query.OwnerPredicate("alice"), query.GroupByType)
	require.NoError(t, err)
	summary := query.Summarize(records)
	require.Len(t, groups, 2)
	assert.True(t, summary.TotalIncome.Equal(groups[0].Total))
	assert.True(t, summary.TotalExpense.Equal(groups[1].Total))
}
