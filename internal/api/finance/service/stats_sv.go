package financeService

import (
	"ProjectFinance/internal/api/finance"
	"ProjectFinance/internal/api/finance/query"
	contextPkg "ProjectFinance/pkg/context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *financeService) Summary(ctx context.Context, ownerID string) (query.Summary, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var summary query.Summary
	key := s.cacheKey(ctx, requestID, ownerID, "summary")
	if s.readCache(ctx, requestID, key, &summary) {
		return summary, nil
	}

	records, err := s.find(ctx, "Summary", query.OwnerPredicate(ownerID))
	if err != nil {
		return query.Summary{}, err
	}

	summary = query.Summarize(records)
	s.writeCache(ctx, requestID, key, summary)

	return summary, nil
}

// CategoryStats groups amounts by category in the store. Only the date hints
// of raw are honoured; the other filter dimensions are ignored.
func (s *financeService) CategoryStats(ctx context.Context, ownerID string, raw finance.RawFilter) ([]query.CategoryTotal, error) {
	requestID := contextPkg.GetRequestID(ctx)

	criteria, err := query.ParseCriteria(finance.RawFilter{
		StartDate: raw.StartDate,
		EndDate:   raw.EndDate,
		Month:     raw.Month,
		Year:      raw.Year,
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid category stats parameters")
		return nil, err
	}

	dateRange := query.ResolveDateRange(criteria, s.now())

	var stats []query.CategoryTotal
	key := s.cacheKey(ctx, requestID, ownerID, "category", rangeCacheParam(dateRange))
	if s.readCache(ctx, requestID, key, &stats) {
		return stats, nil
	}

	repo, err := s.financeRepository.NewClient(false)
	if err != nil {
		return nil, s.storeError(requestID, "CategoryStats", err)
	}

	groups, err := repo.Finance.Aggregate(ctx, query.OwnerPredicate(ownerID).WithRange(dateRange), query.GroupByCategory)
	if err != nil {
		return nil, s.storeError(requestID, "CategoryStats", err)
	}

	stats = query.CategoryTotalsFromGroups(groups)
	s.writeCache(ctx, requestID, key, stats)

	return stats, nil
}

func (s *financeService) MonthlyStats(ctx context.Context, ownerID string, year string) ([]query.MonthlyStat, error) {
	requestID := contextPkg.GetRequestID(ctx)

	year = strings.TrimSpace(year)
	if year == "" {
		return nil, fmt.Errorf("%w: year is required", finance.ErrMissingParameter)
	}

	y, err := query.ParseYear(year)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"year":       year,
		}).Warn("Invalid year parameter")
		return nil, err
	}

	var stats []query.MonthlyStat
	key := s.cacheKey(ctx, requestID, ownerID, "monthly", strconv.Itoa(y))
	if s.readCache(ctx, requestID, key, &stats) {
		return stats, nil
	}

	records, err := s.find(ctx, "MonthlyStats", query.OwnerPredicate(ownerID).WithRange(query.YearRange(y)))
	if err != nil {
		return nil, err
	}

	stats = query.MonthlyStats(records)
	s.writeCache(ctx, requestID, key, stats)

	return stats, nil
}

func (s *financeService) PeriodReport(ctx context.Context, ownerID string, startDate string, endDate string) (query.PeriodReport, error) {
	if strings.TrimSpace(startDate) == "" || strings.TrimSpace(endDate) == "" {
		return query.PeriodReport{}, fmt.Errorf("%w: startDate and endDate are required", finance.ErrMissingParameter)
	}

	start, err := query.ParseTimestamp(startDate)
	if err != nil {
		return query.PeriodReport{}, err
	}
	end, err := query.ParseTimestamp(endDate)
	if err != nil {
		return query.PeriodReport{}, err
	}

	if start.After(end) {
		return query.PeriodReport{}, fmt.Errorf("%w: startDate is after endDate", finance.ErrInvalidParameter)
	}

	records, err := s.find(ctx, "PeriodReport", query.OwnerPredicate(ownerID).WithRange(query.InclusiveRange(start, end)))
	if err != nil {
		return query.PeriodReport{}, err
	}

	return query.NewPeriodReport(startDate, endDate, records), nil
}

func rangeCacheParam(r query.DateRange) string {
	bound := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return strconv.FormatInt(t.UnixNano(), 10)
	}

	suffix := "x"
	if r.ToInclusive {
		suffix = "i"
	}
	return bound(r.From) + "-" + bound(r.To) + suffix
}
