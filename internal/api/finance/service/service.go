package financeService

import (
	"ProjectFinance/internal/api/finance"
	"ProjectFinance/internal/api/finance/query"
	financeRepository "ProjectFinance/internal/api/finance/repository"
	"ProjectFinance/internal/entity"
	"ProjectFinance/pkg/redis"
	"ProjectFinance/pkg/utils"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IFinanceService interface {
	ListAll(ctx context.Context, ownerID string) ([]entity.FinanceRecord, error)
	Filter(ctx context.Context, ownerID string, raw finance.RawFilter) ([]entity.FinanceRecord, error)
	Summary(ctx context.Context, ownerID string) (query.Summary, error)
	CategoryStats(ctx context.Context, ownerID string, raw finance.RawFilter) ([]query.CategoryTotal, error)
	MonthlyStats(ctx context.Context, ownerID string, year string) ([]query.MonthlyStat, error)
	PeriodReport(ctx context.Context, ownerID string, startDate string, endDate string) (query.PeriodReport, error)
	Create(ctx context.Context, ownerID string, req finance.CreateRecordRequest) (entity.FinanceRecord, error)
	Update(ctx context.Context, ownerID string, id string, req finance.UpdateRecordRequest) (entity.FinanceRecord, error)
	Delete(ctx context.Context, ownerID string, id string) error
}

type financeService struct {
	log               *logrus.Logger
	financeRepository financeRepository.Repository
	cache             redis.IRedis
	cacheTTL          time.Duration
	utils             utils.IUtils
	now               func() time.Time
}

// NewFinanceService wires the record store and an optional stats cache. A nil
// cache disables caching.
func NewFinanceService(log *logrus.Logger, fr financeRepository.Repository, cache redis.IRedis, cacheTTL time.Duration, utils utils.IUtils) IFinanceService {
	return &financeService{
		log:               log,
		financeRepository: fr,
		cache:             cache,
		cacheTTL:          cacheTTL,
		utils:             utils,
		now:               time.Now,
	}
}
