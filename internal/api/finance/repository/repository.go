package financeRepository

import (
	"ProjectFinance/internal/api/finance/query"
	"ProjectFinance/internal/entity"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

// FinanceStore is the record store adapter. Every read is driven by an
// owner-scoped query.Predicate.
type FinanceStore interface {
	CreateRecord(ctx context.Context, record entity.FinanceRecord) error
	GetRecordByID(ctx context.Context, id string) (entity.FinanceRecord, error)
	UpdateRecord(ctx context.Context, record entity.FinanceRecord) error
	DeleteRecord(ctx context.Context, id string, userID string) error
	Find(ctx context.Context, predicate query.Predicate) ([]entity.FinanceRecord, error)
	Aggregate(ctx context.Context, predicate query.Predicate, key query.GroupKey) ([]query.GroupTotal, error)
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		var err error
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Finance:  &financeRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Finance FinanceStore

	Commit   func() error
	Rollback func() error
}

type financeRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
