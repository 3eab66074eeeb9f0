package financeRepository

import (
	"ProjectFinance/internal/api/finance"
	"ProjectFinance/internal/api/finance/query"
	"ProjectFinance/internal/entity"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// NewMemory returns a Repository that keeps records in process memory. It
// evaluates predicates with query.Predicate.Match. Transactions are not
// supported; Commit and Rollback are no-ops.
func NewMemory(log *logrus.Logger) Repository {
	return &memoryRepository{
		log:     log,
		records: make(map[string]entity.FinanceRecord),
	}
}

type memoryRepository struct {
	mu      sync.RWMutex
	log     *logrus.Logger
	records map[string]entity.FinanceRecord
}

func (m *memoryRepository) NewClient(tx bool) (Client, error) {
	noop := func() error { return nil }
	return Client{
		Finance:  m,
		Commit:   noop,
		Rollback: noop,
	}, nil
}

func (m *memoryRepository) CreateRecord(_ context.Context, record entity.FinanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[record.ID]; exists {
		return fmt.Errorf("duplicate record id %s", record.ID)
	}
	m.records[record.ID] = record
	return nil
}

func (m *memoryRepository) GetRecordByID(_ context.Context, id string) (entity.FinanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return entity.FinanceRecord{}, finance.ErrRecordNotFound
	}
	return record, nil
}

func (m *memoryRepository) UpdateRecord(_ context.Context, record entity.FinanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.records[record.ID]
	if !ok || stored.UserID != record.UserID {
		return finance.ErrRecordNotFound
	}

	stored.Title = record.Title
	stored.Amount = record.Amount
	stored.Type = record.Type
	stored.Category = record.Category
	stored.UpdatedAt = record.UpdatedAt
	m.records[record.ID] = stored
	return nil
}

func (m *memoryRepository) DeleteRecord(_ context.Context, id string, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.records[id]
	if !ok || stored.UserID != userID {
		return finance.ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

// Find returns matches newest first; ties fall back to id order.
func (m *memoryRepository) Find(_ context.Context, predicate query.Predicate) ([]entity.FinanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]entity.FinanceRecord, 0)
	for _, record := range m.records {
		if predicate.Match(record) {
			result = append(result, record)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (m *memoryRepository) Aggregate(_ context.Context, predicate query.Predicate, key query.GroupKey) ([]query.GroupTotal, error) {
	if !key.IsValid() {
		return nil, fmt.Errorf("%w: unsupported group key %q", finance.ErrInvalidParameter, key)
	}

	m.mu.RLock()
	totals := make(map[string]decimal.Decimal)
	for _, record := range m.records {
		if !predicate.Match(record) {
			continue
		}
		k := query.GroupValue(record, key)
		totals[k] = totals[k].Add(record.Amount)
	}
	m.mu.RUnlock()

	groups := make([]query.GroupTotal, 0, len(totals))
	for k, total := range totals {
		groups = append(groups, query.GroupTotal{Key: k, Total: total})
	}

	sort.Slice(groups, func(i, j int) bool {
		if !groups[i].Total.Equal(groups[j].Total) {
			return groups[i].Total.GreaterThan(groups[j].Total)
		}
		return groups[i].Key < groups[j].Key
	})

	return groups, nil
}
