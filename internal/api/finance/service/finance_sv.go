package financeService

import (
	"ProjectFinance/internal/api/finance"
	"ProjectFinance/internal/api/finance/query"
	"ProjectFinance/internal/entity"
	contextPkg "ProjectFinance/pkg/context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *financeService) ListAll(ctx context.Context, ownerID string) ([]entity.FinanceRecord, error) {
	return s.find(ctx, "ListAll", query.OwnerPredicate(ownerID))
}

func (s *financeService) Filter(ctx context.Context, ownerID string, raw finance.RawFilter) ([]entity.FinanceRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)

	criteria, err := query.ParseCriteria(raw)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid filter parameters")
		return nil, err
	}

	dateRange := query.ResolveDateRange(criteria, s.now())
	return s.find(ctx, "Filter", query.BuildPredicate(ownerID, criteria, dateRange))
}

func (s *financeService) find(ctx context.Context, operation string, predicate query.Predicate) ([]entity.FinanceRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.financeRepository.NewClient(false)
	if err != nil {
		return nil, s.storeError(requestID, operation, err)
	}

	records, err := repo.Finance.Find(ctx, predicate)
	if err != nil {
		return nil, s.storeError(requestID, operation, err)
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"operation":  operation,
		"count":      len(records),
	}).Debug("Records fetched")

	return records, nil
}

func (s *financeService) Create(ctx context.Context, ownerID string, req finance.CreateRecordRequest) (entity.FinanceRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if req.Amount == nil {
		return entity.FinanceRecord{}, fmt.Errorf("%w: amount is required", finance.ErrInvalidRecord)
	}

	now := s.now().UTC()
	ULID, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return entity.FinanceRecord{}, err
	}

	record := entity.FinanceRecord{
		ID:        ULID,
		UserID:    ownerID,
		Title:     req.Title,
		Amount:    *req.Amount,
		Type:      entity.RecordType(req.Type),
		Category:  entity.Category(req.Category),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := record.Validate(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid finance record")
		return entity.FinanceRecord{}, err
	}

	repo, err := s.financeRepository.NewClient(false)
	if err != nil {
		return entity.FinanceRecord{}, s.storeError(requestID, "Create", err)
	}

	if err := repo.Finance.CreateRecord(ctx, record); err != nil {
		return entity.FinanceRecord{}, s.storeError(requestID, "Create", err)
	}

	s.invalidateCache(ctx, requestID, ownerID)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"record_id":  record.ID,
	}).Info("Finance record created")

	return record, nil
}

func (s *financeService) Update(ctx context.Context, ownerID string, id string, req finance.UpdateRecordRequest) (entity.FinanceRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if err := validateUpdate(req); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid finance record update")
		return entity.FinanceRecord{}, err
	}

	repo, err := s.financeRepository.NewClient(true)
	if err != nil {
		return entity.FinanceRecord{}, s.storeError(requestID, "Update", err)
	}
	defer repo.Rollback()

	record, err := repo.Finance.GetRecordByID(ctx, id)
	if err != nil {
		return entity.FinanceRecord{}, s.storeError(requestID, "Update", err)
	}

	if record.UserID != ownerID {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"record_id":  id,
		}).Warn("Update of a record owned by another user")
		return entity.FinanceRecord{}, finance.ErrRecordNotFound
	}

	if req.Title != nil {
		record.Title = *req.Title
	}
	if req.Amount != nil {
		record.Amount = *req.Amount
	}
	if req.Type != nil {
		record.Type = entity.RecordType(*req.Type)
	}
	if req.Category != nil {
		record.Category = entity.Category(*req.Category)
	}
	record.UpdatedAt = s.now().UTC()

	if err := record.Validate(); err != nil {
		return entity.FinanceRecord{}, err
	}

	if err := repo.Finance.UpdateRecord(ctx, record); err != nil {
		return entity.FinanceRecord{}, s.storeError(requestID, "Update", err)
	}

	if err := repo.Commit(); err != nil {
		return entity.FinanceRecord{}, s.storeError(requestID, "Update", err)
	}

	s.invalidateCache(ctx, requestID, ownerID)

	return record, nil
}

func (s *financeService) Delete(ctx context.Context, ownerID string, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.financeRepository.NewClient(true)
	if err != nil {
		return s.storeError(requestID, "Delete", err)
	}
	defer repo.Rollback()

	if err := repo.Finance.DeleteRecord(ctx, id, ownerID); err != nil {
		return s.storeError(requestID, "Delete", err)
	}

	if err := repo.Commit(); err != nil {
		return s.storeError(requestID, "Delete", err)
	}

	s.invalidateCache(ctx, requestID, ownerID)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"record_id":  id,
	}).Info("Finance record deleted")

	return nil
}

func validateUpdate(req finance.UpdateRecordRequest) error {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", finance.ErrInvalidRecord)
	}
	if req.Amount != nil {
		if err := entity.ValidateAmount(*req.Amount); err != nil {
			return err
		}
	}
	if req.Type != nil && !entity.RecordType(*req.Type).IsValid() {
		return fmt.Errorf("%w: type must be income or expense", finance.ErrInvalidRecord)
	}
	if req.Category != nil && !entity.Category(*req.Category).IsValid() {
		return fmt.Errorf("%w: unknown category %q", finance.ErrInvalidRecord, *req.Category)
	}
	return nil
}
