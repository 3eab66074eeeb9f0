package financeService

import (
	"ProjectFinance/internal/api/finance"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// storeError passes domain outcomes through and folds every other adapter
// failure into ErrStoreUnavailable.
func (s *financeService) storeError(requestID string, operation string, err error) error {
	if errors.Is(err, finance.ErrRecordNotFound) || errors.Is(err, finance.ErrInvalidParameter) {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"operation":  operation,
		"error":      err.Error(),
	}).Error("Record store failure")

	return fmt.Errorf("%w: %w", finance.ErrStoreUnavailable, err)
}
