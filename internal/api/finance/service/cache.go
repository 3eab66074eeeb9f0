package financeService

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func versionKey(ownerID string) string {
	return "finance:version:" + ownerID
}

// cacheKey builds a key under the owner's current version, so bumping the
// version orphans every stats entry of that owner. It returns "" when the
// cache is disabled or unreachable.
func (s *financeService) cacheKey(ctx context.Context, requestID string, ownerID string, kind string, params ...string) string {
	if s.cache == nil {
		return ""
	}

	version, err := s.cache.GetInt(ctx, versionKey(ownerID))
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to read cache version")
		return ""
	}

	key := fmt.Sprintf("finance:%s:%s:v%d", kind, ownerID, version)
	if len(params) > 0 {
		key += ":" + strings.Join(params, ":")
	}
	return key
}

func (s *financeService) readCache(ctx context.Context, requestID string, key string, dest interface{}) bool {
	if key == "" {
		return false
	}

	found, err := s.cache.GetObject(ctx, key, dest)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"key":        key,
			"error":      err.Error(),
		}).Warn("Failed to read stats cache")
		return false
	}

	if found {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"key":        key,
		}).Debug("Stats cache hit")
	}
	return found
}

func (s *financeService) writeCache(ctx context.Context, requestID string, key string, value interface{}) {
	if key == "" {
		return
	}

	if err := s.cache.SetObject(ctx, key, value, s.cacheTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"key":        key,
			"error":      err.Error(),
		}).Warn("Failed to write stats cache")
	}
}

func (s *financeService) invalidateCache(ctx context.Context, requestID string, ownerID string) {
	if s.cache == nil {
		return
	}

	if _, err := s.cache.Incr(ctx, versionKey(ownerID)); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"owner_id":   ownerID,
			"error":      err.Error(),
		}).Warn("Failed to bump cache version")
	}
}
