package assistant

import (
	"context"
	"fmt"
	"log"
	"time"

	"waygen/internal/models"
)

// Read-path responses are cached briefly; every completed turn
// invalidates the affected keys. All helpers tolerate a nil cache.
const cacheTTL = time.Minute

func historyCacheKey(sessionID int64) string {
	return fmt.Sprintf("waygen:history:%d", sessionID)
}

func sessionsCacheKey(userID int64) string {
	return fmt.Sprintf("waygen:sessions:%d", userID)
}

func (s *Service) invalidateTurnCache(ctx context.Context, session *models.Session) {
	keys := []string{historyCacheKey(session.ID)}
	if session.UserID != nil {
		keys = append(keys, sessionsCacheKey(*session.UserID))
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		logCacheError("invalidate", err)
	}
}

func logCacheError(op string, err error) {
	log.Printf("cache: %s failed: %v", op, err)
}
