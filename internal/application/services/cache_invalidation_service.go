package services

import (
	"context"
	"fmt"
	"log"

	"github.com/ruangkita/reservation-service/internal/domain/providers"
)

// CacheInvalidationService drops cached HTTP responses when the underlying
// facility data changes. Facility mutations all happen in-process, so the
// invalidation is called directly from the facility service rather than
// driven off the event bus.
type CacheInvalidationService struct {
	cache providers.CacheProvider
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider) *CacheInvalidationService {
	return &CacheInvalidationService{cache: cache}
}

// InvalidateFacilityCaches invalidates the cached responses touched by a
// facility mutation: the facility's own detail responses plus every cached
// list, since ordering and filters make list membership unpredictable.
func (s *CacheInvalidationService) InvalidateFacilityCaches(ctx context.Context, facilityID string) error {
	patterns := []string{
		fmt.Sprintf("http:cache:*facilities/%s*", facilityID),
		"http:cache:*facilities?*",
		"http:cache:*facilities",
	}

	for _, pattern := range patterns {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("failed to invalidate pattern %s: %w", pattern, err)
		}
	}

	log.Printf("Invalidated facility caches for %s", facilityID)
	return nil
}
