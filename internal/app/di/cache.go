package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	listingusecase "marketplace_backend/internal/feature/listing/usecase"
	"marketplace_backend/internal/platform/cache"
)

// NewListingRepository wraps inner with the Redis offer cache.
// Without Redis it returns inner unchanged.
func NewListingRepository(rdb *redis.Client, ttl time.Duration, inner listingusecase.ListingRepository) listingusecase.ListingRepository {
	if rdb == nil {
		return inner
	}
	return cache.NewCachingListingRepository(rdb, ttl, inner, "offers")
}
