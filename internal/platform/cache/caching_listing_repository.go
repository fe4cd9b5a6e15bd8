// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"marketplace_backend/internal/feature/listing/domain/entity"
	"marketplace_backend/internal/feature/listing/usecase"
)

// CachingListingRepository decorates a ListingRepository with Redis caching.
// Lookups by id and search pages are cached; every write drops the affected
// id entry and all search pages.
type CachingListingRepository struct {
	inner     usecase.ListingRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.ListingRepository = (*CachingListingRepository)(nil)

// NewCachingListingRepository decorates inner with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "offers".
// A nil rdb disables caching.
func NewCachingListingRepository(rdb *redis.Client, ttl time.Duration, inner usecase.ListingRepository, namespace string) *CachingListingRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "offers"
	}
	return &CachingListingRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

func (c *CachingListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	if err := c.inner.Create(ctx, l); err != nil {
		return err
	}
	c.invalidate(ctx, "")
	return nil
}

func (c *CachingListingRepository) Update(ctx context.Context, l *entity.Listing) error {
	if err := c.inner.Update(ctx, l); err != nil {
		return err
	}
	c.invalidate(ctx, l.ID)
	return nil
}

func (c *CachingListingRepository) Delete(ctx context.Context, id string) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// FindByID checks the cache first. Misses are not cached.
func (c *CachingListingRepository) FindByID(ctx context.Context, id string) (*entity.Listing, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.idKey(id)
	var cached entity.Listing
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	l, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, l)
	return l, nil
}

// Search checks the cache first, then falls back to the inner repository.
func (c *CachingListingRepository) Search(ctx context.Context, q entity.ListingQuery) ([]entity.Listing, error) {
	if c.rdb == nil {
		return c.inner.Search(ctx, q)
	}

	key := c.searchKey(q)
	var cached []entity.Listing
	if c.get(ctx, key, &cached) {
		return cached, nil
	}

	out, err := c.inner.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, out)
	return out, nil
}

// get decodes the cached value into dst. A corrupted entry is deleted.
func (c *CachingListingRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

func (c *CachingListingRepository) set(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

// invalidate drops the id entry (when id is set) and every search page.
func (c *CachingListingRepository) invalidate(ctx context.Context, id string) {
	if c.rdb == nil {
		return
	}
	if id != "" {
		if err := c.rdb.Del(ctx, c.idKey(id)).Err(); err != nil {
			slog.Warn("offer cache invalidation failed", "offer_id", id, "error", err)
		}
	}
	if err := c.deleteByPattern(ctx, c.namespace+":search:*"); err != nil {
		slog.Warn("offer search cache invalidation failed", "error", err)
	}
}

func (c *CachingListingRepository) idKey(id string) string {
	return fmt.Sprintf("%s:id:%s", c.namespace, safe(id))
}

// searchKey encodes every query field. The title is lower-cased because matching
// ignores case, then hex-encoded so distinct titles never share a key.
func (c *CachingListingRepository) searchKey(q entity.ListingQuery) string {
	return fmt.Sprintf("%s:search:%d:%d:%d:%s:%s:%s",
		c.namespace,
		q.Sort,
		q.Skip,
		q.Limit,
		bound(q.PriceMin),
		bound(q.PriceMax),
		hex.EncodeToString([]byte(strings.ToLower(q.Title))),
	)
}

func bound(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingListingRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
