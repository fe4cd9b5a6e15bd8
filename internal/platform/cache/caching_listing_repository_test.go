package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedentity "marketplace_backend/internal/domain/entity"
	"marketplace_backend/internal/feature/listing/domain/entity"
	"marketplace_backend/internal/feature/listing/usecase"
)

// mockListingRepository is a mock implementation of usecase.ListingRepository.
type mockListingRepository struct {
	FindByIDFunc func(ctx context.Context, id string) (*entity.Listing, error)
	SearchFunc   func(ctx context.Context, q entity.ListingQuery) ([]entity.Listing, error)
	CreateFunc   func(ctx context.Context, l *entity.Listing) error
	UpdateFunc   func(ctx context.Context, l *entity.Listing) error
	DeleteFunc   func(ctx context.Context, id string) error
	callCount    int
}

func (m *mockListingRepository) FindByID(ctx context.Context, id string) (*entity.Listing, error) {
	m.callCount++
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, usecase.ErrListingNotFound
}

func (m *mockListingRepository) Search(ctx context.Context, q entity.ListingQuery) ([]entity.Listing, error) {
	m.callCount++
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	m.callCount++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, l)
	}
	return nil
}

func (m *mockListingRepository) Update(ctx context.Context, l *entity.Listing) error {
	m.callCount++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, l)
	}
	return nil
}

func (m *mockListingRepository) Delete(ctx context.Context, id string) error {
	m.callCount++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func testListing(id string) entity.Listing {
	return entity.Listing{
		ID:          id,
		Name:        "Velo " + id,
		Description: "city bike",
		Price:       120,
		Details:     entity.Details{Brand: "Peugeot", Condition: "used", Location: "Paris"},
		Image:       sharedentity.Image{URL: "https://img.example.com/offers/" + id + ".jpg", PublicID: "offers/" + id + ".jpg"},
		OwnerID:     "user-1",
		CreatedAt:   time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewCachingListingRepository(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		ttl           time.Duration
		namespace     string
		wantTTL       time.Duration
		wantNamespace string
	}{
		{name: "custom values", ttl: 10 * time.Minute, namespace: "custom", wantTTL: 10 * time.Minute, wantNamespace: "custom"},
		{name: "defaults", ttl: 0, namespace: "", wantTTL: 5 * time.Minute, wantNamespace: "offers"},
		{name: "negative ttl", ttl: -time.Second, namespace: "x", wantTTL: 5 * time.Minute, wantNamespace: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := NewCachingListingRepository(nil, tt.ttl, &mockListingRepository{}, tt.namespace)

			assert.Equal(t, tt.wantTTL, repo.ttl)
			assert.Equal(t, tt.wantNamespace, repo.namespace)
		})
	}
}

func TestCachingListingRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	ttl := 5 * time.Minute
	listing := testListing("o1")
	cachedJSON, err := json.Marshal(&listing)
	require.NoError(t, err)

	t.Run("cache hit", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		inner := &mockListingRepository{}
		repo := NewCachingListingRepository(db, ttl, inner, "offers")

		mock.ExpectGet("offers:id:o1").SetVal(string(cachedJSON))

		got, err := repo.FindByID(ctx, "o1")

		require.NoError(t, err)
		assert.Equal(t, "o1", got.ID)
		assert.Equal(t, "Velo o1", got.Name)
		assert.Equal(t, "Paris", got.Details.Location)
		assert.Equal(t, "offers/o1.jpg", got.Image.PublicID)
		assert.Equal(t, 0, inner.callCount, "inner repository should not be called on cache hit")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache miss stores the listing", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		inner := &mockListingRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.Listing, error) {
				l := listing
				return &l, nil
			},
		}
		repo := NewCachingListingRepository(db, ttl, inner, "offers")

		mock.ExpectGet("offers:id:o1").RedisNil()
		mock.ExpectSet("offers:id:o1", cachedJSON, ttl).SetVal("OK")

		got, err := repo.FindByID(ctx, "o1")

		require.NoError(t, err)
		assert.Equal(t, "o1", got.ID)
		assert.Equal(t, 1, inner.callCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found is not cached", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		inner := &mockListingRepository{}
		repo := NewCachingListingRepository(db, ttl, inner, "offers")

		mock.ExpectGet("offers:id:missing").RedisNil()

		got, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, usecase.ErrListingNotFound)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupted cache is deleted", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		inner := &mockListingRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.Listing, error) {
				l := listing
				return &l, nil
			},
		}
		repo := NewCachingListingRepository(db, ttl, inner, "offers")

		mock.ExpectGet("offers:id:o1").SetVal("invalid json{")
		mock.ExpectDel("offers:id:o1").SetVal(1)
		mock.ExpectSet("offers:id:o1", cachedJSON, ttl).SetVal("OK")

		got, err := repo.FindByID(ctx, "o1")

		require.NoError(t, err)
		assert.Equal(t, "o1", got.ID)
		assert.Equal(t, 1, inner.callCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil redis bypasses cache", func(t *testing.T) {
		inner := &mockListingRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.Listing, error) {
				l := listing
				return &l, nil
			},
		}
		repo := NewCachingListingRepository(nil, ttl, inner, "offers")

		got, err := repo.FindByID(ctx, "o1")

		require.NoError(t, err)
		assert.Equal(t, "o1", got.ID)
		assert.Equal(t, 1, inner.callCount)
	})
}

func TestCachingListingRepository_Search(t *testing.T) {
	ctx := context.Background()
	ttl := 5 * time.Minute
	items := []entity.Listing{testListing("o1"), testListing("o2")}
	cachedJSON, err := json.Marshal(items)
	require.NoError(t, err)

	lo, hi := 10.0, 250.5
	query := entity.ListingQuery{
		Title:    "Velo Rouge",
		PriceMin: &lo,
		PriceMax: &hi,
		Sort:     entity.SortPriceAsc,
		Skip:     10,
		Limit:    10,
	}
	key := "offers:search:1:10:10:10:250.5:76656c6f20726f756765"

	t.Run("cache hit", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		inner := &mockListingRepository{}
		repo := NewCachingListingRepository(db, ttl, inner, "offers")

		mock.ExpectGet(key).SetVal(string(cachedJSON))

		got, err := repo.Search(ctx, query)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "o1", got[0].ID)
		assert.Equal(t, "o2", got[1].ID)
		assert.Equal(t, 0, inner.callCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache miss stores the page", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		var gotQuery entity.ListingQuery
		inner := &mockListingRepository{
			SearchFunc: func(ctx context.Context, q entity.ListingQuery) ([]entity.Listing, error) {
				gotQuery = q
				return items, nil
			},
		}
		repo := NewCachingListingRepository(db, ttl, inner, "offers")

		mock.ExpectGet(key).RedisNil()
		mock.ExpectSet(key, cachedJSON, ttl).SetVal("OK")

		got, err := repo.Search(ctx, query)

		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, query, gotQuery)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unbounded query key", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		inner := &mockListingRepository{
			SearchFunc: func(ctx context.Context, q entity.ListingQuery) ([]entity.Listing, error) {
				return []entity.Listing{}, nil
			},
		}
		repo := NewCachingListingRepository(db, ttl, inner, "offers")

		mock.ExpectGet("offers:search:0:0:10:-:-:").RedisNil()
		mock.ExpectSet("offers:search:0:0:10:-:-:", []byte("[]"), ttl).SetVal("OK")

		got, err := repo.Search(ctx, entity.ListingQuery{Limit: 10})

		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("titles differing only in separators get distinct keys", func(t *testing.T) {
		repo := NewCachingListingRepository(nil, ttl, &mockListingRepository{}, "offers")

		keys := map[string]string{}
		for _, title := range []string{"red bike", "red_bike", "red:bike", "Red Bike"} {
			keys[title] = repo.searchKey(entity.ListingQuery{Title: title, Limit: 10})
		}

		assert.NotEqual(t, keys["red bike"], keys["red_bike"])
		assert.NotEqual(t, keys["red bike"], keys["red:bike"])
		assert.NotEqual(t, keys["red_bike"], keys["red:bike"])
		assert.Equal(t, keys["red bike"], keys["Red Bike"], "matching ignores case")
	})

	t.Run("inner error is not cached", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		inner := &mockListingRepository{
			SearchFunc: func(ctx context.Context, q entity.ListingQuery) ([]entity.Listing, error) {
				return nil, errors.New("database error")
			},
		}
		repo := NewCachingListingRepository(db, ttl, inner, "offers")

		mock.ExpectGet(key).RedisNil()

		got, err := repo.Search(ctx, query)

		assert.Error(t, err)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCachingListingRepository_Writes(t *testing.T) {
	ctx := context.Background()
	ttl := 5 * time.Minute

	t.Run("create invalidates search pages", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		inner := &mockListingRepository{}
		repo := NewCachingListingRepository(db, ttl, inner, "offers")

		mock.ExpectScan(0, "offers:search:*", 200).SetVal([]string{"offers:search:a", "offers:search:b"}, 0)
		mock.ExpectDel("offers:search:a", "offers:search:b").SetVal(2)

		l := testListing("o1")
		err := repo.Create(ctx, &l)

		require.NoError(t, err)
		assert.Equal(t, 1, inner.callCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update invalidates the id and search pages", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		inner := &mockListingRepository{}
		repo := NewCachingListingRepository(db, ttl, inner, "offers")

		mock.ExpectDel("offers:id:o1").SetVal(1)
		mock.ExpectScan(0, "offers:search:*", 200).SetVal([]string{"offers:search:a"}, 7)
		mock.ExpectDel("offers:search:a").SetVal(1)
		mock.ExpectScan(7, "offers:search:*", 200).SetVal([]string{}, 0)

		l := testListing("o1")
		err := repo.Update(ctx, &l)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete invalidates the id and search pages", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		inner := &mockListingRepository{}
		repo := NewCachingListingRepository(db, ttl, inner, "offers")

		mock.ExpectDel("offers:id:o1").SetVal(1)
		mock.ExpectScan(0, "offers:search:*", 200).SetVal([]string{}, 0)

		err := repo.Delete(ctx, "o1")

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed write leaves the cache alone", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		inner := &mockListingRepository{
			UpdateFunc: func(ctx context.Context, l *entity.Listing) error {
				return usecase.ErrListingNotFound
			},
		}
		repo := NewCachingListingRepository(db, ttl, inner, "offers")

		l := testListing("o1")
		err := repo.Update(ctx, &l)

		assert.ErrorIs(t, err, usecase.ErrListingNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalidation failure does not fail the write", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		inner := &mockListingRepository{}
		repo := NewCachingListingRepository(db, ttl, inner, "offers")

		mock.ExpectDel("offers:id:o1").SetErr(errors.New("redis down"))
		mock.ExpectScan(0, "offers:search:*", 200).SetErr(errors.New("redis down"))

		err := repo.Delete(ctx, "o1")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil redis bypasses invalidation", func(t *testing.T) {
		inner := &mockListingRepository{}
		repo := NewCachingListingRepository(nil, ttl, inner, "offers")

		l := testListing("o1")
		require.NoError(t, repo.Create(ctx, &l))
		require.NoError(t, repo.Update(ctx, &l))
		require.NoError(t, repo.Delete(ctx, "o1"))
		assert.Equal(t, 3, inner.callCount)
	})
}

func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no special characters", input: "abc123", want: "abc123"},
		{name: "spaces replaced", input: "red bike", want: "red_bike"},
		{name: "colons replaced", input: "a:b", want: "a_b"},
		{name: "spaces and colons", input: "a b:c", want: "a_b_c"},
		{name: "empty string", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, safe(tt.input))
		})
	}
}
