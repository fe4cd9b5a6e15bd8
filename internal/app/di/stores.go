// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"log/slog"

	authentity "marketplace_backend/internal/feature/auth/domain/entity"
	authadapters "marketplace_backend/internal/feature/auth/adapters"
	authusecase "marketplace_backend/internal/feature/auth/usecase"
	listingadapters "marketplace_backend/internal/feature/listing/adapters"
	listingusecase "marketplace_backend/internal/feature/listing/usecase"
	"marketplace_backend/internal/platform/db"
	platformmongo "marketplace_backend/internal/platform/mongo"
)

// DriverMongo selects the MongoDB repositories.
const DriverMongo = "mongo"

// Stores holds the repositories for the configured STORE_DRIVER.
type Stores struct {
	Users    authusecase.UserRepository
	Listings listingusecase.ListingRepository
	close    func(context.Context) error
}

// Close releases the underlying connection.
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// NewStores opens the store selected by dbCfg.Driver. The SQL drivers migrate
// the schema; mongo creates its indexes.
func NewStores(ctx context.Context, dbCfg db.Config, mongoCfg platformmongo.Config) (*Stores, error) {
	if dbCfg.Driver == DriverMongo {
		return newMongoStores(ctx, mongoCfg)
	}
	return newGormStores(dbCfg)
}

func newGormStores(cfg db.Config) (*Stores, error) {
	gdb, err := db.OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == db.DriverSQLite {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}
	if err := gdb.AutoMigrate(&authentity.User{}, &listingadapters.ListingModel{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	slog.Info("SQL store ready", "driver", cfg.Driver)

	return &Stores{
		Users:    authadapters.NewUserGorm(gdb),
		Listings: listingadapters.NewListingGorm(gdb),
		close:    func(context.Context) error { return sqlDB.Close() },
	}, nil
}

func newMongoStores(ctx context.Context, cfg platformmongo.Config) (*Stores, error) {
	mdb, err := platformmongo.NewDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	users := authadapters.NewUserMongo(mdb)
	listings := listingadapters.NewListingMongo(mdb)
	for _, ensure := range []func(context.Context) error{users.EnsureIndexes, listings.EnsureIndexes} {
		if err := ensure(ctx); err != nil {
			_ = mdb.Client().Disconnect(ctx)
			return nil, err
		}
	}

	return &Stores{
		Users:    users,
		Listings: listings,
		close:    mdb.Client().Disconnect,
	}, nil
}
