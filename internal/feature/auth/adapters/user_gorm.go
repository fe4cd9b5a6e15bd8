// Package adapters provides the repository implementations for the auth feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"marketplace_backend/internal/feature/auth/domain/entity"
	"marketplace_backend/internal/feature/auth/usecase"
	"marketplace_backend/internal/platform/db"
)

// userGorm is the gorm implementation of usecase.UserRepository.
// It runs on PostgreSQL in production and SQLite in tests.
type userGorm struct {
	db *gorm.DB
}

var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm creates a repository on the given connection.
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create inserts u. A unique index violation is reported as
// usecase.ErrEmailAlreadyRegistered or usecase.ErrUsernameTaken.
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	err := r.db.WithContext(ctx).Create(u).Error
	if err == nil {
		return nil
	}
	if !db.IsDuplicateKey(err) {
		return err
	}
	// The constraint name differs across drivers, so look up the winner instead.
	if _, findErr := r.FindByEmail(ctx, u.Email); findErr == nil {
		return usecase.ErrEmailAlreadyRegistered
	}
	if _, findErr := r.FindByUsername(ctx, u.Username); findErr == nil {
		return usecase.ErrUsernameTaken
	}
	return err
}

// FindByEmail returns usecase.ErrUserNotFound when no user matches.
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findBy(ctx, "email = ?", email)
}

// FindByUsername returns usecase.ErrUserNotFound when no user matches.
func (r *userGorm) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findBy(ctx, "username = ?", username)
}

// FindByToken returns usecase.ErrUserNotFound when no user matches.
func (r *userGorm) FindByToken(ctx context.Context, token string) (*entity.User, error) {
	return r.findBy(ctx, "token = ?", token)
}

func (r *userGorm) findBy(ctx context.Context, cond string, value string) (*entity.User, error) {
	if value == "" {
		return nil, usecase.ErrUserNotFound
	}
	var u entity.User
	if err := r.db.WithContext(ctx).Where(cond, value).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
