package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	sharedentity "marketplace_backend/internal/domain/entity"
	"marketplace_backend/internal/feature/auth/domain/entity"
	"marketplace_backend/internal/shared/apperr"
)

const (
	// SaltLength is the number of characters of the per-user salt.
	SaltLength = 16
	// TokenLength is the number of characters of the bearer token.
	TokenLength = 64
	// avatarFolder is the image store folder prefix for avatars, followed by the user id.
	avatarFolder = "avatars"
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user.
	// A unique index violation is reported as ErrEmailAlreadyRegistered or ErrUsernameTaken.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail returns ErrUserNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByUsername returns ErrUserNotFound when no user has the username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByToken returns ErrUserNotFound when no user holds the token.
	FindByToken(ctx context.Context, token string) (*entity.User, error)
}

// ImageStore stores uploaded pictures under a folder key.
type ImageStore interface {
	Store(ctx context.Context, data []byte, folder string) (sharedentity.Image, error)
	Destroy(ctx context.Context, publicID string) error
}

// PasswordDigester computes and verifies salted password digests.
type PasswordDigester interface {
	Digest(password, salt string) (string, error)
	Verify(password, salt, hash string) bool
}

// RegisterInput carries the signup form.
type RegisterInput struct {
	Email      string
	Username   string
	Password   string
	Newsletter bool
	Avatar     []byte
}

// Session is returned by Register and Authenticate. It never contains the hash or the salt.
type Session struct {
	ID      string
	Token   string
	Account entity.Account
}

// authUsecase registers and authenticates users.
type authUsecase struct {
	users    UserRepository
	images   ImageStore
	digester PasswordDigester
	random   func(n int) (string, error)
	newID    func() string
}

// NewAuthUsecase creates the credential service. random generates salts and tokens.
func NewAuthUsecase(users UserRepository, images ImageStore, digester PasswordDigester, random func(n int) (string, error)) *authUsecase {
	return &authUsecase{
		users:    users,
		images:   images,
		digester: digester,
		random:   random,
		newID:    uuid.NewString,
	}
}

// Register creates a user after checking, in order: email uniqueness, password,
// username presence, username uniqueness. The first failing check wins and no
// external call is made before all checks pass.
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if in.Email == "" {
		return nil, ErrInvalidEmail
	}
	if _, err := u.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailAlreadyRegistered
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, apperr.Server(err)
	}
	if in.Password == "" {
		return nil, ErrInvalidPassword
	}
	if in.Username == "" {
		return nil, ErrInvalidUsername
	}
	if _, err := u.users.FindByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, apperr.Server(err)
	}
	if len(in.Avatar) == 0 {
		return nil, ErrAvatarRequired
	}

	salt, err := u.random(SaltLength)
	if err != nil {
		return nil, apperr.Server(fmt.Errorf("failed to generate salt: %w", err))
	}
	hash, err := u.digester.Digest(in.Password, salt)
	if err != nil {
		return nil, apperr.Server(err)
	}
	token, err := u.random(TokenLength)
	if err != nil {
		return nil, apperr.Server(fmt.Errorf("failed to generate token: %w", err))
	}

	user := &entity.User{
		ID:         u.newID(),
		Email:      in.Email,
		Username:   in.Username,
		Newsletter: in.Newsletter,
		Salt:       salt,
		Hash:       hash,
		Token:      token,
	}

	avatar, err := u.images.Store(ctx, in.Avatar, avatarFolder+"/"+user.ID)
	if err != nil {
		return nil, apperr.Server(err)
	}
	user.AvatarURL = avatar.URL

	if err := u.users.Create(ctx, user); err != nil {
		if destroyErr := u.images.Destroy(ctx, avatar.PublicID); destroyErr != nil {
			slog.Warn("discarding avatar of unsaved user failed", "public_id", avatar.PublicID, "error", destroyErr)
		}
		return nil, apperr.Server(err)
	}

	return newSession(user), nil
}

// Authenticate verifies email and password against the stored digest.
// Unknown email and wrong password are reported with distinct errors.
func (u *authUsecase) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrNoAccount
		}
		return nil, apperr.Server(err)
	}

	if !u.digester.Verify(password, user.Salt, user.Hash) {
		return nil, ErrPasswordIncorrect
	}

	return newSession(user), nil
}

// ResolveToken returns the user holding token.
func (u *authUsecase) ResolveToken(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	user, err := u.users.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, apperr.Server(err)
	}
	return user, nil
}

func newSession(user *entity.User) *Session {
	return &Session{
		ID:      user.ID,
		Token:   user.Token,
		Account: user.Account(),
	}
}
