// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"errors"

	"marketplace_backend/internal/shared/apperr"
)

// ErrUserNotFound is returned by repositories when no user matches the lookup.
// It never leaves the usecase layer.
var ErrUserNotFound = errors.New("user not found")

var (
	// ErrInvalidEmail is returned when signup is attempted without an email.
	ErrInvalidEmail = apperr.InvalidInput("Please enter a valid email")

	// ErrEmailAlreadyRegistered is returned when the email belongs to an existing user.
	// Repositories also return it when the unique index on email rejects an insert.
	ErrEmailAlreadyRegistered = apperr.Conflict("Email already registered")

	// ErrInvalidPassword is returned when the password is empty.
	ErrInvalidPassword = apperr.InvalidInput("Please enter a valid password")

	// ErrInvalidUsername is returned when the username is empty.
	ErrInvalidUsername = apperr.InvalidInput("Please enter a valid username")

	// ErrUsernameTaken is returned when the username belongs to an existing user.
	ErrUsernameTaken = apperr.Conflict("Username already taken")

	// ErrAvatarRequired is returned when signup carries no avatar image.
	ErrAvatarRequired = apperr.InvalidInput("Please upload an avatar")

	// ErrNoAccount is returned by Authenticate for an unknown email.
	ErrNoAccount = apperr.NotFound("No account found with this email address")

	// ErrPasswordIncorrect is returned by Authenticate when the digest does not match.
	ErrPasswordIncorrect = apperr.InvalidCredentials("Password is incorrect")

	// ErrUnauthorized is returned by ResolveToken for a missing or unknown token.
	ErrUnauthorized = apperr.Unauthorized("Unauthorized")
)
