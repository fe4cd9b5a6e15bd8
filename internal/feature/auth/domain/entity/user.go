// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered marketplace account.
// It carries the salted password hash and the bearer token issued at signup.
type User struct {
	// ID is assigned before persistence so the avatar can be stored under it.
	ID string `gorm:"primaryKey;size:36"`

	// Email must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Username is the public account name. Unique and non-empty.
	Username string `gorm:"uniqueIndex;size:255;not null"`

	// AvatarURL is the retrieval URL of the uploaded avatar.
	AvatarURL string `gorm:"size:1024"`

	// Newsletter is informational only.
	Newsletter bool `gorm:"not null;default:false"`

	// Salt is generated at signup and never changes.
	Salt string `gorm:"size:64;not null"`

	// Hash is the digest of password + salt. Plaintext passwords are never stored.
	Hash string `gorm:"size:255;not null"`

	// Token is the opaque bearer credential presented on authenticated calls.
	Token string `gorm:"uniqueIndex;size:128;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account is the public part of a user returned to clients.
type Account struct {
	Username  string
	AvatarURL string
}

// Account returns the public account of u.
func (u *User) Account() Account {
	return Account{Username: u.Username, AvatarURL: u.AvatarURL}
}
