// Package password implements the salted one-way digests used to store user passwords.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// AlgorithmSHA256 is base64(SHA-256(password + salt)).
	AlgorithmSHA256 = "sha256"
	// AlgorithmBcrypt is bcrypt over the SHA-256 digest of password + salt.
	AlgorithmBcrypt = "bcrypt"
)

// SHA256Digester stores base64(SHA-256(password + salt)).
// Hashes written by earlier deployments of the service use this format.
type SHA256Digester struct{}

// Digest computes the stored hash for password and salt.
func (SHA256Digester) Digest(password, salt string) (string, error) {
	return sha256Base64(password + salt), nil
}

// Verify compares in constant time.
func (SHA256Digester) Verify(password, salt, hash string) bool {
	candidate := sha256Base64(password + salt)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(hash)) == 1
}

// BcryptDigester stores bcrypt(base64(SHA-256(password + salt))).
// The SHA-256 pre-hash keeps the input below bcrypt's 72 byte limit.
type BcryptDigester struct {
	Cost int
}

// Digest computes the stored hash for password and salt.
func (d BcryptDigester) Digest(password, salt string) (string, error) {
	cost := d.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(sha256Base64(password+salt)), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password and salt produce hash.
func (BcryptDigester) Verify(password, salt, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(sha256Base64(password+salt))) == nil
}

// Digester is implemented by SHA256Digester and BcryptDigester.
type Digester interface {
	Digest(password, salt string) (string, error)
	Verify(password, salt, hash string) bool
}

// New returns the digester for algorithm. An empty algorithm selects SHA-256.
func New(algorithm string) (Digester, error) {
	switch algorithm {
	case "", AlgorithmSHA256:
		return SHA256Digester{}, nil
	case AlgorithmBcrypt:
		return BcryptDigester{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown password digest %q", algorithm)
	}
}

func sha256Base64(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.StdEncoding.EncodeToString(sum[:])
}
