// Package entity defines domain types shared across features.
package entity

// Image is the descriptor returned by the image store for a stored picture.
// PublicID is the handle used to destroy the stored object later.
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// IsZero reports whether the descriptor is empty.
func (i Image) IsZero() bool {
	return i.URL == "" && i.PublicID == ""
}
