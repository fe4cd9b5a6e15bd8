// Package entity defines the domain entities for the listing feature.
package entity

import (
	"encoding/json"
	"fmt"
	"time"

	sharedentity "marketplace_backend/internal/domain/entity"
)

// Detail keys in wire order.
const (
	DetailBrand     = "brand"
	DetailSize      = "size"
	DetailCondition = "condition"
	DetailColor     = "color"
	DetailLocation  = "location"
)

var detailKeys = [...]string{DetailBrand, DetailSize, DetailCondition, DetailColor, DetailLocation}

// Details holds the five descriptive attributes of a listing.
// On the wire it is an ordered array of single-key objects.
type Details struct {
	Brand     string
	Size      string
	Condition string
	Color     string
	Location  string
}

func (d *Details) field(key string) *string {
	switch key {
	case DetailBrand:
		return &d.Brand
	case DetailSize:
		return &d.Size
	case DetailCondition:
		return &d.Condition
	case DetailColor:
		return &d.Color
	case DetailLocation:
		return &d.Location
	}
	return nil
}

// Entries returns the details as [{"brand":..}, {"size":..}, {"condition":..}, {"color":..}, {"location":..}].
func (d Details) Entries() []map[string]string {
	out := make([]map[string]string, 0, len(detailKeys))
	for _, k := range detailKeys {
		out = append(out, map[string]string{k: *d.field(k)})
	}
	return out
}

// DetailsFromEntries reads entries by key. Unknown keys are ignored and
// missing keys stay empty, whatever their position.
func DetailsFromEntries(entries []map[string]string) Details {
	var d Details
	for _, e := range entries {
		for k, v := range e {
			if f := d.field(k); f != nil {
				*f = v
			}
		}
	}
	return d
}

// MarshalJSON encodes d as its ordered entry array.
func (d Details) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Entries())
}

// UnmarshalJSON decodes an entry array by key.
func (d *Details) UnmarshalJSON(b []byte) error {
	var entries []map[string]string
	if err := json.Unmarshal(b, &entries); err != nil {
		return fmt.Errorf("details: %w", err)
	}
	*d = DetailsFromEntries(entries)
	return nil
}

// Listing is an offer published by a user.
type Listing struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       float64            `json:"price"`
	Details     Details            `json:"details"`
	Image       sharedentity.Image `json:"image"`
	OwnerID     string             `json:"owner_id"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
