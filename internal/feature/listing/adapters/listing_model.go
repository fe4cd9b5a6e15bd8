// Package adapters provides the listing store implementations.
package adapters

import (
	"time"

	sharedentity "marketplace_backend/internal/domain/entity"
	"marketplace_backend/internal/feature/listing/domain/entity"
)

// ListingModel is the relational row of a listing. Details are flattened into columns.
type ListingModel struct {
	ID            string    `gorm:"primaryKey;size:36"`
	Name          string    `gorm:"size:50;index"`
	Description   string    `gorm:"size:500"`
	Price         float64   `gorm:"index"`
	Brand         string    `gorm:"size:255"`
	Size          string    `gorm:"size:255"`
	Condition     string    `gorm:"size:255"`
	Color         string    `gorm:"size:255"`
	Location      string    `gorm:"size:255"`
	ImageURL      string    `gorm:"size:1024"`
	ImagePublicID string    `gorm:"size:512"`
	OwnerID       string    `gorm:"size:36;index"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

func (ListingModel) TableName() string { return "listings" }

func toListingModel(l *entity.Listing) *ListingModel {
	return &ListingModel{
		ID:            l.ID,
		Name:          l.Name,
		Description:   l.Description,
		Price:         l.Price,
		Brand:         l.Details.Brand,
		Size:          l.Details.Size,
		Condition:     l.Details.Condition,
		Color:         l.Details.Color,
		Location:      l.Details.Location,
		ImageURL:      l.Image.URL,
		ImagePublicID: l.Image.PublicID,
		OwnerID:       l.OwnerID,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func (m *ListingModel) toEntity() entity.Listing {
	return entity.Listing{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Details: entity.Details{
			Brand:     m.Brand,
			Size:      m.Size,
			Condition: m.Condition,
			Color:     m.Color,
			Location:  m.Location,
		},
		Image:     sharedentity.Image{URL: m.ImageURL, PublicID: m.ImagePublicID},
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
