package usecase

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	sharedentity "marketplace_backend/internal/domain/entity"
	"marketplace_backend/internal/feature/listing/domain/entity"
	"marketplace_backend/internal/shared/apperr"
)

const (
	MaxNameLength        = 50
	MaxDescriptionLength = 500
	MaxPrice             = 100000

	offerFolder = "offers"

	// RemovedMessage is returned by Remove.
	RemovedMessage = "Offer deleted"
)

// Event subjects.
const (
	SubjectPublished = "offer.published"
	SubjectUpdated   = "offer.updated"
	SubjectDeleted   = "offer.deleted"
)

// ListingRepository abstracts the listing store.
type ListingRepository interface {
	ListingReader
	Create(ctx context.Context, l *entity.Listing) error
	// Update overwrites the stored listing. Returns ErrListingNotFound when absent.
	Update(ctx context.Context, l *entity.Listing) error
	// Delete removes the listing. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}

// ImageStore stores and destroys pictures.
type ImageStore interface {
	Store(ctx context.Context, data []byte, folder string) (sharedentity.Image, error)
	Destroy(ctx context.Context, publicID string) error
}

// EventPublisher delivers lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, event any) error
}

// ListingEvent is the payload of every lifecycle event.
type ListingEvent struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id,omitempty"`
	Name       string    `json:"name,omitempty"`
	Price      float64   `json:"price,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ListingInput carries the publish/update form.
type ListingInput struct {
	Name        string
	Description string
	Price       float64
	Brand       string
	Size        string
	Condition   string
	Color       string
	Location    string
	Image       []byte
}

func (in ListingInput) validate() error {
	if utf8.RuneCountInString(in.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if !isFinite(in.Price) {
		return ErrInvalidPrice
	}
	if in.Price > MaxPrice {
		return ErrPriceTooHigh
	}
	if len(in.Image) == 0 {
		return ErrPictureRequired
	}
	return nil
}

func (in ListingInput) details() entity.Details {
	return entity.Details{
		Brand:     in.Brand,
		Size:      in.Size,
		Condition: in.Condition,
		Color:     in.Color,
		Location:  in.Location,
	}
}

// ParsePrice parses the price form value. An empty value is 0.
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0, ErrInvalidPrice
	}
	return v, nil
}

// isFinite rejects NaN and ±Inf, which ParseFloat accepts but JSON cannot encode.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type listingUsecase struct {
	listings ListingRepository
	images   ImageStore
	events   EventPublisher
	newID    func() string
	now      func() time.Time
}

// NewListingUsecase creates the listing lifecycle manager. events may be nil.
func NewListingUsecase(listings ListingRepository, images ImageStore, events EventPublisher) *listingUsecase {
	return &listingUsecase{
		listings: listings,
		images:   images,
		events:   events,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// GetByID returns ErrOfferNotFound when the listing does not exist.
func (u *listingUsecase) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	l, err := u.listings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrListingNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, apperr.Server(err)
	}
	return l, nil
}

// Publish validates the input, stores the picture under offers/<id> and persists the listing.
func (u *listingUsecase) Publish(ctx context.Context, ownerID string, in ListingInput) (*entity.Listing, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := u.now()
	l := &entity.Listing{
		ID:          u.newID(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Details:     in.details(),
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	img, err := u.images.Store(ctx, in.Image, offerFolder+"/"+l.ID)
	if err != nil {
		return nil, apperr.Server(err)
	}
	l.Image = img

	if err := u.listings.Create(ctx, l); err != nil {
		u.destroy(ctx, img.PublicID, "discarding picture of unsaved offer failed")
		return nil, apperr.Server(err)
	}

	u.publish(ctx, SubjectPublished, l)
	return l, nil
}

// Update overwrites every field of the listing and swaps its picture.
// The new picture is stored and the record persisted before the old picture is destroyed.
func (u *listingUsecase) Update(ctx context.Context, id string, in ListingInput) (*entity.Listing, error) {
	existing, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	img, err := u.images.Store(ctx, in.Image, offerFolder+"/"+existing.ID)
	if err != nil {
		return nil, apperr.Server(err)
	}

	updated := *existing
	updated.Name = in.Name
	updated.Description = in.Description
	updated.Price = in.Price
	updated.Details = in.details()
	updated.Image = img
	updated.UpdatedAt = u.now()

	if err := u.listings.Update(ctx, &updated); err != nil {
		u.destroy(ctx, img.PublicID, "discarding new picture after failed update failed")
		if errors.Is(err, ErrListingNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, apperr.Server(err)
	}

	if !existing.Image.IsZero() && existing.Image.PublicID != img.PublicID {
		u.destroy(ctx, existing.Image.PublicID, "old offer picture left orphaned")
	}

	u.publish(ctx, SubjectUpdated, &updated)
	return &updated, nil
}

// Remove deletes the listing. The stored picture is kept.
func (u *listingUsecase) Remove(ctx context.Context, id string) (string, error) {
	if err := u.listings.Delete(ctx, id); err != nil {
		return "", apperr.Server(err)
	}
	u.publish(ctx, SubjectDeleted, &entity.Listing{ID: id})
	return RemovedMessage, nil
}

func (u *listingUsecase) destroy(ctx context.Context, publicID, msg string) {
	if err := u.images.Destroy(ctx, publicID); err != nil {
		slog.Warn(msg, "public_id", publicID, "error", err)
	}
}

func (u *listingUsecase) publish(ctx context.Context, subject string, l *entity.Listing) {
	if u.events == nil {
		return
	}
	ev := ListingEvent{
		ID:         l.ID,
		OwnerID:    l.OwnerID,
		Name:       l.Name,
		Price:      l.Price,
		OccurredAt: u.now(),
	}
	if err := u.events.Publish(ctx, subject, ev); err != nil {
		slog.Warn("failed to publish offer event", "subject", subject, "offer_id", l.ID, "error", err)
	}
}
