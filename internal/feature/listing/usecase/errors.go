// Package usecase implements catalog search and the listing lifecycle.
package usecase

import (
	"errors"

	"marketplace_backend/internal/shared/apperr"
)

// ErrListingNotFound is returned by repositories when no listing has the id.
var ErrListingNotFound = errors.New("listing not found")

var (
	// ErrOfferNotFound is returned for lookups and updates of an unknown id.
	ErrOfferNotFound = apperr.NotFound("Offer does not exist")

	// ErrPictureRequired is returned when publish or update carries no picture.
	ErrPictureRequired = apperr.InvalidInput("Please upload a picture")

	ErrNameTooLong = apperr.InvalidInput("Title must not exceed 50 characters")

	ErrDescriptionTooLong = apperr.InvalidInput("Description must not exceed 500 characters")

	ErrPriceTooHigh = apperr.InvalidInput("Price must not exceed 100000")

	// ErrInvalidPrice is returned when the price field is not a number.
	ErrInvalidPrice = apperr.InvalidInput("Please enter a valid price")

	// ErrInvalidPriceRange is returned when priceMin or priceMax is not a number.
	ErrInvalidPriceRange = apperr.InvalidInput("Please enter a valid price range")
)
