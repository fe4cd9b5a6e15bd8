package usecase

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"marketplace_backend/internal/feature/listing/domain/entity"
	"marketplace_backend/internal/shared/apperr"
)

// PageSize is the fixed number of listings per search page.
const PageSize = 10

// maxPage is the last page whose skip fits in an int.
const maxPage = math.MaxInt/PageSize + 1

// ListingReader is the read side of the listing store.
type ListingReader interface {
	// FindByID returns ErrListingNotFound when absent.
	FindByID(ctx context.Context, id string) (*entity.Listing, error)
	Search(ctx context.Context, q entity.ListingQuery) ([]entity.Listing, error)
}

// SearchParams is a parsed catalog request.
type SearchParams struct {
	Title    string
	PriceMin *float64
	PriceMax *float64
	Sort     entity.SortOrder
	Page     int
}

// SearchResult holds one page. Count is len(Items), not a grand total.
type SearchResult struct {
	Count int
	Items []entity.Listing
}

// ParseSearchParams converts raw query values. Unparsable prices are rejected;
// an unknown sort falls back to natural order and a bad page to page 1.
func ParseSearchParams(title, priceMin, priceMax, sort, page string) (SearchParams, error) {
	p := SearchParams{Title: title, Sort: ParseSort(sort), Page: ParsePage(page)}

	var err error
	if p.PriceMin, err = parseBound(priceMin); err != nil {
		return SearchParams{}, ErrInvalidPriceRange
	}
	if p.PriceMax, err = parseBound(priceMax); err != nil {
		return SearchParams{}, ErrInvalidPriceRange
	}
	return p, nil
}

func parseBound(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if !isFinite(v) {
		return nil, errors.New("price bound is not finite")
	}
	return &v, nil
}

// ParseSort accepts "price-asc", "price-desc", "asc" and "desc".
func ParseSort(s string) entity.SortOrder {
	switch strings.TrimPrefix(s, "price-") {
	case "asc":
		return entity.SortPriceAsc
	case "desc":
		return entity.SortPriceDesc
	default:
		return entity.SortNatural
	}
}

// ParsePage returns the page number, or 1 when s is absent, non-integer or not positive.
func ParsePage(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

type catalogUsecase struct {
	listings ListingReader
}

// NewCatalogUsecase creates the catalog query engine.
func NewCatalogUsecase(listings ListingReader) *catalogUsecase {
	return &catalogUsecase{listings: listings}
}

// Search returns the requested page of listings.
func (u *catalogUsecase) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	page := p.Page
	if page <= 0 {
		page = 1
	}
	if page > maxPage {
		// no store holds that many listings
		return &SearchResult{Items: []entity.Listing{}}, nil
	}
	items, err := u.listings.Search(ctx, entity.ListingQuery{
		Title:    p.Title,
		PriceMin: p.PriceMin,
		PriceMax: p.PriceMax,
		Sort:     p.Sort,
		Skip:     (page - 1) * PageSize,
		Limit:    PageSize,
	})
	if err != nil {
		return nil, apperr.Server(err)
	}
	if items == nil {
		items = []entity.Listing{}
	}
	return &SearchResult{Count: len(items), Items: items}, nil
}
