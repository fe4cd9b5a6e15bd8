package adapters

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"marketplace_backend/internal/feature/listing/domain/entity"
	"marketplace_backend/internal/feature/listing/usecase"
)

const naturalOrder = "created_at ASC, id ASC"

// listingGorm is the gorm implementation of usecase.ListingRepository.
type listingGorm struct {
	db *gorm.DB
}

var _ usecase.ListingRepository = (*listingGorm)(nil)

// NewListingGorm creates a repository on the given connection.
func NewListingGorm(db *gorm.DB) *listingGorm {
	return &listingGorm{db: db}
}

func (r *listingGorm) Create(ctx context.Context, l *entity.Listing) error {
	return r.db.WithContext(ctx).Create(toListingModel(l)).Error
}

// Update writes every column, including blanks.
func (r *listingGorm) Update(ctx context.Context, l *entity.Listing) error {
	res := r.db.WithContext(ctx).
		Model(&ListingModel{}).
		Where("id = ?", l.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(toListingModel(l))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrListingNotFound
	}
	return nil
}

func (r *listingGorm) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&ListingModel{}).Error
}

func (r *listingGorm) FindByID(ctx context.Context, id string) (*entity.Listing, error) {
	var m ListingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrListingNotFound
		}
		return nil, err
	}
	l := m.toEntity()
	return &l, nil
}

// Search applies the title and price filters, then orders and pages the result.
func (r *listingGorm) Search(ctx context.Context, q entity.ListingQuery) ([]entity.Listing, error) {
	tx := r.db.WithContext(ctx).Model(&ListingModel{})

	if q.Title != "" {
		tx = tx.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(q.Title))+"%")
	}
	if q.PriceMin != nil {
		tx = tx.Where("price >= ?", *q.PriceMin)
	}
	if q.PriceMax != nil {
		tx = tx.Where("price <= ?", *q.PriceMax)
	}

	tx = tx.Order(orderClause(q.Sort)).Offset(q.Skip)
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []ListingModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]entity.Listing, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out, nil
}

func orderClause(s entity.SortOrder) string {
	switch s {
	case entity.SortPriceAsc:
		return "price ASC, " + naturalOrder
	case entity.SortPriceDesc:
		return "price DESC, " + naturalOrder
	default:
		return naturalOrder
	}
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
