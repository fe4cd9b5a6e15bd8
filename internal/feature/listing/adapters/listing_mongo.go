package adapters

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	sharedentity "marketplace_backend/internal/domain/entity"
	"marketplace_backend/internal/feature/listing/domain/entity"
	"marketplace_backend/internal/feature/listing/usecase"
)

const listingsCollection = "offers"

type detailsDocument struct {
	Brand     string `bson:"brand"`
	Size      string `bson:"size"`
	Condition string `bson:"condition"`
	Color     string `bson:"color"`
	Location  string `bson:"location"`
}

type imageDocument struct {
	URL      string `bson:"url"`
	PublicID string `bson:"public_id"`
}

// listingDocument is the stored shape of a listing.
type listingDocument struct {
	ID          string          `bson:"_id"`
	Name        string          `bson:"product_name"`
	Description string          `bson:"product_description"`
	Price       float64         `bson:"product_price"`
	Details     detailsDocument `bson:"product_details"`
	Image       imageDocument   `bson:"product_image"`
	OwnerID     string          `bson:"owner"`
	CreatedAt   time.Time       `bson:"created_at"`
	UpdatedAt   time.Time       `bson:"updated_at"`
}

func toListingDocument(l *entity.Listing) listingDocument {
	return listingDocument{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Price:       l.Price,
		Details: detailsDocument{
			Brand:     l.Details.Brand,
			Size:      l.Details.Size,
			Condition: l.Details.Condition,
			Color:     l.Details.Color,
			Location:  l.Details.Location,
		},
		Image:     imageDocument{URL: l.Image.URL, PublicID: l.Image.PublicID},
		OwnerID:   l.OwnerID,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func (d listingDocument) toEntity() entity.Listing {
	return entity.Listing{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Details: entity.Details{
			Brand:     d.Details.Brand,
			Size:      d.Details.Size,
			Condition: d.Details.Condition,
			Color:     d.Details.Color,
			Location:  d.Details.Location,
		},
		Image:     sharedentity.Image{URL: d.Image.URL, PublicID: d.Image.PublicID},
		OwnerID:   d.OwnerID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// listingMongo is the MongoDB implementation of usecase.ListingRepository.
type listingMongo struct {
	collection *mongo.Collection
}

var _ usecase.ListingRepository = (*listingMongo)(nil)

// NewListingMongo creates a repository on the offers collection of db.
func NewListingMongo(db *mongo.Database) *listingMongo {
	return &listingMongo{collection: db.Collection(listingsCollection)}
}

// EnsureIndexes creates the indexes used by Search.
func (r *listingMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "product_price", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create listing indexes: %w", err)
	}
	return nil
}

func (r *listingMongo) Create(ctx context.Context, l *entity.Listing) error {
	_, err := r.collection.InsertOne(ctx, toListingDocument(l))
	return err
}

// Update replaces the whole document, keeping created_at.
func (r *listingMongo) Update(ctx context.Context, l *entity.Listing) error {
	doc := toListingDocument(l)
	set := bson.M{
		"product_name":        doc.Name,
		"product_description": doc.Description,
		"product_price":       doc.Price,
		"product_details":     doc.Details,
		"product_image":       doc.Image,
		"owner":               doc.OwnerID,
		"updated_at":          doc.UpdatedAt,
	}
	res, err := r.collection.UpdateByID(ctx, l.ID, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return usecase.ErrListingNotFound
	}
	return nil
}

func (r *listingMongo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *listingMongo) FindByID(ctx context.Context, id string) (*entity.Listing, error) {
	var doc listingDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrListingNotFound
		}
		return nil, err
	}
	l := doc.toEntity()
	return &l, nil
}

func (r *listingMongo) Search(ctx context.Context, q entity.ListingQuery) ([]entity.Listing, error) {
	cursor, err := r.collection.Find(ctx, buildFilter(q), findOptions(q))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.Listing, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}

// buildFilter translates q into a bson filter. The title is matched literally.
func buildFilter(q entity.ListingQuery) bson.M {
	filter := bson.M{}
	if q.Title != "" {
		filter["product_name"] = bson.M{"$regex": regexp.QuoteMeta(q.Title), "$options": "i"}
	}
	if q.PriceMin != nil || q.PriceMax != nil {
		price := bson.M{}
		if q.PriceMin != nil {
			price["$gte"] = *q.PriceMin
		}
		if q.PriceMax != nil {
			price["$lte"] = *q.PriceMax
		}
		filter["product_price"] = price
	}
	return filter
}

func findOptions(q entity.ListingQuery) *options.FindOptions {
	natural := bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	var sort bson.D
	switch q.Sort {
	case entity.SortPriceAsc:
		sort = append(bson.D{{Key: "product_price", Value: 1}}, natural...)
	case entity.SortPriceDesc:
		sort = append(bson.D{{Key: "product_price", Value: -1}}, natural...)
	default:
		sort = natural
	}

	opts := options.Find().SetSort(sort).SetSkip(int64(q.Skip))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	return opts
}
