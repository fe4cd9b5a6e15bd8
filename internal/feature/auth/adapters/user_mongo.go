package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace_backend/internal/feature/auth/domain/entity"
	"marketplace_backend/internal/feature/auth/usecase"
)

const usersCollection = "users"

// userDocument is the stored shape of a user.
type userDocument struct {
	ID         string    `bson:"_id"`
	Email      string    `bson:"email"`
	Username   string    `bson:"username"`
	AvatarURL  string    `bson:"avatar_url"`
	Newsletter bool      `bson:"newsletter"`
	Salt       string    `bson:"salt"`
	Hash       string    `bson:"hash"`
	Token      string    `bson:"token"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

func toUserDocument(u *entity.User) userDocument {
	return userDocument{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		AvatarURL:  u.AvatarURL,
		Newsletter: u.Newsletter,
		Salt:       u.Salt,
		Hash:       u.Hash,
		Token:      u.Token,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func (d userDocument) toEntity() *entity.User {
	return &entity.User{
		ID:         d.ID,
		Email:      d.Email,
		Username:   d.Username,
		AvatarURL:  d.AvatarURL,
		Newsletter: d.Newsletter,
		Salt:       d.Salt,
		Hash:       d.Hash,
		Token:      d.Token,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// userMongo is the MongoDB implementation of usecase.UserRepository.
type userMongo struct {
	collection *mongo.Collection
	now        func() time.Time
}

var _ usecase.UserRepository = (*userMongo)(nil)

// NewUserMongo creates a repository on the users collection of db.
func NewUserMongo(db *mongo.Database) *userMongo {
	return &userMongo{collection: db.Collection(usersCollection), now: time.Now}
}

// EnsureIndexes creates the unique indexes on email, username and token.
func (r *userMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, userIndexModels())
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

func userIndexModels() []mongo.IndexModel {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_" + field),
		}
	}
	return []mongo.IndexModel{unique("email"), unique("username"), unique("token")}
}

// Create inserts u and maps duplicate key errors by index name.
func (r *userMongo) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	now := r.now()
	u.CreatedAt, u.UpdatedAt = now, now

	if _, err := r.collection.InsertOne(ctx, toUserDocument(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateUserError(err)
		}
		return err
	}
	return nil
}

func duplicateUserError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "uniq_email"):
		return usecase.ErrEmailAlreadyRegistered
	case strings.Contains(msg, "uniq_username"):
		return usecase.ErrUsernameTaken
	default:
		return err
	}
}

// FindByEmail returns usecase.ErrUserNotFound when no user matches.
func (r *userMongo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email", email)
}

// FindByUsername returns usecase.ErrUserNotFound when no user matches.
func (r *userMongo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, "username", username)
}

// FindByToken returns usecase.ErrUserNotFound when no user matches.
func (r *userMongo) FindByToken(ctx context.Context, token string) (*entity.User, error) {
	return r.findOne(ctx, "token", token)
}

func (r *userMongo) findOne(ctx context.Context, field, value string) (*entity.User, error) {
	if value == "" {
		return nil, usecase.ErrUserNotFound
	}
	var doc userDocument
	err := r.collection.FindOne(ctx, bson.M{field: value}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}
