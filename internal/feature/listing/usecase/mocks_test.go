package usecase

import (
	"context"
	"fmt"

	sharedentity "marketplace_backend/internal/domain/entity"
	"marketplace_backend/internal/feature/listing/domain/entity"
)

// mockListingRepository is a mock implementation of ListingRepository.
type mockListingRepository struct {
	FindByIDFunc func(ctx context.Context, id string) (*entity.Listing, error)
	SearchFunc   func(ctx context.Context, q entity.ListingQuery) ([]entity.Listing, error)
	CreateFunc   func(ctx context.Context, l *entity.Listing) error
	UpdateFunc   func(ctx context.Context, l *entity.Listing) error
	DeleteFunc   func(ctx context.Context, id string) error
}

func (m *mockListingRepository) FindByID(ctx context.Context, id string) (*entity.Listing, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrListingNotFound
}

func (m *mockListingRepository) Search(ctx context.Context, q entity.ListingQuery) ([]entity.Listing, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, l)
	}
	return nil
}

func (m *mockListingRepository) Update(ctx context.Context, l *entity.Listing) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, l)
	}
	return nil
}

func (m *mockListingRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// mockImageStore records every call in order.
type mockImageStore struct {
	StoreErr   error
	DestroyErr error
	calls      []string
	stored     int
}

func (m *mockImageStore) Store(_ context.Context, _ []byte, folder string) (sharedentity.Image, error) {
	m.calls = append(m.calls, "store:"+folder)
	if m.StoreErr != nil {
		return sharedentity.Image{}, m.StoreErr
	}
	m.stored++
	id := fmt.Sprintf("%s/img-%d", folder, m.stored)
	return sharedentity.Image{URL: "https://img.example.com/" + id + ".png", PublicID: id}, nil
}

func (m *mockImageStore) Destroy(_ context.Context, publicID string) error {
	m.calls = append(m.calls, "destroy:"+publicID)
	return m.DestroyErr
}

type publishedEvent struct {
	subject string
	event   ListingEvent
}

// mockEventPublisher captures published events.
type mockEventPublisher struct {
	err    error
	events []publishedEvent
}

func (m *mockEventPublisher) Publish(_ context.Context, subject string, event any) error {
	m.events = append(m.events, publishedEvent{subject: subject, event: event.(ListingEvent)})
	return m.err
}
