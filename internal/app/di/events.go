package di

import (
	"log/slog"

	listingusecase "marketplace_backend/internal/feature/listing/usecase"
	"marketplace_backend/internal/platform/events"
)

// NewEventPublisher connects to NATS. An empty url disables events: the
// returned publisher is nil and close is a no-op.
func NewEventPublisher(url, prefix string) (listingusecase.EventPublisher, func(), error) {
	if url == "" {
		slog.Info("NATS not configured, offer events disabled")
		return nil, func() {}, nil
	}
	p, err := events.NewPublisher(url, prefix)
	if err != nil {
		return nil, nil, err
	}
	return p, func() {
		if err := p.Close(); err != nil {
			slog.Error("failed to drain NATS connection", "error", err)
		}
	}, nil
}
