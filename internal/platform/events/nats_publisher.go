// Package events publishes offer lifecycle events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// publisherConn is the subset of *nats.Conn used by Publisher.
type publisherConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// Publisher sends JSON-encoded events. The prefix is prepended to every subject.
type Publisher struct {
	conn   publisherConn
	prefix string
}

// NewPublisher connects to url. Reconnects are handled by the nats client.
func NewPublisher(url, prefix string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("marketplace-backend"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	slog.Info("NATS connection successful", "url", url)
	return &Publisher{conn: conn, prefix: prefix}, nil
}

// Publish marshals event and publishes it on subject.
func (p *Publisher) Publish(_ context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return p.conn.Publish(p.subject(subject), data)
}

func (p *Publisher) subject(s string) string {
	if p.prefix == "" {
		return s
	}
	return p.prefix + "." + s
}

// Close drains pending messages and closes the connection.
func (p *Publisher) Close() error {
	return p.conn.Drain()
}
