// Package announce publishes document-completion events to NATS.
package announce

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// PublishedSubject carries one event per written annotation document.
const PublishedSubject = "slidegraph.document.published"

// Document describes one written annotation document.
type Document struct {
	Slide       string    `json:"slide"`
	Digest      string    `json:"digest"`
	Path        string    `json:"path"`
	Format      string    `json:"format"`
	Annotations int       `json:"annotations"`
	CompletedAt time.Time `json:"completed_at"`
}

// Announcer publishes completion events for downstream consumers. A
// nil *Announcer is a no-op, so callers without a broker configured
// can pass one through unconditionally.
type Announcer struct {
	nc *nats.Conn
}

// New connects to the NATS server at url.
func New(url string, opts ...nats.Option) (*Announcer, error) {
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &Announcer{nc: nc}, nil
}

// Published emits one document event on PublishedSubject.
func (a *Announcer) Published(ctx context.Context, doc Document) error {
	if a == nil || a.nc == nil {
		return nil // Skip publishing if no broker (graceful degradation)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document event: %w", err)
	}
	if err := a.nc.Publish(PublishedSubject, data); err != nil {
		return fmt.Errorf("publish document event: %w", err)
	}
	return nil
}

// Close drains the connection and releases it.
func (a *Announcer) Close() {
	if a == nil || a.nc == nil {
		return
	}
	a.nc.Drain()
	a.nc.Close()
}
