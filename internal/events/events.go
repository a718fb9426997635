// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

// Package events carries catalog change notifications from the write path
// to interested subscribers over an in-process watermill pub/sub.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/mediashelf/internal/config"
	"github.com/tomtom215/mediashelf/internal/logging"
	"github.com/tomtom215/mediashelf/internal/metrics"
	"github.com/tomtom215/mediashelf/internal/models"
)

// TopicCatalogChanges is the topic every Change is published on.
const TopicCatalogChanges = "catalog.changes"

// Action is what happened to a record.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Change describes one record mutation.
type Change struct {
	Kind   models.Kind `json:"kind"`
	Action Action      `json:"action"`
	ID     int64       `json:"id"`
	At     time.Time   `json:"at"`
}

// Publisher accepts change notifications. Publishing never fails the
// mutation that caused it.
type Publisher interface {
	Publish(ctx context.Context, change Change)
}

// Nop discards every change.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Change) {}

// Bus is an in-process pub/sub for catalog changes.
type Bus struct {
	pubsub *gochannel.GoChannel
	closed bool
	mu     sync.RWMutex
}

// NewBus creates a Bus. cfg.Buffer sizes each subscriber channel.
func NewBus(cfg config.EventsConfig) *Bus {
	logger := watermill.NewSlogLogger(logging.NewComponentSlogLogger("events"))
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.Buffer,
		}, logger),
	}
}

// Publish encodes change and publishes it. Failures are logged.
func (b *Bus) Publish(ctx context.Context, change Change) {
	if change.At.IsZero() {
		change.At = time.Now().UTC()
	}
	if err := b.publish(ctx, change); err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("kind", string(change.Kind)).
			Str("action", string(change.Action)).
			Int64("id", change.ID).
			Msg("Failed to publish catalog change")
		return
	}
	metrics.EventsPublished.WithLabelValues(string(change.Kind), string(change.Action)).Inc()
}

func (b *Bus) publish(ctx context.Context, change Change) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("event bus is closed")
	}

	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("kind", string(change.Kind))
	msg.Metadata.Set("action", string(change.Action))
	if id := logging.RequestIDFromContext(ctx); id != "" {
		msg.Metadata.Set("request_id", id)
	}
	return b.pubsub.Publish(TopicCatalogChanges, msg)
}

// Subscribe returns a channel of change messages. The channel closes when
// ctx is canceled or the bus is closed. Every message must be acked.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, TopicCatalogChanges)
}

// Close shuts the bus down.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.pubsub.Close()
}

// Decode parses a message payload back into a Change.
func Decode(msg *message.Message) (Change, error) {
	var c Change
	if err := json.Unmarshal(msg.Payload, &c); err != nil {
		return Change{}, fmt.Errorf("decode change %s: %w", msg.UUID, err)
	}
	return c, nil
}
