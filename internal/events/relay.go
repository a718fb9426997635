// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package events

import (
	"context"
	"fmt"

	"github.com/tomtom215/mediashelf/internal/logging"
	"github.com/tomtom215/mediashelf/internal/metrics"
)

// Broadcaster receives encoded changes. The websocket hub implements it.
type Broadcaster interface {
	BroadcastRaw(data []byte)
}

// Relay forwards every change on the bus to a Broadcaster. It is a
// suture.Service.
type Relay struct {
	bus *Bus
	out Broadcaster
}

// NewRelay creates a Relay.
func NewRelay(bus *Bus, out Broadcaster) *Relay {
	return &Relay{bus: bus, out: out}
}

// Serve relays until ctx is canceled.
func (r *Relay) Serve(ctx context.Context) error {
	messages, err := r.bus.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", TopicCatalogChanges, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				// bus closed underneath us; let the supervisor decide
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("change subscription closed")
			}
			// payload is already the JSON the browser wants
			r.out.BroadcastRaw(msg.Payload)
			msg.Ack()
			metrics.EventsDelivered.Inc()
			logging.Debug().
				Str("kind", msg.Metadata.Get("kind")).
				Str("action", msg.Metadata.Get("action")).
				Msg("Relayed catalog change")
		}
	}
}

// String names the relay in supervisor logs.
func (r *Relay) String() string {
	return "event-relay"
}
