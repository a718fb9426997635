// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/mediashelf/internal/models"
)

// ErrNotEmpty is returned by Copy when the destination already holds records.
var ErrNotEmpty = errors.New("destination store is not empty")

// Snapshot is the whole catalog in insertion order. Its JSON form matches
// the jsonfile document.
type Snapshot struct {
	Games []models.Game `json:"games"`
	Songs []models.Song `json:"songs"`
	Clips []models.Clip `json:"clips"`
}

// Stats counts the records in the snapshot.
func (s Snapshot) Stats() models.Stats {
	return models.Stats{Games: len(s.Games), Songs: len(s.Songs), Clips: len(s.Clips)}
}

// Dump reads every record from st.
func Dump(ctx context.Context, st Store) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Games, err = st.Games().All(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("read games: %w", err)
	}
	if snap.Songs, err = st.Songs().All(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("read songs: %w", err)
	}
	if snap.Clips, err = st.Clips().All(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("read clips: %w", err)
	}
	return snap, nil
}

// Copy writes every record of src into dst, keeping ids and order.
// dst must be empty.
func Copy(ctx context.Context, dst, src Store) (models.Stats, error) {
	existing, err := dst.Stats(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	if existing.Total() > 0 {
		return models.Stats{}, fmt.Errorf("%w: %d records", ErrNotEmpty, existing.Total())
	}

	snap, err := Dump(ctx, src)
	if err != nil {
		return models.Stats{}, err
	}
	if err := load(ctx, dst.Games(), snap.Games); err != nil {
		return models.Stats{}, err
	}
	if err := load(ctx, dst.Songs(), snap.Songs); err != nil {
		return models.Stats{}, err
	}
	if err := load(ctx, dst.Clips(), snap.Clips); err != nil {
		return models.Stats{}, err
	}
	return snap.Stats(), nil
}

func load[T models.Record](ctx context.Context, c Collection[T], records []T) error {
	for _, rec := range records {
		if _, err := c.Create(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
