// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

// Package store persists the catalog.
//
// Three backends share one contract: a JSON document on disk (the default),
// an embedded badger database, and a sqlite file through gorm. Backends move
// opaque JSON records keyed by kind and id; the typed Collection layer on top
// handles encoding, so handlers never see which backend is in use.
//
// Every backend keeps records of a kind in insertion order, and that order is
// the display order.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mediashelf/internal/config"
	"github.com/tomtom215/mediashelf/internal/metrics"
	"github.com/tomtom215/mediashelf/internal/models"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID is returned when a created record reuses an id.
	ErrDuplicateID = errors.New("duplicate record id")
)

// Collection is the typed view of one record kind.
type Collection[T models.Record] interface {
	// List returns up to limit records starting at offset, and the total count.
	List(ctx context.Context, offset, limit int) ([]T, int, error)
	All(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	// Create appends rec. The id must already be assigned.
	Create(ctx context.Context, rec T) (T, error)
	// Update loads the record, applies mutate and persists the result.
	// mutate must not change the id.
	Update(ctx context.Context, id int64, mutate func(*T) error) (T, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// Store is the whole catalog.
type Store interface {
	Games() Collection[models.Game]
	Songs() Collection[models.Song]
	Clips() Collection[models.Clip]

	// Stats returns the size of every collection.
	Stats(ctx context.Context) (models.Stats, error)

	// MaxID returns the largest id across all collections, 0 when empty.
	MaxID(ctx context.Context) (int64, error)

	// Inspect describes the underlying storage for diagnostics.
	Inspect(ctx context.Context) (models.StoreInspection, error)

	Ping(ctx context.Context) error
	Close() error
}

// backend moves raw JSON records. limit < 0 means no limit.
type backend interface {
	name() string
	list(ctx context.Context, kind models.Kind, offset, limit int) ([]json.RawMessage, int, error)
	get(ctx context.Context, kind models.Kind, id int64) (json.RawMessage, error)
	insert(ctx context.Context, kind models.Kind, id int64, body json.RawMessage) error
	update(ctx context.Context, kind models.Kind, id int64, fn func(json.RawMessage) (json.RawMessage, error)) error
	remove(ctx context.Context, kind models.Kind, id int64) error
	count(ctx context.Context, kind models.Kind) (int, error)
	inspect(ctx context.Context) (models.StoreInspection, error)
	ping(ctx context.Context) error
	close() error
}

// Open opens the backend selected by cfg.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		b   backend
		err error
	)
	switch cfg.Backend {
	case config.BackendJSON:
		b, err = openJSONFile(ctx, cfg.Path)
	case config.BackendBadger:
		b, err = openBadger(cfg.Path)
	case config.BackendSQLite:
		b, err = openSQLite(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return newCatalog(b), nil
}

type catalog struct {
	b     backend
	games *collection[models.Game]
	songs *collection[models.Song]
	clips *collection[models.Clip]
}

func newCatalog(b backend) *catalog {
	return &catalog{
		b:     b,
		games: &collection[models.Game]{kind: models.KindGames, b: b},
		songs: &collection[models.Song]{kind: models.KindSongs, b: b},
		clips: &collection[models.Clip]{kind: models.KindClips, b: b},
	}
}

func (c *catalog) Games() Collection[models.Game] { return c.games }
func (c *catalog) Songs() Collection[models.Song] { return c.songs }
func (c *catalog) Clips() Collection[models.Clip] { return c.clips }

func (c *catalog) Stats(ctx context.Context) (models.Stats, error) {
	var (
		s   models.Stats
		err error
	)
	if s.Games, err = c.games.Count(ctx); err != nil {
		return s, err
	}
	if s.Songs, err = c.songs.Count(ctx); err != nil {
		return s, err
	}
	s.Clips, err = c.clips.Count(ctx)
	return s, err
}

func (c *catalog) MaxID(ctx context.Context) (int64, error) {
	var highest int64
	for _, kind := range models.AllKinds {
		raws, _, err := c.b.list(ctx, kind, 0, -1)
		if err != nil {
			return 0, err
		}
		for _, raw := range raws {
			if id, ok := peekID(raw); ok && id > highest {
				highest = id
			}
		}
	}
	return highest, nil
}

func (c *catalog) Inspect(ctx context.Context) (models.StoreInspection, error) {
	return c.b.inspect(ctx)
}

func (c *catalog) Ping(ctx context.Context) error { return c.b.ping(ctx) }
func (c *catalog) Close() error                   { return c.b.close() }

type collection[T models.Record] struct {
	kind models.Kind
	b    backend
}

func (c *collection[T]) observe(op string, start time.Time, err error) {
	metrics.RecordStoreOperation(c.b.name(), string(c.kind), op, time.Since(start), err, errors.Is(err, ErrNotFound))
}

func (c *collection[T]) notFound(id int64) error {
	return fmt.Errorf("%s %d: %w", c.kind.Singular(), id, ErrNotFound)
}

func (c *collection[T]) List(ctx context.Context, offset, limit int) (items []T, total int, err error) {
	defer func(start time.Time) { c.observe("list", start, err) }(time.Now())

	raws, total, err := c.b.list(ctx, c.kind, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	items, err = decodeAll[T](c.kind, raws)
	return items, total, err
}

func (c *collection[T]) All(ctx context.Context) (items []T, err error) {
	defer func(start time.Time) { c.observe("all", start, err) }(time.Now())

	raws, _, err := c.b.list(ctx, c.kind, 0, -1)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](c.kind, raws)
}

func (c *collection[T]) Get(ctx context.Context, id int64) (rec T, err error) {
	defer func(start time.Time) { c.observe("get", start, err) }(time.Now())

	raw, err := c.b.get(ctx, c.kind, id)
	if errors.Is(err, ErrNotFound) {
		return rec, c.notFound(id)
	}
	if err != nil {
		return rec, err
	}
	err = decode(c.kind, raw, &rec)
	return rec, err
}

func (c *collection[T]) Create(ctx context.Context, rec T) (_ T, err error) {
	defer func(start time.Time) { c.observe("create", start, err) }(time.Now())

	body, err := json.Marshal(rec)
	if err != nil {
		return rec, fmt.Errorf("encode %s: %w", c.kind.Singular(), err)
	}
	if err := c.b.insert(ctx, c.kind, rec.RecordID(), body); err != nil {
		if errors.Is(err, ErrDuplicateID) {
			return rec, fmt.Errorf("%s %d: %w", c.kind.Singular(), rec.RecordID(), err)
		}
		return rec, err
	}
	return rec, nil
}

func (c *collection[T]) Update(ctx context.Context, id int64, mutate func(*T) error) (out T, err error) {
	defer func(start time.Time) { c.observe("update", start, err) }(time.Now())

	err = c.b.update(ctx, c.kind, id, func(raw json.RawMessage) (json.RawMessage, error) {
		var rec T
		if err := decode(c.kind, raw, &rec); err != nil {
			return nil, err
		}
		if err := mutate(&rec); err != nil {
			return nil, err
		}
		if rec.RecordID() != id {
			return nil, fmt.Errorf("update of %s %d changed its id to %d", c.kind.Singular(), id, rec.RecordID())
		}
		out = rec
		return json.Marshal(rec)
	})
	if errors.Is(err, ErrNotFound) {
		return out, c.notFound(id)
	}
	return out, err
}

func (c *collection[T]) Delete(ctx context.Context, id int64) (err error) {
	defer func(start time.Time) { c.observe("delete", start, err) }(time.Now())

	err = c.b.remove(ctx, c.kind, id)
	if errors.Is(err, ErrNotFound) {
		return c.notFound(id)
	}
	return err
}

func (c *collection[T]) Count(ctx context.Context) (n int, err error) {
	defer func(start time.Time) { c.observe("count", start, err) }(time.Now())
	return c.b.count(ctx, c.kind)
}

func decode[T any](kind models.Kind, raw json.RawMessage, dst *T) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s record: %w", kind, err)
	}
	return nil
}

func decodeAll[T any](kind models.Kind, raws []json.RawMessage) ([]T, error) {
	out := make([]T, len(raws))
	for i, raw := range raws {
		if err := decode(kind, raw, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type idOnly struct {
	ID int64 `json:"id"`
}

// peekID reads the id of a raw record.
func peekID(raw json.RawMessage) (int64, bool) {
	var p idOnly
	if err := json.Unmarshal(raw, &p); err != nil {
		return 0, false
	}
	return p.ID, true
}

// window returns the [offset, offset+limit) part of items; limit < 0 means
// everything from offset on.
func window[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit >= 0 && limit < end-offset {
		end = offset + limit
	}
	return items[offset:end]
}
