// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

// Package catalog implements the catalog operations shared by the JSON API
// and the HTML management pages: id assignment, upload handling, merge on
// update, and change notification.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/mediashelf/internal/cache"
	"github.com/tomtom215/mediashelf/internal/events"
	"github.com/tomtom215/mediashelf/internal/idgen"
	"github.com/tomtom215/mediashelf/internal/logging"
	"github.com/tomtom215/mediashelf/internal/media"
	"github.com/tomtom215/mediashelf/internal/metrics"
	"github.com/tomtom215/mediashelf/internal/models"
	"github.com/tomtom215/mediashelf/internal/store"
	"github.com/tomtom215/mediashelf/internal/validation"
)

// ErrUpload marks failures to store an uploaded file.
var ErrUpload = errors.New("upload failed")

// sampleSize is how many games and songs the debug report includes.
const sampleSize = 3

// statsTTL bounds how stale counts may be when another process writes the
// store. Changes made through the Service invalidate immediately.
const statsTTL = 30 * time.Second

// Uploader stores uploaded files and returns their public URL.
type Uploader interface {
	Save(ctx context.Context, slot media.Slot, up media.Upload) (string, error)
}

// ClipUploads holds the files sent with a clip request. Nil members mean no
// file was attached.
type ClipUploads struct {
	Thumbnail *media.Upload
	Video     *media.Upload
}

// Service runs catalog operations against a store.
type Service struct {
	store  store.Store
	files  Uploader
	ids    idgen.Generator
	events events.Publisher
	stats  *cache.Cache[models.Stats]

	// statsGen counts invalidations so a count read before a change is not
	// cached after it.
	statsMu  sync.Mutex
	statsGen uint64
}

// New creates a Service. A nil publisher disables change events.
func New(st store.Store, files Uploader, ids idgen.Generator, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		store:  st,
		files:  files,
		ids:    ids,
		events: pub,
		stats:  cache.New[models.Stats](statsTTL),
	}
}

// Store returns the underlying store.
func (s *Service) Store() store.Store { return s.store }

// ListGames returns one page of games in stored order.
func (s *Service) ListGames(ctx context.Context, page, limit int) (models.Page[models.Game], error) {
	return listPage(ctx, s.store.Games(), page, limit)
}

// ListSongs returns one page of songs in stored order.
func (s *Service) ListSongs(ctx context.Context, page, limit int) (models.Page[models.Song], error) {
	return listPage(ctx, s.store.Songs(), page, limit)
}

// ListClips returns every clip.
func (s *Service) ListClips(ctx context.Context) (models.ClipList, error) {
	clips, err := s.store.Clips().All(ctx)
	if err != nil {
		return models.ClipList{}, err
	}
	if clips == nil {
		clips = []models.Clip{}
	}
	return models.ClipList{Clips: clips}, nil
}

func listPage[T models.Record](ctx context.Context, c store.Collection[T], page, limit int) (models.Page[T], error) {
	items, total, err := c.List(ctx, models.Offset(page, limit), limit)
	if err != nil {
		return models.Page[T]{}, err
	}
	return models.NewPage(items, total, page, limit), nil
}

// Game returns the game with id.
func (s *Service) Game(ctx context.Context, id int64) (models.Game, error) {
	return s.store.Games().Get(ctx, id)
}

// Song returns the song with id.
func (s *Service) Song(ctx context.Context, id int64) (models.Song, error) {
	return s.store.Songs().Get(ctx, id)
}

// Clip returns the clip with id.
func (s *Service) Clip(ctx context.Context, id int64) (models.Clip, error) {
	return s.store.Clips().Get(ctx, id)
}

// CreateGame validates in, stores the optional image, and appends the game.
func (s *Service) CreateGame(ctx context.Context, in models.GameInput, image *media.Upload) (models.Game, error) {
	if verr := validation.ValidateStruct(in); verr != nil {
		return models.Game{}, verr
	}
	imageURL, err := s.save(ctx, media.SlotGameImage, image)
	if err != nil {
		return models.Game{}, err
	}
	game, err := s.store.Games().Create(ctx, in.NewGame(s.ids.Next(), imageURL))
	if err != nil {
		return models.Game{}, err
	}
	s.changed(ctx, models.KindGames, events.ActionCreated, game.ID)
	return game, nil
}

// UpdateGame merges in over the stored game. A new image replaces the old
// one; otherwise imageUrl may be set explicitly.
func (s *Service) UpdateGame(ctx context.Context, id int64, in models.GameInput, image *media.Upload) (models.Game, error) {
	if verr := validation.ValidateStruct(in); verr != nil {
		return models.Game{}, verr
	}
	if _, err := s.store.Games().Get(ctx, id); err != nil {
		return models.Game{}, err
	}
	imageURL, err := s.save(ctx, media.SlotGameImage, image)
	if err != nil {
		return models.Game{}, err
	}
	game, err := s.store.Games().Update(ctx, id, func(g *models.Game) error {
		in.Apply(g, imageURL)
		return nil
	})
	if err != nil {
		return models.Game{}, err
	}
	s.changed(ctx, models.KindGames, events.ActionUpdated, id)
	return game, nil
}

// DeleteGame removes a game. Its image stays in upload storage.
func (s *Service) DeleteGame(ctx context.Context, id int64) error {
	return s.remove(ctx, models.KindGames, id, s.store.Games().Delete)
}

// CreateSong appends a song.
func (s *Service) CreateSong(ctx context.Context, in models.SongInput) (models.Song, error) {
	song, err := s.store.Songs().Create(ctx, in.NewSong(s.ids.Next()))
	if err != nil {
		return models.Song{}, err
	}
	s.changed(ctx, models.KindSongs, events.ActionCreated, song.ID)
	return song, nil
}

// UpdateSong merges in over the stored song.
func (s *Service) UpdateSong(ctx context.Context, id int64, in models.SongInput) (models.Song, error) {
	song, err := s.store.Songs().Update(ctx, id, func(sg *models.Song) error {
		in.Apply(sg)
		return nil
	})
	if err != nil {
		return models.Song{}, err
	}
	s.changed(ctx, models.KindSongs, events.ActionUpdated, id)
	return song, nil
}

// DeleteSong removes a song.
func (s *Service) DeleteSong(ctx context.Context, id int64) error {
	return s.remove(ctx, models.KindSongs, id, s.store.Songs().Delete)
}

// CreateClip stores the uploads and appends the clip.
func (s *Service) CreateClip(ctx context.Context, in models.ClipInput, files ClipUploads) (models.Clip, error) {
	m, err := s.saveClipMedia(ctx, files)
	if err != nil {
		return models.Clip{}, err
	}
	clip, err := s.store.Clips().Create(ctx, in.NewClip(s.ids.Next(), m))
	if err != nil {
		return models.Clip{}, err
	}
	s.changed(ctx, models.KindClips, events.ActionCreated, clip.ID)
	return clip, nil
}

// UpdateClip merges in over the stored clip. Files are replaced only when a
// new one is attached.
func (s *Service) UpdateClip(ctx context.Context, id int64, in models.ClipInput, files ClipUploads) (models.Clip, error) {
	if _, err := s.store.Clips().Get(ctx, id); err != nil {
		return models.Clip{}, err
	}
	m, err := s.saveClipMedia(ctx, files)
	if err != nil {
		return models.Clip{}, err
	}
	clip, err := s.store.Clips().Update(ctx, id, func(c *models.Clip) error {
		in.Apply(c, m)
		return nil
	})
	if err != nil {
		return models.Clip{}, err
	}
	s.changed(ctx, models.KindClips, events.ActionUpdated, id)
	return clip, nil
}

// DeleteClip removes a clip. Its files stay in upload storage.
func (s *Service) DeleteClip(ctx context.Context, id int64) error {
	return s.remove(ctx, models.KindClips, id, s.store.Clips().Delete)
}

// Stats returns per-kind record counts.
func (s *Service) Stats(ctx context.Context) (models.Stats, error) {
	if stats, ok := s.stats.Get("all"); ok {
		return stats, nil
	}
	s.statsMu.Lock()
	gen := s.statsGen
	s.statsMu.Unlock()

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return stats, err
	}

	s.statsMu.Lock()
	if s.statsGen == gen {
		s.stats.Set("all", stats)
	}
	s.statsMu.Unlock()
	return stats, nil
}

// Debug reports where records live, how many there are, and a few samples.
func (s *Service) Debug(ctx context.Context) (models.DebugInfo, error) {
	inspection, err := s.store.Inspect(ctx)
	if err != nil {
		return models.DebugInfo{}, err
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return models.DebugInfo{}, err
	}
	games, _, err := s.store.Games().List(ctx, 0, sampleSize)
	if err != nil {
		return models.DebugInfo{}, err
	}
	songs, _, err := s.store.Songs().List(ctx, 0, sampleSize)
	if err != nil {
		return models.DebugInfo{}, err
	}
	if games == nil {
		games = []models.Game{}
	}
	if songs == nil {
		songs = []models.Song{}
	}
	return models.DebugInfo{
		StoreInspection: inspection,
		Data:            stats,
		SampleGames:     games,
		SampleSongs:     songs,
	}, nil
}

func (s *Service) save(ctx context.Context, slot media.Slot, up *media.Upload) (string, error) {
	if up == nil {
		return "", nil
	}
	url, err := s.files.Save(ctx, slot, *up)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUpload, up.Filename, err)
	}
	return url, nil
}

func (s *Service) saveClipMedia(ctx context.Context, files ClipUploads) (models.ClipMedia, error) {
	var (
		m   models.ClipMedia
		err error
	)
	if m.ThumbnailURL, err = s.save(ctx, media.SlotClipThumbnail, files.Thumbnail); err != nil {
		return m, err
	}
	m.VideoURL, err = s.save(ctx, media.SlotClipVideo, files.Video)
	return m, err
}

func (s *Service) remove(ctx context.Context, kind models.Kind, id int64, del func(context.Context, int64) error) error {
	if err := del(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, kind, events.ActionDeleted, id)
	return nil
}

// changed records metrics and publishes the change.
func (s *Service) changed(ctx context.Context, kind models.Kind, action events.Action, id int64) {
	s.statsMu.Lock()
	s.statsGen++
	s.stats.Clear()
	s.statsMu.Unlock()

	var (
		size int
		err  error
	)
	switch kind {
	case models.KindGames:
		size, err = s.store.Games().Count(ctx)
	case models.KindSongs:
		size, err = s.store.Songs().Count(ctx)
	case models.KindClips:
		size, err = s.store.Clips().Count(ctx)
	}
	if err == nil {
		metrics.RecordMutation(string(kind), string(action), size)
	}

	logging.Ctx(ctx).Info().
		Str("kind", string(kind)).
		Str("action", string(action)).
		Int64("id", id).
		Msg("Catalog changed")
	s.events.Publish(ctx, events.Change{Kind: kind, Action: action, ID: id})
}
