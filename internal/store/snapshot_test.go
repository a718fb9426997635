// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/mediashelf/internal/models"
)

func TestCopyPreservesIDsAndOrder(t *testing.T) {
	t.Parallel()

	for _, from := range backends {
		for _, to := range backends {
			t.Run(from.name+"_to_"+to.name, func(t *testing.T) {
				t.Parallel()
				ctx := context.Background()
				src, dst := from.open(t), to.open(t)

				games := seedGames(t, src, 3)
				if _, err := src.Songs().Create(ctx, models.Song{ID: 7, Title: "Song"}); err != nil {
					t.Fatal(err)
				}
				if _, err := src.Clips().Create(ctx, models.Clip{ID: 2, Title: "Clip", VideoURL: "/uploads/videos/a.mp4"}); err != nil {
					t.Fatal(err)
				}

				stats, err := Copy(ctx, dst, src)
				if err != nil {
					t.Fatalf("Copy: %v", err)
				}
				if stats != (models.Stats{Games: 3, Songs: 1, Clips: 1}) {
					t.Errorf("stats = %+v", stats)
				}

				got, err := dst.Games().All(ctx)
				if err != nil {
					t.Fatal(err)
				}
				if len(got) != len(games) {
					t.Fatalf("copied %d games, want %d", len(got), len(games))
				}
				for i := range games {
					if got[i].ID != games[i].ID || got[i].Title != games[i].Title {
						t.Errorf("game %d = %+v, want %+v", i, got[i], games[i])
					}
				}
				if clip, err := dst.Clips().Get(ctx, 2); err != nil || clip.VideoURL != "/uploads/videos/a.mp4" {
					t.Errorf("clip = %+v, %v", clip, err)
				}
			})
		}
	}
}

func TestCopyRefusesNonEmptyDestination(t *testing.T) {
	t.Parallel()
	src, dst := backends[0].open(t), backends[0].open(t)
	seedGames(t, src, 1)
	seedGames(t, dst, 1)

	if _, err := Copy(context.Background(), dst, src); !errors.Is(err, ErrNotEmpty) {
		t.Errorf("err = %v, want ErrNotEmpty", err)
	}
}

func TestDumpEmptyStore(t *testing.T) {
	t.Parallel()
	snap, err := Dump(context.Background(), backends[0].open(t))
	if err != nil {
		t.Fatal(err)
	}
	if snap.Stats().Total() != 0 {
		t.Errorf("snapshot = %+v", snap)
	}
}
