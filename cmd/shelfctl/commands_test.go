// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mediashelf/internal/config"
	"github.com/tomtom215/mediashelf/internal/models"
	"github.com/tomtom215/mediashelf/internal/store"
)

// seedJSONStore writes a small catalog to a jsonfile store and returns its path.
func seedJSONStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	ctx := context.Background()

	st, err := store.Open(ctx, config.StoreConfig{Backend: config.BackendJSON, Path: path})
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	for _, g := range []models.Game{{ID: 30, Title: "Hades"}, {ID: 10, Title: "Celeste"}} {
		if _, err := st.Games().Create(ctx, g); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := st.Songs().Create(ctx, models.Song{ID: 20, Title: "Pilgrim", Artist: "Ori"}); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestStatsCommand(t *testing.T) {
	t.Parallel()
	path := seedJSONStore(t)

	out, err := run(t, "stats", "--backend", "json", "--path", path)
	if err != nil {
		t.Fatalf("stats: %v\n%s", err, out)
	}
	for _, want := range []string{"games:  2", "songs:  1", "clips:  0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestExportCommand(t *testing.T) {
	t.Parallel()
	path := seedJSONStore(t)
	target := filepath.Join(t.TempDir(), "export.json")

	if out, err := run(t, "export", "--backend", "json", "--path", path, "-o", target); err != nil {
		t.Fatalf("export: %v\n%s", err, out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(snap.Games) != 2 || snap.Games[0].Title != "Hades" || snap.Games[1].ID != 10 {
		t.Errorf("games = %+v", snap.Games)
	}
	if !bytes.Contains(data, []byte(`"clips": []`)) {
		t.Errorf("empty clips should export as []:\n%s", data)
	}
}

func TestExportToStdout(t *testing.T) {
	t.Parallel()
	path := seedJSONStore(t)

	out, err := run(t, "export", "--backend", "json", "--path", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"Pilgrim"`) {
		t.Errorf("stdout export missing song:\n%s", out)
	}
}

type closeRecorder struct {
	bytes.Buffer
	closeErr error
	closed   int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return c.closeErr
}

func TestWriteExportFile(t *testing.T) {
	t.Parallel()
	snap := store.Snapshot{Games: []models.Game{{ID: 1, Title: "Tunic"}}}

	t.Run("closes after writing", func(t *testing.T) {
		t.Parallel()
		f := &closeRecorder{}
		if err := writeExportFile(f, snap); err != nil {
			t.Fatal(err)
		}
		if f.closed != 1 || !strings.Contains(f.String(), `"Tunic"`) {
			t.Errorf("closed=%d body=%s", f.closed, f.String())
		}
	})

	t.Run("close error is returned", func(t *testing.T) {
		t.Parallel()
		diskFull := errors.New("no space left on device")
		f := &closeRecorder{closeErr: diskFull}
		err := writeExportFile(f, snap)
		if !errors.Is(err, diskFull) {
			t.Errorf("err = %v, want %v", err, diskFull)
		}
		if f.closed != 1 {
			t.Errorf("closed %d times", f.closed)
		}
	})
}

func TestExportCommand_MissingDirectory(t *testing.T) {
	t.Parallel()
	path := seedJSONStore(t)
	target := filepath.Join(t.TempDir(), "missing", "export.json")

	if _, err := run(t, "export", "--backend", "json", "--path", path, "-o", target); err == nil {
		t.Error("export into a missing directory succeeded")
	}
}

func TestMigrateCommand(t *testing.T) {
	t.Parallel()
	path := seedJSONStore(t)
	target := filepath.Join(t.TempDir(), "db.sqlite")

	out, err := run(t, "migrate", "--from", "json", "--from-path", path, "--to", "sqlite", "--to-path", target)
	if err != nil {
		t.Fatalf("migrate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "migrated 2 games, 1 songs, 0 clips") {
		t.Errorf("output = %q", out)
	}

	st, err := store.Open(context.Background(), config.StoreConfig{Backend: config.BackendSQLite, Path: target})
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	games, err := st.Games().All(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 || games[0].ID != 30 || games[1].ID != 10 {
		t.Errorf("games = %+v, want ids [30 10]", games)
	}

	// A second run must not duplicate records.
	if _, err := run(t, "migrate", "--from", "json", "--from-path", path, "--to", "sqlite", "--to-path", target); err == nil {
		t.Error("migrating into a non-empty store should fail")
	}
}

func TestMigrateValidation(t *testing.T) {
	t.Parallel()
	path := seedJSONStore(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing --to", []string{"migrate", "--from", "json"}},
		{"same store", []string{"migrate", "--from", "json", "--from-path", path, "--to", "json", "--to-path", path}},
		{"unknown backend", []string{"migrate", "--from", "json", "--from-path", path, "--to", "mongo", "--to-path", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
