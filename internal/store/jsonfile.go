// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mediashelf/internal/config"
	"github.com/tomtom215/mediashelf/internal/logging"
	"github.com/tomtom215/mediashelf/internal/models"
)

// document is the on-disk layout: one array per kind.
type document struct {
	Games []json.RawMessage `json:"games"`
	Songs []json.RawMessage `json:"songs"`
	Clips []json.RawMessage `json:"clips"`
}

func emptyDocument() *document {
	return &document{
		Games: []json.RawMessage{},
		Songs: []json.RawMessage{},
		Clips: []json.RawMessage{},
	}
}

func (d *document) records(kind models.Kind) *[]json.RawMessage {
	switch kind {
	case models.KindGames:
		return &d.Games
	case models.KindSongs:
		return &d.Songs
	default:
		return &d.Clips
	}
}

// jsonFile keeps the catalog in a single JSON document. The file is read
// before every operation and rewritten in full after every mutation, so
// edits made to the file while the server runs are picked up.
type jsonFile struct {
	path string

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

func openJSONFile(ctx context.Context, path string) (*jsonFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	j := &jsonFile{path: path}
	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := j.save(emptyDocument()); err != nil {
			return nil, err
		}
		logging.Ctx(ctx).Info().Str("path", path).Msg("Initialized empty catalog file")
	case err != nil:
		return nil, fmt.Errorf("stat catalog file: %w", err)
	default:
		if _, err := j.load(); err != nil {
			return nil, err
		}
	}
	return j, nil
}

func (j *jsonFile) name() string { return config.BackendJSON }

// load reads and decodes the document. A missing file, or a missing or
// malformed collection, yields empty collections.
func (j *jsonFile) load() (*document, error) {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return emptyDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return emptyDocument(), nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("decode catalog file %s: %w", j.path, err)
	}

	doc := emptyDocument()
	for _, kind := range models.AllKinds {
		*doc.records(kind) = decodeCollection(j.path, kind, top[string(kind)])
	}
	return doc, nil
}

func decodeCollection(path string, kind models.Kind, raw json.RawMessage) []json.RawMessage {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return []json.RawMessage{}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		logging.Warn().Str("path", path).Str("kind", string(kind)).Err(err).
			Msg("Catalog collection is not an array, treating it as empty")
		return []json.RawMessage{}
	}
	for i, item := range items {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			logging.Warn().Str("path", path).Str("kind", string(kind)).Int("index", i).
				Msg("Catalog collection holds a non-object entry, treating it as empty")
			return []json.RawMessage{}
		}
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items
}

// save writes doc to a temporary file and renames it over the catalog.
func (j *jsonFile) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(j.path), ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck,gosec // sync error takes precedence
		return fmt.Errorf("sync catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close catalog: %w", err)
	}
	if err := os.Rename(tmpName, j.path); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}

// indexOf returns the position of id in records, or -1.
func indexOf(records []json.RawMessage, id int64) int {
	for i, raw := range records {
		if got, ok := peekID(raw); ok && got == id {
			return i
		}
	}
	return -1
}

func (j *jsonFile) list(ctx context.Context, kind models.Kind, offset, limit int) ([]json.RawMessage, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	doc, err := j.load()
	if err != nil {
		return nil, 0, err
	}
	records := *doc.records(kind)
	return window(records, offset, limit), len(records), nil
}

func (j *jsonFile) get(ctx context.Context, kind models.Kind, id int64) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	doc, err := j.load()
	if err != nil {
		return nil, err
	}
	records := *doc.records(kind)
	i := indexOf(records, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return records[i], nil
}

func (j *jsonFile) insert(ctx context.Context, kind models.Kind, id int64, body json.RawMessage) error {
	return j.mutate(ctx, func(doc *document) error {
		records := doc.records(kind)
		if indexOf(*records, id) >= 0 {
			return ErrDuplicateID
		}
		*records = append(*records, body)
		return nil
	})
}

func (j *jsonFile) update(ctx context.Context, kind models.Kind, id int64, fn func(json.RawMessage) (json.RawMessage, error)) error {
	return j.mutate(ctx, func(doc *document) error {
		records := *doc.records(kind)
		i := indexOf(records, id)
		if i < 0 {
			return ErrNotFound
		}
		body, err := fn(records[i])
		if err != nil {
			return err
		}
		records[i] = body
		return nil
	})
}

func (j *jsonFile) remove(ctx context.Context, kind models.Kind, id int64) error {
	return j.mutate(ctx, func(doc *document) error {
		records := doc.records(kind)
		i := indexOf(*records, id)
		if i < 0 {
			return ErrNotFound
		}
		*records = append((*records)[:i], (*records)[i+1:]...)
		return nil
	})
}

// mutate runs fn on a freshly loaded document and saves it when fn succeeds.
func (j *jsonFile) mutate(ctx context.Context, fn func(*document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	doc, err := j.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return j.save(doc)
}

func (j *jsonFile) count(ctx context.Context, kind models.Kind) (int, error) {
	_, total, err := j.list(ctx, kind, 0, 0)
	return total, err
}

func (j *jsonFile) inspect(ctx context.Context) (models.StoreInspection, error) {
	if err := ctx.Err(); err != nil {
		return models.StoreInspection{}, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	abs, err := filepath.Abs(j.path)
	if err != nil {
		abs = j.path
	}
	info := models.StoreInspection{Backend: j.name(), Path: abs}

	st, err := os.Stat(j.path)
	if err != nil {
		return info, nil //nolint:nilerr // a missing file is reported, not failed
	}
	info.Exists = true
	info.SizeBytes = st.Size()
	info.FileContent = readFileContent(j.path)
	return info, nil
}

// readFileContent counts the arrays as written on disk, without coercion.
func readFileContent(path string) *models.FileContent {
	data, err := os.ReadFile(path)
	if err != nil {
		return &models.FileContent{Error: "unable to read file"}
	}
	var raw struct {
		Games []json.RawMessage `json:"games"`
		Songs []json.RawMessage `json:"songs"`
		Clips []json.RawMessage `json:"clips"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return &models.FileContent{Error: "unable to read file"}
	}
	return &models.FileContent{Games: len(raw.Games), Songs: len(raw.Songs), Clips: len(raw.Clips)}
}

func (j *jsonFile) ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := os.Stat(j.path)
	if err != nil {
		return fmt.Errorf("catalog file unavailable: %w", err)
	}
	return nil
}

func (j *jsonFile) close() error { return nil }
