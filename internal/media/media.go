// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

// Package media stores uploaded files in a gocloud.dev blob bucket and
// serves them back under /uploads/.
//
// The bucket is a local directory by default. Any blob URL works instead:
// mem:// for tests, s3://bucket?region=... for object storage.
package media

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob" // mem:// URLs
	_ "gocloud.dev/blob/s3blob"  // s3:// URLs

	"github.com/tomtom215/mediashelf/internal/config"
	"github.com/tomtom215/mediashelf/internal/logging"
	"github.com/tomtom215/mediashelf/internal/metrics"
)

// URLPrefix is the public path uploaded files are served under.
const URLPrefix = "/uploads/"

// Slot is the directory an upload is filed under.
type Slot string

const (
	SlotGameImage     Slot = "games"
	SlotClipThumbnail Slot = "clips/thumbnails"
	SlotClipVideo     Slot = "clips/videos"
)

// Upload is one received file.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Store files uploads into a bucket.
type Store struct {
	bucket *blob.Bucket
	where  string
}

// Open opens the bucket named by cfg.BucketURL, or a directory bucket at
// cfg.Dir when no URL is set.
func Open(ctx context.Context, cfg config.UploadsConfig) (*Store, error) {
	if cfg.BucketURL != "" {
		b, err := blob.OpenBucket(ctx, cfg.BucketURL)
		if err != nil {
			return nil, fmt.Errorf("open upload bucket %s: %w", cfg.BucketURL, err)
		}
		return &Store{bucket: b, where: cfg.BucketURL}, nil
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	b, err := fileblob.OpenBucket(cfg.Dir, nil)
	if err != nil {
		return nil, fmt.Errorf("open upload directory %s: %w", cfg.Dir, err)
	}
	return &Store{bucket: b, where: cfg.Dir}, nil
}

// NewStore wraps an already open bucket.
func NewStore(bucket *blob.Bucket) *Store {
	return &Store{bucket: bucket, where: "bucket"}
}

// Location describes where uploads are kept.
func (s *Store) Location() string { return s.where }

// Save writes the upload under slot with a random name that keeps the
// original extension, and returns the public URL of the stored file.
func (s *Store) Save(ctx context.Context, slot Slot, up Upload) (string, error) {
	ext := cleanExt(up.Filename)
	key := string(slot) + "/" + uuid.NewString() + ext

	contentType := up.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			contentType = byExt
		}
	}

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := s.bucket.NewWriter(wctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("open upload writer: %w", err)
	}
	n, err := io.Copy(w, up.Body)
	if err != nil {
		cancel()  // aborts the write
		w.Close() //nolint:errcheck,gosec // copy error takes precedence
		return "", fmt.Errorf("write upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finish upload %s: %w", key, err)
	}

	metrics.RecordUpload(string(slot), n)
	logging.Ctx(ctx).Debug().Str("key", key).Int64("bytes", n).Msg("Stored upload")
	return URLPrefix + key, nil
}

// Close closes the bucket.
func (s *Store) Close() error {
	return s.bucket.Close()
}

// validKey rejects empty keys, absolute keys and traversal.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	return path.Clean(key) == key && !strings.HasPrefix(key, "..")
}

// cleanExt returns the lowercased extension of name if it is short and
// alphanumeric, else "".
func cleanExt(name string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(name, "\\", "/")))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
