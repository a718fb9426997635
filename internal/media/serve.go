// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package media

import (
	"net/http"
	"path"
	"strings"

	"gocloud.dev/gcerrors"

	"github.com/tomtom215/mediashelf/internal/logging"
)

// Handler serves stored files. Mount it with the URLPrefix stripped, so
// r.URL.Path is the bucket key. Range and conditional requests are answered
// by http.ServeContent over the seekable blob reader.
func (s *Store) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		key := strings.TrimPrefix(r.URL.Path, "/")
		if !validKey(key) {
			http.NotFound(w, r)
			return
		}

		ctx := r.Context()
		attrs, err := s.bucket.Attributes(ctx, key)
		if gcerrors.Code(err) == gcerrors.NotFound {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("key", key).Msg("Failed to stat upload")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		reader, err := s.bucket.NewReader(ctx, key, nil)
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("key", key).Msg("Failed to open upload")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		defer reader.Close() //nolint:errcheck // read-only

		h := w.Header()
		if attrs.ContentType != "" {
			h.Set("Content-Type", attrs.ContentType)
		}
		if attrs.ETag != "" {
			h.Set("ETag", attrs.ETag)
		}
		h.Set("Cache-Control", "public, max-age=86400")

		http.ServeContent(w, r, path.Base(key), attrs.ModTime, reader)
	})
}
