// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

// Package payload decodes create and update request bodies. JSON,
// urlencoded and multipart bodies all yield the same typed inputs, so the
// JSON API and the HTML forms share one code path.
package payload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mediashelf/internal/catalog"
	"github.com/tomtom215/mediashelf/internal/media"
	"github.com/tomtom215/mediashelf/internal/models"
)

var (
	// ErrInvalid is returned for bodies that cannot be decoded.
	ErrInvalid = errors.New("invalid request body")

	// ErrTooLarge is returned when the body exceeds the configured limit.
	ErrTooLarge = errors.New("request body too large")
)

// multipartMemory is how much of a multipart body is held in memory before
// file parts spill to temporary files.
const multipartMemory = 8 << 20

// File field names.
const (
	FieldGameImage     = "image"
	FieldClipThumbnail = "thumbnail"
	FieldClipVideo     = "video"
	FieldClipVideoAlt  = "clip"
)

// Body is a decoded request body. Call Close when done with any uploads.
type Body struct {
	raw    []byte     // JSON bodies
	values url.Values // form bodies
	form   *multipart.Form
	opened []io.Closer
}

// Read decodes the body of r, which may be at most maxBytes long.
func Read(w http.ResponseWriter, r *http.Request, maxBytes int64) (*Body, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	contentType := r.Header.Get("Content-Type")
	mediaType := ""
	if contentType != "" {
		var err error
		if mediaType, _, err = mime.ParseMediaType(contentType); err != nil {
			return nil, fmt.Errorf("%w: content type: %w", ErrInvalid, err)
		}
	}

	switch mediaType {
	case "", "application/json":
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, classify(err)
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && !json.Valid(raw) {
			return nil, fmt.Errorf("%w: malformed JSON", ErrInvalid)
		}
		return &Body{raw: raw}, nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, classify(err)
		}
		return &Body{values: url.Values(r.MultipartForm.Value), form: r.MultipartForm}, nil

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, classify(err)
		}
		return &Body{values: r.PostForm}, nil

	default:
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalid, mediaType)
	}
}

func classify(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		return fmt.Errorf("%w: %w", ErrTooLarge, err)
	}
	return fmt.Errorf("%w: %w", ErrInvalid, err)
}

// IsForm reports whether the body was urlencoded or multipart.
func (b *Body) IsForm() bool { return b.values != nil }

// Game returns the game fields and the optional image upload.
func (b *Body) Game() (models.GameInput, *media.Upload, error) {
	var in models.GameInput
	if b.values != nil {
		in = models.GameInputFromForm(b.values)
	} else if err := b.decode(&in); err != nil {
		return in, nil, err
	}
	image, err := b.file(FieldGameImage)
	return in, image, err
}

// Song returns the song fields. File parts are ignored.
func (b *Body) Song() (models.SongInput, error) {
	var in models.SongInput
	if b.values != nil {
		return models.SongInputFromForm(b.values), nil
	}
	err := b.decode(&in)
	return in, err
}

// Clip returns the clip fields and any thumbnail or video uploads. The
// video may arrive as "video" or "clip".
func (b *Body) Clip() (models.ClipInput, catalog.ClipUploads, error) {
	var (
		in    models.ClipInput
		files catalog.ClipUploads
		err   error
	)
	if b.values != nil {
		in = models.ClipInputFromForm(b.values)
	} else if err = b.decode(&in); err != nil {
		return in, files, err
	}
	if files.Thumbnail, err = b.file(FieldClipThumbnail); err != nil {
		return in, files, err
	}
	files.Video, err = b.file(FieldClipVideo, FieldClipVideoAlt)
	return in, files, err
}

// Close releases opened uploads and temporary files.
func (b *Body) Close() error {
	var errs []error
	for _, c := range b.opened {
		errs = append(errs, c.Close())
	}
	b.opened = nil
	if b.form != nil {
		errs = append(errs, b.form.RemoveAll())
	}
	return errors.Join(errs...)
}

func (b *Body) decode(dst interface{}) error {
	if len(b.raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(b.raw, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// file opens the first non-empty upload under any of names.
func (b *Body) file(names ...string) (*media.Upload, error) {
	if b.form == nil {
		return nil, nil
	}
	for _, name := range names {
		headers := b.form.File[name]
		if len(headers) == 0 || headers[0].Filename == "" {
			continue
		}
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", ErrInvalid, name, err)
		}
		b.opened = append(b.opened, f)
		return &media.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
		}, nil
	}
	return nil, nil
}
