// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package payload

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

const maxBytes = 1 << 20

func jsonRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type part struct {
	field, filename, content string
}

func multipartRequest(t *testing.T, values map[string]string, files ...part) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range values {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		w, err := mw.CreateFormFile(f.field, f.filename)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = io.WriteString(w, f.content)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func read(t *testing.T, req *http.Request) *Body {
	t.Helper()
	body, err := Read(httptest.NewRecorder(), req, maxBytes)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	t.Cleanup(func() { _ = body.Close() })
	return body
}

func TestGame_JSON(t *testing.T) {
	t.Parallel()
	body := read(t, jsonRequest(`{"title":"Tunic","rating":4.5,"launchDate":null,"status":"Pending"}`))

	in, image, err := body.Game()
	if err != nil {
		t.Fatalf("Game: %v", err)
	}
	if image != nil {
		t.Error("JSON body produced an upload")
	}
	if in.Title != "Tunic" || in.Rating != "4.5" || in.LaunchDate != "" || in.Status != "Pending" {
		t.Errorf("input = %+v", in)
	}
	if body.IsForm() {
		t.Error("JSON body reported as form")
	}
}

func TestGame_Multipart(t *testing.T) {
	t.Parallel()
	req := multipartRequest(t, map[string]string{"title": "Inside", "rating": "4"},
		part{FieldGameImage, "cover.png", "png-bytes"})
	body := read(t, req)

	in, image, err := body.Game()
	if err != nil {
		t.Fatalf("Game: %v", err)
	}
	if in.Title != "Inside" || in.Rating != "4" {
		t.Errorf("input = %+v", in)
	}
	if image == nil {
		t.Fatal("image upload missing")
	}
	data, _ := io.ReadAll(image.Body)
	if image.Filename != "cover.png" || string(data) != "png-bytes" {
		t.Errorf("upload = %q %q", image.Filename, data)
	}
}

func TestSong_URLEncoded(t *testing.T) {
	t.Parallel()
	form := url.Values{"title": {"Intro"}, "artist": {"The xx"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	body := read(t, req)

	in, err := body.Song()
	if err != nil {
		t.Fatalf("Song: %v", err)
	}
	if in.Title != "Intro" || in.Artist != "The xx" {
		t.Errorf("input = %+v", in)
	}
	if !body.IsForm() {
		t.Error("form body not reported as form")
	}
}

func TestClip_VideoAlias(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		field string
	}{
		{"video field", FieldClipVideo},
		{"clip alias", FieldClipVideoAlt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := multipartRequest(t, map[string]string{"title": "Speedrun"},
				part{tt.field, "run.mp4", "mp4"},
				part{FieldClipThumbnail, "run.jpg", "jpg"})
			body := read(t, req)

			in, files, err := body.Clip()
			if err != nil {
				t.Fatalf("Clip: %v", err)
			}
			if in.Title != "Speedrun" {
				t.Errorf("title = %q", in.Title)
			}
			if files.Video == nil || files.Video.Filename != "run.mp4" {
				t.Errorf("video = %+v", files.Video)
			}
			if files.Thumbnail == nil || files.Thumbnail.Filename != "run.jpg" {
				t.Errorf("thumbnail = %+v", files.Thumbnail)
			}
		})
	}
}

func TestClip_NoFiles(t *testing.T) {
	t.Parallel()
	body := read(t, multipartRequest(t, map[string]string{"description": "d"}))
	_, files, err := body.Clip()
	if err != nil {
		t.Fatalf("Clip: %v", err)
	}
	if files.Video != nil || files.Thumbnail != nil {
		t.Errorf("files = %+v, want none", files)
	}
}

func TestRead_EmptyJSONBody(t *testing.T) {
	t.Parallel()
	body := read(t, jsonRequest(""))
	in, _, err := body.Game()
	if err != nil {
		t.Fatalf("Game: %v", err)
	}
	if in.Title != "" {
		t.Errorf("input = %+v", in)
	}
}

func TestRead_Errors(t *testing.T) {
	t.Parallel()

	badMultipart := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not multipart"))
	badMultipart.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

	xml := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("<game/>"))
	xml.Header.Set("Content-Type", "application/xml")

	big := jsonRequest(`{"notes":"` + strings.Repeat("x", maxBytes) + `"}`)

	tests := []struct {
		name string
		req  *http.Request
		want error
	}{
		{"malformed JSON", jsonRequest(`{"title":`), ErrInvalid},
		{"malformed multipart", badMultipart, ErrInvalid},
		{"unsupported type", xml, ErrInvalid},
		{"oversized", big, ErrTooLarge},
	}
	for _, tt := range tests {
		_, err := Read(httptest.NewRecorder(), tt.req, maxBytes)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestDecode_WrongShape(t *testing.T) {
	t.Parallel()
	body := read(t, jsonRequest(`["not","an","object"]`))
	if _, err := body.Song(); !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}
