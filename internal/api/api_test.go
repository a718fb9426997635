// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"gocloud.dev/blob/memblob"

	"github.com/tomtom215/mediashelf/internal/catalog"
	"github.com/tomtom215/mediashelf/internal/config"
	"github.com/tomtom215/mediashelf/internal/idgen"
	"github.com/tomtom215/mediashelf/internal/logging"
	"github.com/tomtom215/mediashelf/internal/media"
	"github.com/tomtom215/mediashelf/internal/models"
	"github.com/tomtom215/mediashelf/internal/store"
)

func init() {
	logging.Init(logging.Config{Level: "error", Format: "console", Output: io.Discard})
}

type testServer struct {
	handler http.Handler
	catalog *catalog.Service
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()

	cfg := config.Default()
	cfg.Security.RateLimitDisabled = true
	cfg.Uploads.MaxUploadMB = 1
	cfg.Store.Path = filepath.Join(t.TempDir(), "db.json")
	if mutate != nil {
		mutate(cfg)
	}

	st, err := store.Open(context.Background(), cfg.Store)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	files := media.NewStore(memblob.OpenBucket(nil))
	t.Cleanup(func() { _ = files.Close() })

	svc := catalog.New(st, files, idgen.NewMonotonic(), nil)
	router := NewRouter(NewHandler(svc, cfg), cfg, nil, files.Handler(), nil)
	return &testServer{handler: router.Setup(), catalog: svc}
}

func (s *testServer) do(t *testing.T, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *testServer) doJSON(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return s.do(t, method, target, r, "application/json")
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) models.ErrorResponse {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	resp := decodeBody[models.ErrorResponse](t, w)
	if resp.Code != code {
		t.Errorf("code = %q, want %q", resp.Code, code)
	}
	return resp
}

func (s *testServer) seedGames(t *testing.T, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		if _, err := s.catalog.CreateGame(context.Background(), models.GameInput{Title: models.Field(fmt.Sprintf("Game %d", i))}, nil); err != nil {
			t.Fatalf("CreateGame: %v", err)
		}
	}
}

func TestListGames_SecondPage(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	s.seedGames(t, 30)

	w := s.doJSON(t, http.MethodGet, "/api/games?page=2&limit=25", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	page := decodeBody[models.Page[models.Game]](t, w)
	if len(page.Items) != 5 || page.Total != 30 || page.TotalPages != 2 || page.Page != 2 || page.Limit != 25 {
		t.Errorf("page = %+v", page)
	}
	if page.Items[0].Title != "Game 26" {
		t.Errorf("first item = %q, want Game 26", page.Items[0].Title)
	}
}

func TestListGames_WindowSize(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	s.seedGames(t, 7)

	tests := []struct {
		query      string
		wantItems  int
		wantTotalP int
	}{
		{"", 7, 1},
		{"?limit=3", 3, 3},
		{"?page=3&limit=3", 1, 3},
		{"?page=4&limit=3", 0, 3},
		{"?page=1&limit=100", 7, 1},
	}

	for _, tt := range tests {
		w := s.doJSON(t, http.MethodGet, "/api/games"+tt.query, "")
		page := decodeBody[models.Page[models.Game]](t, w)
		if len(page.Items) != tt.wantItems || page.TotalPages != tt.wantTotalP {
			t.Errorf("%q: items=%d totalPages=%d, want %d/%d", tt.query, len(page.Items), page.TotalPages, tt.wantItems, tt.wantTotalP)
		}
	}
}

func TestListGames_PageBeyondRange(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	s.seedGames(t, 5)

	for _, query := range []string{
		"?page=1152921504606846977&limit=16",
		"?page=368934881474191034&limit=25",
		"?page=9223372036854775807&limit=24",
	} {
		w := s.doJSON(t, http.MethodGet, "/api/games"+query, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%q: status = %d", query, w.Code)
		}
		page := decodeBody[models.Page[models.Game]](t, w)
		if len(page.Items) != 0 || page.Total != 5 || page.TotalPages != 1 {
			t.Errorf("%q: items=%d total=%d totalPages=%d, want 0/5/1", query, len(page.Items), page.Total, page.TotalPages)
		}
	}
}

func TestListSongs_DefaultLimit(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	w := s.doJSON(t, http.MethodGet, "/api/songs", "")
	page := decodeBody[models.Page[models.Song]](t, w)
	if page.Limit != 24 || page.Page != 1 || page.Items == nil {
		t.Errorf("page = %+v", page)
	}
	if !strings.Contains(w.Body.String(), `"items":[]`) {
		t.Errorf("empty items should encode as []: %s", w.Body.String())
	}
}

func TestListQuery_Invalid(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	for _, q := range []string{"page=0", "limit=0", "limit=101", "page=abc", "limit=-4"} {
		w := s.doJSON(t, http.MethodGet, "/api/games?"+q, "")
		resp := expectError(t, w, http.StatusBadRequest, ErrCodeValidation)
		if resp.Details == nil {
			t.Errorf("%s: details missing", q)
		}
	}
}

func TestSongs_CreateThenGet(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	w := s.doJSON(t, http.MethodPost, "/api/songs", `{"title":"A","youtubeUrl":"https://youtu.be/xyz"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody[models.Song](t, w)
	if created.ID == 0 {
		t.Fatal("id not assigned")
	}

	w = s.doJSON(t, http.MethodGet, fmt.Sprintf("/api/songs/%d", created.ID), "")
	got := decodeBody[models.Song](t, w)
	if got != created || got.Title != "A" || got.YouTubeURL != "https://youtu.be/xyz" {
		t.Errorf("got %+v, created %+v", got, created)
	}
}

func TestCreateGame_MissingTitleAccepted(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	w := s.doJSON(t, http.MethodPost, "/api/games", `{"status":"Pending"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if g := decodeBody[models.Game](t, w); g.Title != "" || g.Status != models.StatusPending {
		t.Errorf("game = %+v", g)
	}
}

func TestUpdateGame_PartialMerge(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	created := decodeBody[models.Game](t, s.doJSON(t, http.MethodPost, "/api/games",
		`{"title":"Hades","notes":"run 1","rating":4}`))
	target := fmt.Sprintf("/api/games/%d", created.ID)

	w := s.doJSON(t, http.MethodPut, target, `{"notes":"run 2","title":""}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	updated := decodeBody[models.Game](t, w)
	if updated.Title != "Hades" || updated.Notes != "run 2" || updated.Rating == nil || *updated.Rating != 4 {
		t.Errorf("updated = %+v", updated)
	}
	if updated.ID != created.ID {
		t.Errorf("id changed: %d -> %d", created.ID, updated.ID)
	}
}

func TestUpdate_Missing(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	resp := expectError(t, s.doJSON(t, http.MethodPut, "/api/songs/42", `{"title":"x"}`), http.StatusNotFound, ErrCodeNotFound)
	if resp.Error != "Song not found" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestDelete_MissingLeavesCollection(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	s.seedGames(t, 2)

	resp := expectError(t, s.doJSON(t, http.MethodDelete, "/api/games/999", ""), http.StatusNotFound, ErrCodeNotFound)
	if resp.Error != "Game not found" {
		t.Errorf("error = %q", resp.Error)
	}

	page := decodeBody[models.Page[models.Game]](t, s.doJSON(t, http.MethodGet, "/api/games", ""))
	if page.Total != 2 {
		t.Errorf("total = %d, want 2", page.Total)
	}
}

func TestGet_NonNumericID(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	for _, kind := range []string{"games", "songs", "clips"} {
		expectError(t, s.doJSON(t, http.MethodGet, "/api/"+kind+"/abc", ""), http.StatusNotFound, ErrCodeNotFound)
	}
}

func TestClips_DeleteLast(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	created := decodeBody[models.Clip](t, s.doJSON(t, http.MethodPost, "/api/clips", `{"title":"Speedrun"}`))

	w := s.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/clips/%d", created.ID), "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}

	w = s.doJSON(t, http.MethodGet, "/api/clips", "")
	if got := strings.TrimSpace(w.Body.String()); got != `{"clips":[]}` {
		t.Errorf("body = %s", got)
	}
}

func TestCreateGame_Invalid(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		body   string
		ctype  string
		status int
		code   string
	}{
		{"rating out of range", `{"rating":9}`, "application/json", http.StatusBadRequest, ErrCodeValidation},
		{"unknown status", `{"status":"Sleeping"}`, "application/json", http.StatusBadRequest, ErrCodeValidation},
		{"malformed json", `{"title":`, "application/json", http.StatusBadRequest, ErrCodeInvalidRequest},
		{"json array", `[1,2]`, "application/json", http.StatusBadRequest, ErrCodeInvalidRequest},
		{"unsupported type", `title=x`, "text/plain", http.StatusBadRequest, ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/games", strings.NewReader(tt.body), tt.ctype)
			expectError(t, w, tt.status, tt.code)
		})
	}
}

func TestCreateGame_TooLarge(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	body := `{"notes":"` + strings.Repeat("x", 2<<20) + `"}`
	w := s.doJSON(t, http.MethodPost, "/api/games", body)
	expectError(t, w, http.StatusRequestEntityTooLarge, ErrCodeTooLarge)
}

func TestCreateGame_MultipartImage(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("title", "Celeste")
	_ = mw.WriteField("rating", "5")
	fw, err := mw.CreateFormFile("image", "cover.png")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte("png-bytes"))
	_ = mw.Close()

	w := s.do(t, http.MethodPost, "/api/games", &buf, mw.FormDataContentType())
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	game := decodeBody[models.Game](t, w)
	if !strings.HasPrefix(game.ImageURL, "/uploads/games/") || !strings.HasSuffix(game.ImageURL, ".png") {
		t.Fatalf("imageUrl = %q", game.ImageURL)
	}

	w = s.do(t, http.MethodGet, game.ImageURL, nil, "")
	if w.Code != http.StatusOK || w.Body.String() != "png-bytes" {
		t.Errorf("GET %s = %d %q", game.ImageURL, w.Code, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	w := s.doJSON(t, http.MethodGet, "/api/health/live", "")
	if w.Code != http.StatusOK || decodeBody[models.HealthResponse](t, w).Status != "alive" {
		t.Errorf("live = %d %s", w.Code, w.Body.String())
	}

	w = s.doJSON(t, http.MethodGet, "/api/health/ready", "")
	ready := decodeBody[models.HealthResponse](t, w)
	if w.Code != http.StatusOK || ready.Status != "ready" || ready.Backend != config.BackendJSON {
		t.Errorf("ready = %d %+v", w.Code, ready)
	}
}

func TestStatsAndDebug(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	s.seedGames(t, 4)
	s.doJSON(t, http.MethodPost, "/api/songs", `{"title":"B"}`)

	stats := decodeBody[models.Stats](t, s.doJSON(t, http.MethodGet, "/api/stats", ""))
	if stats != (models.Stats{Games: 4, Songs: 1}) {
		t.Errorf("stats = %+v", stats)
	}

	w := s.doJSON(t, http.MethodGet, "/api/debug", "")
	if w.Code != http.StatusOK {
		t.Fatalf("debug status = %d", w.Code)
	}
	info := decodeBody[models.DebugInfo](t, w)
	if !info.Exists || len(info.SampleGames) != 3 || len(info.SampleSongs) != 1 || info.Data.Games != 4 {
		t.Errorf("debug = %+v", info)
	}
}

func TestDebug_Disabled(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, func(c *config.Config) { c.Debug.Enabled = false })

	expectError(t, s.doJSON(t, http.MethodGet, "/api/debug", ""), http.StatusNotFound, ErrCodeNotFound)
}

func TestRateLimit_Mutations(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, func(c *config.Config) {
		c.Security.RateLimitDisabled = false
		c.Security.RateLimitReqs = 1
	})

	if w := s.doJSON(t, http.MethodPost, "/api/songs", `{"title":"one"}`); w.Code != http.StatusCreated {
		t.Fatalf("first status = %d", w.Code)
	}
	expectError(t, s.doJSON(t, http.MethodPost, "/api/songs", `{"title":"two"}`), http.StatusTooManyRequests, ErrCodeRateLimited)

	// Reads are not limited.
	for i := 0; i < 3; i++ {
		if w := s.doJSON(t, http.MethodGet, "/api/songs", ""); w.Code != http.StatusOK {
			t.Fatalf("read %d status = %d", i, w.Code)
		}
	}
}

func TestRouter_Auxiliary(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	expectError(t, s.doJSON(t, http.MethodGet, "/api/nope", ""), http.StatusNotFound, ErrCodeNotFound)

	if w := s.doJSON(t, http.MethodGet, "/metrics", ""); w.Code != http.StatusOK {
		t.Errorf("/metrics status = %d", w.Code)
	}

	w := s.doJSON(t, http.MethodGet, "/api/stats", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}
