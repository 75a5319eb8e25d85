package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/GalacticGlum/FreeCell/pkg/cache"
	"github.com/GalacticGlum/FreeCell/pkg/pipeline"
	"github.com/GalacticGlum/FreeCell/pkg/stack"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger)
	t.Cleanup(func() { _ = runner.Close() })

	srv := httptest.NewServer(c.newServeHandler(runner, Config{}))
	t.Cleanup(srv.Close)
	return srv
}

func TestServeHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestServeLayout(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/layout?cards=12")
	if err != nil {
		t.Fatalf("GET /v1/layout error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var l stack.Layout
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if l.CardCount != 12 || len(l.Offsets) != 12 {
		t.Errorf("layout shape = %d cards, %d offsets", l.CardCount, len(l.Offsets))
	}
	if l.Offsets[11] != 0 {
		t.Errorf("bottom offset = %v, want 0", l.Offsets[11])
	}
}

func TestServeLayoutQueryOverrides(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/layout?cards=3&viewport_height=1000&card_height=400")
	if err != nil {
		t.Fatalf("GET /v1/layout error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var l stack.Layout
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if l.Geometry.ViewportHeight != 1000 || l.Geometry.CardHeight != 400 {
		t.Errorf("geometry = %+v, overrides not applied", l.Geometry)
	}
}

func TestServeLayoutErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing cards",
			query:      "",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_CARD_COUNT",
		},
		{
			name:       "non-integer cards",
			query:      "?cards=many",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_CARD_COUNT",
		},
		{
			name:       "undefined card count",
			query:      "?cards=5",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_CARD_COUNT",
		},
		{
			name:       "bad float parameter",
			query:      "?cards=8&viewport_height=tall",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "degenerate configuration",
			query:      "?cards=8&max_cards=1",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_CONFIGURATION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/v1/layout" + tt.query)
			if err != nil {
				t.Fatalf("GET error: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			var body errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.wantCode)
			}
		})
	}
}
