package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/acms/internal/shared"
)

func TestPostgRESTProxy(t *testing.T) {
	var got *http.Request
	var gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"1"}]`))
	}))
	defer upstream.Close()

	proxy, err := NewPostgRESTProxy(shared.PostgRESTConfig{URL: upstream.URL + "/rest/v1", APIKey: "anon-key"}, nil)
	if err != nil {
		t.Fatalf("NewPostgRESTProxy() error = %v", err)
	}

	router := NewBasicRouter()
	router.Handler(proxy)

	t.Run("forwards path query and key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/supabase/categories?select=id,name", strings.NewReader(`{"name":"Balance"}`))
		req.Header.Set("Prefer", "return=representation")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d", rec.Code)
		}
		if got.URL.Path != "/rest/v1/categories" {
			t.Errorf("upstream path = %q", got.URL.Path)
		}
		if got.URL.RawQuery != "select=id,name" {
			t.Errorf("upstream query = %q", got.URL.RawQuery)
		}
		if got.Header.Get("apikey") != "anon-key" {
			t.Errorf("apikey = %q", got.Header.Get("apikey"))
		}
		if got.Header.Get("Authorization") != "Bearer anon-key" {
			t.Errorf("authorization = %q", got.Header.Get("Authorization"))
		}
		if got.Header.Get("Prefer") != "return=representation" {
			t.Errorf("prefer = %q", got.Header.Get("Prefer"))
		}
		if gotBody != `{"name":"Balance"}` {
			t.Errorf("body = %q", gotBody)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("missing CORS header")
		}
		if rec.Header().Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", rec.Header().Get("Content-Type"))
		}
		if rec.Body.String() != `[{"id":"1"}]` {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("keeps caller authorization", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/supabase/focus_areas", nil)
		req.Header.Set("Authorization", "Bearer user-token")
		router.ServeHTTP(httptest.NewRecorder(), req)

		if got.Header.Get("Authorization") != "Bearer user-token" {
			t.Errorf("authorization = %q", got.Header.Get("Authorization"))
		}
	})

	t.Run("preflight", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/supabase/categories", nil))

		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Methods") == "" {
			t.Error("missing allow-methods header")
		}
	})
}

func TestPostgRESTProxyUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	proxy, err := NewPostgRESTProxy(shared.PostgRESTConfig{URL: url}, nil)
	if err != nil {
		t.Fatalf("NewPostgRESTProxy() error = %v", err)
	}

	rec := httptest.NewRecorder()
	proxy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/supabase/categories", nil))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header on error")
	}
}

func TestNewPostgRESTProxyInvalidURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "/relative"} {
		if _, err := NewPostgRESTProxy(shared.PostgRESTConfig{URL: raw}, nil); err == nil {
			t.Errorf("NewPostgRESTProxy(%q) expected error", raw)
		}
	}
}
