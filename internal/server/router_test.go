package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/acms/internal/shared"
)

type stubHandler struct {
	routes []string
	body   string
}

func (s *stubHandler) Routes() []string { return s.routes }

func (s *stubHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(s.body))
}

func TestBasicRouter(t *testing.T) {
	t.Run("Handle filters by method", func(t *testing.T) {
		router := NewBasicRouter()
		router.HandleFunc("get", "/ping", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("pong"))
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
			t.Errorf("GET /ping = %d %q", rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST /ping = %d, want 405", rec.Code)
		}
	})

	t.Run("Handle without method matches any", func(t *testing.T) {
		router := NewBasicRouter()
		router.HandleFunc("", "/any", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(r.Method))
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/any", nil))
		if rec.Body.String() != http.MethodDelete {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("Handler registers every route", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(&stubHandler{routes: []string{"/a", "/b/"}, body: "stub"})

		for _, path := range []string{"/a", "/b/c"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Body.String() != "stub" {
				t.Errorf("%s: body = %q", path, rec.Body.String())
			}
		}

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("unknown path = %d, want 404", rec.Code)
		}
	})

	t.Run("middleware order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("first"), mark("second"))
		router.HandleFunc(http.MethodGet, "/", func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if got := strings.Join(order, ","); got != "first,second,handler" {
			t.Errorf("order = %s", got)
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("Logging records status", func(t *testing.T) {
		var buf strings.Builder
		logger := shared.NewLogger(&buf)

		handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/brew", nil))

		out := buf.String()
		if !strings.Contains(out, "/brew") || !strings.Contains(out, "418") {
			t.Errorf("log output missing request fields: %q", out)
		}
	})

	t.Run("Recover returns 500", func(t *testing.T) {
		handler := Recover(shared.DiscardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"error"`) {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("CORS preflight", func(t *testing.T) {
		called := false
		handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))

		if called {
			t.Error("preflight reached the handler")
		}
		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("missing allow-origin header")
		}
	})
}
