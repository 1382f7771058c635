package server

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/acms/internal/shared"
)

// ProxyPrefix is the path under which requests are forwarded to PostgREST.
const ProxyPrefix = "/api/supabase/"

// PostgRESTProxy forwards browser requests to the hosted backend.
//
// /api/supabase/<table>?<query> becomes <postgrest url>/<table>?<query>. The
// API key is attached as apikey, and as the bearer token unless the caller sent
// its own Authorization header.
type PostgRESTProxy struct {
	target *url.URL
	apiKey string
	proxy  *httputil.ReverseProxy
	logger *log.Logger
}

// NewPostgRESTProxy creates a proxy for the [postgrest] config section.
func NewPostgRESTProxy(cfg shared.PostgRESTConfig, logger *log.Logger) (*PostgRESTProxy, error) {
	target, err := url.Parse(cfg.URL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("%w: postgrest url %q", shared.ErrInvalidConfig, cfg.URL)
	}
	if logger == nil {
		logger = shared.DiscardLogger()
	}

	p := &PostgRESTProxy{target: target, apiKey: cfg.APIKey, logger: logger}
	p.proxy = &httputil.ReverseProxy{
		Rewrite:        p.rewrite,
		ModifyResponse: p.modifyResponse,
		ErrorHandler:   p.handleError,
	}
	return p, nil
}

// Routes returns the proxied path prefix.
func (p *PostgRESTProxy) Routes() []string {
	return []string{ProxyPrefix}
}

func (p *PostgRESTProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		setCORSHeaders(w.Header())
		w.WriteHeader(http.StatusNoContent)
		return
	}
	p.proxy.ServeHTTP(w, r)
}

func (p *PostgRESTProxy) rewrite(pr *httputil.ProxyRequest) {
	rest := strings.TrimPrefix(pr.In.URL.Path, ProxyPrefix)

	pr.Out.URL.Scheme = p.target.Scheme
	pr.Out.URL.Host = p.target.Host
	pr.Out.URL.Path = strings.TrimRight(p.target.Path, "/") + "/" + rest
	pr.Out.URL.RawPath = ""
	pr.Out.URL.RawQuery = pr.In.URL.RawQuery
	pr.Out.Host = p.target.Host

	if p.apiKey != "" {
		pr.Out.Header.Set("apikey", p.apiKey)
		if pr.In.Header.Get("Authorization") == "" {
			pr.Out.Header.Set("Authorization", "Bearer "+p.apiKey)
		}
	}
	pr.Out.Header.Set("Content-Type", "application/json")
}

func (p *PostgRESTProxy) modifyResponse(resp *http.Response) error {
	setCORSHeaders(resp.Header)
	resp.Header.Set("Content-Type", "application/json")
	return nil
}

func (p *PostgRESTProxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Error("proxy request failed", "path", r.URL.Path, "err", err)
	setCORSHeaders(w.Header())
	writeError(w, http.StatusBadGateway, "upstream request failed")
}
