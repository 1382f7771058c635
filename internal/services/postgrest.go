package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/desertthunder/acms/internal/models"
	"github.com/desertthunder/acms/internal/shared"
)

const (
	contentTable  = "academy_content"
	junctionTable = "content_focus_areas"

	contentColumns = "id,content_type,title,category_id,content_link,content_body,thumbnail_url,duration,description,is_published,created_at,updated_at,categories(name)"
)

var _ models.Store = (*PostgRESTService)(nil)

// PostgRESTOptions configures a [PostgRESTService].
type PostgRESTOptions struct {
	APIKey    string
	RateLimit float64 // requests per second; zero or less disables throttling
	Timeout   time.Duration
	Client    *http.Client // base client, defaults to [http.DefaultClient]
}

// PostgRESTService is a [models.Store] backed by a PostgREST endpoint.
type PostgRESTService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewPostgRESTService creates a client for the PostgREST root at baseURL (e.g. https://x.supabase.co/rest/v1).
func NewPostgRESTService(baseURL string, opts PostgRESTOptions) *PostgRESTService {
	base := opts.Client
	if base == nil {
		base = http.DefaultClient
	}

	client := &http.Client{
		Transport:     base.Transport,
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
		Timeout:       base.Timeout,
	}
	if opts.Timeout > 0 {
		client.Timeout = opts.Timeout
	}
	if opts.APIKey != "" {
		client.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.APIKey, TokenType: "Bearer"}),
			Base:   base.Transport,
		}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &PostgRESTService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     opts.APIKey,
		httpClient: client,
		limiter:    limiter,
	}
}

// NewPostgRESTServiceFromConfig creates a client from the [postgrest] config section.
func NewPostgRESTServiceFromConfig(cfg shared.PostgRESTConfig) *PostgRESTService {
	return NewPostgRESTService(cfg.URL, PostgRESTOptions{
		APIKey:    cfg.APIKey,
		RateLimit: cfg.RateLimit,
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
}

// Close is a no-op; it lets callers treat every store the same.
func (s *PostgRESTService) Close() error { return nil }

// request describes one PostgREST call.
type request struct {
	method string
	table  string
	query  url.Values
	prefer []string
	body   any
}

// do performs req and decodes a JSON response into out when out is non-nil.
func (s *PostgRESTService) do(ctx context.Context, req request, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	fullURL := s.baseURL + "/" + req.table
	if len(req.query) > 0 {
		fullURL += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, fullURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		httpReq.Header.Set("apikey", s.apiKey)
	}
	if len(req.prefer) > 0 {
		httpReq.Header.Set("Prefer", strings.Join(req.prefer, ","))
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (s *PostgRESTService) LookupLabel(ctx context.Context, table models.LabelTable, name string) (*models.ReferenceLabel, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	var labels []models.ReferenceLabel
	err := s.do(ctx, request{
		method: http.MethodGet,
		table:  table.String(),
		query:  url.Values{"select": {"id,name"}, "name": {"eq." + name}, "limit": {"1"}},
	}, &labels)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s %q: %w", table, name, err)
	}

	if len(labels) == 0 {
		return nil, nil
	}
	return &labels[0], nil
}

// UpsertLabel sends only the name so a conflicting row keeps its id.
func (s *PostgRESTService) UpsertLabel(ctx context.Context, table models.LabelTable, name string) (*models.ReferenceLabel, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: label name is empty", shared.ErrInvalidInput)
	}

	var labels []models.ReferenceLabel
	err := s.do(ctx, request{
		method: http.MethodPost,
		table:  table.String(),
		query:  url.Values{"on_conflict": {"name"}, "select": {"id,name"}},
		prefer: []string{"resolution=merge-duplicates", "return=representation"},
		body:   []map[string]string{{"name": name}},
	}, &labels)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert %s %q: %w", table, name, err)
	}

	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: upsert of %s %q returned no row", shared.ErrPersistenceInconsistency, table, name)
	}
	return &labels[0], nil
}

func (s *PostgRESTService) ListLabels(ctx context.Context, table models.LabelTable) ([]models.ReferenceLabel, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	labels := []models.ReferenceLabel{}
	err := s.do(ctx, request{
		method: http.MethodGet,
		table:  table.String(),
		query:  url.Values{"select": {"id,name"}, "order": {"name.asc"}},
	}, &labels)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	return labels, nil
}

func (s *PostgRESTService) InsertContent(ctx context.Context, row *models.ContentRow) (*models.ContentRow, error) {
	var resources []contentResource
	err := s.do(ctx, request{
		method: http.MethodPost,
		table:  contentTable,
		query:  url.Values{"select": {contentColumns}},
		prefer: []string{"return=representation"},
		body:   newContentPayload(row, true),
	}, &resources)
	if err != nil {
		return nil, fmt.Errorf("failed to insert content: %w", err)
	}

	if len(resources) == 0 {
		return nil, nil
	}
	return resources[0].toRow(), nil
}

func (s *PostgRESTService) UpdateContent(ctx context.Context, row *models.ContentRow) error {
	payload := newContentPayload(row, false)
	now := time.Now().UTC()
	payload.UpdatedAt = &now

	var updated []struct {
		ID string `json:"id"`
	}
	err := s.do(ctx, request{
		method: http.MethodPatch,
		table:  contentTable,
		query:  url.Values{"id": {"eq." + row.ID}, "select": {"id"}},
		prefer: []string{"return=representation"},
		body:   payload,
	}, &updated)
	if err != nil {
		return fmt.Errorf("failed to update content: %w", err)
	}

	if len(updated) == 0 {
		return fmt.Errorf("%w: %s", shared.ErrContentNotFound, row.ID)
	}

	row.UpdatedAt = now
	return nil
}

func (s *PostgRESTService) DeleteContent(ctx context.Context, id string) error {
	err := s.do(ctx, request{
		method: http.MethodDelete,
		table:  contentTable,
		query:  url.Values{"id": {"eq." + id}},
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}
	return nil
}

func (s *PostgRESTService) GetContent(ctx context.Context, id string) (*models.ContentRow, error) {
	var resources []contentResource
	err := s.do(ctx, request{
		method: http.MethodGet,
		table:  contentTable,
		query:  url.Values{"select": {contentColumns}, "id": {"eq." + id}, "limit": {"1"}},
	}, &resources)
	if err != nil {
		return nil, fmt.Errorf("failed to get content: %w", err)
	}

	if len(resources) == 0 {
		return nil, nil
	}
	return resources[0].toRow(), nil
}

// ListContent pages newest first. A search also matches category names by first
// resolving the ids of matching categories.
func (s *PostgRESTService) ListContent(ctx context.Context, q models.ContentQuery) ([]*models.ContentRow, error) {
	rows := []*models.ContentRow{}
	if q.Limit() == 0 {
		return rows, nil
	}

	query := url.Values{
		"select": {contentColumns},
		"order":  {"created_at.desc,id.desc"},
		"offset": {strconv.Itoa(q.From)},
		"limit":  {strconv.Itoa(q.Limit())},
	}

	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := quoteFilterValue("*" + search + "*")
		filters := []string{"title.ilike." + pattern, "content_type.ilike." + pattern}

		var categories []models.ReferenceLabel
		err := s.do(ctx, request{
			method: http.MethodGet,
			table:  models.CategoriesTable.String(),
			query:  url.Values{"select": {"id,name"}, "name": {"ilike." + "*" + search + "*"}},
		}, &categories)
		if err != nil {
			return nil, fmt.Errorf("failed to search categories: %w", err)
		}
		if len(categories) > 0 {
			ids := make([]string, 0, len(categories))
			for _, c := range categories {
				ids = append(ids, quoteFilterValue(c.ID))
			}
			filters = append(filters, "category_id.in.("+strings.Join(ids, ",")+")")
		}

		query.Set("or", "("+strings.Join(filters, ",")+")")
	}

	var resources []contentResource
	err := s.do(ctx, request{method: http.MethodGet, table: contentTable, query: query}, &resources)
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}

	for _, r := range resources {
		rows = append(rows, r.toRow())
	}
	return rows, nil
}

func (s *PostgRESTService) DeleteLinks(ctx context.Context, contentID string) error {
	err := s.do(ctx, request{
		method: http.MethodDelete,
		table:  junctionTable,
		query:  url.Values{"content_id": {"eq." + contentID}},
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to delete focus area links: %w", err)
	}
	return nil
}

func (s *PostgRESTService) InsertLinks(ctx context.Context, rows []models.JunctionRow) error {
	if len(rows) == 0 {
		return nil
	}

	err := s.do(ctx, request{
		method: http.MethodPost,
		table:  junctionTable,
		query:  url.Values{"on_conflict": {"content_id,focus_area_id"}},
		prefer: []string{"resolution=ignore-duplicates", "return=minimal"},
		body:   rows,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to insert focus area links: %w", err)
	}
	return nil
}

func (s *PostgRESTService) LinkedLabels(ctx context.Context, contentID string) ([]models.ReferenceLabel, error) {
	var links []struct {
		FocusArea *models.ReferenceLabel `json:"focus_areas"`
	}
	err := s.do(ctx, request{
		method: http.MethodGet,
		table:  junctionTable,
		query:  url.Values{"select": {"focus_areas(id,name)"}, "content_id": {"eq." + contentID}},
	}, &links)
	if err != nil {
		return nil, fmt.Errorf("failed to read focus area links: %w", err)
	}

	labels := make([]models.ReferenceLabel, 0, len(links))
	for _, l := range links {
		if l.FocusArea != nil {
			labels = append(labels, *l.FocusArea)
		}
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].Name < labels[j].Name })
	return labels, nil
}

// quoteFilterValue double-quotes a value for use inside or=(...) and in.(...) lists.
func quoteFilterValue(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(v) + `"`
}
