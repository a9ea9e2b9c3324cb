package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/houston-ecosystem/ecomap/internal/domain"
	"github.com/houston-ecosystem/ecomap/internal/domain/entity"
	"github.com/houston-ecosystem/ecomap/internal/domain/search/request"
	"github.com/houston-ecosystem/ecomap/internal/domain/search/result"
	healthuc "github.com/houston-ecosystem/ecomap/internal/usecase/health"
	searchuc "github.com/houston-ecosystem/ecomap/internal/usecase/search"
	"github.com/houston-ecosystem/ecomap/internal/version"
)

// --- Mocks ---

type mockSearcher struct {
	searchFn func(ctx context.Context, req *request.Request) (result.Page, error)
	last     *request.Request
}

func (m *mockSearcher) Search(ctx context.Context, req *request.Request) (result.Page, error) {
	m.last = req
	if m.searchFn != nil {
		return m.searchFn(ctx, req)
	}
	return result.Empty(req.Limit()), nil
}

type mockCatalog struct {
	listFn func(ctx context.Context, kind entity.Kind) ([]entity.Entity, error)
}

func (m *mockCatalog) List(ctx context.Context, kind entity.Kind) ([]entity.Entity, error) {
	if m.listFn != nil {
		return m.listFn(ctx, kind)
	}
	return []entity.Entity{}, nil
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

type fakeSource struct {
	firms, startups, communities []entity.Entity
}

func (f *fakeSource) ListFirms(context.Context) ([]entity.Entity, error)       { return f.firms, nil }
func (f *fakeSource) ListStartups(context.Context) ([]entity.Entity, error)    { return f.startups, nil }
func (f *fakeSource) ListCommunities(context.Context) ([]entity.Entity, error) { return f.communities, nil }

// --- Helpers ---

func houstonEntities() *fakeSource {
	return &fakeSource{
		firms: []entity.Entity{
			entity.Reconstruct("f1", entity.KindFirm, "Energy Capital", []string{"energy", "climate"},
				entity.Attrs{Description: "Funds the energy transition", Stage: "Seed", FundSize: "$50M", Website: "https://energy.example"},
				entity.Location{Lat: 29.76, Lng: -95.37, Address: "Main St"}),
		},
		startups: []entity.Entity{
			entity.Reconstruct("s1", entity.KindStartup, "Solar Co", []string{"energy", "hardware"},
				entity.Attrs{Description: "Panels", Stage: "Series A", Industry: "Cleantech"},
				entity.Location{Lat: 29.70, Lng: -95.40}),
		},
		communities: []entity.Entity{
			entity.Reconstruct("c1", entity.KindCommunity, "Houston Founders", []string{"community"},
				entity.Attrs{Description: "Monthly meetups", Category: "Meetup"},
				entity.Location{Lat: 29.74, Lng: -95.36}),
		},
	}
}

func newTestRouter(s Searcher, c Catalog, h HealthChecker, apiKeys ...string) http.Handler {
	if c == nil {
		c = &mockCatalog{}
	}
	if h == nil {
		h = &mockHealth{report: healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{}}}
	}
	srv := NewServer(s, c, h, zap.NewNop())
	return NewRouter(srv, zap.NewNop(), apiKeys)
}

func doGet(t *testing.T, h http.Handler, target string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func assertError(t *testing.T, rr *httptest.ResponseRecorder, status int, code ErrorCode) ErrorResponse {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status: got %d, want %d (body %s)", rr.Code, status, rr.Body.String())
	}
	resp := decode[ErrorResponse](t, rr)
	if resp.Code != code {
		t.Errorf("code: got %q, want %q", resp.Code, code)
	}
	return resp
}

// --- Search ---

func TestSearch_TextRanking(t *testing.T) {
	h := newTestRouter(searchuc.New(houstonEntities()), nil, nil)

	rr := doGet(t, h, "/api/v1/search?q=energy")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}

	resp := decode[SearchResponse](t, rr)
	if resp.Total != 2 || len(resp.Items) != 2 {
		t.Fatalf("total=%d items=%d, want 2/2", resp.Total, len(resp.Items))
	}
	if resp.Items[0].ID != "f1" || resp.Items[1].ID != "s1" {
		t.Errorf("order: got %s, %s; want f1, s1", resp.Items[0].ID, resp.Items[1].ID)
	}
	if resp.Page != 1 || resp.Limit != request.DefaultLimit {
		t.Errorf("page/limit: got %d/%d", resp.Page, resp.Limit)
	}
	for _, it := range resp.Items {
		if it.Score <= 0 {
			t.Errorf("%s: score %v must be positive", it.ID, it.Score)
		}
		if it.Score != result.Round4(it.Score) {
			t.Errorf("%s: score %v not rounded to 4 decimals", it.ID, it.Score)
		}
	}

	first := resp.Items[0]
	if first.Kind != entity.KindFirm || first.Website != "https://energy.example" || first.Stage != "Seed" {
		t.Errorf("firm fields not surfaced: %+v", first)
	}
	if first.Location == nil || first.Location.Lat != 29.76 {
		t.Errorf("location: got %+v", first.Location)
	}
}

func TestSearch_TagOnly(t *testing.T) {
	h := newTestRouter(searchuc.New(houstonEntities()), nil, nil)

	resp := decode[SearchResponse](t, doGet(t, h, "/api/v1/search?tags=HARD"))
	if resp.Total != 1 || resp.Items[0].ID != "s1" {
		t.Fatalf("got %+v, want only s1", resp)
	}
	if resp.Items[0].Score != result.TagOnlyScore {
		t.Errorf("score: got %v, want %v", resp.Items[0].Score, result.TagOnlyScore)
	}
}

func TestSearch_EmptyRequest(t *testing.T) {
	h := newTestRouter(searchuc.New(houstonEntities()), nil, nil)

	rr := doGet(t, h, "/api/v1/search")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"items":[]`) {
		t.Errorf("items must encode as an empty array: %s", rr.Body.String())
	}
	resp := decode[SearchResponse](t, rr)
	if resp.Total != 0 || resp.Page != 1 {
		t.Errorf("got total=%d page=%d", resp.Total, resp.Page)
	}
}

func TestSearch_TagsCommaAndRepeated(t *testing.T) {
	m := &mockSearcher{}
	h := newTestRouter(m, nil, nil)

	doGet(t, h, "/api/v1/search?q=x&tags=Energy,%20climate%20,&tags=&tags=hardware")
	if m.last == nil {
		t.Fatal("searcher not called")
	}
	got := m.last.Tags().Terms()
	want := []string{"energy", "climate", "hardware"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("tags: got %v, want %v", got, want)
	}
	if m.last.Query() != "x" {
		t.Errorf("query: got %q", m.last.Query())
	}
}

func TestSearch_PaginationParams(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "q=a", 1, 20},
		{"explicit", "q=a&page=3&limit=5", 3, 5},
		{"unparsable", "q=a&page=abc&limit=zz", 1, 20},
		{"limit above max", "q=a&limit=500", 1, 50},
		{"limit zero", "q=a&limit=0", 1, 1},
		{"negative page", "q=a&page=-3", 1, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockSearcher{}
			h := newTestRouter(m, nil, nil)

			rr := doGet(t, h, "/api/v1/search?"+tt.query)
			if rr.Code != http.StatusOK {
				t.Fatalf("status: got %d", rr.Code)
			}
			if m.last.Page() != tt.wantPage || m.last.Limit() != tt.wantLimit {
				t.Errorf("page/limit: got %d/%d, want %d/%d",
					m.last.Page(), m.last.Limit(), tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestSearch_AppliesRequestTimeout(t *testing.T) {
	m := &mockSearcher{searchFn: func(ctx context.Context, req *request.Request) (result.Page, error) {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected a deadline on the search context")
		}
		<-ctx.Done()
		return result.Page{}, domain.NewUpstreamError("firms", ctx.Err())
	}}
	srv := NewServer(m, &mockCatalog{}, &mockHealth{}, zap.NewNop()).WithRequestTimeout(10 * time.Millisecond)
	h := NewRouter(srv, zap.NewNop(), nil)

	assertError(t, doGet(t, h, "/api/v1/search?q=slow"), http.StatusGatewayTimeout, ErrorCodeTimeout)
}

func TestSearch_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   ErrorCode
		wantMsg    string
	}{
		{
			name:       "upstream failure",
			err:        domain.NewUpstreamError("startups", errors.New("dial tcp: connection refused")),
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrorCodeUpstreamUnavailable,
			wantMsg:    "upstream unavailable: startups",
		},
		{
			name: "circuit open",
			err: domain.NewUpstreamError("firms",
				fmt.Errorf("list firms: %w: %w", domain.ErrCircuitOpen, errors.New("circuit breaker is open"))),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   ErrorCodeCircuitOpen,
			wantMsg:    domain.ErrCircuitOpen.Error(),
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrorCodeInternalError,
			wantMsg:    "internal error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockSearcher{searchFn: func(context.Context, *request.Request) (result.Page, error) {
				return result.Page{}, tt.err
			}}
			h := newTestRouter(m, nil, nil)

			resp := assertError(t, doGet(t, h, "/api/v1/search?q=energy"), tt.wantStatus, tt.wantCode)
			if resp.Message != tt.wantMsg {
				t.Errorf("message: got %q, want %q", resp.Message, tt.wantMsg)
			}
			if strings.Contains(resp.Message, "dial tcp") {
				t.Error("internal cause leaked to client")
			}
		})
	}
}

// --- Entity lists ---

func TestListEntities_FeatureCollection(t *testing.T) {
	src := houstonEntities()
	var gotKind entity.Kind
	c := &mockCatalog{listFn: func(_ context.Context, kind entity.Kind) ([]entity.Entity, error) {
		gotKind = kind
		return src.firms, nil
	}}
	h := newTestRouter(&mockSearcher{}, c, nil)

	rr := doGet(t, h, "/api/v1/firms")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if gotKind != entity.KindFirm {
		t.Errorf("kind: got %q", gotKind)
	}
	body := rr.Body.String()
	if strings.Contains(body, `"location"`) || strings.Contains(body, `"address"`) {
		t.Errorf("properties must not carry the location: %s", body)
	}

	fc := decode[FeatureCollection](t, rr)
	if fc.Type != "FeatureCollection" || len(fc.Features) != 1 {
		t.Fatalf("got %+v", fc)
	}
	f := fc.Features[0]
	if f.Type != "Feature" || f.Geometry.Type != "Point" {
		t.Errorf("feature types: %q/%q", f.Type, f.Geometry.Type)
	}
	if f.Geometry.Coordinates != [2]float64{-95.37, 29.76} {
		t.Errorf("coordinates must be [lng, lat]: got %v", f.Geometry.Coordinates)
	}
	if f.Properties.FundSize != "$50M" || f.Properties.StageFocus != "Seed" || f.Properties.Stage != "" {
		t.Errorf("firm properties: %+v", f.Properties)
	}
}

func TestListEntities_KindRouting(t *testing.T) {
	for _, kind := range entity.Kinds {
		t.Run(kind.Plural(), func(t *testing.T) {
			var got entity.Kind
			c := &mockCatalog{listFn: func(_ context.Context, k entity.Kind) ([]entity.Entity, error) {
				got = k
				return nil, nil
			}}
			h := newTestRouter(&mockSearcher{}, c, nil)

			rr := doGet(t, h, "/api/v1/"+kind.Plural())
			if rr.Code != http.StatusOK {
				t.Fatalf("status: got %d", rr.Code)
			}
			if got != kind {
				t.Errorf("kind: got %q, want %q", got, kind)
			}
			if !strings.Contains(rr.Body.String(), `"features":[]`) {
				t.Errorf("features must encode as an empty array: %s", rr.Body.String())
			}
		})
	}
}

func TestListEntities_UnknownCollection(t *testing.T) {
	h := newTestRouter(&mockSearcher{}, nil, nil)
	assertError(t, doGet(t, h, "/api/v1/guides"), http.StatusNotFound, ErrorCodeNotFound)
}

func TestListEntities_UpstreamError(t *testing.T) {
	c := &mockCatalog{listFn: func(context.Context, entity.Kind) ([]entity.Entity, error) {
		return nil, domain.NewUpstreamError("communities", errors.New("pq: relation does not exist"))
	}}
	h := newTestRouter(&mockSearcher{}, c, nil)

	assertError(t, doGet(t, h, "/api/v1/communities"), http.StatusBadGateway, ErrorCodeUpstreamUnavailable)
}

// --- Health, version, metrics ---

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		status     healthuc.Status
		wantStatus int
	}{
		{healthuc.Healthy, http.StatusOK},
		{healthuc.Degraded, http.StatusOK},
		{healthuc.Unhealthy, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			hc := &mockHealth{report: healthuc.Report{
				Status: tt.status,
				Checks: map[string]healthuc.CheckResult{healthuc.ComponentDatabase: healthuc.CheckOK},
			}}
			h := newTestRouter(&mockSearcher{}, nil, hc)

			rr := doGet(t, h, "/health")
			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			resp := decode[HealthResponse](t, rr)
			if resp.Status != tt.status {
				t.Errorf("body status: got %q", resp.Status)
			}
			if resp.Checks[healthuc.ComponentDatabase] != healthuc.CheckOK {
				t.Errorf("checks: got %v", resp.Checks)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	h := newTestRouter(&mockSearcher{}, nil, nil)

	rr := doGet(t, h, "/version")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	resp := decode[VersionResponse](t, rr)
	if resp.Version != version.Version || resp.Commit != version.Commit {
		t.Errorf("got %+v", resp)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(&mockSearcher{}, nil, nil)
	doGet(t, h, "/api/v1/search?q=warmup")

	rr := doGet(t, h, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	if !strings.Contains(string(body), "ecomap_http_requests_total") {
		t.Error("expected http request counter in /metrics output")
	}
}

// --- Router wiring ---

func TestRouter_AuthProtectsAPI(t *testing.T) {
	h := newTestRouter(&mockSearcher{}, nil, nil, "secret")

	assertError(t, doGet(t, h, "/api/v1/search?q=a"), http.StatusUnauthorized, ErrorCodeUnauthorized)

	if rr := doGet(t, h, "/api/v1/search?q=a", "Authorization", "Bearer secret"); rr.Code != http.StatusOK {
		t.Errorf("with token: got %d", rr.Code)
	}
	if rr := doGet(t, h, "/health"); rr.Code != http.StatusOK {
		t.Errorf("health must be exempt: got %d", rr.Code)
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	h := newTestRouter(&mockSearcher{}, nil, nil)

	rr := doGet(t, h, "/api/v1/search?q=a", "X-Request-Id", "req-42")
	if got := rr.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("X-Request-ID: got %q, want req-42", got)
	}
}

func TestRouter_RecoversPanics(t *testing.T) {
	m := &mockSearcher{searchFn: func(context.Context, *request.Request) (result.Page, error) {
		panic("index corrupted")
	}}
	h := newTestRouter(m, nil, nil)

	assertError(t, doGet(t, h, "/api/v1/search?q=a"), http.StatusInternalServerError, ErrorCodeInternalError)
}

func TestRouter_UnknownRoute(t *testing.T) {
	h := newTestRouter(&mockSearcher{}, nil, nil)
	assertError(t, doGet(t, h, "/nope"), http.StatusNotFound, ErrorCodeNotFound)
}
