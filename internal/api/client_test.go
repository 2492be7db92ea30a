package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/keilerkonzept/sponsorwall/internal/domain"
)

type recordedRequest struct {
	Method    string
	Path      string
	Body      string
	Type      string
	RequestID string
}

type fakeBackend struct {
	url      string
	mu       sync.Mutex
	requests []recordedRequest
	routes   map[string]func(w http.ResponseWriter, r *http.Request)
}

func newFakeBackend(t *testing.T) (*fakeBackend, *Client) {
	t.Helper()
	fb := &fakeBackend{routes: make(map[string]func(http.ResponseWriter, *http.Request))}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.requests = append(fb.requests, recordedRequest{
			Method:    r.Method,
			Path:      r.URL.EscapedPath(),
			Body:      string(body),
			Type:      r.Header.Get("Content-Type"),
			RequestID: r.Header.Get(RequestIDHeader),
		})
		h, ok := fb.routes[r.Method+" "+r.URL.EscapedPath()]
		fb.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	fb.url = srv.URL

	c, err := New(srv.URL+"/", WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return fb, c
}

func (fb *fakeBackend) handle(route string, status int, body any) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.routes[route] = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}
}

func (fb *fakeBackend) serverURL(t *testing.T) string {
	t.Helper()
	return fb.url
}

func (fb *fakeBackend) last() recordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.requests[len(fb.requests)-1]
}

func TestNew_ValidatesBaseURL(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c, err = New("http://example.test:3001///")
	require.NoError(t, err)
	assert.Equal(t, "http://example.test:3001", c.BaseURL())

	for _, bad := range []string{"ftp://example.test", "localhost:3001", "http://", "://"} {
		_, err := New(bad)
		assert.Error(t, err, bad)
	}
}

func TestCompany_NotFoundIsAnError(t *testing.T) {
	_, c := newFakeBackend(t)

	got, err := c.Company(context.Background(), "xyz")
	require.Error(t, err)
	assert.Equal(t, domain.Company{}, got)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, http.StatusNotFound, StatusCode(err))

	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.MethodGet, re.Method)
	assert.Equal(t, "/api/companies/xyz", re.Path)
	assert.Contains(t, err.Error(), "404")
}

func TestCompanies_ParsesBody(t *testing.T) {
	fb, c := newFakeBackend(t)
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	want := []domain.Company{
		{ID: "c1", Name: "Apple", Category: "Technology", CreatedAt: created, UpdatedAt: created},
		{ID: "c2", Name: "Nike", Tier: "gold", CreatedAt: created, UpdatedAt: created},
	}
	fb.handle("GET /api/companies", http.StatusOK, want)

	got, err := c.Companies(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("companies mismatch (-want +got):\n%s", diff)
	}

	req := fb.last()
	assert.Equal(t, "application/json", req.Type)
	assert.NotEmpty(t, req.RequestID)
}

func TestMutations_SendJSONBodies(t *testing.T) {
	fb, c := newFakeBackend(t)
	ctx := context.Background()

	fb.handle("POST /api/companies", http.StatusCreated, domain.Company{ID: "c9", Name: "Lego"})
	got, err := c.CreateCompany(ctx, CompanyInput{Name: "Lego", Country: "DK"})
	require.NoError(t, err)
	assert.Equal(t, "c9", got.ID)
	assert.JSONEq(t, `{"name":"Lego","country":"DK"}`, fb.last().Body)

	fb.handle("PUT /api/companies/c9", http.StatusOK, domain.Company{ID: "c9", Name: "LEGO"})
	got, err = c.UpdateCompany(ctx, "c9", CompanyInput{Name: "LEGO"})
	require.NoError(t, err)
	assert.Equal(t, "LEGO", got.Name)

	fb.handle("POST /api/slots/s1/assign", http.StatusOK, domain.Slot{ID: "s1", SlotNumber: 1, CompanyID: "c9"})
	slot, err := c.AssignCompany(ctx, "s1", "c9")
	require.NoError(t, err)
	assert.Equal(t, "c9", slot.CompanyID)
	assert.JSONEq(t, `{"companyId":"c9"}`, fb.last().Body)

	fb.handle("POST /api/slots/s1/unassign", http.StatusOK, domain.Slot{ID: "s1", SlotNumber: 1})
	slot, err = c.UnassignSlot(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, slot.CompanyID)
	assert.Empty(t, fb.last().Body)

	active := true
	fb.handle("PUT /api/slots/s1", http.StatusOK, domain.Slot{ID: "s1", SlotNumber: 1, IsActive: true})
	slot, err = c.UpdateSlot(ctx, "s1", SlotUpdate{IsActive: &active})
	require.NoError(t, err)
	assert.True(t, slot.IsActive)
	assert.JSONEq(t, `{"isActive":true}`, fb.last().Body)

	fb.handle("POST /api/bidding", http.StatusCreated, domain.Bid{ID: "b1", Amount: 5000, Status: domain.BidActive})
	bid, err := c.CreateBid(ctx, BidInput{CompanyID: "c9", SlotID: "s1", Amount: 5000})
	require.NoError(t, err)
	assert.Equal(t, domain.BidActive, bid.Status)
}

func TestDeleteCompany_ToleratesEmptyBody(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.handle("DELETE /api/companies/c1", http.StatusNoContent, nil)

	require.NoError(t, c.DeleteCompany(context.Background(), "c1"))
	assert.Equal(t, http.MethodDelete, fb.last().Method)
}

func TestPathSegmentsAreEscaped(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.handle("GET /api/analytics/slot/a%2Fb", http.StatusOK, []domain.Analytics{{ID: "e1", SlotID: "a/b", EventType: "view"}})

	events, err := c.SlotAnalytics(context.Background(), "a/b")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "view", events[0].EventType)
}

func TestServerErrorCarriesStatusAndBody(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.handle("GET /api/bidding/active", http.StatusServiceUnavailable, map[string]string{"error": "maintenance"})

	_, err := c.ActiveBids(context.Background())
	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusServiceUnavailable, re.Status)
	assert.Contains(t, re.Body, "maintenance")
	assert.False(t, IsNotFound(err))
}

func TestUndecodableBodyIsAnError(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.mu.Lock()
	fb.routes["GET /api/slots"] = func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<html>not json</html>")
	}
	fb.mu.Unlock()

	_, err := c.Slots(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusOK, StatusCode(err))
}

func TestTransportFailureHasNoStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var observed []int
	c, err := New(url, WithObserver(func(_, _ string, status int, _ time.Duration) {
		observed = append(observed, status)
	}))
	require.NoError(t, err)

	_, err = c.Health(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))
	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.NotNil(t, errors.Unwrap(err))
	assert.Equal(t, []int{0}, observed)
}

func TestObserverSeesEveryRequest(t *testing.T) {
	fb, _ := newFakeBackend(t)
	fb.handle("GET /health", http.StatusOK, domain.Health{Status: "ok"})
	fb.handle("GET /api/devices", http.StatusOK, []map[string]string{{"id": "d1"}})

	var mu sync.Mutex
	seen := map[string]int{}
	c, err := New(fb.serverURL(t), WithObserver(func(method, path string, status int, elapsed time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		seen[method+" "+path] = status
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
	}))
	require.NoError(t, err)

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)

	devices, err := c.Devices(context.Background())
	require.NoError(t, err)
	assert.Len(t, devices, 1)

	_, err = c.HologramEffects(context.Background())
	require.Error(t, err)

	assert.Equal(t, map[string]int{
		"GET /health":                      http.StatusOK,
		"GET /api/devices":                 http.StatusOK,
		"GET /api/visual-effects/hologram": http.StatusNotFound,
	}, seen)
}

func TestAuxiliaryEndpointsPassPayloadsThrough(t *testing.T) {
	fb, c := newFakeBackend(t)
	ctx := context.Background()
	fb.handle("GET /api/system-config", http.StatusOK, map[string]any{"brightness": 80})
	fb.handle("PUT /api/system-config", http.StatusOK, map[string]any{"brightness": 60})
	fb.handle("POST /api/sync", http.StatusOK, map[string]any{"synced": 3})
	fb.handle("GET /api/performance-monitoring", http.StatusOK, map[string]any{"fps": 60})
	fb.handle("GET /api/ar", http.StatusOK, []map[string]any{{"slot": 1}})
	fb.handle("GET /api/ar/slot/s3", http.StatusOK, map[string]any{"slot": 3})

	cfg, err := c.SystemConfig(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"brightness":80}`, string(cfg))

	cfg, err = c.UpdateSystemConfig(ctx, map[string]int{"brightness": 60})
	require.NoError(t, err)
	assert.JSONEq(t, `{"brightness":60}`, string(cfg))
	assert.JSONEq(t, `{"brightness":60}`, fb.last().Body)

	res, err := c.SyncDevices(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"synced":3}`, string(res))

	perf, err := c.PerformanceMetrics(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"fps":60}`, string(perf))

	ar, err := c.ARContent(ctx)
	require.NoError(t, err)
	assert.Len(t, ar, 1)

	one, err := c.ARContentForSlot(ctx, "s3")
	require.NoError(t, err)
	assert.JSONEq(t, `{"slot":3}`, string(one))
}
