package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	httpadapter "github.com/couchcryptid/ice-climatology-map/internal/adapter/http"
	"github.com/couchcryptid/ice-climatology-map/internal/domain"
	"github.com/couchcryptid/ice-climatology-map/internal/observability"
	"github.com/couchcryptid/ice-climatology-map/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMaps struct {
	mu       sync.Mutex
	readyErr error
	err      error
	dir      string
	requests []domain.Selection
}

func (m *mockMaps) CheckReadiness(_ context.Context) error { return m.readyErr }

func (m *mockMaps) EnsureMap(_ context.Context, sel domain.Selection) (pipeline.Result, error) {
	m.mu.Lock()
	m.requests = append(m.requests, sel)
	m.mu.Unlock()
	if m.err != nil {
		return pipeline.Result{}, m.err
	}
	path := filepath.Join(m.dir, domain.ArtifactName(sel))
	if err := os.WriteFile(path, []byte("<html>"+sel.Key()+"</html>"), 0o600); err != nil {
		return pipeline.Result{}, err
	}
	return pipeline.Result{Selection: sel, Path: path}, nil
}

func newTestServer(t *testing.T, maps *mockMaps) *httpadapter.Server {
	t.Helper()
	if maps.dir == "" {
		maps.dir = t.TempDir()
	}
	return httpadapter.NewServer(":0", maps, 1000, observability.DiscardLogger())
}

func get(srv http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(newTestServer(t, &mockMaps{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(newTestServer(t, &mockMaps{}), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(newTestServer(t, &mockMaps{readyErr: fmt.Errorf("output dir: read-only file system")}), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(newTestServer(t, &mockMaps{}), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestCalendarEndpoint(t *testing.T) {
	rec := get(newTestServer(t, &mockMaps{}), "/api/v1/calendar")
	require.Equal(t, http.StatusOK, rec.Code)

	var months []domain.MonthWeeks
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &months))
	require.Len(t, months, 8)
	assert.Equal(t, "11", months[0].Month)
	assert.Equal(t, []string{"04"}, months[7].Weeks)
}

func TestVariablesEndpoint(t *testing.T) {
	rec := get(newTestServer(t, &mockMaps{}), "/api/v1/variables")
	require.Equal(t, http.StatusOK, rec.Code)

	var vars []struct {
		ID         string   `json:"id"`
		Alias      string   `json:"alias"`
		Categories []string `json:"categories"`
		Colors     []string `json:"colors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vars))
	require.Len(t, vars, 5)
	assert.Equal(t, "icfrq", vars[2].ID)
	assert.Equal(t, "Frequency of Presence of Ice", vars[2].Alias)
	assert.Len(t, vars[2].Colors, len(vars[2].Categories))
}

func TestEnsureMapEndpoint(t *testing.T) {
	maps := &mockMaps{}
	rec := get(newTestServer(t, maps), "/api/v1/maps?mode=Combined&variable=cpmed&date=0212")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/maps/combined/cpmed/0212", body["url"])
	assert.Equal(t, false, body["cached"])
	require.Len(t, maps.requests, 1)
	assert.Equal(t, domain.Selection{Mode: domain.ModeCombined, Variable: domain.CPMed, Date: "0212"}, maps.requests[0])
}

func TestServeMapEndpoint(t *testing.T) {
	rec := get(newTestServer(t, &mockMaps{}), "/maps/individual/ctmed/1105")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, "<html>individual/ctmed/1105</html>", rec.Body.String())
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		status int
	}{
		{"invalid date", "/maps/individual/ctmed/1106", nil, http.StatusBadRequest},
		{"invalid variable", "/api/v1/maps?mode=individual&variable=thickness&date=1105", nil, http.StatusBadRequest},
		{"invalid mode", "/api/v1/maps?mode=both&variable=ctmed&date=1105", nil, http.StatusBadRequest},
		{"schema", "/maps/combined/ctmed/1105", &domain.SchemaError{Source: "x.shp", Column: "prmed"}, http.StatusUnprocessableEntity},
		{"missing shapefile", "/maps/individual/prmed/0604", &domain.IOError{Op: "open shapefile", Path: "x.shp", Err: fs.ErrNotExist}, http.StatusNotFound},
		{"unwritable", "/maps/individual/prmed/0604", &domain.IOError{Op: "publish artifact", Path: "x.html", Err: fs.ErrPermission}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(newTestServer(t, &mockMaps{err: tt.err}), tt.target)
			assert.Equal(t, tt.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestInvalidKeyReportsField(t *testing.T) {
	rec := get(newTestServer(t, &mockMaps{}), "/api/v1/maps?mode=individual&variable=ctmed&date=1301")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "date", body["field"])
}

func TestRateLimit(t *testing.T) {
	maps := &mockMaps{dir: t.TempDir()}
	srv := httpadapter.NewServer(":0", maps, 2, observability.DiscardLogger())

	for range 2 {
		assert.Equal(t, http.StatusOK, get(srv, "/api/v1/maps?mode=individual&variable=ctmed&date=1105").Code)
	}
	rec := get(srv, "/api/v1/maps?mode=individual&variable=ctmed&date=1105")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, get(srv, "/api/v1/calendar").Code, "metadata endpoints are not limited")
}

func TestIndexPage(t *testing.T) {
	rec := get(newTestServer(t, &mockMaps{}), "/")
	require.Equal(t, http.StatusOK, rec.Code)

	page := rec.Body.String()
	assert.Contains(t, page, "Great Lakes Ice Climatology Mapper")
	assert.Contains(t, page, `value="individual" checked`)
	assert.Contains(t, page, `<option value="ctmed" selected>Median Ice Concentration</option>`)
	assert.Contains(t, page, `<option value="11" selected>November</option>`)
}
