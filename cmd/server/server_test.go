//go:build !js && !wasm

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/catalog"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/storage"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

func setupServer(t *testing.T, origins ...string) http.Handler {
	t.Helper()

	svc, err := harmonics.NewService(harmonics.WithLogger(nopLogger{}))
	require.NoError(t, err)

	db, err := storage.NewDBClientWithPath(filepath.Join(t.TempDir(), "server.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewServer(svc, catalog.New(svc, db), &ServerConfig{Port: "0", AllowedOrigins: origins})
	s.log = nopLogger{}
	return s.setupRoutes()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h := setupServer(t)
	rec := do(t, h, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "healthy", body["status"])
}

func TestHarmonics(t *testing.T) {
	h := setupServer(t)
	rec := do(t, h, http.MethodGet, "/api/harmonics?string=A3&max=5", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[HarmonicsResponse](t, rec)
	assert.Equal(t, "A3", resp.String)
	assert.Equal(t, 5, resp.MaxHarmonic)
	require.Len(t, resp.Harmonics, 4)

	fifth := resp.Harmonics[3]
	assert.Equal(t, 5, fifth.Harmonic)
	assert.Equal(t, "C#6", fifth.Sounds)
	assert.InDelta(t, -13.69, fifth.Cents, 0.01)
	require.Len(t, fifth.Nodes, 4)
	assert.Equal(t, "C#4", fifth.Nodes[0].FingeredNote)
	assert.Equal(t, 1, fifth.Nodes[0].Octave)
	assert.InDelta(t, 0.2, fifth.Nodes[0].Position, 1e-12)
}

func TestHarmonicsInOctave(t *testing.T) {
	h := setupServer(t)
	rec := do(t, h, http.MethodGet, "/api/harmonics?string=a&max=8&octave=2", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[HarmonicsResponse](t, rec)
	assert.Equal(t, 2, resp.Octave)
	harmonicsSeen := make([]int, len(resp.Harmonics))
	for i, row := range resp.Harmonics {
		harmonicsSeen[i] = row.Harmonic
		for _, node := range row.Nodes {
			assert.Equal(t, 2, node.Octave)
		}
	}
	assert.Equal(t, []int{2, 3, 5, 7, 8}, harmonicsSeen)
}

func TestHarmonicsBadRequests(t *testing.T) {
	h := setupServer(t)
	for _, target := range []string{
		"/api/harmonics",
		"/api/harmonics?string=H3",
		"/api/harmonics?string=A3&max=1",
		"/api/harmonics?string=A3&max=lots",
		"/api/harmonics?string=A3&max=257",
		"/api/harmonics?string=A3&max=9223372036854775807",
		"/api/positions?pitch=D5&instrument=cello&max=100000",
		"/api/harmonics?string=A3&octave=0",
		"/api/harmonics?string=C0",
	} {
		rec := do(t, h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		resp := decode[ErrorResponse](t, rec)
		assert.Equal(t, http.StatusBadRequest, resp.Code, target)
		assert.NotEmpty(t, resp.Message, target)
	}
}

func TestPositions(t *testing.T) {
	h := setupServer(t)
	rec := do(t, h, http.MethodGet, "/api/positions?pitch=D5&instrument=cello", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[PositionsResponse](t, rec)
	assert.Equal(t, "D5", resp.Pitch)
	assert.Equal(t, []string{"A3", "D3", "G2", "C2"}, resp.Strings)
	assert.Equal(t, 10, resp.Count)
	require.Len(t, resp.Positions, 10)
	first := resp.Positions[0]
	assert.Equal(t, 2, first.String)
	assert.Equal(t, "D3", first.Open)
	assert.Equal(t, 4, first.Harmonic)
}

func TestPositionsTolerance(t *testing.T) {
	h := setupServer(t)
	rec := do(t, h, http.MethodGet, "/api/positions?pitch=A4&strings=A3&tolerance=0", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[PositionsResponse](t, rec)
	assert.Equal(t, 1, resp.Count)

	rec = do(t, h, http.MethodGet, "/api/positions?pitch=A4&strings=A3&tolerance=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/positions?pitch=A4&strings=A3&tolerance=NaN", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/positions?pitch=A4", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPitch(t *testing.T) {
	h := setupServer(t)
	rec := do(t, h, http.MethodGet, "/api/pitch/Bb4", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[PitchResponse](t, rec)
	assert.Equal(t, "Bb4", resp.Name)
	assert.Equal(t, 58, resp.Semitone)
	assert.Equal(t, 4, resp.Octave)
	assert.InDelta(t, 466.16, resp.Frequency, 0.01)
	assert.Equal(t, "A#4", resp.Spellings["sharp"])
	assert.Equal(t, "Bb4", resp.Spellings["flat"])
	assert.Equal(t, "bf'", resp.LilyPond)

	rec = do(t, h, http.MethodGet, "/api/pitch/C%234", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 49, decode[PitchResponse](t, rec).Semitone)

	rec = do(t, h, http.MethodGet, "/api/pitch/fs''", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "F#5", decode[PitchResponse](t, rec).Name)

	rec = do(t, h, http.MethodGet, "/api/pitch/nope", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChartLifecycle(t *testing.T) {
	h := setupServer(t)

	rec := do(t, h, http.MethodPost, "/api/charts", `{"kind":"harmonics","strings":"A3","octave":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[ChartDTO](t, rec)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "/api/charts/"+created.ID, rec.Header().Get("Location"))
	assert.Equal(t, "Harmonics on A3, 1st octave", created.Title)
	assert.Equal(t, 1, created.Octave)
	assert.Contains(t, created.Markdown, "# A3 string, 1st octave")

	rec = do(t, h, http.MethodPost, "/api/charts", `{"kind":"notes","strings":"cello","notes":["G4","A4"],"title":"Cello G and A"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/charts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[ListChartsResponse](t, rec)
	assert.Equal(t, 2, list.Count)
	for _, c := range list.Charts {
		assert.Empty(t, c.Body)
	}

	rec = do(t, h, http.MethodGet, "/api/charts?kind=notes", "")
	list = decode[ListChartsResponse](t, rec)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Cello G and A", list.Charts[0].Title)
	assert.Equal(t, "G4,A4", list.Charts[0].Notes)

	rec = do(t, h, http.MethodGet, "/api/charts/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[ChartDTO](t, rec)
	assert.Equal(t, created.Body, got.Body)

	rec = do(t, h, http.MethodGet, "/api/charts/"+created.ID+"/html", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<title>Harmonics on A3, 1st octave</title>")
	assert.Contains(t, rec.Body.String(), "<table>")

	rec = do(t, h, http.MethodDelete, "/api/charts/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decode[DeleteChartResponse](t, rec).ID)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec = do(t, h, method, "/api/charts/"+created.ID, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
	}
	rec = do(t, h, http.MethodGet, "/api/charts/"+created.ID+"/html", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateChartBadRequests(t *testing.T) {
	h := setupServer(t)
	for _, body := range []string{
		`not json`,
		`{"kind":"harmonics"}`,
		`{"kind":"scales","strings":"A3"}`,
		`{"kind":"notes","strings":"A3"}`,
		`{"kind":"harmonics","strings":"A3","octave":-1}`,
		`{"kind":"harmonics","strings":"A3","colour":"red"}`,
		`{"kind":"harmonics","strings":"Z3"}`,
		`{"kind":"notes","strings":"cello","notes":["G"]}`,
	} {
		rec := do(t, h, http.MethodPost, "/api/charts", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestListChartsLimit(t *testing.T) {
	h := setupServer(t)
	for i := 0; i < 3; i++ {
		rec := do(t, h, http.MethodPost, "/api/charts", `{"kind":"harmonics","strings":"D3"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(t, h, http.MethodGet, "/api/charts?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[ListChartsResponse](t, rec).Count)

	rec = do(t, h, http.MethodGet, "/api/charts?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORS(t *testing.T) {
	h := setupServer(t, "http://localhost:3000")

	req := httptest.NewRequest(http.MethodOptions, "/api/harmonics", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNotFoundRoute(t *testing.T) {
	h := setupServer(t)
	rec := do(t, h, http.MethodGet, "/api/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, decode[ErrorResponse](t, rec).Code)
}
