package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"Radviz/internal/calc"
	"Radviz/internal/config"
	"Radviz/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newServer(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	limiter := middleware.NewIPRateLimiter(rate.Limit(1000), 1000)
	HandleList(r, calc.DefaultEnv(), limiter, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(middleware.CORS(r))
	t.Cleanup(srv.Close)
	return srv
}

func TestRoutes(t *testing.T) {
	srv := newServer(t, config.Config{})

	res, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, "ok", string(body))

	res, err = http.Get(srv.URL + "/api/materials")
	require.NoError(t, err)
	var list calc.MaterialList
	require.NoError(t, json.NewDecoder(res.Body).Decode(&list))
	res.Body.Close()
	assert.Contains(t, list.Keys, "water")
	assert.NotEmpty(t, res.Header.Get(middleware.RequestIDHeader))

	for _, path := range []string{"/api/tools/xray/calc", "/api/tools/gamma/calc", "/api/tools/proton/calc"} {
		res, err := http.Post(srv.URL+path, "application/json", strings.NewReader(`{"material":"water"}`))
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode, path)
	}

	res, err = http.Post(srv.URL+"/api/tools/proton/report", "application/json", strings.NewReader(`{"material":"water","mode":"range"}`))
	require.NoError(t, err)
	pdf, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	res, err = http.Post(srv.URL+"/api/tools/batch/calc", "application/json", strings.NewReader(`{"items":[{"material":"lead","energy_mev":0.5}]}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Post(srv.URL+"/api/tools/shield/calc", "application/json", strings.NewReader(`{"energy_mev":1,"materials":["lead","concrete"]}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(srv.URL + "/api/tools/gamma/calc")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)

	res, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	metrics, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Contains(t, string(metrics), "radviz_http_requests_total")
	assert.Contains(t, string(metrics), "radviz_calc_duration_seconds")
}

func TestStaticDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>radviz</h1>"), 0o600))
	srv := newServer(t, config.Config{StaticDir: dir})

	res, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Contains(t, string(body), "radviz")
}
