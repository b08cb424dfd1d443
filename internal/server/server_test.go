package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stroyka/internal/cmr"
	"stroyka/internal/config"
)

var logger = zap.NewExample().Sugar()

func testConfig(t *testing.T, upstreamURL string) *config.Config {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "order"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "order", "order.html"),
		[]byte(`<head><title>x</title><meta property="og:title" content="x"></head>`), 0o644))

	return &config.Config{
		Address:               "127.0.0.1:0",
		CMRAPIURL:             upstreamURL,
		SiteURL:               "https://app.stroyka.kz",
		LogoURL:               "https://app.stroyka.kz/logo.png",
		TemplatesDir:          dir,
		OGFetchTimeout:        time.Second,
		EquipmentFetchTimeout: time.Second,
		OrdersFetchTimeout:    time.Second,
		ShutdownTimeout:       time.Second,
	}
}

func newUpstream(t *testing.T) *httptest.Server {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get(cmr.RequestIDHeader))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/rest/api/v1/order/reg/A-1":
			w.Write([]byte(`{"name":"Фундамент"}`))
		case "/rest/api/v1/order/special-machinery/reg/SM-1":
			w.Write([]byte(`{"name":"Автокран","regNumber":"SM-1"}`))
		case "/rest/api/v1/order":
			w.Write([]byte(`[{"id":1,"email":"a@stroyka.kz"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(upstream.Close)
	return upstream
}

func TestRouter(t *testing.T) {
	upstream := newUpstream(t)
	cfg := testConfig(t, upstream.URL)
	router := NewRouter(cfg, cmr.NewAPIManager(upstream.Client(), upstream.URL, logger), logger)

	tests := []struct {
		name     string
		target   string
		code     int
		contains string
	}{
		{"meta responder", "/api/og-order?id=A-1", 200, "<title>Stroyka.kz - Заказ: Фундамент</title>"},
		{"meta responder without id", "/api/og-order", 400, "Missing order ID"},
		{"deep link", "/equipment-order/SM-1", 200, "Автокран"},
		{"panel fragment", "/api/equipment-order/SM-1/panel", 200, "Автокран"},
		{"landing", "/", 200, `<div id="defaultContent">`},
		{"order list", "/orders", 200, "a@stroyka.kz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.code, res.StatusCode)
			body, _ := io.ReadAll(res.Body)
			assert.Contains(t, string(body), tt.contains)
		})
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	upstream := newUpstream(t)
	cfg := testConfig(t, upstream.URL)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	cfg.Address = l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(cfg, cmr.NewAPIManager(upstream.Client(), upstream.URL, logger), logger, ctx)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + cfg.Address + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
