package exporter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T, src Snapshotter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, _ := test.NewNullLogger()
	r, err := NewRouter(src, ServerConfig{MetricsPath: "/metrics"}, logger)
	require.NoError(t, err)
	return r
}

func serve(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetInterfaces(t *testing.T) {
	r := setupRouter(t, &fakeSnapshotter{snapshot: testSnapshot()})

	w := serve(r, "/api/interfaces")
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Interfaces []map[string]any `json:"interfaces"`
		Warnings   []string         `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Len(t, doc.Interfaces, 1)
	assert.Equal(t, "eth0", doc.Interfaces[0]["name"])
	assert.EqualValues(t, 2048, doc.Interfaces[0]["rx_bytes"])
	assert.Len(t, doc.Warnings, 1)
}

func TestGetInterfaces_EnumerationFailure(t *testing.T) {
	r := setupRouter(t, &fakeSnapshotter{err: errors.New("netlink closed")})

	w := serve(r, "/api/interfaces")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "netlink closed")
}

func TestMetricsEndpoint(t *testing.T) {
	r := setupRouter(t, &fakeSnapshotter{snapshot: testSnapshot()})

	w := serve(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `ifstat_interface_transmit_bytes_total{interface="eth0"} 1024`)
	assert.Contains(t, w.Body.String(), "ifstat_collection_success 1")
}

func TestHealthz(t *testing.T) {
	r := setupRouter(t, &fakeSnapshotter{})

	w := serve(r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStartServerInvalidAddr(t *testing.T) {
	err := StartServer(context.Background(), ServerConfig{Address: "bad:addr"}, http.NotFoundHandler())
	assert.Error(t, err)
}

func TestStartServerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- StartServer(ctx, ServerConfig{Address: "127.0.0.1:0"}, http.NotFoundHandler())
	}()
	cancel()
	assert.NoError(t, <-done)
}
