package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogd/app/blog"
	"blogd/app/config"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	h := newHarness(t)
	manager := blog.NewManager()
	require.NoError(t, manager.Add(h.blog))
	logger, _ := test.NewNullLogger()

	platform := config.NewPlatformContext(&config.Config{DataDirectory: t.TempDir()})
	platform.StartTime = time.Now().Add(-90 * time.Minute)
	hc := NewHealthController(manager, platform, logger)

	w := httptest.NewRecorder()
	hc.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[healthResponse](t, w)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, config.Version, resp.Version)
	assert.GreaterOrEqual(t, resp.UptimeSeconds, 90*60.0)
	assert.Contains(t, resp.Uptime, "1h30m")
	assert.Greater(t, resp.MemoryUsed, uint64(0))
	assert.Equal(t, []blogStatus{{ID: "default", Started: false}}, resp.Blogs)

	w = httptest.NewRecorder()
	hc.Health(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0h0m0s", formatDuration(0))
	assert.Equal(t, "26h3m4s", formatDuration(26*time.Hour+3*time.Minute+4*time.Second))
}
