package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"blogd/app/blog"
	"blogd/app/config"
	"blogd/app/metrics"
	"blogd/app/models"
	"blogd/app/repositories"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	listener, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()
	return port
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		AppName:       config.AppName,
		WebServer:     config.Server{Host: "localhost", Port: freePort(t)},
		DataDirectory: t.TempDir(),
		Blogs: []config.BlogConfig{
			{ID: "default", Properties: map[string]string{"name": "Default", "timeZone": "Europe/London"}},
			{ID: "second"},
		},
	}
}

func TestNewManagerProvider(t *testing.T) {
	conf := testConfig(t)
	logger, _ := test.NewNullLogger()

	repo, closeRepo, err := NewRepositoryProvider(conf)
	require.NoError(t, err)
	defer closeRepo()
	themes, closeThemes, err := NewThemeManagerProvider()
	require.NoError(t, err)
	defer closeThemes()

	manager, closeBlogs, err := NewManagerProvider(conf, repo, logger, metrics.NewNoopMetrics(), themes)
	require.NoError(t, err)
	defer closeBlogs()

	blogs := manager.Blogs()
	require.Len(t, blogs, 2)
	assert.Equal(t, "default", blogs[0].ID())
	assert.Equal(t, "second", blogs[1].ID())
	assert.Equal(t, "Europe/London", blogs[0].Location().String())
	assert.Equal(t, BlogDirectory(conf, "default"), blogs[0].Root())
	assert.DirExists(t, blogs[0].ImagesDirectory())
	assert.DirExists(t, DatabaseDirectory(conf))

	// both blogs share one store but keep their entries apart
	e := models.NewBlogEntry("Only here", "Body", "alice", time.Date(2023, 1, 2, 3, 0, 0, 0, time.UTC))
	require.NoError(t, repo.BlogEntries("default", blogs[0].Location()).PutBlogEntry(e))
	_, err = repo.BlogEntries("second", time.UTC).BlogEntry(e.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestNewManagerProviderDuplicateBlog(t *testing.T) {
	conf := testConfig(t)
	conf.Blogs = append(conf.Blogs, config.BlogConfig{ID: "default"})
	logger, _ := test.NewNullLogger()

	repo, closeRepo, err := NewRepositoryProvider(conf)
	require.NoError(t, err)
	defer closeRepo()
	themes, closeThemes, err := NewThemeManagerProvider()
	require.NoError(t, err)
	defer closeThemes()

	_, _, err = NewManagerProvider(conf, repo, logger, metrics.NewNoopMetrics(), themes)
	assert.Error(t, err)
}

func TestAppRunGracefulShutdown(t *testing.T) {
	conf := testConfig(t)
	conf.Blogs = conf.Blogs[:1]
	logger, hook := test.NewNullLogger()

	repo, err := repositories.NewInMemoryRepository()
	require.NoError(t, err)
	defer repo.Close()

	b, err := blog.New("default", t.TempDir(), nil, repo.BlogEntries("default", time.UTC), repo.Categories("default"), blog.WithLogger(logger))
	require.NoError(t, err)
	manager := blog.NewManager()
	require.NoError(t, manager.Add(b))
	defer manager.Close()

	router := mux.NewRouter()
	router.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	a := NewApp(conf, router, manager, logger)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	url := fmt.Sprintf("http://localhost:%d/ping", conf.WebServer.Port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
	assert.True(t, b.IsStarted())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, b.IsStarted())

	var messages []string
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.InfoLevel {
			messages = append(messages, e.Message)
		}
	}
	assert.Contains(t, messages, "Shutdown signal received")
	assert.Contains(t, messages, "Server stopped")
}
