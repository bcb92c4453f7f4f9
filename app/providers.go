package app

import (
	"fmt"
	"path/filepath"

	"blogd/app/blog"
	"blogd/app/config"
	"blogd/app/events"
	"blogd/app/metrics"
	"blogd/app/repositories"
	"blogd/app/theme"

	"github.com/sirupsen/logrus"
)

// DatabaseDirectory is where the shared Badger store lives under the data directory.
func DatabaseDirectory(conf *config.Config) string {
	return filepath.Join(conf.DataDirectory, "db")
}

// BlogDirectory is the root of one blog's files under the data directory.
func BlogDirectory(conf *config.Config, id string) string {
	return filepath.Join(conf.DataDirectory, "blogs", id)
}

func NewRepositoryProvider(conf *config.Config) (*repositories.Repository, func(), error) {
	repo, err := repositories.NewRepository(DatabaseDirectory(conf))
	if err != nil {
		return nil, nil, err
	}
	return repo, func() { _ = repo.Close() }, nil
}

func NewThemeManagerProvider() (*theme.Manager, func(), error) {
	compressor, err := theme.NewZstdCompressor()
	if err != nil {
		return nil, nil, err
	}
	return theme.NewManager(compressor), compressor.Close, nil
}

// NewManagerProvider opens every configured blog against the shared repository.
// Blogs are opened but not started.
func NewManagerProvider(conf *config.Config, repo *repositories.Repository, log *logrus.Logger, m metrics.MetricsProviderInterface, themes *theme.Manager) (*blog.Manager, func(), error) {
	manager := blog.NewManager()
	cleanup := func() {
		if err := manager.Close(); err != nil {
			log.WithError(err).Error("failed to close blogs")
		}
	}

	for _, bc := range conf.Blogs {
		b, err := blog.New(
			bc.ID,
			BlogDirectory(conf, bc.ID),
			bc.Properties,
			repo.BlogEntries(bc.ID, blog.LocationFor(bc.Properties)),
			repo.Categories(bc.ID),
			blog.WithLogger(log),
			blog.WithMetrics(m),
			blog.WithThemes(themes),
			blog.WithRegistry(events.NewRegistry()),
		)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("open blog %s: %w", bc.ID, err)
		}
		if err := manager.Add(b); err != nil {
			_ = b.Close()
			cleanup()
			return nil, nil, err
		}
		log.WithField("blog", bc.ID).Info("blog opened")
	}

	return manager, cleanup, nil
}
