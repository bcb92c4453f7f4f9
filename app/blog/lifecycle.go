package blog

import (
	"context"
	"time"

	"blogd/app/events"
)

type state int

const (
	unstarted state = iota
	started
	stopped
)

func (b *Blog) IsStarted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state == started
}

// Start brings the blog online: it builds a missing search index, opens the
// request log, restores the editable theme and preloads the calendar in the
// background. A blog can only be started once.
func (b *Blog) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.state != unstarted {
		b.mu.Unlock()
		return ErrAlreadyStarted
	}
	preloadCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	b.state = started
	b.cancel = cancel
	b.done = done
	b.mu.Unlock()

	log := b.logger()
	log.Info("starting blog")

	if !b.index.Exists() {
		log.Info("search index not found, rebuilding")
		if err := b.Reindex(); err != nil {
			log.WithError(err).Error("failed to build search index")
		}
	}

	requestLogger := b.newRequestLogger()
	if err := requestLogger.Start(); err != nil {
		log.WithError(err).Error("failed to start request logger")
	}

	if b.themes != nil {
		if err := b.themes.Restore(b.themeArchive(), b.ThemeDirectory()); err != nil {
			log.WithError(err).Error("failed to restore theme")
		}
	}

	b.mu.Lock()
	b.requestLogger = requestLogger
	b.mu.Unlock()

	b.Fire(events.BlogEvent{Kind: events.BlogStarted, BlogID: b.id, At: b.now()})

	go func() {
		defer close(done)
		b.preload(preloadCtx)
	}()
	return nil
}

// Stop cancels and waits for the preload, closes the request log and backs
// up the editable theme. A stopped blog cannot be restarted.
func (b *Blog) Stop() error {
	b.mu.Lock()
	if b.state != started {
		b.mu.Unlock()
		return ErrNotStarted
	}
	b.state = stopped
	cancel, done := b.cancel, b.done
	b.mu.Unlock()

	log := b.logger()
	log.Info("stopping blog")

	cancel()
	<-done

	b.mu.Lock()
	requestLogger := b.requestLogger
	b.requestLogger = nil
	b.mu.Unlock()
	if requestLogger != nil {
		if err := requestLogger.Stop(); err != nil {
			log.WithError(err).Error("failed to stop request logger")
		}
	}

	if b.themes != nil {
		if err := b.themes.Backup(b.ThemeDirectory(), b.themeArchive()); err != nil {
			log.WithError(err).Error("failed to back up theme")
		}
	}

	b.Fire(events.BlogEvent{Kind: events.BlogStopped, BlogID: b.id, At: b.now()})
	b.dispatcher.Close()
	return nil
}

// preload loads every month, newest first, then ranks the tags.
func (b *Blog) preload(ctx context.Context) {
	start := time.Now()
	years := b.YearlyBlogs()
	for i := len(years) - 1; i >= 0; i-- {
		for month := 12; month >= 1; month-- {
			select {
			case <-ctx.Done():
				b.logger().Debug("preload cancelled")
				return
			default:
			}
			_, _ = b.BlogForMonth(years[i].Year, month)
		}
	}
	b.RecalculateTagRankings()

	b.metrics.ObservePreloadDuration(b.id, time.Since(start))
	b.metrics.SetBlogEntries(b.id, b.NumberOfBlogEntries())
	b.logger().WithField("duration", time.Since(start)).Debug("preload finished")
}
