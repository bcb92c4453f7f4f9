package search

import (
	"blogd/app/events"
	"blogd/app/models"

	"github.com/sirupsen/logrus"
)

// Indexer is the part of Index the listener needs.
type Indexer interface {
	IndexEntry(e *models.BlogEntry) error
	UnindexEntry(e *models.BlogEntry) error
}

// IndexListener keeps the search index in step with entry changes.
type IndexListener struct {
	index Indexer
	log   *logrus.Logger
}

func NewIndexListener(index Indexer, log *logrus.Logger) *IndexListener {
	return &IndexListener{index: index, log: log}
}

func (l *IndexListener) OnBlogEntryEvent(e events.BlogEntryEvent) {
	var err error
	switch e.Kind {
	case events.BlogEntryRemoved:
		err = l.index.UnindexEntry(e.Entry)
	default:
		err = l.index.IndexEntry(e.Entry)
	}
	if err != nil {
		l.log.WithFields(logrus.Fields{
			"blog":  e.BlogID,
			"entry": e.Entry.ID,
			"event": e.Kind,
			"error": err.Error(),
		}).Error("failed to update search index")
	}
}
