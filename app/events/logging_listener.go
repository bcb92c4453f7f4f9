package events

import "github.com/sirupsen/logrus"

const LoggingListenerName = "logging"

// LoggingListener writes every event it receives to the application log.
type LoggingListener struct {
	log *logrus.Logger
}

func NewLoggingListener(log *logrus.Logger) *LoggingListener {
	return &LoggingListener{log: log}
}

func (l *LoggingListener) OnBlogEvent(e BlogEvent) {
	l.log.WithFields(logrus.Fields{"blog": e.BlogID, "event": e.Kind}).Info("blog event")
}

func (l *LoggingListener) OnBlogEntryEvent(e BlogEntryEvent) {
	l.log.WithFields(logrus.Fields{
		"blog":  e.BlogID,
		"event": e.Kind,
		"entry": e.Entry.ID,
		"title": e.Entry.Title,
	}).Info("blog entry event")
}

func (l *LoggingListener) OnCommentEvent(e CommentEvent) {
	l.log.WithFields(logrus.Fields{
		"blog":    e.BlogID,
		"event":   e.Kind,
		"entry":   e.Entry.ID,
		"comment": e.Comment.ID,
		"author":  e.Comment.Author,
	}).Info("comment event")
}

func (l *LoggingListener) OnTrackBackEvent(e TrackBackEvent) {
	l.log.WithFields(logrus.Fields{
		"blog":      e.BlogID,
		"event":     e.Kind,
		"entry":     e.Entry.ID,
		"trackback": e.TrackBack.ID,
		"url":       e.TrackBack.URL,
	}).Info("trackback event")
}
