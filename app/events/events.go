package events

import (
	"time"

	"blogd/app/models"
)

// Kind names what happened.
type Kind string

const (
	BlogStarted Kind = "blog.started"
	BlogStopped Kind = "blog.stopped"

	BlogEntryAdded       Kind = "entry.added"
	BlogEntryChanged     Kind = "entry.changed"
	BlogEntryRemoved     Kind = "entry.removed"
	BlogEntryPublished   Kind = "entry.published"
	BlogEntryUnpublished Kind = "entry.unpublished"

	CommentAdded    Kind = "comment.added"
	CommentRemoved  Kind = "comment.removed"
	CommentApproved Kind = "comment.approved"
	CommentRejected Kind = "comment.rejected"

	TrackBackAdded    Kind = "trackback.added"
	TrackBackRemoved  Kind = "trackback.removed"
	TrackBackApproved Kind = "trackback.approved"
	TrackBackRejected Kind = "trackback.rejected"
)

// Event is implemented by every event type a Dispatcher delivers.
type Event interface {
	EventKind() Kind
	Blog() string
}

type BlogEvent struct {
	Kind   Kind
	BlogID string
	At     time.Time
}

type BlogEntryEvent struct {
	Kind   Kind
	BlogID string
	Entry  *models.BlogEntry
}

type CommentEvent struct {
	Kind    Kind
	BlogID  string
	Entry   *models.BlogEntry
	Comment *models.Comment
}

type TrackBackEvent struct {
	Kind      Kind
	BlogID    string
	Entry     *models.BlogEntry
	TrackBack *models.TrackBack
}

func (e BlogEvent) EventKind() Kind      { return e.Kind }
func (e BlogEvent) Blog() string         { return e.BlogID }
func (e BlogEntryEvent) EventKind() Kind { return e.Kind }
func (e BlogEntryEvent) Blog() string    { return e.BlogID }
func (e CommentEvent) EventKind() Kind   { return e.Kind }
func (e CommentEvent) Blog() string      { return e.BlogID }
func (e TrackBackEvent) EventKind() Kind { return e.Kind }
func (e TrackBackEvent) Blog() string    { return e.BlogID }

type BlogListener interface {
	OnBlogEvent(BlogEvent)
}

type BlogEntryListener interface {
	OnBlogEntryEvent(BlogEntryEvent)
}

type CommentListener interface {
	OnCommentEvent(CommentEvent)
}

type TrackBackListener interface {
	OnTrackBackEvent(TrackBackEvent)
}
