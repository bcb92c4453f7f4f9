package events

import "sync"

// Listeners holds the registered listeners of one blog, grouped by the events they receive.
type Listeners struct {
	mu        sync.RWMutex
	blog      []BlogListener
	blogEntry []BlogEntryListener
	comment   []CommentListener
	trackBack []TrackBackListener
}

func NewListeners() *Listeners {
	return &Listeners{}
}

func (l *Listeners) AddBlogListener(x BlogListener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.blog = append(l.blog, x)
}

func (l *Listeners) AddBlogEntryListener(x BlogEntryListener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.blogEntry = append(l.blogEntry, x)
}

func (l *Listeners) AddCommentListener(x CommentListener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.comment = append(l.comment, x)
}

func (l *Listeners) AddTrackBackListener(x TrackBackListener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trackBack = append(l.trackBack, x)
}

func (l *Listeners) BlogListeners() []BlogListener {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]BlogListener(nil), l.blog...)
}

func (l *Listeners) BlogEntryListeners() []BlogEntryListener {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]BlogEntryListener(nil), l.blogEntry...)
}

func (l *Listeners) CommentListeners() []CommentListener {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]CommentListener(nil), l.comment...)
}

func (l *Listeners) TrackBackListeners() []TrackBackListener {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]TrackBackListener(nil), l.trackBack...)
}
