package events

import (
	"sync"
	"testing"
	"time"

	"blogd/app/models"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	mu    sync.Mutex
	kinds []Kind
}

func (r *recordingListener) record(k Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, k)
}

func (r *recordingListener) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Kind(nil), r.kinds...)
}

func (r *recordingListener) OnBlogEvent(e BlogEvent)           { r.record(e.Kind) }
func (r *recordingListener) OnBlogEntryEvent(e BlogEntryEvent) { r.record(e.Kind) }
func (r *recordingListener) OnCommentEvent(e CommentEvent)     { r.record(e.Kind) }

type panickingListener struct{}

func (panickingListener) OnBlogEvent(BlogEvent) { panic("boom") }

func TestParseNames(t *testing.T) {
	tests := []struct {
		name   string
		config string
		want   []string
	}{
		{"empty", "", nil},
		{"commented out", "#com.example.Bad\ncom.example.Good", []string{"com.example.Good"}},
		{"mixed whitespace", " a\r\n\tb  c ", []string{"a", "b", "c"}},
		{"all commented", "#a #b", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNames(tt.config))
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Lookup(LoggingListenerName)
	assert.True(t, ok)

	_, ok = r.Lookup("com.example.Missing")
	assert.False(t, ok)

	r.Register("com.example.Good", func(*logrus.Logger) any { return &recordingListener{} })
	f, ok := r.Lookup("com.example.Good")
	require.True(t, ok)
	assert.IsType(t, &recordingListener{}, f(nil))
	assert.Equal(t, []string{"com.example.Good", LoggingListenerName}, r.Names())
}

func TestDefaultDispatcher(t *testing.T) {
	log, hook := test.NewNullLogger()
	d := NewDefaultDispatcher(log)
	l := NewListeners()
	rec := &recordingListener{}
	l.AddBlogListener(panickingListener{})
	l.AddBlogListener(rec)
	l.AddBlogEntryListener(rec)
	l.AddCommentListener(rec)

	entry := models.NewBlogEntry("Hello", "b", "alice", time.Now())
	d.Dispatch(l, BlogEvent{Kind: BlogStarted, BlogID: "default"})
	d.Dispatch(l, BlogEntryEvent{Kind: BlogEntryAdded, BlogID: "default", Entry: entry})
	d.Dispatch(l, CommentEvent{Kind: CommentAdded, BlogID: "default", Entry: entry, Comment: &models.Comment{}})
	d.Dispatch(l, TrackBackEvent{Kind: TrackBackAdded, BlogID: "default", Entry: entry, TrackBack: &models.TrackBack{}})
	d.Close()

	assert.Equal(t, []Kind{BlogStarted, BlogEntryAdded, CommentAdded}, rec.Kinds())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "listener failed", hook.Entries[0].Message)
}

func TestThreadedDispatcher(t *testing.T) {
	log, _ := test.NewNullLogger()
	d := NewThreadedDispatcher(log)
	l := NewListeners()
	rec := &recordingListener{}
	l.AddBlogListener(rec)

	for i := 0; i < 10; i++ {
		d.Dispatch(l, BlogEvent{Kind: BlogStarted, BlogID: "default"})
	}
	d.Close()

	assert.Len(t, rec.Kinds(), 10)
}

func TestNewDispatcher(t *testing.T) {
	log, hook := test.NewNullLogger()

	assert.IsType(t, &ThreadedDispatcher{}, NewDispatcher("threaded", log))
	assert.IsType(t, &DefaultDispatcher{}, NewDispatcher(DefaultDispatcherName, log))
	assert.Empty(t, hook.Entries)

	assert.IsType(t, &DefaultDispatcher{}, NewDispatcher("com.example.Unknown", log))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestLoggingListener(t *testing.T) {
	log, hook := test.NewNullLogger()
	l := NewLoggingListener(log)
	entry := models.NewBlogEntry("Hello", "b", "alice", time.Now())

	l.OnBlogEvent(BlogEvent{Kind: BlogStarted, BlogID: "default"})
	l.OnBlogEntryEvent(BlogEntryEvent{Kind: BlogEntryPublished, BlogID: "default", Entry: entry})
	l.OnCommentEvent(CommentEvent{Kind: CommentAdded, BlogID: "default", Entry: entry, Comment: &models.Comment{ID: "1"}})
	l.OnTrackBackEvent(TrackBackEvent{Kind: TrackBackAdded, BlogID: "default", Entry: entry, TrackBack: &models.TrackBack{ID: "2"}})

	require.Len(t, hook.Entries, 4)
	assert.Equal(t, BlogEntryPublished, hook.Entries[1].Data["event"])
}
