package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"blogd/app/blog"
	"blogd/app/events"
	"blogd/app/models"
	"blogd/app/repositories"
	"blogd/app/repositories/mock"
	"blogd/app/search"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

type recorder struct {
	mu    sync.Mutex
	kinds []events.Kind
}

func (r *recorder) record(k events.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, k)
}

func (r *recorder) OnBlogEntryEvent(e events.BlogEntryEvent) { r.record(e.Kind) }
func (r *recorder) OnCommentEvent(e events.CommentEvent)     { r.record(e.Kind) }
func (r *recorder) OnTrackBackEvent(e events.TrackBackEvent) { r.record(e.Kind) }

type testBlog struct {
	blog    *blog.Blog
	entries *mock.BlogEntryRepository
	events  *recorder
	log     *logrus.Logger
	hook    *test.Hook
}

func newTestBlog(t *testing.T, entries ...*models.BlogEntry) *testBlog {
	t.Helper()

	log, hook := test.NewNullLogger()
	tb := &testBlog{
		entries: mock.NewBlogEntryRepository(time.UTC),
		events:  &recorder{},
		log:     log,
		hook:    hook,
	}
	for _, e := range entries {
		require.NoError(t, tb.entries.PutBlogEntry(e))
	}

	index, err := search.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	tb.blog, err = blog.New("default", t.TempDir(), map[string]string{blog.TimeZoneKey: "UTC"},
		tb.entries, mock.NewCategoryRepository(),
		blog.WithLogger(log),
		blog.WithIndex(index),
		blog.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	tb.blog.Listeners().AddBlogEntryListener(tb.events)
	tb.blog.Listeners().AddCommentListener(tb.events)
	tb.blog.Listeners().AddTrackBackListener(tb.events)
	return tb
}

func newEntry(title string, date time.Time) *models.BlogEntry {
	e := models.NewBlogEntry(title, "body of "+title, "alice", date)
	e.State = models.StateApproved
	return e
}

func TestCreateBlogEntry(t *testing.T) {
	tb := newTestBlog(t)
	service := NewBlogEntryService(tb.log)

	t.Run("defaults date and state", func(t *testing.T) {
		e := &models.BlogEntry{Title: "Hello", Author: "alice", Body: "first"}
		require.NoError(t, service.CreateBlogEntry(tb.blog, e))

		assert.Equal(t, models.IDFromDate(now), e.ID)
		assert.Equal(t, models.StateNew, e.State)
		assert.Equal(t, models.KindEntry, e.Kind)
		assert.Same(t, e, tb.blog.BlogEntry(e.ID))
		assert.Equal(t, []events.Kind{events.BlogEntryAdded}, tb.events.kinds)
	})

	t.Run("bumps colliding ids", func(t *testing.T) {
		e := &models.BlogEntry{Title: "Again", Author: "alice", Date: now}
		require.NoError(t, service.CreateBlogEntry(tb.blog, e))
		assert.Equal(t, models.IDFromDate(now.Add(time.Millisecond)), e.ID)
		assert.Equal(t, 2, tb.blog.NumberOfBlogEntries())
	})

	t.Run("invalid entry", func(t *testing.T) {
		err := service.CreateBlogEntry(tb.blog, &models.BlogEntry{Author: "alice"})
		assert.True(t, errors.Is(err, ErrInvalid))
	})

	t.Run("drafts stay out of the calendar", func(t *testing.T) {
		before := len(tb.events.kinds)
		d := &models.BlogEntry{Title: "Draft", Author: "alice", Kind: models.KindDraft}
		require.NoError(t, service.CreateBlogEntry(tb.blog, d))

		assert.Nil(t, tb.blog.BlogEntry(d.ID))
		assert.NotNil(t, tb.blog.DraftBlogEntry(d.ID))
		assert.Len(t, tb.events.kinds, before)
	})

	t.Run("persistence failure", func(t *testing.T) {
		tb.entries.Err = repositories.ErrPersistence
		defer func() { tb.entries.Err = nil }()

		err := service.CreateBlogEntry(tb.blog, &models.BlogEntry{Title: "Lost", Author: "alice", Date: now.Add(-time.Hour)})
		assert.True(t, errors.Is(err, repositories.ErrPersistence))
	})
}

func TestUpdateAndRemoveBlogEntry(t *testing.T) {
	original := newEntry("Original", now.AddDate(0, 0, -1))
	original.Comments = []*models.Comment{{ID: "1", BlogEntryID: original.ID, Body: "hi", Author: "bob", Date: now, State: models.StateApproved}}
	tb := newTestBlog(t, original)
	service := NewBlogEntryService(tb.log)

	updated, err := service.UpdateBlogEntry(tb.blog, original.ID, &models.BlogEntry{
		Title:  "Edited",
		Author: "alice",
		Tags:   []string{"go"},
		Date:   now,
	})
	require.NoError(t, err)

	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, original.Date, updated.Date)
	assert.Equal(t, models.StateApproved, updated.State)
	assert.Len(t, updated.Comments, 1)
	assert.Equal(t, "Original", original.Title)
	assert.Equal(t, "Edited", tb.blog.BlogEntry(original.ID).Title)
	assert.Equal(t, 1, tb.blog.Tag("go").NumberOfBlogEntries())

	_, err = service.UpdateBlogEntry(tb.blog, "42", &models.BlogEntry{Title: "x", Author: "alice"})
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	require.NoError(t, service.RemoveBlogEntry(tb.blog, original.ID))
	assert.Nil(t, tb.blog.BlogEntry(original.ID))
	assert.Equal(t, []events.Kind{events.BlogEntryChanged, events.BlogEntryRemoved}, tb.events.kinds)

	assert.True(t, errors.Is(service.RemoveBlogEntry(tb.blog, original.ID), repositories.ErrNotFound))
}

func TestPublishBlogEntry(t *testing.T) {
	draft := newEntry("Unpublished", now.AddDate(0, 0, -3))
	draft.Comments = []*models.Comment{{ID: "7", BlogEntryID: draft.ID, Body: "early", Author: "bob", Date: now, State: models.StatePending}}
	tb := newTestBlog(t, draft)
	service := NewBlogEntryService(tb.log)

	published, err := service.PublishBlogEntry(tb.blog, draft.ID, now)
	require.NoError(t, err)

	assert.True(t, published.Published)
	assert.Equal(t, models.IDFromDate(now), published.ID)
	assert.Equal(t, published.ID, published.Comments[0].BlogEntryID)
	assert.Equal(t, draft.ID, draft.Comments[0].BlogEntryID)
	assert.Nil(t, tb.blog.BlogEntry(draft.ID))
	assert.Same(t, published, tb.blog.BlogEntry(published.ID))
	assert.Equal(t, 1, tb.entries.Removes)
	assert.Equal(t, []events.Kind{events.BlogEntryRemoved, events.BlogEntryPublished}, tb.events.kinds)

	unpublished, err := service.UnpublishBlogEntry(tb.blog, published.ID)
	require.NoError(t, err)
	assert.False(t, unpublished.Published)
	assert.Equal(t, published.ID, unpublished.ID)
	assert.True(t, published.Published)

	_, err = service.PublishBlogEntry(tb.blog, "1", now)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
	_, err = service.UnpublishBlogEntry(tb.blog, "1")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestPublishBlogEntryPersistenceFailure(t *testing.T) {
	e := newEntry("Stuck", now.AddDate(0, 0, -1))
	tb := newTestBlog(t, e)
	service := NewBlogEntryService(tb.log)

	require.Same(t, e, tb.blog.BlogEntry(e.ID))
	tb.entries.Err = repositories.ErrPersistence
	got, err := service.PublishBlogEntry(tb.blog, e.ID, now)

	assert.True(t, errors.Is(err, repositories.ErrPersistence))
	assert.Same(t, e, got)
	assert.Same(t, e, tb.blog.BlogEntry(e.ID))
	assert.Empty(t, tb.events.kinds)
}

func TestResolvePublishDate(t *testing.T) {
	tb := newTestBlog(t)
	service := NewBlogEntryService(tb.log)

	tests := []struct {
		name string
		now  string
		date string
		want time.Time
	}{
		{"now requested", "true", "01 Jan 2020 10:00", now},
		{"now missing", "", "01 Jan 2020 10:00", now},
		{"empty date", "false", "", now},
		{"explicit date", "false", "01 Jan 2020 10:30", time.Date(2020, time.January, 1, 10, 30, 0, 0, time.UTC)},
		{"case insensitive flag", "FALSE", "01 Jan 2020 10:30", time.Date(2020, time.January, 1, 10, 30, 0, 0, time.UTC)},
		{"future date clamps to now", "false", "01 Jan 2030 10:30", now},
		{"unparseable date", "false", "yesterday", now},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.ResolvePublishDate(tb.blog, tt.now, tt.date)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}

	var warned bool
	for _, entry := range tb.hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Message == "could not parse publish date" {
			warned = true
		}
	}
	assert.True(t, warned)
}
