package controllers

import (
	"net/http"
	"testing"
	"time"

	"blogd/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogSummary(t *testing.T) {
	h := newHarness(t, may, june, pending)

	w := h.get("/blogs/default")
	require.Equal(t, http.StatusOK, w.Code)

	summary := decode[blogSummary](t, w)
	assert.Equal(t, "default", summary.ID)
	assert.Equal(t, "Test blog", summary.Name)
	assert.Equal(t, "UTC", summary.TimeZone)
	assert.False(t, summary.Started)
	assert.Equal(t, []string{"Second post", "First post"}, titles(summary.Recent))
	assert.Equal(t, "/2024/06/10/"+june.ID+".html", summary.Recent[0].Permalink)
	assert.Empty(t, summary.RecentResponses)
}

func TestBlogEntries(t *testing.T) {
	h := newHarness(t, may, june, pending)

	t.Run("recent approved", func(t *testing.T) {
		w := h.get("/blogs/default/entries?n=1")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"Second post"}, titles(decode[[]entryResponse](t, w)))
	})

	t.Run("by tag", func(t *testing.T) {
		w := h.get("/blogs/default/entries?tag=news")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"Second post"}, titles(decode[[]entryResponse](t, w)))
	})

	t.Run("unknown category", func(t *testing.T) {
		w := h.get("/blogs/default/entries?category=/nope")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBlogArchive(t *testing.T) {
	h := newHarness(t, may, june, pending)

	t.Run("year", func(t *testing.T) {
		w := h.get("/blogs/default/archives/2024")
		require.Equal(t, http.StatusOK, w.Code)
		archive := decode[yearArchive](t, w)
		assert.Equal(t, 2024, archive.Year)
		assert.Equal(t, []monthSummary{{Month: 5, Entries: 1}, {Month: 6, Entries: 1}}, archive.Months)
	})

	t.Run("year as owner counts unapproved entries", func(t *testing.T) {
		w := h.do(http.MethodGet, "/blogs/default/archives/2024", "", true)
		require.Equal(t, http.StatusOK, w.Code)
		archive := decode[yearArchive](t, w)
		assert.Equal(t, []monthSummary{{Month: 5, Entries: 1}, {Month: 6, Entries: 2}}, archive.Months)
	})

	t.Run("month", func(t *testing.T) {
		w := h.get("/blogs/default/archives/2024/05")
		require.Equal(t, http.StatusOK, w.Code)
		archive := decode[entriesArchive](t, w)
		assert.Equal(t, []string{"First post"}, titles(archive.Entries))
		assert.Empty(t, archive.Previous)
		assert.Equal(t, "/archives/2024/06", archive.Next)
	})

	t.Run("current month has no next", func(t *testing.T) {
		w := h.get("/blogs/default/archives/2024/06")
		require.Equal(t, http.StatusOK, w.Code)
		archive := decode[entriesArchive](t, w)
		assert.Equal(t, "/archives/2024/05", archive.Previous)
		assert.Empty(t, archive.Next)
	})

	t.Run("day", func(t *testing.T) {
		w := h.get("/blogs/default/archives/2024/06/10")
		require.Equal(t, http.StatusOK, w.Code)
		archive := decode[entriesArchive](t, w)
		assert.Equal(t, 10, archive.Day)
		assert.Equal(t, []string{"Second post"}, titles(archive.Entries))
		assert.Equal(t, "/archives/2024/06/09", archive.Previous)
		assert.Equal(t, "/archives/2024/06/11", archive.Next)
	})

	t.Run("future year", func(t *testing.T) {
		w := h.get("/blogs/default/archives/2031")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Len(t, h.blog.YearlyBlogs(), 1)
	})
}

func TestNeighbours(t *testing.T) {
	h := newHarness(t, may)

	prev, next := neighbours(h.blog, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 0, 1, dayPath)
	assert.Equal(t, "/archives/2024/06/14", prev)
	assert.Empty(t, next)

	prev, next = neighbours(h.blog, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 0, 1, dayPath)
	assert.Empty(t, prev)
	assert.Equal(t, "/archives/2024/05/02", next)
}

func TestBlogPermalink(t *testing.T) {
	h := newHarness(t, may, june, pending)

	w := h.get("/blogs/default/2024/06/10/" + june.ID + ".html")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Second post", decode[entryResponse](t, w).Title)

	t.Run("unapproved entry is hidden", func(t *testing.T) {
		w := h.get("/blogs/default/2024/06/12/" + pending.ID + ".html")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = h.do(http.MethodGet, "/blogs/default/2024/06/12/"+pending.ID+".html", "", true)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no such entry", func(t *testing.T) {
		w := h.get("/blogs/default/2024/06/10/123.html")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("future years are not added to the calendar", func(t *testing.T) {
		years := len(h.blog.YearlyBlogs())
		w := h.get("/blogs/default/5138/01/01/99999999999999.html")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Len(t, h.blog.YearlyBlogs(), years)
	})
}

func TestBlogTags(t *testing.T) {
	h := newHarness(t, may, june, pending)
	h.blog.BlogEntries()
	h.blog.RecalculateTagRankings()

	w := h.get("/blogs/default/tags")
	require.Equal(t, http.StatusOK, w.Code)
	tags := decode[[]tagResponse](t, w)
	require.Len(t, tags, 2)
	assert.Equal(t, "go", tags[0].Name)
	assert.Equal(t, 2, tags[0].Entries)
	assert.Equal(t, "news", tags[1].Name)
	assert.Equal(t, 1, tags[1].Entries)

	w = h.get("/blogs/default/tags/Go")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Second post", "First post"}, titles(decode[[]entryResponse](t, w)))
}

func TestBlogSearch(t *testing.T) {
	h := newHarness(t, may, june, pending)

	w := h.get("/blogs/default/search?q=second")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Second post"}, titles(decode[[]entryResponse](t, w)))

	w = h.get("/blogs/default/search?q=hidden")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]entryResponse](t, w))

	w = h.get("/blogs/default/search?q=++")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBlogResponses(t *testing.T) {
	e := newEntry("Discussed", time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), models.StateApproved)
	e.Comments = []*models.Comment{
		{ID: "1", BlogEntryID: e.ID, Body: "yes", Author: "bob", Date: now.Add(-2 * time.Hour), State: models.StateApproved},
		{ID: "2", BlogEntryID: e.ID, Body: "spam", Author: "eve", Date: now.Add(-time.Hour), State: models.StatePending},
	}
	h := newHarness(t, e)
	h.blog.BlogEntries()

	w := h.get("/blogs/default/responses")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	t.Run("state is ignored for anonymous viewers", func(t *testing.T) {
		w := h.get("/blogs/default/responses?state=pending")
		require.Len(t, decode[[]map[string]any](t, w), 1)
		assert.Equal(t, "yes", decode[[]map[string]any](t, w)[0]["body"])
	})

	t.Run("owner asks for pending", func(t *testing.T) {
		w := h.do(http.MethodGet, "/blogs/default/responses?state=pending", "", true)
		responses := decode[[]map[string]any](t, w)
		require.Len(t, responses, 1)
		assert.Equal(t, "spam", responses[0]["body"])
	})
}

func TestBlogUndated(t *testing.T) {
	draft := newEntry("Zed draft", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), models.StateNew)
	draft.Kind = models.KindDraft
	other := newEntry("Alpha draft", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), models.StateNew)
	other.Kind = models.KindDraft
	page := newEntry("About", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), models.StateApproved)
	page.Kind = models.KindStaticPage
	h := newHarness(t, draft, other, page)

	w := h.do(http.MethodGet, "/blogs/default/drafts", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	drafts := decode[[]*models.BlogEntry](t, w)
	require.Len(t, drafts, 2)
	assert.Equal(t, "Alpha draft", drafts[0].Title)

	w = h.get("/blogs/default/pages")
	assert.Len(t, decode[[]*models.BlogEntry](t, w), 1)

	w = h.do(http.MethodGet, "/blogs/default/templates", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	t.Run("drafts and templates are hidden from anonymous viewers", func(t *testing.T) {
		for _, path := range []string{"/blogs/default/drafts", "/blogs/default/templates"} {
			w := h.get(path)
			assert.Equal(t, http.StatusForbidden, w.Code, path)
			assert.NotContains(t, w.Body.String(), "draft", path)
		}
	})
}
