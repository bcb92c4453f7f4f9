package blog

import (
	"testing"
	"time"

	"blogd/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogForDay(t *testing.T) {
	f := newFixture(t, nil)

	d, err := f.blog.BlogForDay(2024, 2, 29)
	require.NoError(t, err)
	assert.Equal(t, [3]int{2024, 2, 29}, [3]int{d.Year, d.Month, d.Day})

	again, err := f.blog.BlogForDay(2024, 2, 29)
	require.NoError(t, err)
	assert.Same(t, d, again)

	for _, bad := range [][3]int{{2023, 2, 29}, {2024, 13, 1}, {2024, 4, 31}, {2024, 1, 0}} {
		_, err := f.blog.BlogForDay(bad[0], bad[1], bad[2])
		assert.ErrorIs(t, err, models.ErrInvalidDate, "%v", bad)
	}
}

func TestBlogForDateUsesTimeZone(t *testing.T) {
	f := newFixture(t, map[string]string{TimeZoneKey: "Asia/Tokyo"})

	// 20:00 UTC on the 14th is already the 15th in Tokyo.
	d := f.blog.BlogForDate(time.Date(2024, 6, 14, 20, 0, 0, 0, time.UTC))
	assert.Equal(t, 15, d.Day)
	assert.Same(t, d, f.blog.BlogForToday())
}

func TestBlogForYear(t *testing.T) {
	f := newFixture(t, nil, entryAt(time.Date(2019, 3, 1, 10, 0, 0, 0, time.UTC), "old", models.StateApproved))

	years := f.blog.YearlyBlogs()
	require.NotEmpty(t, years)
	assert.Equal(t, 2019, years[0].Year)
	latest := years[len(years)-1].Year

	for _, year := range []int{2019, 2020, 2015, latest} {
		y := f.blog.BlogForYear(year)
		assert.Equal(t, year, y.Year)
		assert.Equal(t, years, f.blog.YearlyBlogs(), "year %d must not be appended", year)
	}
	assert.Same(t, years[0], f.blog.BlogForYear(2019))
	assert.Same(t, years[len(years)-1], f.blog.BlogForYear(latest))

	next := f.blog.BlogForYear(latest + 1)
	after := f.blog.YearlyBlogs()
	require.Len(t, after, len(years)+1)
	assert.Same(t, next, after[len(after)-1])

	assert.Equal(t, 2018, f.blog.BlogForPreviousYear(years[0]).Year)
	assert.Equal(t, latest+2, f.blog.BlogForNextYear(next).Year)
}

func TestMonthNavigation(t *testing.T) {
	f := newFixture(t, nil)

	jan, err := f.blog.BlogForMonth(2024, 1)
	require.NoError(t, err)
	dec := f.blog.BlogForPreviousMonth(jan)
	assert.Equal(t, [2]int{2023, 12}, [2]int{dec.Year, dec.Month})
	assert.Same(t, jan, f.blog.BlogForNextMonth(dec))

	assert.Equal(t, 6, f.blog.BlogForThisMonth().Month)
	assert.Equal(t, 2024, f.blog.BlogForThisYear().Year)

	_, err = f.blog.BlogForMonth(2024, 0)
	assert.ErrorIs(t, err, models.ErrInvalidDate)
}

func TestDayNavigation(t *testing.T) {
	f := newFixture(t, nil)

	d, err := f.blog.BlogForDay(2024, 3, 1)
	require.NoError(t, err)
	prev := f.blog.PreviousDay(d)
	assert.Equal(t, [3]int{2024, 2, 29}, [3]int{prev.Year, prev.Month, prev.Day})
	assert.Same(t, d, f.blog.NextDay(prev))

	newYear, _ := f.blog.BlogForDay(2024, 1, 1)
	assert.Equal(t, 2023, f.blog.PreviousDay(newYear).Year)
}

func TestMonthsLoadLazilyOnce(t *testing.T) {
	e := entryAt(time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC), "May", models.StateApproved)
	f := newFixture(t, nil, e)
	assert.Zero(t, f.entries.Loads[[2]int{2024, 5}])

	got := f.blog.BlogEntry(e.ID)
	require.NotNil(t, got)
	assert.Equal(t, "May", got.Title)

	f.blog.BlogForMonth(2024, 5)
	f.blog.BlogForDay(2024, 5, 21)
	assert.Equal(t, 1, f.entries.Loads[[2]int{2024, 5}])

	assert.Nil(t, f.blog.BlogEntry("not-a-number"))
	assert.Nil(t, f.blog.BlogEntry("1"))
}

// recentFixture files two entries today (one approved) and five entries five
// days ago (three approved).
func recentFixture(t *testing.T) (*fixture, []*models.BlogEntry, []*models.BlogEntry) {
	d := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	dMinus5 := d.AddDate(0, 0, -5)

	todays := []*models.BlogEntry{
		entryAt(d.Add(10*time.Hour), "today approved", models.StateApproved, "go"),
		entryAt(d.Add(11*time.Hour), "today pending", models.StateNew, "go"),
	}
	earlier := []*models.BlogEntry{
		entryAt(dMinus5.Add(13*time.Hour), "d5 13", models.StateApproved, "go"),
		entryAt(dMinus5.Add(12*time.Hour), "d5 12", models.StatePending),
		entryAt(dMinus5.Add(11*time.Hour), "d5 11", models.StateApproved),
		entryAt(dMinus5.Add(10*time.Hour), "d5 10", models.StateApproved, "go"),
		entryAt(dMinus5.Add(9*time.Hour), "d5 09", models.StateRejected),
	}

	f := newFixture(t, nil, append(append([]*models.BlogEntry{}, todays...), earlier...)...)
	return f, todays, earlier
}

func titles(entries []*models.BlogEntry) []string {
	var names []string
	for _, e := range entries {
		names = append(names, e.Title)
	}
	return names
}

func TestRecentBlogEntries(t *testing.T) {
	f, _, _ := recentFixture(t)

	assert.Equal(t, []string{"today approved", "d5 13", "d5 11"}, titles(f.blog.RecentBlogEntries(3, true)))
	assert.Equal(t, []string{"today pending", "today approved", "d5 13"}, titles(f.blog.RecentBlogEntries(3, false)))
	assert.Len(t, f.blog.RecentBlogEntries(50, false), 7)
	assert.Len(t, f.blog.RecentBlogEntries(50, true), 4)
	assert.Empty(t, f.blog.RecentBlogEntries(0, false))
}

func TestRecentBlogEntriesForTag(t *testing.T) {
	f, _, _ := recentFixture(t)
	assert.Equal(t, []string{"today approved", "d5 13", "d5 10"}, titles(f.blog.RecentBlogEntriesForTag("Go", 5, true)))
}

func TestRecentBlogEntriesForCategory(t *testing.T) {
	f, todays, earlier := recentFixture(t)
	f.blog.AddCategory(models.NewCategory("/tech", "Tech"))
	f.blog.AddCategory(models.NewCategory("/tech/go", "Go"))

	filed := todays[0].Clone()
	filed.Categories = []string{"/tech/go"}
	f.blog.AddBlogEntry(filed)
	other := earlier[2].Clone()
	other.Categories = []string{"/tech"}
	f.blog.AddBlogEntry(other)

	tech := f.blog.Category("/tech")
	assert.Equal(t, []string{"today approved", "d5 11"}, titles(f.blog.RecentBlogEntriesForCategory(tech, 5, true)))
	assert.Equal(t, []string{"today approved"}, titles(f.blog.RecentBlogEntriesForCategory(f.blog.Category("/tech/go"), 5, true)))
	assert.Equal(t, 1, f.blog.Category("/tech/go").NumberOfBlogEntries())
}

func TestRecentStopsAtFirstDayOfBlog(t *testing.T) {
	f := newFixture(t, nil)
	assert.Empty(t, f.blog.RecentBlogEntries(3, false))
}

func TestPreviousAndNextBlogEntry(t *testing.T) {
	f, todays, earlier := recentFixture(t)
	b := f.blog

	// Within a day.
	assert.Equal(t, "today approved", b.PreviousBlogEntry(todays[1]).Title)
	assert.Equal(t, "today pending", b.NextBlogEntry(todays[0]).Title)
	assert.Equal(t, "d5 11", b.NextBlogEntry(earlier[3]).Title)

	// Across days the nearest entry in time wins.
	assert.Equal(t, "d5 13", b.PreviousBlogEntry(todays[0]).Title)
	assert.Equal(t, "today approved", b.NextBlogEntry(earlier[0]).Title)

	// Ends of the blog.
	assert.Nil(t, b.PreviousBlogEntry(earlier[4]))
	assert.Nil(t, b.NextBlogEntry(todays[1]))
}

func TestBlogEntriesAndLastModified(t *testing.T) {
	f, todays, _ := recentFixture(t)

	all := f.blog.BlogEntries()
	require.Len(t, all, 7)
	assert.Equal(t, "today pending", all[0].Title)
	assert.Equal(t, "d5 09", all[6].Title)
	assert.Equal(t, 7, f.blog.NumberOfBlogEntries())
	assert.Equal(t, todays[1].Date, f.blog.LastModified())
}

func TestAddAndRemoveBlogEntry(t *testing.T) {
	f, todays, _ := recentFixture(t)
	b := f.blog

	changed := todays[0].Clone()
	changed.Title = "renamed"
	changed.Tags = []string{"rust"}
	b.AddBlogEntry(changed)

	day := b.BlogForToday()
	assert.Len(t, day.Entries(), 2)
	assert.Equal(t, "renamed", b.BlogEntry(todays[0].ID).Title)
	assert.Equal(t, 1, b.Tag("rust").NumberOfBlogEntries())
	assert.Equal(t, 3, b.Tag("go").NumberOfBlogEntries())

	assert.True(t, b.RemoveBlogEntry(changed))
	assert.False(t, b.RemoveBlogEntry(changed))
	assert.Nil(t, b.BlogEntry(todays[0].ID))
	assert.Zero(t, b.Tag("rust").NumberOfBlogEntries())
}

func TestBlogEntryLookupKeepsYears(t *testing.T) {
	f := newFixture(t, nil, entryAt(time.Date(2019, 3, 1, 10, 0, 0, 0, time.UTC), "old", models.StateApproved))
	years := f.blog.YearlyBlogs()

	for year := 1971; year < 2019; year++ {
		id := models.IDFromDate(time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC))
		assert.Nil(t, f.blog.BlogEntry(id))
	}
	assert.Nil(t, f.blog.BlogEntry("99999999999999"))
	assert.Equal(t, years, f.blog.YearlyBlogs())
}

func TestBackdatedEntryJoinsYears(t *testing.T) {
	f := newFixture(t, nil)
	require.Equal(t, []int{2024}, yearNumbers(f.blog.YearlyBlogs()))

	old := entryAt(time.Date(2019, 3, 1, 10, 0, 0, 0, time.UTC), "backdated", models.StateApproved)
	require.NoError(t, f.entries.PutBlogEntry(old))
	f.blog.AddBlogEntry(old)

	assert.Equal(t, []int{2019, 2024}, yearNumbers(f.blog.YearlyBlogs()))
	assert.NotNil(t, f.blog.BlogEntry(old.ID))
	assert.Equal(t, []string{"backdated"}, titles(f.blog.BlogEntries()))
	assert.Equal(t, 1, f.blog.NumberOfBlogEntries())
}

func yearNumbers(years []*models.YearlyBlog) []int {
	out := make([]int, 0, len(years))
	for _, y := range years {
		out = append(out, y.Year)
	}
	return out
}
