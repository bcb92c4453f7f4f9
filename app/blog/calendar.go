package blog

import (
	"slices"
	"sort"
	"time"

	"blogd/app/models"

	"github.com/sirupsen/logrus"
)

// loadYears seeds the ordered year list from the store. The current year is
// always present so that today can be resolved.
func (b *Blog) loadYears() {
	years, err := b.entries.YearlyBlogs()
	if err != nil {
		b.logger().WithError(err).Error("failed to load years")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.years = nil
	seen := make(map[int]struct{})
	for _, y := range years {
		if _, ok := seen[y.Year]; ok {
			continue
		}
		seen[y.Year] = struct{}{}
		b.years = append(b.years, models.NewYearlyBlog(y.Year))
	}
	current := b.Now().Year()
	if _, ok := seen[current]; !ok {
		b.years = append(b.years, models.NewYearlyBlog(current))
	}
	sort.Slice(b.years, func(i, j int) bool { return b.years[i].Year < b.years[j].Year })
}

func (b *Blog) retainedLocked(year int) *models.YearlyBlog {
	for _, y := range b.years {
		if y.Year == year {
			return y
		}
	}
	return nil
}

// yearLocked returns the node for year. A year later than every retained
// year joins the ordered list; an earlier unknown year gets a throwaway node.
func (b *Blog) yearLocked(year int) *models.YearlyBlog {
	if y := b.retainedLocked(year); y != nil {
		return y
	}
	y := models.NewYearlyBlog(year)
	if len(b.years) == 0 || year > b.years[len(b.years)-1].Year {
		b.years = append(b.years, y)
	}
	return y
}

// retainYearLocked inserts year into the ordered list if it is missing.
func (b *Blog) retainYearLocked(year int) {
	if b.retainedLocked(year) != nil {
		return
	}
	i := sort.Search(len(b.years), func(i int) bool { return b.years[i].Year > year })
	b.years = slices.Insert(b.years, i, models.NewYearlyBlog(year))
}

func (b *Blog) monthLocked(year, month int) (*models.MonthlyBlog, error) {
	y := b.yearLocked(year)
	m, err := y.Month(month)
	if err != nil {
		return nil, err
	}
	if !m.Loaded() {
		m.MarkLoaded()
		if b.retainedLocked(year) != nil {
			b.loadMonthLocked(m)
		}
	}
	return m, nil
}

func (b *Blog) loadMonthLocked(m *models.MonthlyBlog) {
	entries, err := b.entries.BlogEntries(m.Year, m.Month)
	if err != nil {
		b.logger().WithFields(logrus.Fields{
			"year":  m.Year,
			"month": m.Month,
			"error": err.Error(),
		}).Error("failed to load blog entries")
		return
	}
	for _, e := range entries {
		b.registerLocked(e)
	}
}

func (b *Blog) dayLocked(year, month, day int) (*models.DailyBlog, error) {
	if !models.ValidDate(year, month, day) {
		return nil, models.ErrInvalidDate
	}
	m, err := b.monthLocked(year, month)
	if err != nil {
		return nil, err
	}
	return m.Day(day)
}

func (b *Blog) dateLocked(t time.Time) *models.DailyBlog {
	t = t.In(b.loc)
	d, _ := b.dayLocked(t.Year(), int(t.Month()), t.Day())
	return d
}

// BlogForDay returns the node for a calendar day, or ErrInvalidDate.
func (b *Blog) BlogForDay(year, month, day int) (*models.DailyBlog, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dayLocked(year, month, day)
}

// BlogForDate resolves t in the blog's time zone.
func (b *Blog) BlogForDate(t time.Time) *models.DailyBlog {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dateLocked(t)
}

func (b *Blog) BlogForToday() *models.DailyBlog {
	return b.BlogForDate(b.now())
}

func (b *Blog) BlogForMonth(year, month int) (*models.MonthlyBlog, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.monthLocked(year, month)
}

func (b *Blog) BlogForThisMonth() *models.MonthlyBlog {
	now := b.Now()
	m, _ := b.BlogForMonth(now.Year(), int(now.Month()))
	return m
}

func (b *Blog) BlogForYear(year int) *models.YearlyBlog {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.yearLocked(year)
}

func (b *Blog) BlogForThisYear() *models.YearlyBlog {
	return b.BlogForYear(b.Now().Year())
}

func (b *Blog) BlogForPreviousYear(y *models.YearlyBlog) *models.YearlyBlog {
	return b.BlogForYear(y.Year - 1)
}

func (b *Blog) BlogForNextYear(y *models.YearlyBlog) *models.YearlyBlog {
	return b.BlogForYear(y.Year + 1)
}

func (b *Blog) BlogForPreviousMonth(m *models.MonthlyBlog) *models.MonthlyBlog {
	year, month := m.Year, m.Month-1
	if month < 1 {
		year, month = year-1, 12
	}
	prev, _ := b.BlogForMonth(year, month)
	return prev
}

func (b *Blog) BlogForNextMonth(m *models.MonthlyBlog) *models.MonthlyBlog {
	year, month := m.Year, m.Month+1
	if month > 12 {
		year, month = year+1, 1
	}
	next, _ := b.BlogForMonth(year, month)
	return next
}

// YearlyBlogs returns a copy of the ordered year list.
func (b *Blog) YearlyBlogs() []*models.YearlyBlog {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*models.YearlyBlog(nil), b.years...)
}

// BlogForFirstMonth is the first month holding entries in the earliest year,
// or January of that year when it has none.
func (b *Blog) BlogForFirstMonth() *models.MonthlyBlog {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.firstMonthLocked()
}

func (b *Blog) firstMonthLocked() *models.MonthlyBlog {
	year := b.Now().Year()
	if len(b.years) > 0 {
		year = b.years[0].Year
	}
	for month := 1; month <= 12; month++ {
		m, _ := b.monthLocked(year, month)
		if m.HasEntries() {
			return m
		}
	}
	m, _ := b.monthLocked(year, 1)
	return m
}

func (b *Blog) firstDayLocked() *models.DailyBlog {
	d, _ := b.firstMonthLocked().Day(1)
	return d
}

func (b *Blog) previousDayLocked(d *models.DailyBlog) *models.DailyBlog {
	return b.dateLocked(d.Date(b.loc).AddDate(0, 0, -1))
}

func (b *Blog) nextDayLocked(d *models.DailyBlog) *models.DailyBlog {
	return b.dateLocked(d.Date(b.loc).AddDate(0, 0, 1))
}

func (b *Blog) PreviousDay(d *models.DailyBlog) *models.DailyBlog {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.previousDayLocked(d)
}

func (b *Blog) NextDay(d *models.DailyBlog) *models.DailyBlog {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nextDayLocked(d)
}

// BlogEntry finds a dated entry by id. It returns nil for unknown or
// malformed ids and for ids dated after now.
func (b *Blog) BlogEntry(id string) *models.BlogEntry {
	t, err := models.DateFromID(id)
	if err != nil || t.After(b.now()) {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dateLocked(t).Entry(id)
}

// PreviousBlogEntry returns the entry published before e, walking back day by
// day no further than the first day of the blog.
func (b *Blog) PreviousBlogEntry(e *models.BlogEntry) *models.BlogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	day := b.dateLocked(e.Date)
	if prev := day.PreviousEntry(e); prev != nil {
		return prev
	}
	first := b.firstDayLocked()
	for first.Before(day) {
		day = b.previousDayLocked(day)
		if prev := day.FirstEntry(); prev != nil {
			return prev
		}
	}
	return nil
}

// NextBlogEntry returns the entry published after e, walking forward day by
// day no further than today.
func (b *Blog) NextBlogEntry(e *models.BlogEntry) *models.BlogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	day := b.dateLocked(e.Date)
	if next := day.NextEntry(e); next != nil {
		return next
	}
	today := b.dateLocked(b.now())
	for day.Before(today) {
		day = b.nextDayLocked(day)
		if next := day.LastEntry(); next != nil {
			return next
		}
	}
	return nil
}

// RecentBlogEntries returns up to n entries, newest first.
func (b *Blog) RecentBlogEntries(n int, approvedOnly bool) []*models.BlogEntry {
	return b.recent(n, approvedOnly, func(*models.BlogEntry) bool { return true })
}

// RecentBlogEntriesForCategory only considers entries filed under c or its descendants.
func (b *Blog) RecentBlogEntriesForCategory(c *models.Category, n int, approvedOnly bool) []*models.BlogEntry {
	return b.recent(n, approvedOnly, func(e *models.BlogEntry) bool { return e.InCategory(c) })
}

// RecentBlogEntriesForTag only considers entries carrying tag.
func (b *Blog) RecentBlogEntriesForTag(tag string, n int, approvedOnly bool) []*models.BlogEntry {
	return b.recent(n, approvedOnly, func(e *models.BlogEntry) bool { return e.HasTag(tag) })
}

// recent walks back from today one day at a time until n entries are found
// or the first day of the blog has been processed.
func (b *Blog) recent(n int, approvedOnly bool, match func(*models.BlogEntry) bool) []*models.BlogEntry {
	if n <= 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	first := b.firstDayLocked()
	var found []*models.BlogEntry
	for day := b.dateLocked(b.now()); len(found) < n; day = b.previousDayLocked(day) {
		for _, e := range day.Entries() {
			if len(found) == n {
				break
			}
			if match(e) && (!approvedOnly || e.IsApproved()) {
				found = append(found, e)
			}
		}
		if !first.Before(day) {
			break
		}
	}
	return found
}

// BlogEntries returns every dated entry, newest first, loading months as needed.
func (b *Blog) BlogEntries() []*models.BlogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	var entries []*models.BlogEntry
	for i := len(b.years) - 1; i >= 0; i-- {
		for month := 12; month >= 1; month-- {
			m, _ := b.monthLocked(b.years[i].Year, month)
			entries = append(entries, m.Entries()...)
		}
	}
	return entries
}

// MonthEntries lists the entries of a month, newest first.
func (b *Blog) MonthEntries(year, month int) ([]*models.BlogEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, err := b.monthLocked(year, month)
	if err != nil {
		return nil, err
	}
	return m.Entries(), nil
}

// DayEntries lists the entries of a day, newest first.
func (b *Blog) DayEntries(year, month, day int) ([]*models.BlogEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, err := b.dayLocked(year, month, day)
	if err != nil {
		return nil, err
	}
	return d.Entries(), nil
}

func (b *Blog) NumberOfBlogEntries() int {
	return len(b.BlogEntries())
}

// LastModified is the date of the newest recent entry, or the zero time.
func (b *Blog) LastModified() time.Time {
	var last time.Time
	for _, e := range b.RecentBlogEntries(b.RecentBlogEntriesOnHomePage(), false) {
		if e.Date.After(last) {
			last = e.Date
		}
	}
	return last
}

// registerLocked files e under its day and indexes its tags, categories and
// responses. An entry already filed under the same id is replaced.
func (b *Blog) registerLocked(e *models.BlogEntry) {
	if e.Kind != "" && e.Kind != models.KindEntry {
		return
	}
	b.retainYearLocked(e.Date.In(b.loc).Year())
	day := b.dateLocked(e.Date)
	if existing := day.Entry(e.ID); existing != nil {
		b.unindexLocked(existing)
	}
	day.Add(e)

	for _, name := range e.TagNames() {
		b.tagLocked(name).AddBlogEntry(e.ID)
	}
	for _, id := range e.Categories {
		if c := b.categoryLocked(id); c != nil {
			c.AddBlogEntry(e.ID)
		}
	}
	b.responses.Register(e)
}

func (b *Blog) unindexLocked(e *models.BlogEntry) {
	for _, name := range e.TagNames() {
		if t, ok := b.tags[name]; ok {
			t.RemoveBlogEntry(e.ID)
		}
	}
	for _, id := range e.Categories {
		if c := b.categoryLocked(id); c != nil {
			c.RemoveBlogEntry(e.ID)
		}
	}
	b.responses.Unregister(e)
}

// AddBlogEntry files an already persisted entry in the calendar index.
func (b *Blog) AddBlogEntry(e *models.BlogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registerLocked(e)
}

// RemoveBlogEntry drops the entry with e's id from the calendar index and
// reports whether it was present.
func (b *Blog) RemoveBlogEntry(e *models.BlogEntry) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	day := b.dateLocked(e.Date)
	existing := day.Entry(e.ID)
	if existing == nil {
		return false
	}
	day.Remove(e.ID)
	b.unindexLocked(existing)
	return true
}
