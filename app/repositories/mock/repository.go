package mock

import (
	"sort"
	"strings"
	"sync"
	"time"

	"blogd/app/models"
	"blogd/app/repositories"
)

// BlogEntryRepository is an in-memory BlogEntryDAO. Err, when set, is
// returned by every call.
type BlogEntryRepository struct {
	entries map[string]*models.BlogEntry
	loc     *time.Location
	mutex   sync.RWMutex
	Err     error
	Loads   map[[2]int]int
	Puts    int
	Removes int
}

// CategoryRepository is an in-memory CategoryDAO.
type CategoryRepository struct {
	categories []*models.Category
	mutex      sync.RWMutex
	Err        error
	Puts       int
}

func NewBlogEntryRepository(loc *time.Location) *BlogEntryRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &BlogEntryRepository{
		entries: make(map[string]*models.BlogEntry),
		loc:     loc,
		Loads:   make(map[[2]int]int),
	}
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

func (m *BlogEntryRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.entries = make(map[string]*models.BlogEntry)
}

func key(e *models.BlogEntry) string {
	kind := e.Kind
	if kind == "" {
		kind = models.KindEntry
	}
	return string(kind) + ":" + e.ID
}

// BlogEntryDAO implementation
func (m *BlogEntryRepository) YearlyBlogs() ([]*models.YearlyBlog, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	years := map[int]struct{}{time.Now().In(m.loc).Year(): {}}
	for _, e := range m.entries {
		if e.Kind == models.KindEntry {
			years[e.Date.In(m.loc).Year()] = struct{}{}
		}
	}
	var sorted []int
	for y := range years {
		sorted = append(sorted, y)
	}
	sort.Ints(sorted)

	var yearly []*models.YearlyBlog
	for _, y := range sorted {
		yearly = append(yearly, models.NewYearlyBlog(y))
	}
	return yearly, nil
}

func (m *BlogEntryRepository) BlogEntries(year, month int) ([]*models.BlogEntry, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.Loads[[2]int{year, month}]++
	if m.Err != nil {
		return nil, m.Err
	}

	var entries []*models.BlogEntry
	for _, e := range m.entries {
		d := e.Date.In(m.loc)
		if e.Kind == models.KindEntry && d.Year() == year && int(d.Month()) == month {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *BlogEntryRepository) BlogEntry(id string) (*models.BlogEntry, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	e, ok := m.entries[string(models.KindEntry)+":"+id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return e, nil
}

func (m *BlogEntryRepository) PutBlogEntry(e *models.BlogEntry) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	m.Puts++
	m.entries[key(e)] = e
	return nil
}

func (m *BlogEntryRepository) RemoveBlogEntry(e *models.BlogEntry) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if _, ok := m.entries[key(e)]; !ok {
		return repositories.ErrNotFound
	}
	m.Removes++
	delete(m.entries, key(e))
	return nil
}

func (m *BlogEntryRepository) DraftBlogEntries() ([]*models.BlogEntry, error) {
	return m.byKind(models.KindDraft)
}

func (m *BlogEntryRepository) BlogEntryTemplates() ([]*models.BlogEntry, error) {
	return m.byKind(models.KindTemplate)
}

func (m *BlogEntryRepository) StaticPages() ([]*models.BlogEntry, error) {
	return m.byKind(models.KindStaticPage)
}

func (m *BlogEntryRepository) byKind(kind models.Kind) ([]*models.BlogEntry, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	var entries []*models.BlogEntry
	for _, e := range m.entries {
		if e.Kind == kind {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Title) < strings.ToLower(entries[j].Title)
	})
	return entries, nil
}

// CategoryDAO implementation
func (m *CategoryRepository) Categories() ([]*models.Category, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]*models.Category(nil), m.categories...), nil
}

func (m *CategoryRepository) PutCategories(root *models.Category) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	m.Puts++
	m.categories = nil
	for _, c := range root.Flatten() {
		stored := models.NewCategory(c.ID, c.Name)
		stored.Tags = append([]string(nil), c.Tags...)
		m.categories = append(m.categories, stored)
	}
	return nil
}
