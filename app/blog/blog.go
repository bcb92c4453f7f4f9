package blog

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
	_ "time/tzdata"

	"blogd/app/events"
	"blogd/app/logging"
	"blogd/app/metrics"
	"blogd/app/models"
	"blogd/app/permalink"
	"blogd/app/repositories"
	"blogd/app/search"
	"blogd/app/theme"

	"github.com/sirupsen/logrus"
)

var (
	ErrAlreadyStarted = errors.New("blog already started")
	ErrNotStarted     = errors.New("blog not started")
	ErrUnknownBlog    = errors.New("unknown blog")
)

// SearchIndex is the full text index a blog keeps in step with its entries.
type SearchIndex interface {
	search.Indexer
	Exists() bool
	Rebuild(entries []*models.BlogEntry) error
	Search(query string) ([]string, error)
	Close() error
}

// Blog is the root aggregate of one site: its properties, calendar index,
// tags, categories and plugin wiring. A single mutex guards all mutable state.
type Blog struct {
	id      string
	props   Properties
	dataDir string
	loc     *time.Location

	entries    repositories.BlogEntryDAO
	categories repositories.CategoryDAO
	log        *logrus.Logger
	registry   *events.Registry
	index      SearchIndex
	ownIndex   bool
	themes     *theme.Manager
	metrics    metrics.MetricsProviderInterface
	now        func() time.Time

	mu           sync.Mutex
	years        []*models.YearlyBlog
	tags         map[string]*models.Tag
	rootCategory *models.Category

	listeners     *events.Listeners
	dispatcher    events.Dispatcher
	requestLogger logging.RequestLogger
	permalinks    permalink.Provider
	responses     *ResponseManager
	decorators    []Decorator

	state  state
	cancel func()
	done   chan struct{}
}

// Option customises a Blog at construction.
type Option func(*Blog)

func WithLogger(log *logrus.Logger) Option {
	return func(b *Blog) { b.log = log }
}

// WithIndex supplies the search index. Without it the blog opens one in its index directory.
func WithIndex(index SearchIndex) Option {
	return func(b *Blog) { b.index = index }
}

func WithRegistry(r *events.Registry) Option {
	return func(b *Blog) { b.registry = r }
}

func WithClock(now func() time.Time) Option {
	return func(b *Blog) { b.now = now }
}

func WithMetrics(m metrics.MetricsProviderInterface) Option {
	return func(b *Blog) { b.metrics = m }
}

func WithThemes(m *theme.Manager) Option {
	return func(b *Blog) { b.themes = m }
}

// New builds a blog rooted at dataDir. It creates the blog's directories,
// loads the year list and category tree, and wires the configured plugins.
func New(id, dataDir string, props map[string]string, entries repositories.BlogEntryDAO, categories repositories.CategoryDAO, opts ...Option) (*Blog, error) {
	b := &Blog{
		id:         id,
		props:      NewProperties(props),
		dataDir:    dataDir,
		entries:    entries,
		categories: categories,
		registry:   events.NewRegistry(),
		metrics:    metrics.NewNoopMetrics(),
		now:        time.Now,
		tags:       make(map[string]*models.Tag),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logrus.StandardLogger()
	}

	loc, err := time.LoadLocation(b.props.Get(TimeZoneKey))
	if err != nil {
		b.logger().WithFields(logrus.Fields{
			"timeZone": b.props.Get(TimeZoneKey),
			"error":    err.Error(),
		}).Warn("unknown time zone, using UTC")
		loc = time.UTC
	}
	b.loc = loc

	for _, dir := range []string{b.ImagesDirectory(), b.FilesDirectory(), b.LogsDirectory(), b.ThemeDirectory()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create blog directory: %w", err)
		}
	}

	if b.index == nil {
		index, err := search.Open(b.IndexDirectory())
		if err != nil {
			return nil, err
		}
		b.index = index
		b.ownIndex = true
	}

	b.loadYears()
	b.loadCategories()

	b.responses = NewResponseManager(b.id)
	b.wirePlugins()

	return b, nil
}

// LocationFor resolves the timeZone property, falling back to UTC.
func LocationFor(props map[string]string) *time.Location {
	loc, err := time.LoadLocation(NewProperties(props).Get(TimeZoneKey))
	if err != nil {
		return time.UTC
	}
	return loc
}

func (b *Blog) logger() *logrus.Entry {
	return b.log.WithField("blog", b.id)
}

func (b *Blog) ID() string                              { return b.id }
func (b *Blog) Location() *time.Location                { return b.loc }
func (b *Blog) Now() time.Time                          { return b.now().In(b.loc) }
func (b *Blog) Responses() *ResponseManager             { return b.responses }
func (b *Blog) Listeners() *events.Listeners            { return b.listeners }
func (b *Blog) PermalinkProvider() permalink.Provider   { return b.permalinks }
func (b *Blog) BlogEntryDAO() repositories.BlogEntryDAO { return b.entries }

func (b *Blog) Root() string            { return b.dataDir }
func (b *Blog) ImagesDirectory() string { return filepath.Join(b.dataDir, "images") }
func (b *Blog) FilesDirectory() string  { return filepath.Join(b.dataDir, "files") }
func (b *Blog) LogsDirectory() string   { return filepath.Join(b.dataDir, "logs") }
func (b *Blog) ThemeDirectory() string  { return filepath.Join(b.dataDir, "theme") }
func (b *Blog) IndexDirectory() string  { return filepath.Join(b.dataDir, "index") }
func (b *Blog) themeArchive() string    { return filepath.Join(b.dataDir, "theme.tar.zst") }

// Log records a request in the blog's request log.
func (b *Blog) Log(r *http.Request, status int, size int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.requestLogger != nil {
		b.requestLogger.Log(r, status, size, b.now())
	}
}

// Permalink returns the entry's path relative to the blog root.
func (b *Blog) Permalink(e *models.BlogEntry) string {
	return b.permalinks.Permalink(e)
}

// ResolvePermalink finds the entry a permalink points at.
func (b *Blog) ResolvePermalink(uri string) (*models.BlogEntry, error) {
	if !b.permalinks.IsBlogEntryPermalink(uri) {
		return nil, permalink.ErrNoSuchEntry
	}
	return b.permalinks.Resolve(uri, b)
}

// Search returns the entries matching query, newest first.
func (b *Blog) Search(query string) []*models.BlogEntry {
	ids, err := b.index.Search(query)
	if err != nil {
		b.logger().WithError(err).Error("search failed")
		return nil
	}
	var found []*models.BlogEntry
	for _, id := range ids {
		if e := b.BlogEntry(id); e != nil {
			found = append(found, e)
		}
	}
	return found
}

// Reindex rebuilds the search index from every entry of the blog.
func (b *Blog) Reindex() error {
	return b.index.Rebuild(b.BlogEntries())
}

// Close stops the blog if it is running and releases the index it opened.
func (b *Blog) Close() error {
	if err := b.Stop(); err != nil && !errors.Is(err, ErrNotStarted) {
		return err
	}
	if b.ownIndex {
		return b.index.Close()
	}
	return nil
}

// DraftBlogEntries lists drafts in the order the store returns them, by title. Persistence errors yield an empty list.
func (b *Blog) DraftBlogEntries() []*models.BlogEntry {
	return b.undated("drafts", b.entries.DraftBlogEntries)
}

func (b *Blog) BlogEntryTemplates() []*models.BlogEntry {
	return b.undated("templates", b.entries.BlogEntryTemplates)
}

func (b *Blog) StaticPages() []*models.BlogEntry {
	return b.undated("static pages", b.entries.StaticPages)
}

func (b *Blog) DraftBlogEntry(id string) *models.BlogEntry {
	return findByID(b.DraftBlogEntries(), id)
}

func (b *Blog) BlogEntryTemplate(id string) *models.BlogEntry {
	return findByID(b.BlogEntryTemplates(), id)
}

func (b *Blog) StaticPage(id string) *models.BlogEntry {
	return findByID(b.StaticPages(), id)
}

func (b *Blog) undated(what string, load func() ([]*models.BlogEntry, error)) []*models.BlogEntry {
	entries, err := load()
	if err != nil {
		b.logger().WithError(err).Errorf("failed to load %s", what)
		return nil
	}
	return entries
}

func findByID(entries []*models.BlogEntry, id string) *models.BlogEntry {
	for _, e := range entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}
