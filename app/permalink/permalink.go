package permalink

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"blogd/app/models"

	"github.com/sirupsen/logrus"
)

var ErrNoSuchEntry = errors.New("no entry matches permalink")

// DayLookup resolves a calendar day of a blog.
type DayLookup interface {
	BlogForDay(year, month, day int) (*models.DailyBlog, error)
}

// Provider generates and resolves entry permalinks relative to the blog root.
type Provider interface {
	Permalink(e *models.BlogEntry) string
	IsBlogEntryPermalink(uri string) bool
	Resolve(uri string, days DayLookup) (*models.BlogEntry, error)
}

// Factory builds a Provider for a blog in loc.
type Factory func(loc *time.Location) Provider

const (
	DefaultProviderName = "default"
	TitleProviderName   = "title"
)

// Providers maps permalinkProviderName property values to implementations.
var Providers = map[string]Factory{
	DefaultProviderName: func(loc *time.Location) Provider { return NewDefaultProvider(loc) },
	TitleProviderName:   func(loc *time.Location) Provider { return NewTitleProvider(loc) },
}

// New resolves name, falling back to the default provider.
func New(name string, loc *time.Location, log *logrus.Logger) Provider {
	factory, ok := Providers[name]
	if !ok {
		log.WithField("provider", name).Error("unknown permalink provider, using default")
		factory = Providers[DefaultProviderName]
	}
	return factory(loc)
}

func datePath(e *models.BlogEntry, loc *time.Location) string {
	d := e.Date.In(loc)
	return fmt.Sprintf("/%04d/%02d/%02d/", d.Year(), int(d.Month()), d.Day())
}

// match splits a /yyyy/MM/dd/<name>.html uri.
func match(re *regexp.Regexp, uri string) (year, month, day int, name string, ok bool) {
	m := re.FindStringSubmatch(uri)
	if m == nil {
		return 0, 0, 0, "", false
	}
	year, _ = strconv.Atoi(m[1])
	month, _ = strconv.Atoi(m[2])
	day, _ = strconv.Atoi(m[3])
	return year, month, day, m[4], true
}

// DefaultProvider uses /yyyy/MM/dd/<id>.html.
type DefaultProvider struct {
	loc *time.Location
}

var defaultPattern = regexp.MustCompile(`^/(\d{4})/(\d{2})/(\d{2})/(\d+)\.html$`)

func NewDefaultProvider(loc *time.Location) *DefaultProvider {
	return &DefaultProvider{loc: loc}
}

func (p *DefaultProvider) Permalink(e *models.BlogEntry) string {
	return datePath(e, p.loc) + e.ID + ".html"
}

func (p *DefaultProvider) IsBlogEntryPermalink(uri string) bool {
	return defaultPattern.MatchString(uri)
}

func (p *DefaultProvider) Resolve(uri string, days DayLookup) (*models.BlogEntry, error) {
	year, month, day, id, ok := match(defaultPattern, uri)
	if !ok {
		return nil, ErrNoSuchEntry
	}
	d, err := days.BlogForDay(year, month, day)
	if err != nil {
		return nil, err
	}
	if e := d.Entry(id); e != nil {
		return e, nil
	}
	return nil, ErrNoSuchEntry
}

// TitleProvider uses /yyyy/MM/dd/<title_slug>.html.
type TitleProvider struct {
	loc *time.Location
}

var (
	titlePattern = regexp.MustCompile(`^/(\d{4})/(\d{2})/(\d{2})/([a-z0-9_]+)\.html$`)
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
)

func NewTitleProvider(loc *time.Location) *TitleProvider {
	return &TitleProvider{loc: loc}
}

// Slug lowercases a title and joins its words with underscores. Untitled
// entries fall back to their id.
func Slug(e *models.BlogEntry) string {
	slug := strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(e.Title), "_"), "_")
	if slug == "" {
		return e.ID
	}
	return slug
}

func (p *TitleProvider) Permalink(e *models.BlogEntry) string {
	return datePath(e, p.loc) + Slug(e) + ".html"
}

func (p *TitleProvider) IsBlogEntryPermalink(uri string) bool {
	return titlePattern.MatchString(uri)
}

// Resolve returns the newest entry of the day carrying the slug.
func (p *TitleProvider) Resolve(uri string, days DayLookup) (*models.BlogEntry, error) {
	year, month, day, slug, ok := match(titlePattern, uri)
	if !ok {
		return nil, ErrNoSuchEntry
	}
	d, err := days.BlogForDay(year, month, day)
	if err != nil {
		return nil, err
	}
	for _, e := range d.Entries() {
		if Slug(e) == slug {
			return e, nil
		}
	}
	return nil, ErrNoSuchEntry
}
