package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"blogd/app/blog"
	"blogd/app/events"
	"blogd/app/models"
	"blogd/app/repositories"

	"github.com/sirupsen/logrus"
)

// PublishDateLayout is the form layout of an explicit publish date, read in the blog's time zone.
const PublishDateLayout = "02 Jan 2006 15:04"

// ErrInvalid marks input that failed validation.
var ErrInvalid = errors.New("invalid input")

// BlogEntryService handles business logic for blog entries. Every mutation
// persists a modified copy, swaps it into the blog's calendar and then fires
// the matching event.
type BlogEntryService struct {
	log *logrus.Logger
}

// NewBlogEntryService creates a new BlogEntryService
func NewBlogEntryService(log *logrus.Logger) *BlogEntryService {
	return &BlogEntryService{log: log}
}

// CreateBlogEntry stores a new entry, draft, template or static page.
func (s *BlogEntryService) CreateBlogEntry(b *blog.Blog, e *models.BlogEntry) error {
	e.BeforeCreate(b.Now())
	if err := e.Validate(); err != nil {
		return fmt.Errorf("invalid blog entry: %w: %w", ErrInvalid, err)
	}

	for find(b, e.ID) != nil {
		e.SetDate(e.Date.Add(time.Millisecond))
	}

	if err := b.BlogEntryDAO().PutBlogEntry(e); err != nil {
		return fmt.Errorf("failed to save blog entry: %w", err)
	}
	s.register(b, e, events.BlogEntryAdded)
	return nil
}

// GetBlogEntry finds an entry of any kind by id.
func (s *BlogEntryService) GetBlogEntry(b *blog.Blog, id string) (*models.BlogEntry, error) {
	e := find(b, id)
	if e == nil {
		return nil, repositories.ErrNotFound
	}
	return e, nil
}

// UpdateBlogEntry replaces the editable fields of an entry. Its id, date,
// kind and responses are kept.
func (s *BlogEntryService) UpdateBlogEntry(b *blog.Blog, id string, changes *models.BlogEntry) (*models.BlogEntry, error) {
	existing := find(b, id)
	if existing == nil {
		return nil, repositories.ErrNotFound
	}

	updated := changes.Clone()
	updated.ID = existing.ID
	updated.Date = existing.Date
	updated.Kind = existing.Kind
	updated.Published = existing.Published
	updated.Comments = existing.Comments
	updated.TrackBacks = existing.TrackBacks
	if updated.State == "" {
		updated.State = existing.State
	}
	if err := updated.Validate(); err != nil {
		return nil, fmt.Errorf("invalid blog entry: %w: %w", ErrInvalid, err)
	}

	if err := b.BlogEntryDAO().PutBlogEntry(updated); err != nil {
		return nil, fmt.Errorf("failed to save blog entry: %w", err)
	}
	s.register(b, updated, events.BlogEntryChanged)
	return updated, nil
}

// RemoveBlogEntry deletes an entry and its responses.
func (s *BlogEntryService) RemoveBlogEntry(b *blog.Blog, id string) error {
	e := find(b, id)
	if e == nil {
		return repositories.ErrNotFound
	}
	if err := b.BlogEntryDAO().RemoveBlogEntry(e); err != nil {
		return fmt.Errorf("failed to remove blog entry: %w", err)
	}
	s.unregister(b, e)
	return nil
}

// PublishBlogEntry moves an entry to date and marks it published. The
// returned entry is the one a caller should redirect to, also on error.
func (s *BlogEntryService) PublishBlogEntry(b *blog.Blog, id string, date time.Time) (*models.BlogEntry, error) {
	e := b.BlogEntry(id)
	if e == nil {
		return nil, repositories.ErrNotFound
	}

	s.logger(b).WithField("date", e.Date).Info("removing blog entry")
	if err := b.BlogEntryDAO().RemoveBlogEntry(e); err != nil {
		return e, fmt.Errorf("failed to remove blog entry: %w", err)
	}
	s.unregister(b, e)

	published := e.Clone()
	published.SetDate(date)
	for b.BlogEntry(published.ID) != nil {
		published.SetDate(published.Date.Add(time.Millisecond))
	}
	published.Published = true
	rehome(published)

	s.logger(b).WithField("date", published.Date).Info("putting blog entry")
	if err := b.BlogEntryDAO().PutBlogEntry(published); err != nil {
		return published, fmt.Errorf("failed to save blog entry: %w", err)
	}
	s.register(b, published, events.BlogEntryPublished)
	return published, nil
}

// UnpublishBlogEntry clears the published flag in place.
func (s *BlogEntryService) UnpublishBlogEntry(b *blog.Blog, id string) (*models.BlogEntry, error) {
	e := b.BlogEntry(id)
	if e == nil {
		return nil, repositories.ErrNotFound
	}

	unpublished := e.Clone()
	unpublished.Published = false
	if err := b.BlogEntryDAO().PutBlogEntry(unpublished); err != nil {
		return e, fmt.Errorf("failed to save blog entry: %w", err)
	}
	s.register(b, unpublished, events.BlogEntryUnpublished)
	return unpublished, nil
}

// ResolvePublishDate picks the publish date from the form values. An explicit
// date is only used when now is "false"; dates in the future are clamped and
// unparseable ones are logged and ignored.
func (s *BlogEntryService) ResolvePublishDate(b *blog.Blog, now, date string) time.Time {
	publishDate := b.Now()
	if !strings.EqualFold(now, "false") || date == "" {
		return publishDate
	}

	parsed, err := time.ParseInLocation(PublishDateLayout, date, b.Location())
	if err != nil {
		s.logger(b).WithFields(logrus.Fields{
			"date":  date,
			"error": err.Error(),
		}).Warn("could not parse publish date")
		return publishDate
	}
	if parsed.After(publishDate) {
		return publishDate
	}
	return parsed
}

func (s *BlogEntryService) logger(b *blog.Blog) *logrus.Entry {
	return s.log.WithField("blog", b.ID())
}

func (s *BlogEntryService) register(b *blog.Blog, e *models.BlogEntry, kind events.Kind) {
	if e.Kind != models.KindEntry {
		return
	}
	b.AddBlogEntry(e)
	b.Fire(events.BlogEntryEvent{Kind: kind, BlogID: b.ID(), Entry: e})
}

func (s *BlogEntryService) unregister(b *blog.Blog, e *models.BlogEntry) {
	if e.Kind != models.KindEntry {
		return
	}
	b.RemoveBlogEntry(e)
	b.Fire(events.BlogEntryEvent{Kind: events.BlogEntryRemoved, BlogID: b.ID(), Entry: e})
}

// find looks through the calendar first and then the undated collections.
func find(b *blog.Blog, id string) *models.BlogEntry {
	if e := b.BlogEntry(id); e != nil {
		return e
	}
	if e := b.DraftBlogEntry(id); e != nil {
		return e
	}
	if e := b.BlogEntryTemplate(id); e != nil {
		return e
	}
	return b.StaticPage(id)
}

// rehome points copied responses at the entry's current id.
func rehome(e *models.BlogEntry) {
	for i, c := range e.Comments {
		cc := *c
		cc.BlogEntryID = e.ID
		e.Comments[i] = &cc
	}
	for i, tb := range e.TrackBacks {
		tbc := *tb
		tbc.BlogEntryID = e.ID
		e.TrackBacks[i] = &tbc
	}
}
