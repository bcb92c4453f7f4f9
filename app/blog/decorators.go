package blog

import (
	"blogd/app/events"
	"blogd/app/models"

	"github.com/sirupsen/logrus"
)

// Viewer is the person a page is rendered for. An empty User is anonymous.
type Viewer struct {
	User  string
	Roles []string
}

// Anonymous is the viewer of unauthenticated requests.
var Anonymous = Viewer{}

// IsAuthorised reports whether v holds an owner or contributor role for the blog.
func (b *Blog) IsAuthorised(v Viewer) bool {
	if v.User == "" {
		return false
	}
	for _, role := range v.Roles {
		if (role == OwnerRole || role == ContributorRole) && b.IsUserInRole(role, v.User) {
			return true
		}
	}
	return false
}

// Decorator rewrites entries before they are shown to a viewer. It returns
// nil to hide the entry and must not modify the entry it is given.
type Decorator interface {
	Decorate(b *Blog, v Viewer, e *models.BlogEntry) *models.BlogEntry
}

const (
	HideUnapprovedBlogEntriesName = "hideUnapprovedBlogEntries"
	HideUnapprovedResponsesName   = "hideUnapprovedResponses"
)

// Decorators maps blogEntryDecorators property values to implementations.
var Decorators = map[string]Decorator{
	HideUnapprovedBlogEntriesName: HideUnapprovedBlogEntries{},
	HideUnapprovedResponsesName:   HideUnapprovedResponses{},
}

// NewDecorators resolves the configured chain. Unknown names are logged and skipped.
func NewDecorators(config string, log *logrus.Logger) []Decorator {
	var chain []Decorator
	for _, name := range events.ParseNames(config) {
		d, ok := Decorators[name]
		if !ok {
			log.WithField("decorator", name).Error("unknown blog entry decorator")
			continue
		}
		chain = append(chain, d)
	}
	return chain
}

// HideUnapprovedBlogEntries hides entries that are not approved from anonymous readers.
type HideUnapprovedBlogEntries struct{}

func (HideUnapprovedBlogEntries) Decorate(b *Blog, v Viewer, e *models.BlogEntry) *models.BlogEntry {
	if e.IsApproved() || b.IsAuthorised(v) {
		return e
	}
	return nil
}

// HideUnapprovedResponses strips comments and trackbacks that are not approved.
type HideUnapprovedResponses struct{}

func (HideUnapprovedResponses) Decorate(b *Blog, v Viewer, e *models.BlogEntry) *models.BlogEntry {
	if b.IsAuthorised(v) {
		return e
	}
	c := e.Clone()
	c.Comments = c.Comments[:0]
	for _, x := range e.Comments {
		if x.IsApproved() {
			c.Comments = append(c.Comments, x)
		}
	}
	c.TrackBacks = c.TrackBacks[:0]
	for _, x := range e.TrackBacks {
		if x.IsApproved() {
			c.TrackBacks = append(c.TrackBacks, x)
		}
	}
	return c
}

// Decorate runs the blog's decorator chain over entries and drops the hidden ones.
func (b *Blog) Decorate(v Viewer, entries []*models.BlogEntry) []*models.BlogEntry {
	var shown []*models.BlogEntry
	for _, e := range entries {
		for _, d := range b.decorators {
			if e = d.Decorate(b, v, e); e == nil {
				break
			}
		}
		if e != nil {
			shown = append(shown, e)
		}
	}
	return shown
}
