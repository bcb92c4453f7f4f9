package controllers

import (
	"net/http"

	"blogd/app/blog"
	"blogd/app/cache"
	"blogd/app/models"
	"blogd/app/services"
	"blogd/pkg/log"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const (
	SubmitPublish   = "Publish"
	SubmitUnpublish = "Unpublish"
)

// EntryController handles HTTP requests for single blog entries
type EntryController struct {
	controller
	entries *services.BlogEntryService
}

// NewEntryController creates a new EntryController
func NewEntryController(manager *blog.Manager, entries *services.BlogEntryService, cache cache.CacheProviderInterface, log *logrus.Logger) *EntryController {
	return &EntryController{
		controller: controller{manager: manager, cache: cache, log: log},
		entries:    entries,
	}
}

// entry resolves the {blog} and {id} route variables, hiding entries the
// viewer may not see.
func (ec *EntryController) entry(w http.ResponseWriter, r *http.Request) (*blog.Blog, *models.BlogEntry, bool) {
	b, ok := ec.blog(w, r)
	if !ok {
		return nil, nil, false
	}
	e, err := ec.entries.GetBlogEntry(b, mux.Vars(r)["id"])
	if err != nil {
		ec.sendError(w, "Blog entry not found", http.StatusNotFound)
		return nil, nil, false
	}
	shown := visible(b, r, []*models.BlogEntry{e})
	if len(shown) == 0 {
		ec.sendError(w, "Blog entry not found", http.StatusNotFound)
		return nil, nil, false
	}
	return b, shown[0], true
}

// Show handles displaying a single entry
func (ec *EntryController) Show(w http.ResponseWriter, r *http.Request) {
	b, e, ok := ec.entry(w, r)
	if !ok {
		return
	}
	ec.sendJSON(w, http.StatusOK, entryResponse{BlogEntry: e, Permalink: b.Permalink(e)})
}

// Previous shows the entry published before this one.
func (ec *EntryController) Previous(w http.ResponseWriter, r *http.Request) {
	ec.neighbour(w, r, (*blog.Blog).PreviousBlogEntry)
}

// Next shows the entry published after this one.
func (ec *EntryController) Next(w http.ResponseWriter, r *http.Request) {
	ec.neighbour(w, r, (*blog.Blog).NextBlogEntry)
}

func (ec *EntryController) neighbour(w http.ResponseWriter, r *http.Request, step func(*blog.Blog, *models.BlogEntry) *models.BlogEntry) {
	b, e, ok := ec.entry(w, r)
	if !ok {
		return
	}
	v := viewerFrom(r)
	for n := step(b, e); n != nil; n = step(b, n) {
		if shown := b.Decorate(v, []*models.BlogEntry{n}); len(shown) > 0 {
			ec.sendJSON(w, http.StatusOK, entryResponse{BlogEntry: shown[0], Permalink: b.Permalink(n)})
			return
		}
	}
	ec.sendError(w, "No such blog entry", http.StatusNotFound)
}

// Create handles creating a new entry
func (ec *EntryController) Create(w http.ResponseWriter, r *http.Request) {
	b, ok := ec.blog(w, r)
	if !ok {
		return
	}
	var e models.BlogEntry
	if !ec.decodeJSON(w, r, &e) {
		return
	}
	e.ID = ""
	e.Comments, e.TrackBacks = nil, nil

	if err := ec.entries.CreateBlogEntry(b, &e); err != nil {
		ec.sendServiceError(w, r, err)
		return
	}
	ec.invalidate()
	ec.sendJSON(w, http.StatusCreated, entryResponse{BlogEntry: &e, Permalink: b.Permalink(&e)})
}

// Update handles editing an existing entry
func (ec *EntryController) Update(w http.ResponseWriter, r *http.Request) {
	b, ok := ec.blog(w, r)
	if !ok {
		return
	}
	var changes models.BlogEntry
	if !ec.decodeJSON(w, r, &changes) {
		return
	}

	updated, err := ec.entries.UpdateBlogEntry(b, mux.Vars(r)["id"], &changes)
	if err != nil {
		ec.sendServiceError(w, r, err)
		return
	}
	ec.invalidate()
	ec.sendJSON(w, http.StatusOK, entryResponse{BlogEntry: updated, Permalink: b.Permalink(updated)})
}

// Delete handles deleting an entry
func (ec *EntryController) Delete(w http.ResponseWriter, r *http.Request) {
	b, ok := ec.blog(w, r)
	if !ok {
		return
	}
	if err := ec.entries.RemoveBlogEntry(b, mux.Vars(r)["id"]); err != nil {
		ec.sendServiceError(w, r, err)
		return
	}
	ec.invalidate()
	w.WriteHeader(http.StatusNoContent)
}

// Publish publishes or unpublishes an entry from a form post and redirects
// to its permalink. Persistence failures are logged; the redirect still
// happens.
func (ec *EntryController) Publish(w http.ResponseWriter, r *http.Request) {
	b, ok := ec.blog(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := r.ParseForm(); err != nil {
		ec.sendError(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	e := b.BlogEntry(id)
	if e == nil {
		ec.sendError(w, "Blog entry not found", http.StatusNotFound)
		return
	}

	var err error
	switch r.FormValue("submit") {
	case SubmitPublish:
		date := ec.entries.ResolvePublishDate(b, r.FormValue("now"), r.FormValue("date"))
		var published *models.BlogEntry
		if published, err = ec.entries.PublishBlogEntry(b, id, date); published != nil {
			e = published
		}
	case SubmitUnpublish:
		var unpublished *models.BlogEntry
		if unpublished, err = ec.entries.UnpublishBlogEntry(b, id); unpublished != nil {
			e = unpublished
		}
	}
	if err != nil {
		log.ErrorWithTraceID(ec.log, log.Fields{
			log.RequestIDKey: r.Header.Get(log.RequestIDHeader),
			"blog":           b.ID(),
			"entry":          id,
			"error":          err.Error(),
		}, "failed to change published state")
	}
	ec.invalidate()

	http.Redirect(w, r, "/blogs/"+b.ID()+b.Permalink(e), http.StatusSeeOther)
}
