package controllers

import (
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"blogd/app/blog"
	"blogd/app/cache"
	"blogd/app/models"
	"blogd/app/repositories"
	"blogd/app/services"
	"blogd/pkg/log"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

const (
	maxRequestBodySize = 1 << 20 // 1 MB

	// Set by an authenticating proxy in front of the server.
	RemoteUserHeader  = "X-Remote-User"
	RemoteRolesHeader = "X-Remote-Roles"
)

var validate = validator.New()

// controller carries what every handler needs: the blogs, a response cache
// and a logger.
type controller struct {
	manager *blog.Manager
	cache   cache.CacheProviderInterface
	log     *logrus.Logger
}

// entryResponse is an entry as the API renders it.
type entryResponse struct {
	*models.BlogEntry
	Permalink string `json:"permalink"`
}

func (c *controller) sendJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		c.log.WithError(err).Error("failed to encode response")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (c *controller) sendError(w http.ResponseWriter, message string, status int) {
	c.sendJSON(w, status, map[string]string{"error": message})
}

// serverError logs err and answers with a trace id the client can quote.
func (c *controller) serverError(w http.ResponseWriter, r *http.Request, err error) {
	traceID := log.ErrorWithTraceID(c.log, log.Fields{
		log.RequestIDKey: r.Header.Get(log.RequestIDHeader),
		"method":         r.Method,
		"path":           r.URL.Path,
		"error":          err.Error(),
	}, "request failed")
	c.sendJSON(w, http.StatusInternalServerError, map[string]string{
		"error":    "Internal Server Error",
		"trace_id": traceID,
	})
}

// sendServiceError maps service errors onto status codes.
func (c *controller) sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, models.ErrResponseNotFound):
		c.sendError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrInvalid):
		c.sendError(w, err.Error(), http.StatusBadRequest)
	default:
		c.serverError(w, r, err)
	}
}

func (c *controller) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		c.sendError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// blog resolves the {blog} route variable, answering 404 when it is unknown.
func (c *controller) blog(w http.ResponseWriter, r *http.Request) (*blog.Blog, bool) {
	b, err := c.manager.Blog(mux.Vars(r)["blog"])
	if err != nil {
		c.sendError(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return b, true
}

// serveCached answers anonymous reads from the cache. Authorised viewers see
// unapproved content and bypass it.
func (c *controller) serveCached(w http.ResponseWriter, r *http.Request, compute func() (any, int)) {
	anonymous := viewerFrom(r).User == ""
	key := r.URL.RequestURI()
	if anonymous {
		if data, ok := c.cache.Get(key); ok {
			writeView(w, r, http.StatusOK, data)
			return
		}
	}

	result, status := compute()
	body, err := json.Marshal(result)
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	if anonymous && status == http.StatusOK {
		c.cache.Set(key, body)
	}
	writeView(w, r, status, body)
}

// etag is a strong validator derived from the rendered body.
func etag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// writeView answers 304 when the client already holds the same body.
func writeView(w http.ResponseWriter, r *http.Request, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusOK {
		tag := etag(body)
		w.Header().Set("ETag", tag)
		if r.Header.Get("If-None-Match") == tag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// invalidate drops cached views after a write.
func (c *controller) invalidate() {
	c.cache.Clear()
}

// viewerFrom reads the identity an authenticating proxy put on the request.
func viewerFrom(r *http.Request) blog.Viewer {
	user := strings.TrimSpace(r.Header.Get(RemoteUserHeader))
	if user == "" {
		return blog.Anonymous
	}
	var roles []string
	for _, role := range strings.Split(r.Header.Get(RemoteRolesHeader), ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}
	return blog.Viewer{User: user, Roles: roles}
}

func render(b *blog.Blog, entries []*models.BlogEntry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{BlogEntry: e, Permalink: b.Permalink(e)})
	}
	return out
}

// visible decorates entries for the requesting viewer.
func visible(b *blog.Blog, r *http.Request, entries []*models.BlogEntry) []*models.BlogEntry {
	return b.Decorate(viewerFrom(r), entries)
}

func intParam(r *http.Request, name string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 1 {
		return def
	}
	return n
}
