package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"blogd/app/blog"
	"blogd/app/cache"
	"blogd/app/models"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// CategoryController handles HTTP requests for a blog's category tree
type CategoryController struct {
	controller
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(manager *blog.Manager, cache cache.CacheProviderInterface, log *logrus.Logger) *CategoryController {
	return &CategoryController{controller{manager: manager, cache: cache, log: log}}
}

type categoryRequest struct {
	ID   string   `json:"id" validate:"required,startswith=/,max=200"`
	Name string   `json:"name" validate:"required,max=100"`
	Tags []string `json:"tags" validate:"dive,max=50"`
}

type categoryResponse struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Parent  string   `json:"parent,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Entries int      `json:"entries"`
}

func newCategoryResponse(c blog.CategorySummary) categoryResponse {
	return categoryResponse{
		ID:      c.ID,
		Name:    c.Name,
		Parent:  c.Parent,
		Tags:    c.Tags,
		Entries: c.Entries,
	}
}

// Index lists every category, root first
func (cc *CategoryController) Index(w http.ResponseWriter, r *http.Request) {
	b, ok := cc.blog(w, r)
	if !ok {
		return
	}
	cc.serveCached(w, r, func() (any, int) {
		categories := b.CategorySummaries()
		out := make([]categoryResponse, 0, len(categories))
		for _, c := range categories {
			out = append(out, newCategoryResponse(c))
		}
		return out, http.StatusOK
	})
}

// Create adds a category, creating missing parents. Posting the root id
// renames the root.
func (cc *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	b, ok := cc.blog(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if !cc.decodeJSON(w, r, &req) {
		return
	}
	if req.ID != models.RootCategoryID {
		req.ID = strings.TrimSuffix(req.ID, "/")
	}
	if err := validate.Struct(req); err != nil {
		cc.sendError(w, "Invalid category: "+err.Error(), http.StatusBadRequest)
		return
	}

	c := models.NewCategory(req.ID, req.Name)
	c.Tags = req.Tags
	b.AddCategory(c)
	cc.invalidate()

	stored, ok := b.CategorySummary(req.ID)
	if !ok {
		cc.serverError(w, r, fmt.Errorf("category %s was not stored", req.ID))
		return
	}
	cc.sendJSON(w, http.StatusCreated, newCategoryResponse(stored))
}

// Delete removes a category and its subcategories
func (cc *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	b, ok := cc.blog(w, r)
	if !ok {
		return
	}
	id := "/" + strings.Trim(mux.Vars(r)["id"], "/")
	c := b.Category(id)
	if c == nil || c.IsRoot() {
		cc.sendError(w, "Category not found", http.StatusNotFound)
		return
	}
	b.RemoveCategory(c)
	cc.invalidate()
	w.WriteHeader(http.StatusNoContent)
}
