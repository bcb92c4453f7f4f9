package models

import (
	"sort"
	"strings"
)

// RootCategoryID is the id of the implicit top of every category tree.
const RootCategoryID = "/"

// Category is a node in a blog's category tree. Ids are slash separated paths.
type Category struct {
	ID       string      `json:"id" validate:"required,startswith=/"`
	Name     string      `json:"name" validate:"required,max=100"`
	Tags     []string    `json:"tags,omitempty"`
	children []*Category
	entries  map[string]struct{}
}

func NewCategory(id, name string) *Category {
	return &Category{ID: id, Name: name}
}

// Validate checks if the category meets all validation requirements
func (c *Category) Validate() error {
	return validate.Struct(c)
}

func (c *Category) IsRoot() bool {
	return c.ID == RootCategoryID
}

// ParentID derives the parent's id from this category's path.
func (c *Category) ParentID() string {
	if c.IsRoot() {
		return ""
	}
	i := strings.LastIndex(strings.TrimSuffix(c.ID, "/"), "/")
	if i <= 0 {
		return RootCategoryID
	}
	return c.ID[:i]
}

// Contains reports whether id names this category or one of its descendants.
func (c *Category) Contains(id string) bool {
	if c.IsRoot() || id == c.ID {
		return true
	}
	return strings.HasPrefix(id, c.ID+"/")
}

func (c *Category) Children() []*Category {
	return append([]*Category(nil), c.children...)
}

func (c *Category) Child(id string) *Category {
	for _, child := range c.children {
		if child.ID == id {
			return child
		}
	}
	return nil
}

func (c *Category) AddChild(child *Category) {
	if c.Child(child.ID) != nil {
		return
	}
	c.children = append(c.children, child)
	sort.Slice(c.children, func(i, j int) bool { return c.children[i].ID < c.children[j].ID })
}

func (c *Category) RemoveChild(id string) {
	for i, child := range c.children {
		if child.ID == id {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return
		}
	}
}

// Flatten lists the subtree rooted at c in pre-order.
func (c *Category) Flatten() []*Category {
	list := []*Category{c}
	for _, child := range c.children {
		list = append(list, child.Flatten()...)
	}
	return list
}

func (c *Category) AddBlogEntry(id string) {
	if c.entries == nil {
		c.entries = make(map[string]struct{})
	}
	c.entries[id] = struct{}{}
}

func (c *Category) RemoveBlogEntry(id string) {
	delete(c.entries, id)
}

func (c *Category) NumberOfBlogEntries() int {
	return len(c.entries)
}
