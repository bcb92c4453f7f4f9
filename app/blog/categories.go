package blog

import (
	"strings"

	"blogd/app/models"
)

// CategoryBuilder assembles a category tree from a flat list by deriving
// each node's parent from its path.
type CategoryBuilder struct {
	root *models.Category
}

// NewCategoryBuilder works on root, creating one when root is nil.
func NewCategoryBuilder(root *models.Category) *CategoryBuilder {
	if root == nil {
		root = models.NewCategory(models.RootCategoryID, "All")
	}
	return &CategoryBuilder{root: root}
}

func (cb *CategoryBuilder) RootCategory() *models.Category {
	return cb.root
}

// Category finds the node with id, or nil.
func (cb *CategoryBuilder) Category(id string) *models.Category {
	if id == models.RootCategoryID {
		return cb.root
	}
	node := cb.root
	for node != nil && node.ID != id {
		var next *models.Category
		for _, child := range node.Children() {
			if child.Contains(id) {
				next = child
				break
			}
		}
		node = next
	}
	return node
}

// AddCategory attaches c under its parent, creating missing ancestors. It
// reports false when a category with the same id already exists.
func (cb *CategoryBuilder) AddCategory(c *models.Category) bool {
	if c.IsRoot() {
		cb.root.Name = c.Name
		cb.root.Tags = c.Tags
		return false
	}
	if cb.Category(c.ID) != nil {
		return false
	}
	parent := cb.Category(c.ParentID())
	if parent == nil {
		parentID := c.ParentID()
		parent = models.NewCategory(parentID, parentID[strings.LastIndex(parentID, "/")+1:])
		cb.AddCategory(parent)
	}
	parent.AddChild(c)
	return true
}

// RemoveCategory detaches the category with c's id and its subtree. It reports
// false when no such category exists.
func (cb *CategoryBuilder) RemoveCategory(c *models.Category) bool {
	if c.IsRoot() {
		return false
	}
	existing := cb.Category(c.ID)
	if existing == nil {
		return false
	}
	cb.Category(existing.ParentID()).RemoveChild(existing.ID)
	return true
}

func (b *Blog) loadCategories() {
	categories, err := b.categories.Categories()
	if err != nil {
		b.logger().WithError(err).Error("failed to load categories")
	}

	cb := NewCategoryBuilder(nil)
	for _, c := range categories {
		cb.AddCategory(models.NewCategory(c.ID, c.Name))
		node := cb.Category(c.ID)
		node.Name = c.Name
		node.Tags = c.Tags
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.rootCategory = cb.RootCategory()
}

func (b *Blog) categoryLocked(id string) *models.Category {
	return NewCategoryBuilder(b.rootCategory).Category(id)
}

func (b *Blog) RootCategory() *models.Category {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rootCategory
}

// SetRootCategory replaces the whole tree.
func (b *Blog) SetRootCategory(root *models.Category) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rootCategory = root
	b.persistCategoriesLocked()
}

// Categories lists the tree in pre-order, root first.
func (b *Blog) Categories() []*models.Category {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rootCategory.Flatten()
}

// CategorySummary is a copy of a category's state taken under the blog lock.
type CategorySummary struct {
	ID      string
	Name    string
	Parent  string
	Tags    []string
	Entries int
}

func summarize(c *models.Category) CategorySummary {
	return CategorySummary{
		ID:      c.ID,
		Name:    c.Name,
		Parent:  c.ParentID(),
		Tags:    append([]string(nil), c.Tags...),
		Entries: c.NumberOfBlogEntries(),
	}
}

// CategorySummaries lists the tree in pre-order, root first.
func (b *Blog) CategorySummaries() []CategorySummary {
	b.mu.Lock()
	defer b.mu.Unlock()
	categories := b.rootCategory.Flatten()
	out := make([]CategorySummary, 0, len(categories))
	for _, c := range categories {
		out = append(out, summarize(c))
	}
	return out
}

// CategorySummary reports false when id is not in the tree.
func (b *Blog) CategorySummary(id string) (CategorySummary, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := b.categoryLocked(id)
	if c == nil {
		return CategorySummary{}, false
	}
	return summarize(c), true
}

func (b *Blog) Category(id string) *models.Category {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.categoryLocked(id)
}

// AddCategory is a no-op when the id already exists. Adding the root renames it.
func (b *Blog) AddCategory(c *models.Category) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if NewCategoryBuilder(b.rootCategory).AddCategory(c) || c.IsRoot() {
		b.persistCategoriesLocked()
	}
}

// RemoveCategory is a no-op when the id does not exist.
func (b *Blog) RemoveCategory(c *models.Category) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if NewCategoryBuilder(b.rootCategory).RemoveCategory(c) {
		b.persistCategoriesLocked()
	}
}

func (b *Blog) persistCategoriesLocked() {
	if err := b.categories.PutCategories(b.rootCategory); err != nil {
		b.logger().WithError(err).Error("failed to store categories")
	}
}
