package repositories

import "blogd/app/models"

// BlogEntryDAO defines the interface for blog entry data access. Each
// instance is scoped to one blog.
type BlogEntryDAO interface {
	// YearlyBlogs returns one node per year holding entries, plus the current year, ascending.
	YearlyBlogs() ([]*models.YearlyBlog, error)
	BlogEntries(year, month int) ([]*models.BlogEntry, error)
	BlogEntry(id string) (*models.BlogEntry, error)
	PutBlogEntry(entry *models.BlogEntry) error
	RemoveBlogEntry(entry *models.BlogEntry) error
	DraftBlogEntries() ([]*models.BlogEntry, error)
	BlogEntryTemplates() ([]*models.BlogEntry, error)
	StaticPages() ([]*models.BlogEntry, error)
}

// CategoryDAO defines the interface for category data access
type CategoryDAO interface {
	// Categories returns the stored categories in pre-order, root first.
	Categories() ([]*models.Category, error)
	PutCategories(root *models.Category) error
}
