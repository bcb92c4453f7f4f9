package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryParentID(t *testing.T) {
	assert.Equal(t, "", NewCategory("/", "All").ParentID())
	assert.Equal(t, "/", NewCategory("/tech", "Tech").ParentID())
	assert.Equal(t, "/tech", NewCategory("/tech/go", "Go").ParentID())
}

func TestCategoryTree(t *testing.T) {
	root := NewCategory(RootCategoryID, "All")
	tech := NewCategory("/tech", "Tech")
	life := NewCategory("/life", "Life")
	golang := NewCategory("/tech/go", "Go")

	root.AddChild(tech)
	root.AddChild(life)
	root.AddChild(tech)
	tech.AddChild(golang)

	assert.Len(t, root.Children(), 2)
	assert.Equal(t, "/life", root.Children()[0].ID)
	assert.Same(t, golang, tech.Child("/tech/go"))

	ids := []string{}
	for _, c := range root.Flatten() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"/", "/life", "/tech", "/tech/go"}, ids)

	root.RemoveChild("/life")
	assert.Len(t, root.Children(), 1)
}

func TestCategoryValidation(t *testing.T) {
	assert.NoError(t, NewCategory("/tech", "Tech").Validate())
	assert.Error(t, NewCategory("tech", "Tech").Validate())
	assert.Error(t, NewCategory("/tech", "").Validate())
}

func TestCategoryEntries(t *testing.T) {
	c := NewCategory("/tech", "Tech")
	c.AddBlogEntry("1")
	c.AddBlogEntry("2")
	c.RemoveBlogEntry("1")
	assert.Equal(t, 1, c.NumberOfBlogEntries())
}
