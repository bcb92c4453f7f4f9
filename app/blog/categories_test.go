package blog

import (
	"testing"

	"blogd/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryIDs(categories []*models.Category) []string {
	var ids []string
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestCategoryBuilder(t *testing.T) {
	cb := NewCategoryBuilder(nil)
	assert.True(t, cb.RootCategory().IsRoot())

	assert.True(t, cb.AddCategory(models.NewCategory("/b", "B")))
	assert.True(t, cb.AddCategory(models.NewCategory("/a/x", "X")))
	assert.False(t, cb.AddCategory(models.NewCategory("/b", "Again")))

	assert.Equal(t, []string{"/", "/a", "/a/x", "/b"}, categoryIDs(cb.RootCategory().Flatten()))
	assert.Equal(t, "a", cb.Category("/a").Name)
	assert.Equal(t, "B", cb.Category("/b").Name)
	assert.Nil(t, cb.Category("/c"))
	assert.Nil(t, cb.Category("/ab"))

	assert.True(t, cb.RemoveCategory(models.NewCategory("/a", "A")))
	assert.False(t, cb.RemoveCategory(models.NewCategory("/a", "A")))
	assert.False(t, cb.RemoveCategory(models.NewCategory("/", "root")))
	assert.Equal(t, []string{"/", "/b"}, categoryIDs(cb.RootCategory().Flatten()))
}

func TestBlogCategories(t *testing.T) {
	f := newFixture(t, nil)
	b := f.blog

	b.AddCategory(models.NewCategory("/tech", "Technology"))
	b.AddCategory(models.NewCategory("/tech/go", "Go"))
	require.Equal(t, 2, f.categories.Puts)

	b.AddCategory(models.NewCategory("/tech", "Duplicate"))
	assert.Equal(t, 2, f.categories.Puts)
	assert.Equal(t, "Technology", b.Category("/tech").Name)

	b.RemoveCategory(models.NewCategory("/missing", "Missing"))
	assert.Equal(t, 2, f.categories.Puts)

	assert.Equal(t, []string{"/", "/tech", "/tech/go"}, categoryIDs(b.Categories()))

	b.RemoveCategory(models.NewCategory("/tech", "Technology"))
	assert.Equal(t, 3, f.categories.Puts)
	assert.Equal(t, []string{"/"}, categoryIDs(b.Categories()))
}

func TestCategoriesReloadFromStore(t *testing.T) {
	f := newFixture(t, nil)
	f.blog.AddCategory(models.NewCategory("/tech/go", "Go"))
	f.blog.Category("/tech").Tags = []string{"technology"}
	f.blog.SetRootCategory(f.blog.RootCategory())

	reloaded, err := New("default", t.TempDir(), map[string]string{TimeZoneKey: "UTC"}, f.entries, f.categories,
		WithLogger(f.log), WithIndex(f.blog.index))
	require.NoError(t, err)

	assert.Equal(t, []string{"/", "/tech", "/tech/go"}, categoryIDs(reloaded.Categories()))
	assert.Equal(t, "Go", reloaded.Category("/tech/go").Name)
	assert.Equal(t, []string{"technology"}, reloaded.Category("/tech").Tags)
}
