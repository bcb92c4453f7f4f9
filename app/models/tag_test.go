package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeTag(t *testing.T) {
	tests := map[string]string{
		"Go":             "go",
		"  Java  ":       "java",
		"open source":    "open+source",
		"a.b,c;d/e\\f-g": "a+b+c+d+e+f+g",
		"--trailing--":   "trailing",
		"multi   space":  "multi+space",
		"":               "",
	}

	for in, want := range tests {
		assert.Equal(t, want, EncodeTag(in), "EncodeTag(%q)", in)
	}
}

func TestTagCounts(t *testing.T) {
	tag := NewTag("Go Lang")
	assert.Equal(t, "go+lang", tag.Name)

	tag.AddBlogEntry("1")
	tag.AddBlogEntry("2")
	tag.AddBlogEntry("2")
	assert.Equal(t, 2, tag.NumberOfBlogEntries())

	tag.RemoveBlogEntry("1")
	assert.Equal(t, 1, tag.NumberOfBlogEntries())
}

func TestTagCalculateRank(t *testing.T) {
	thresholds := [10]int{0, 1, 1, 2, 2, 3, 4, 6, 8, 10}

	tests := []struct {
		count int
		want  int
	}{
		{0, 0},
		{1, 1},
		{2, 3},
		{3, 5},
		{5, 7},
		{10, 9},
		{11, 9},
	}

	for _, tt := range tests {
		tag := NewTag("t")
		for i := 0; i < tt.count; i++ {
			tag.AddBlogEntry(string(rune('a' + i)))
		}
		tag.CalculateRank(thresholds)
		assert.Equal(t, tt.want, tag.Rank, "count %d", tt.count)
	}
}
