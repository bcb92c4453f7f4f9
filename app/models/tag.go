package models

import (
	"regexp"
	"strings"
)

var tagSeparators = regexp.MustCompile(`[. ,;/\\-]+`)

// EncodeTag normalizes a tag name so different spellings share one tag.
func EncodeTag(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = tagSeparators.ReplaceAllString(name, "+")
	return strings.Trim(name, "+")
}

// Tag aggregates the entries referencing one encoded tag name.
type Tag struct {
	Name    string
	Rank    int
	entries map[string]struct{}
}

func NewTag(name string) *Tag {
	return &Tag{
		Name:    EncodeTag(name),
		entries: make(map[string]struct{}),
	}
}

func (t *Tag) AddBlogEntry(id string) {
	t.entries[id] = struct{}{}
}

func (t *Tag) RemoveBlogEntry(id string) {
	delete(t.entries, id)
}

func (t *Tag) NumberOfBlogEntries() int {
	return len(t.entries)
}

// CalculateRank assigns the index of the first threshold the entry count does not exceed.
func (t *Tag) CalculateRank(thresholds [10]int) {
	count := t.NumberOfBlogEntries()
	for i, threshold := range thresholds {
		if count <= threshold {
			t.Rank = i
			return
		}
	}
	t.Rank = len(thresholds) - 1
}
