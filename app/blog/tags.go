package blog

import (
	"sort"
	"time"

	"blogd/app/models"
)

func (b *Blog) tagLocked(name string) *models.Tag {
	encoded := models.EncodeTag(name)
	t, ok := b.tags[encoded]
	if !ok {
		t = models.NewTag(encoded)
		b.tags[encoded] = t
	}
	return t
}

// Tag returns the tag for name, creating it when it is first seen.
func (b *Blog) Tag(name string) *models.Tag {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tagLocked(name)
}

// Tags lists the tags referenced by at least one entry, sorted by name. The
// tags are live; TagSummaries copies them for readers outside the lock.
func (b *Blog) Tags() []*models.Tag {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.activeTagsLocked()
}

// TagSummary is a copy of a tag's state taken under the blog lock.
type TagSummary struct {
	Name    string
	Rank    int
	Entries int
}

// TagSummaries lists the tags in use, sorted by name, safe to read while
// the calendar keeps loading.
func (b *Blog) TagSummaries() []TagSummary {
	b.mu.Lock()
	defer b.mu.Unlock()
	tags := b.activeTagsLocked()
	out := make([]TagSummary, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagSummary{Name: t.Name, Rank: t.Rank, Entries: t.NumberOfBlogEntries()})
	}
	return out
}

func (b *Blog) activeTagsLocked() []*models.Tag {
	var tags []*models.Tag
	for _, t := range b.tags {
		if t.NumberOfBlogEntries() > 0 {
			tags = append(tags, t)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags
}

// RecalculateTagRankings spreads every known tag over ten rank buckets.
// Counts up to the mean fill ranks 0 to 5, counts above it ranks 6 to 9.
// Tags no longer referenced by an entry still count towards the mean.
func (b *Blog) RecalculateTagRankings() {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	if len(b.tags) == 0 {
		return
	}

	total, most := 0, 0
	for _, t := range b.tags {
		n := t.NumberOfBlogEntries()
		total += n
		most = max(most, n)
	}
	thresholds := rankThresholds(total, len(b.tags), most)
	for _, t := range b.tags {
		t.CalculateRank(thresholds)
	}

	b.metrics.SetTags(b.id, len(b.activeTagsLocked()))
	b.logger().WithField("duration", time.Since(start)).Debug("tag rankings recalculated")
}

// rankThresholds keeps the integer division of the mean.
func rankThresholds(total, count, most int) [10]int {
	mean := float64(total / count)
	upper := (float64(most) - mean) / 4

	var t [10]int
	for i := 0; i < 5; i++ {
		t[i] = int(float64(i+1) / 6 * mean)
	}
	t[5] = int(mean)
	for k := 1; k <= 3; k++ {
		t[5+k] = int(mean + float64(k)*upper)
	}
	t[9] = most
	return t
}
