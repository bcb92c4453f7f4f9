package models

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// IDFromDate derives an entry or response id from its timestamp.
func IDFromDate(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// DateFromID is the inverse of IDFromDate.
func DateFromID(id string) (time.Time, error) {
	millis, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed id %q: %w", id, err)
	}
	return time.UnixMilli(millis), nil
}

// NewBlogEntry creates an entry dated t.
func NewBlogEntry(title, body, author string, t time.Time) *BlogEntry {
	e := &BlogEntry{
		Title:  title,
		Body:   body,
		Author: author,
		State:  StateNew,
		Kind:   KindEntry,
	}
	e.SetDate(t)
	return e
}

// SetDate changes the entry date and re-derives its id.
func (e *BlogEntry) SetDate(t time.Time) {
	e.Date = t.Truncate(time.Millisecond)
	e.ID = IDFromDate(e.Date)
}

// Validate checks if the entry meets all validation requirements
func (e *BlogEntry) Validate() error {
	if err := validate.Struct(e); err != nil {
		return err
	}

	if e.ID != IDFromDate(e.Date) {
		return errors.New("id does not match date")
	}

	return nil
}

// BeforeCreate fills in defaults before the entry is first stored
func (e *BlogEntry) BeforeCreate(now time.Time) {
	if e.Date.IsZero() {
		e.Date = now
	}
	e.SetDate(e.Date)
	if e.State == "" {
		e.State = StateNew
	}
	if e.Kind == "" {
		e.Kind = KindEntry
	}
}

// IsApproved reports whether the entry is visible to anonymous readers.
func (e *BlogEntry) IsApproved() bool {
	return e.State == StateApproved
}

// HasTag compares tag names in their encoded form.
func (e *BlogEntry) HasTag(name string) bool {
	encoded := EncodeTag(name)
	if encoded == "" {
		return false
	}
	for _, t := range e.Tags {
		if EncodeTag(t) == encoded {
			return true
		}
	}
	return false
}

// TagNames returns the distinct encoded tags of the entry.
func (e *BlogEntry) TagNames() []string {
	seen := make(map[string]struct{}, len(e.Tags))
	var names []string
	for _, t := range e.Tags {
		encoded := EncodeTag(t)
		if encoded == "" {
			continue
		}
		if _, ok := seen[encoded]; ok {
			continue
		}
		seen[encoded] = struct{}{}
		names = append(names, encoded)
	}
	return names
}

// InCategory reports whether the entry is filed under c or one of its descendants.
func (e *BlogEntry) InCategory(c *Category) bool {
	if c == nil {
		return true
	}
	for _, id := range e.Categories {
		if c.Contains(id) {
			return true
		}
	}
	return false
}

// AddComment attaches a comment to the entry
func (e *BlogEntry) AddComment(c *Comment) error {
	if c == nil {
		return errors.New("comment cannot be nil")
	}
	if c.ID == "" {
		c.ID = IDFromDate(c.Date)
	}
	for e.Comment(c.ID) != nil {
		c.Date = c.Date.Add(time.Millisecond)
		c.ID = IDFromDate(c.Date)
	}
	c.BlogEntryID = e.ID
	e.Comments = append(e.Comments, c)
	return nil
}

// Comment looks up a comment by id.
func (e *BlogEntry) Comment(id string) *Comment {
	for _, c := range e.Comments {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// RemoveComment removes a comment and any replies to it.
func (e *BlogEntry) RemoveComment(id string) error {
	if e.Comment(id) == nil {
		return ErrResponseNotFound
	}
	removed := map[string]bool{id: true}
	kept := e.Comments[:0]
	for _, c := range e.Comments {
		if removed[c.ID] || removed[c.ParentID] {
			removed[c.ID] = true
			continue
		}
		kept = append(kept, c)
	}
	e.Comments = kept
	return nil
}

// AddTrackBack attaches a trackback to the entry
func (e *BlogEntry) AddTrackBack(tb *TrackBack) error {
	if tb == nil {
		return errors.New("trackback cannot be nil")
	}
	if tb.ID == "" {
		tb.ID = IDFromDate(tb.Date)
	}
	for e.TrackBack(tb.ID) != nil {
		tb.Date = tb.Date.Add(time.Millisecond)
		tb.ID = IDFromDate(tb.Date)
	}
	tb.BlogEntryID = e.ID
	e.TrackBacks = append(e.TrackBacks, tb)
	return nil
}

// TrackBack looks up a trackback by id.
func (e *BlogEntry) TrackBack(id string) *TrackBack {
	for _, tb := range e.TrackBacks {
		if tb.ID == id {
			return tb
		}
	}
	return nil
}

// RemoveTrackBack removes a trackback from the entry
func (e *BlogEntry) RemoveTrackBack(id string) error {
	for i, tb := range e.TrackBacks {
		if tb.ID == id {
			e.TrackBacks = append(e.TrackBacks[:i], e.TrackBacks[i+1:]...)
			return nil
		}
	}
	return ErrResponseNotFound
}

// Clone returns a copy whose slices can be filtered without touching e.
func (e *BlogEntry) Clone() *BlogEntry {
	c := *e
	c.Tags = append([]string(nil), e.Tags...)
	c.Categories = append([]string(nil), e.Categories...)
	c.Comments = append([]*Comment(nil), e.Comments...)
	c.TrackBacks = append([]*TrackBack(nil), e.TrackBacks...)
	return &c
}
