package models

import "time"

// Response is the common view of comments and trackbacks.
type Response interface {
	ResponseID() string
	EntryID() string
	ResponseDate() time.Time
	ResponseState() State
}

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	return validate.Struct(c)
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate(now time.Time) {
	if c.Date.IsZero() {
		c.Date = now
	}
	c.Date = c.Date.Truncate(time.Millisecond)
	if c.State == "" {
		c.State = StatePending
	}
}

func (c *Comment) IsApproved() bool        { return c.State == StateApproved }
func (c *Comment) ResponseID() string      { return c.ID }
func (c *Comment) EntryID() string         { return c.BlogEntryID }
func (c *Comment) ResponseDate() time.Time { return c.Date }
func (c *Comment) ResponseState() State    { return c.State }

// Validate checks if the trackback meets all validation requirements
func (tb *TrackBack) Validate() error {
	return validate.Struct(tb)
}

// BeforeCreate sets up any necessary fields before creation
func (tb *TrackBack) BeforeCreate(now time.Time) {
	if tb.Date.IsZero() {
		tb.Date = now
	}
	tb.Date = tb.Date.Truncate(time.Millisecond)
	if tb.State == "" {
		tb.State = StatePending
	}
}

func (tb *TrackBack) IsApproved() bool        { return tb.State == StateApproved }
func (tb *TrackBack) ResponseID() string      { return tb.ID }
func (tb *TrackBack) EntryID() string         { return tb.BlogEntryID }
func (tb *TrackBack) ResponseDate() time.Time { return tb.Date }
func (tb *TrackBack) ResponseState() State    { return tb.State }
