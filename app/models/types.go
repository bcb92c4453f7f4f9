package models

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var (
	// ErrInvalidDate is returned for calendar coordinates that do not exist.
	ErrInvalidDate = errors.New("invalid date")
	// ErrResponseNotFound is returned when a comment or trackback id is unknown.
	ErrResponseNotFound = errors.New("response not found")
)

// State is the moderation state of an entry or a response.
type State string

const (
	StateNew      State = "new"
	StatePending  State = "pending"
	StateApproved State = "approved"
	StateRejected State = "rejected"
)

// Kind distinguishes dated blog entries from the undated content a blog keeps.
type Kind string

const (
	KindEntry      Kind = "entry"
	KindDraft      Kind = "draft"
	KindTemplate   Kind = "template"
	KindStaticPage Kind = "page"
)

// BlogEntry represents a single post in a blog.
type BlogEntry struct {
	ID         string       `json:"id"`
	Title      string       `json:"title" validate:"required,max=200"`
	Subtitle   string       `json:"subtitle,omitempty" validate:"max=200"`
	Body       string       `json:"body"`
	Excerpt    string       `json:"excerpt,omitempty"`
	Author     string       `json:"author" validate:"required,max=50"`
	Date       time.Time    `json:"date" validate:"required"`
	State      State        `json:"state" validate:"oneof=new pending approved rejected"`
	Published  bool         `json:"published"`
	Kind       Kind         `json:"kind" validate:"oneof=entry draft template page"`
	Tags       []string     `json:"tags,omitempty"`
	Categories []string     `json:"categories,omitempty"`
	Comments   []*Comment   `json:"comments,omitempty" validate:"-"`
	TrackBacks []*TrackBack `json:"trackbacks,omitempty" validate:"-"`
}

// Comment represents a reader comment on a blog entry.
type Comment struct {
	ID          string    `json:"id"`
	BlogEntryID string    `json:"blogEntryId"`
	ParentID    string    `json:"parentId,omitempty"`
	Title       string    `json:"title,omitempty" validate:"max=200"`
	Body        string    `json:"body" validate:"required,min=1,max=5000"`
	Author      string    `json:"author" validate:"required,min=2,max=50"`
	Email       string    `json:"email,omitempty" validate:"omitempty,email"`
	Website     string    `json:"website,omitempty" validate:"omitempty,url"`
	IPAddress   string    `json:"ipAddress,omitempty"`
	Date        time.Time `json:"date" validate:"required"`
	State       State     `json:"state" validate:"oneof=new pending approved rejected"`
}

// TrackBack represents a notification that another site linked to an entry.
type TrackBack struct {
	ID          string    `json:"id"`
	BlogEntryID string    `json:"blogEntryId"`
	Title       string    `json:"title,omitempty" validate:"max=200"`
	Excerpt     string    `json:"excerpt,omitempty"`
	URL         string    `json:"url" validate:"required,url"`
	BlogName    string    `json:"blogName,omitempty"`
	IPAddress   string    `json:"ipAddress,omitempty"`
	Date        time.Time `json:"date" validate:"required"`
	State       State     `json:"state" validate:"oneof=new pending approved rejected"`
}
