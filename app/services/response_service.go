package services

import (
	"fmt"

	"blogd/app/blog"
	"blogd/app/events"
	"blogd/app/models"
	"blogd/app/repositories"

	"github.com/sirupsen/logrus"
)

// ResponseService handles business logic for comments and trackbacks
type ResponseService struct {
	log *logrus.Logger
}

// NewResponseService creates a new ResponseService
func NewResponseService(log *logrus.Logger) *ResponseService {
	return &ResponseService{log: log}
}

// AddComment attaches a new comment to an entry. Comments start pending.
func (s *ResponseService) AddComment(b *blog.Blog, entryID string, c *models.Comment) (*models.Comment, error) {
	c.BeforeCreate(b.Now())
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid comment: %w: %w", ErrInvalid, err)
	}

	e, err := s.mutate(b, entryID, func(e *models.BlogEntry) error {
		if c.ParentID != "" && e.Comment(c.ParentID) == nil {
			return fmt.Errorf("parent comment %s: %w", c.ParentID, models.ErrResponseNotFound)
		}
		return e.AddComment(c)
	})
	if err != nil {
		return nil, err
	}
	b.Fire(events.CommentEvent{Kind: events.CommentAdded, BlogID: b.ID(), Entry: e, Comment: c})
	return c, nil
}

func (s *ResponseService) ApproveComment(b *blog.Blog, entryID, id string) (*models.Comment, error) {
	return s.setCommentState(b, entryID, id, models.StateApproved, events.CommentApproved)
}

func (s *ResponseService) RejectComment(b *blog.Blog, entryID, id string) (*models.Comment, error) {
	return s.setCommentState(b, entryID, id, models.StateRejected, events.CommentRejected)
}

// RemoveComment deletes a comment together with its replies.
func (s *ResponseService) RemoveComment(b *blog.Blog, entryID, id string) error {
	var removed []*models.Comment
	e, err := s.mutate(b, entryID, func(e *models.BlogEntry) error {
		before := append([]*models.Comment(nil), e.Comments...)
		if err := e.RemoveComment(id); err != nil {
			return err
		}
		for _, c := range before {
			if e.Comment(c.ID) == nil {
				removed = append(removed, c)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, c := range removed {
		b.Fire(events.CommentEvent{Kind: events.CommentRemoved, BlogID: b.ID(), Entry: e, Comment: c})
	}
	return nil
}

// AddTrackBack attaches a new trackback to an entry. Trackbacks start pending.
func (s *ResponseService) AddTrackBack(b *blog.Blog, entryID string, tb *models.TrackBack) (*models.TrackBack, error) {
	tb.BeforeCreate(b.Now())
	if err := tb.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trackback: %w: %w", ErrInvalid, err)
	}

	e, err := s.mutate(b, entryID, func(e *models.BlogEntry) error {
		return e.AddTrackBack(tb)
	})
	if err != nil {
		return nil, err
	}
	b.Fire(events.TrackBackEvent{Kind: events.TrackBackAdded, BlogID: b.ID(), Entry: e, TrackBack: tb})
	return tb, nil
}

func (s *ResponseService) ApproveTrackBack(b *blog.Blog, entryID, id string) (*models.TrackBack, error) {
	return s.setTrackBackState(b, entryID, id, models.StateApproved, events.TrackBackApproved)
}

func (s *ResponseService) RejectTrackBack(b *blog.Blog, entryID, id string) (*models.TrackBack, error) {
	return s.setTrackBackState(b, entryID, id, models.StateRejected, events.TrackBackRejected)
}

func (s *ResponseService) RemoveTrackBack(b *blog.Blog, entryID, id string) error {
	var removed *models.TrackBack
	e, err := s.mutate(b, entryID, func(e *models.BlogEntry) error {
		removed = e.TrackBack(id)
		return e.RemoveTrackBack(id)
	})
	if err != nil {
		return err
	}
	b.Fire(events.TrackBackEvent{Kind: events.TrackBackRemoved, BlogID: b.ID(), Entry: e, TrackBack: removed})
	return nil
}

func (s *ResponseService) setCommentState(b *blog.Blog, entryID, id string, state models.State, kind events.Kind) (*models.Comment, error) {
	var changed *models.Comment
	e, err := s.mutate(b, entryID, func(e *models.BlogEntry) error {
		for i, c := range e.Comments {
			if c.ID == id {
				cc := *c
				cc.State = state
				e.Comments[i] = &cc
				changed = &cc
				return nil
			}
		}
		return models.ErrResponseNotFound
	})
	if err != nil {
		return nil, err
	}
	b.Fire(events.CommentEvent{Kind: kind, BlogID: b.ID(), Entry: e, Comment: changed})
	return changed, nil
}

func (s *ResponseService) setTrackBackState(b *blog.Blog, entryID, id string, state models.State, kind events.Kind) (*models.TrackBack, error) {
	var changed *models.TrackBack
	e, err := s.mutate(b, entryID, func(e *models.BlogEntry) error {
		for i, tb := range e.TrackBacks {
			if tb.ID == id {
				tbc := *tb
				tbc.State = state
				e.TrackBacks[i] = &tbc
				changed = &tbc
				return nil
			}
		}
		return models.ErrResponseNotFound
	})
	if err != nil {
		return nil, err
	}
	b.Fire(events.TrackBackEvent{Kind: kind, BlogID: b.ID(), Entry: e, TrackBack: changed})
	return changed, nil
}

// mutate applies change to a copy of the entry, stores the copy and swaps it
// into the calendar.
func (s *ResponseService) mutate(b *blog.Blog, entryID string, change func(e *models.BlogEntry) error) (*models.BlogEntry, error) {
	e := b.BlogEntry(entryID)
	if e == nil {
		return nil, repositories.ErrNotFound
	}

	updated := e.Clone()
	if err := change(updated); err != nil {
		return nil, err
	}
	if err := b.BlogEntryDAO().PutBlogEntry(updated); err != nil {
		s.log.WithFields(logrus.Fields{
			"blog":  b.ID(),
			"entry": entryID,
			"error": err.Error(),
		}).Error("failed to save responses")
		return nil, fmt.Errorf("failed to save blog entry: %w", err)
	}
	b.AddBlogEntry(updated)
	return updated, nil
}
