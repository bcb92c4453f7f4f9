package blog

import (
	"sort"
	"sync"

	"blogd/app/events"
	"blogd/app/models"
)

// ResponseManager tracks the comments and trackbacks of loaded entries so
// that recent responses can be listed without walking the calendar.
type ResponseManager struct {
	blogID    string
	mu        sync.Mutex
	responses map[string]models.Response
}

func NewResponseManager(blogID string) *ResponseManager {
	return &ResponseManager{
		blogID:    blogID,
		responses: make(map[string]models.Response),
	}
}

func responseKey(r models.Response) string {
	kind := "c"
	if _, ok := r.(*models.TrackBack); ok {
		kind = "t"
	}
	return r.EntryID() + "/" + kind + "/" + r.ResponseID()
}

// Register records every response of e.
func (m *ResponseManager) Register(e *models.BlogEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range e.Comments {
		m.responses[responseKey(c)] = c
	}
	for _, tb := range e.TrackBacks {
		m.responses[responseKey(tb)] = tb
	}
}

// Unregister forgets every response of e.
func (m *ResponseManager) Unregister(e *models.BlogEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, r := range m.responses {
		if r.EntryID() == e.ID {
			delete(m.responses, k)
		}
	}
}

func (m *ResponseManager) update(kind events.Kind, removed events.Kind, r models.Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if kind == removed {
		delete(m.responses, responseKey(r))
		return
	}
	m.responses[responseKey(r)] = r
}

func (m *ResponseManager) OnCommentEvent(e events.CommentEvent) {
	m.update(e.Kind, events.CommentRemoved, e.Comment)
}

func (m *ResponseManager) OnTrackBackEvent(e events.TrackBackEvent) {
	m.update(e.Kind, events.TrackBackRemoved, e.TrackBack)
}

// RecentResponses returns up to n responses in state, newest first. A
// non-positive n returns all of them.
func (m *ResponseManager) RecentResponses(state models.State, n int) []models.Response {
	m.mu.Lock()
	var list []models.Response
	for _, r := range m.responses {
		if r.ResponseState() == state {
			list = append(list, r)
		}
	}
	m.mu.Unlock()

	sort.Slice(list, func(i, j int) bool {
		if !list[i].ResponseDate().Equal(list[j].ResponseDate()) {
			return list[i].ResponseDate().After(list[j].ResponseDate())
		}
		return list[i].ResponseID() > list[j].ResponseID()
	})
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	return list
}

func (m *ResponseManager) RecentApprovedResponses(n int) []models.Response {
	return m.RecentResponses(models.StateApproved, n)
}

func (m *ResponseManager) NumberOfResponses(state models.State) int {
	return len(m.RecentResponses(state, 0))
}
