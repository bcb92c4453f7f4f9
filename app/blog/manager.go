package blog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Manager holds the blogs of one installation, keyed by id.
type Manager struct {
	mu    sync.RWMutex
	blogs map[string]*Blog
}

func NewManager() *Manager {
	return &Manager{blogs: make(map[string]*Blog)}
}

func (m *Manager) Add(b *Blog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blogs[b.ID()]; ok {
		return fmt.Errorf("blog %q already registered", b.ID())
	}
	m.blogs[b.ID()] = b
	return nil
}

// Blog returns the blog with id or ErrUnknownBlog.
func (m *Manager) Blog(id string) (*Blog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blogs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBlog, id)
	}
	return b, nil
}

// Blogs lists the blogs sorted by id.
func (m *Manager) Blogs() []*Blog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blogs := make([]*Blog, 0, len(m.blogs))
	for _, b := range m.blogs {
		blogs = append(blogs, b)
	}
	sort.Slice(blogs, func(i, j int) bool { return blogs[i].ID() < blogs[j].ID() })
	return blogs
}

func (m *Manager) StartAll(ctx context.Context) error {
	for _, b := range m.Blogs() {
		if err := b.Start(ctx); err != nil {
			return fmt.Errorf("start blog %s: %w", b.ID(), err)
		}
	}
	return nil
}

// StopAll stops every running blog. Blogs that are not running are skipped.
func (m *Manager) StopAll() error {
	var errs []error
	for _, b := range m.Blogs() {
		if err := b.Stop(); err != nil && !errors.Is(err, ErrNotStarted) {
			errs = append(errs, fmt.Errorf("stop blog %s: %w", b.ID(), err))
		}
	}
	return errors.Join(errs...)
}

// Close stops every running blog and releases its resources.
func (m *Manager) Close() error {
	var errs []error
	for _, b := range m.Blogs() {
		if err := b.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close blog %s: %w", b.ID(), err))
		}
	}
	return errors.Join(errs...)
}
