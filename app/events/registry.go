package events

import (
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Factory builds a listener. The value must implement at least one of the
// listener interfaces of the group it is configured for.
type Factory func(log *logrus.Logger) any

// Registry maps the listener names used in blog properties to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a registry holding the listeners shipped with blogd.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(LoggingListenerName, func(log *logrus.Logger) any { return NewLoggingListener(log) })
	return r
}

func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseNames splits a whitespace separated listener list. Names starting
// with '#' are commented out.
func ParseNames(config string) []string {
	var names []string
	for _, name := range strings.Fields(config) {
		if strings.HasPrefix(name, "#") {
			continue
		}
		names = append(names, name)
	}
	return names
}
