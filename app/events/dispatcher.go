package events

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Dispatcher delivers events to the listeners registered for them.
type Dispatcher interface {
	Dispatch(l *Listeners, e Event)
	// Close waits for deliveries still in flight.
	Close()
}

// DispatcherFactory builds a Dispatcher by name.
type DispatcherFactory func(log *logrus.Logger) Dispatcher

const DefaultDispatcherName = "default"

// Dispatchers maps eventDispatcher property values to implementations.
var Dispatchers = map[string]DispatcherFactory{
	DefaultDispatcherName: func(log *logrus.Logger) Dispatcher { return NewDefaultDispatcher(log) },
	"threaded":            func(log *logrus.Logger) Dispatcher { return NewThreadedDispatcher(log) },
}

// NewDispatcher resolves name, falling back to the synchronous dispatcher.
func NewDispatcher(name string, log *logrus.Logger) Dispatcher {
	factory, ok := Dispatchers[name]
	if !ok {
		log.WithField("dispatcher", name).Error("unknown event dispatcher, using default")
		factory = Dispatchers[DefaultDispatcherName]
	}
	return factory(log)
}

// DefaultDispatcher delivers on the caller's goroutine.
type DefaultDispatcher struct {
	log *logrus.Logger
}

func NewDefaultDispatcher(log *logrus.Logger) *DefaultDispatcher {
	return &DefaultDispatcher{log: log}
}

func (d *DefaultDispatcher) Dispatch(l *Listeners, e Event) {
	deliver(d.log, l, e)
}

func (d *DefaultDispatcher) Close() {}

// ThreadedDispatcher delivers each event on its own goroutine.
type ThreadedDispatcher struct {
	log *logrus.Logger
	wg  sync.WaitGroup
}

func NewThreadedDispatcher(log *logrus.Logger) *ThreadedDispatcher {
	return &ThreadedDispatcher{log: log}
}

func (d *ThreadedDispatcher) Dispatch(l *Listeners, e Event) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		deliver(d.log, l, e)
	}()
}

func (d *ThreadedDispatcher) Close() {
	d.wg.Wait()
}

func deliver(log *logrus.Logger, l *Listeners, e Event) {
	switch ev := e.(type) {
	case BlogEvent:
		for _, x := range l.BlogListeners() {
			safely(log, ev, x, func() { x.OnBlogEvent(ev) })
		}
	case BlogEntryEvent:
		for _, x := range l.BlogEntryListeners() {
			safely(log, ev, x, func() { x.OnBlogEntryEvent(ev) })
		}
	case CommentEvent:
		for _, x := range l.CommentListeners() {
			safely(log, ev, x, func() { x.OnCommentEvent(ev) })
		}
	case TrackBackEvent:
		for _, x := range l.TrackBackListeners() {
			safely(log, ev, x, func() { x.OnTrackBackEvent(ev) })
		}
	default:
		log.WithField("event", fmt.Sprintf("%T", e)).Warn("dropping event of unknown type")
	}
}

// safely keeps one failing listener from stopping delivery to the rest.
func safely(log *logrus.Logger, e Event, listener any, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(logrus.Fields{
				"blog":     e.Blog(),
				"event":    e.EventKind(),
				"listener": fmt.Sprintf("%T", listener),
				"panic":    r,
			}).Error("listener failed")
		}
	}()
	fn()
}
