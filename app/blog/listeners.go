package blog

import (
	"fmt"

	"blogd/app/events"
	"blogd/app/logging"
	"blogd/app/permalink"
	"blogd/app/search"

	"github.com/sirupsen/logrus"
)

// wirePlugins resolves the listeners, dispatcher, permalink provider and
// decorators named in the blog's properties.
func (b *Blog) wirePlugins() {
	b.listeners = events.NewListeners()

	for _, l := range b.instantiate(BlogListenersKey) {
		if x, ok := l.(events.BlogListener); ok {
			b.listeners.AddBlogListener(x)
		} else {
			b.rejectListener(BlogListenersKey, l)
		}
	}
	for _, l := range b.instantiate(BlogEntryListenersKey) {
		if x, ok := l.(events.BlogEntryListener); ok {
			b.listeners.AddBlogEntryListener(x)
		} else {
			b.rejectListener(BlogEntryListenersKey, l)
		}
	}
	b.listeners.AddBlogEntryListener(search.NewIndexListener(b.index, b.log))

	for _, l := range b.instantiate(CommentListenersKey) {
		if x, ok := l.(events.CommentListener); ok {
			b.listeners.AddCommentListener(x)
		} else {
			b.rejectListener(CommentListenersKey, l)
		}
	}
	b.listeners.AddCommentListener(b.responses)

	for _, l := range b.instantiate(TrackBackListenersKey) {
		if x, ok := l.(events.TrackBackListener); ok {
			b.listeners.AddTrackBackListener(x)
		} else {
			b.rejectListener(TrackBackListenersKey, l)
		}
	}
	b.listeners.AddTrackBackListener(b.responses)

	b.dispatcher = events.NewDispatcher(b.props.Get(EventDispatcherKey), b.log)
	b.permalinks = permalink.New(b.props.Get(PermalinkProviderKey), b.loc, b.log)
	b.decorators = NewDecorators(b.props.Get(BlogEntryDecoratorsKey), b.log)
}

// instantiate builds the listeners named in the property key. Commented out
// and unknown names are skipped.
func (b *Blog) instantiate(key string) []any {
	var listeners []any
	for _, name := range events.ParseNames(b.props.Get(key)) {
		factory, ok := b.registry.Lookup(name)
		if !ok {
			b.logger().WithFields(logrus.Fields{
				"listener": name,
				"property": key,
			}).Error("listener could not be registered")
			continue
		}
		listeners = append(listeners, factory(b.log))
	}
	return listeners
}

func (b *Blog) rejectListener(key string, l any) {
	b.logger().WithFields(logrus.Fields{
		"listener": fmt.Sprintf("%T", l),
		"property": key,
	}).Error("listener does not handle these events")
}

func (b *Blog) newRequestLogger() logging.RequestLogger {
	return logging.New(b.props.Get(LoggerKey), b.LogsDirectory(), b.log)
}

// Fire delivers e to the blog's listeners through its dispatcher.
func (b *Blog) Fire(e events.Event) {
	b.metrics.IncEvents(b.id, string(e.EventKind()))
	b.dispatcher.Dispatch(b.listeners, e)
}
