// Package notify delivers configuration change events to subscribers.
//
// Observers subscribe either to every change or to a setting path. A path
// subscription also receives changes below it, so subscribing to "trim"
// observes "trim.preserve-cursor". Reload events reach every observer.
package notify

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ChangeType represents the type of configuration change.
type ChangeType int

const (
	// ChangeSet indicates a value was set or updated.
	ChangeSet ChangeType = iota

	// ChangeReload indicates a configuration file was reloaded.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change represents a configuration change event.
type Change struct {
	// Path is the dot-separated path to the changed setting.
	// Empty for reload events.
	Path string

	// Type is the type of change.
	Type ChangeType

	// OldValue is the previous effective value (may be nil).
	OldValue any

	// NewValue is the new effective value (may be nil).
	NewValue any

	// Source identifies where the change came from: a layer name for
	// sets, a file path for reloads.
	Source string
}

// Observer is called when configuration changes occur.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uuid.UUID
	path     string
	notifier *Notifier
}

// ID returns the subscription's unique identifier.
func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// Path returns the subscribed path, or "" for global subscriptions.
func (s *Subscription) Path() string {
	return s.path
}

// Unsubscribe removes this subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type entry struct {
	path     string
	observer Observer
}

// Notifier manages configuration change subscriptions.
// Observers run synchronously on the goroutine that reports the change.
type Notifier struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]entry
	order   []uuid.UUID
	closed  bool
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{
		entries: make(map[uuid.UUID]entry),
	}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.SubscribePath("", observer)
}

// SubscribePath registers an observer for changes at or below path.
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := uuid.New()
	n.entries[id] = entry{path: path, observer: observer}
	n.order = append(n.order, id)

	return &Subscription{
		id:       id,
		path:     path,
		notifier: n,
	}
}

// Count returns the number of active subscriptions.
func (n *Notifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.entries)
}

// Notify sends a change to every matching observer in subscription order.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	var observers []Observer
	for _, id := range n.order {
		e := n.entries[id]
		if matches(e.path, change) {
			observers = append(observers, e.observer)
		}
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		safeCall(obs, change)
	}
}

// NotifySet is a convenience method for set changes.
func (n *Notifier) NotifySet(path string, oldValue, newValue any, source string) {
	n.Notify(Change{
		Path:     path,
		Type:     ChangeSet,
		OldValue: oldValue,
		NewValue: newValue,
		Source:   source,
	})
}

// NotifyReload is a convenience method for reload events.
func (n *Notifier) NotifyReload(source string) {
	n.Notify(Change{
		Type:   ChangeReload,
		Source: source,
	})
}

// Close stops delivery. It is safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
}

func (n *Notifier) unsubscribe(id uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.entries[id]; !ok {
		return
	}
	delete(n.entries, id)
	for i, other := range n.order {
		if other == id {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
}

func matches(path string, change Change) bool {
	if path == "" || change.Path == "" {
		return true
	}
	return change.Path == path || strings.HasPrefix(change.Path, path+".")
}

// safeCall keeps a panicking observer from breaking delivery.
func safeCall(obs Observer, change Change) {
	defer func() {
		_ = recover()
	}()
	obs(change)
}
