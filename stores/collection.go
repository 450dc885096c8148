// Package stores keeps the per-entity state the console views read: the last fetched
// list, the selected record and the loading and error status of remote calls.
//
// Requests issued concurrently against one store are not sequenced. Whichever response
// arrives last overwrites the list.
package stores

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/jrsteele09/go-clinic-console/apiclient"
	"github.com/rs/zerolog/log"
)

// API is the part of the HTTP client the stores use.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// Status is the loading and error state of a store.
type Status struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

type Option func(*options)

type options struct {
	nowTime func() time.Time
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(o *options) {
		o.nowTime = nowFunc
	}
}

func buildOptions(opts []Option) options {
	o := options{nowTime: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// statusTracker counts in-flight calls and remembers the last failure message.
type statusTracker struct {
	name string

	mu       sync.RWMutex
	inflight int
	err      string
}

// track marks a call as started and clears the error. The returned func must be
// deferred with the call's error; it ends the call, records a failure and wraps it in
// an *Error carrying the message.
func (s *statusTracker) track(fallback string) func(*error) {
	s.mu.Lock()
	s.inflight++
	s.err = ""
	s.mu.Unlock()

	return func(errp *error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.inflight--
		if errp == nil || *errp == nil {
			return
		}
		if fallback != "" {
			s.err = apiclient.ServerMessage(*errp, fallback)
		} else {
			s.err = apiclient.ErrorMessage(*errp)
		}
		log.Err(*errp).Str("store", s.name).Str("message", s.err).Msg("store request failed")
		*errp = &Error{Store: s.name, Message: s.err, Err: *errp}
	}
}

func (s *statusTracker) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{Loading: s.inflight > 0, Error: s.err}
}

func (s *statusTracker) Loading() bool {
	return s.Status().Loading
}

// Error is the message of the last failed call, empty after a success.
func (s *statusTracker) Error() string {
	return s.Status().Error
}

func (s *statusTracker) resetStatus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// Collection holds the list and the selected record of one entity type.
type Collection[T any] struct {
	statusTracker
	api API

	itemsMu sync.RWMutex
	items   []T
	current *T
}

func newCollection[T any](name string, api API) *Collection[T] {
	return &Collection[T]{statusTracker: statusTracker{name: name}, api: api}
}

// Items returns a copy of the list.
func (c *Collection[T]) Items() []T {
	c.itemsMu.RLock()
	defer c.itemsMu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) Total() int {
	c.itemsMu.RLock()
	defer c.itemsMu.RUnlock()
	return len(c.items)
}

// Current is the record last fetched on its own.
func (c *Collection[T]) Current() (T, bool) {
	c.itemsMu.RLock()
	defer c.itemsMu.RUnlock()
	if c.current == nil {
		var zero T
		return zero, false
	}
	return *c.current, true
}

// Filter returns the items keep accepts, in list order.
func (c *Collection[T]) Filter(keep func(T) bool) []T {
	c.itemsMu.RLock()
	defer c.itemsMu.RUnlock()
	var out []T
	for _, item := range c.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Reset empties the store.
func (c *Collection[T]) Reset() {
	c.itemsMu.Lock()
	c.items = nil
	c.current = nil
	c.itemsMu.Unlock()
	c.resetStatus()
}

func (c *Collection[T]) setItems(items []T) {
	c.itemsMu.Lock()
	defer c.itemsMu.Unlock()
	c.items = items
}

func (c *Collection[T]) setCurrent(item T) {
	c.itemsMu.Lock()
	defer c.itemsMu.Unlock()
	c.current = &item
}

func (c *Collection[T]) appendItem(item T) {
	c.itemsMu.Lock()
	defer c.itemsMu.Unlock()
	c.items = append(c.items, item)
}

func (c *Collection[T]) prependItem(item T) {
	c.itemsMu.Lock()
	defer c.itemsMu.Unlock()
	c.items = append([]T{item}, c.items...)
}

// modify applies fn to every listed item and to the current one that match.
func (c *Collection[T]) modify(match func(T) bool, fn func(*T)) {
	c.itemsMu.Lock()
	defer c.itemsMu.Unlock()
	for i := range c.items {
		if match(c.items[i]) {
			fn(&c.items[i])
		}
	}
	if c.current != nil && match(*c.current) {
		fn(c.current)
	}
}

func (c *Collection[T]) replaceWhere(match func(T) bool, item T) {
	c.itemsMu.Lock()
	defer c.itemsMu.Unlock()
	for i := range c.items {
		if match(c.items[i]) {
			c.items[i] = item
		}
	}
}

func (c *Collection[T]) removeWhere(match func(T) bool) {
	c.itemsMu.Lock()
	defer c.itemsMu.Unlock()
	kept := c.items[:0]
	for _, item := range c.items {
		if !match(item) {
			kept = append(kept, item)
		}
	}
	clear(c.items[len(kept):])
	c.items = kept
	if c.current != nil && match(*c.current) {
		c.current = nil
	}
}
