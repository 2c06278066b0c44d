// Package cache provides an in-process bounded cache with TTL expiry and
// insertion-order eviction. The orchestrator's processed-listing set,
// signature cache and negative-query cache are all instances of Bounded.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Bounded is a map with a per-cache TTL and a maximum size. When full, the
// oldest inserted entry is evicted. Expired entries are dropped lazily on
// lookup and eagerly by Sweep. It is safe for concurrent use.
type Bounded[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	order   *list.List // front = oldest
	items   map[K]*list.Element
	now     func() time.Time
}

type entry[K comparable, V any] struct {
	key     K
	value   V
	created time.Time
}

// Option configures a Bounded cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewBounded creates a cache holding at most maxSize entries for ttl each.
// A non-positive maxSize means unbounded; a non-positive ttl means entries
// never expire.
func NewBounded[K comparable, V any](ttl time.Duration, maxSize int, opts ...Option) *Bounded[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Bounded[K, V]{
		ttl:     ttl,
		maxSize: maxSize,
		order:   list.New(),
		items:   make(map[K]*list.Element),
		now:     o.now,
	}
}

// Get returns the value for key if present and not expired.
func (b *Bounded[K, V]) Get(key K) (V, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero V
	el, ok := b.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[K, V])
	if b.expired(e, b.now()) {
		b.removeElement(el)
		return zero, false
	}
	return e.value, true
}

// Contains reports whether key is present and not expired.
func (b *Bounded[K, V]) Contains(key K) bool {
	_, ok := b.Get(key)
	return ok
}

// Set stores value under key. Re-setting a key refreshes its creation time
// and moves it to the back of the eviction order.
func (b *Bounded[K, V]) Set(key K, value V) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.set(key, value, b.now())
}

func (b *Bounded[K, V]) set(key K, value V, now time.Time) {
	if el, ok := b.items[key]; ok {
		b.removeElement(el)
	}
	el := b.order.PushBack(&entry[K, V]{key: key, value: value, created: now})
	b.items[key] = el

	if b.maxSize > 0 {
		for b.order.Len() > b.maxSize {
			b.removeElement(b.order.Front())
		}
	}
}

// SetIfAbsent stores value only when key is missing or expired. It returns
// true when the value was stored.
func (b *Bounded[K, V]) SetIfAbsent(key K, value V) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if el, ok := b.items[key]; ok && !b.expired(el.Value.(*entry[K, V]), now) {
		return false
	}
	b.set(key, value, now)
	return true
}

// Delete removes key.
func (b *Bounded[K, V]) Delete(key K) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if el, ok := b.items[key]; ok {
		b.removeElement(el)
	}
}

// Len returns the number of stored entries, including not-yet-swept expired
// ones.
func (b *Bounded[K, V]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.order.Len()
}

// Sweep removes every expired entry and returns how many were removed.
// Entries are kept in insertion order, so the walk stops at the first live
// entry.
func (b *Bounded[K, V]) Sweep() int {
	if b.ttl <= 0 {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	removed := 0
	for el := b.order.Front(); el != nil; {
		e := el.Value.(*entry[K, V])
		if !b.expired(e, now) {
			break
		}
		next := el.Next()
		b.removeElement(el)
		removed++
		el = next
	}
	return removed
}

func (b *Bounded[K, V]) expired(e *entry[K, V], now time.Time) bool {
	return b.ttl > 0 && now.Sub(e.created) >= b.ttl
}

func (b *Bounded[K, V]) removeElement(el *list.Element) {
	e := el.Value.(*entry[K, V])
	delete(b.items, e.key)
	b.order.Remove(el)
}
