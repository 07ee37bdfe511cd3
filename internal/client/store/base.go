// Package store keeps the last-fetched server state per domain entity.
//
// Every container brackets its actions the same way: loading goes up, the previous
// error is cleared, the service is called, and on success a minimal local patch is
// applied. Failures are recorded as a human-readable message and returned to the
// caller as well. Fetches carry a sequencing token so that a slow, older response
// never overwrites the result of a newer fetch of the same target.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/iudanet/nihongo/internal/client/api"
)

// ErrNotAuthenticated is returned by actions that need the current user's identity
// when no one is signed in. No request is sent.
var ErrNotAuthenticated = errors.New("not authenticated")

// Identity is the read-only view of the session containers may depend on.
type Identity interface {
	UserID() string
}

// State is a snapshot of a container holding one collection and one current record.
type State[T any] struct {
	Current *T
	Error   string
	Items   []T
	Loading bool
}

// base содержит общий для всех контейнеров механизм loading/error.
type base struct {
	logger   *slog.Logger
	name     string
	errMsg   string
	inflight int
	gen      uint64 // растет на каждом Reset
	mu       sync.Mutex
}

func newBase(name string, logger *slog.Logger) base {
	if logger == nil {
		logger = slog.Default()
	}
	return base{name: name, logger: logger.With("store", name)}
}

// begin открывает скобку действия и возвращает поколение контейнера;
// возвращенная функция закрывает скобку
func (b *base) begin() (uint64, func()) {
	b.mu.Lock()
	b.inflight++
	b.errMsg = ""
	gen := b.gen
	b.mu.Unlock()

	return gen, func() {
		b.mu.Lock()
		b.inflight--
		b.mu.Unlock()
	}
}

// fail records the message for err and returns err unchanged. A failure that started
// before the last Reset is logged but not recorded.
func (b *base) fail(gen uint64, action string, err error, fallback string) error {
	msg := api.Message(err, fallback)

	b.mu.Lock()
	if b.gen == gen {
		b.errMsg = msg
	}
	b.mu.Unlock()

	b.logger.Error("action failed", "action", action, "error", err)
	return err
}

// Loading is true while any action of the container is outstanding.
func (b *base) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inflight > 0
}

// Err returns the message of the most recent failure, "" after a successful start.
func (b *base) Err() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.errMsg
}

// resetBase must be called with b.mu held. Actions still in flight see the new
// generation and drop their results.
func (b *base) resetBase() {
	b.errMsg = ""
	b.gen++
}

// call runs one action inside the loading/error bracket and applies the result under
// the container lock. If the container was reset while fn ran, the result is returned
// to the caller but not applied: it belongs to the previous session.
func call[R any](ctx context.Context, b *base, action, fallback string, fn func(context.Context) (R, error), apply func(R)) (R, error) {
	gen, done := b.begin()
	defer done()

	res, err := fn(ctx)
	if err != nil {
		var zero R
		return zero, b.fail(gen, action, err, fallback)
	}

	if apply != nil {
		b.mu.Lock()
		if b.gen == gen {
			apply(res)
		} else {
			b.logger.Debug("result dropped after reset", "action", action)
		}
		b.mu.Unlock()
	}
	return res, nil
}

// list is a collection guarded by the owning container's mutex.
type list[T any] struct {
	key   func(T) string
	items []T
	seq   uint64
}

func newList[T any](key func(T) string) list[T] {
	return list[T]{key: key}
}

// issue returns the token for a new fetch. Caller holds the lock.
func (l *list[T]) issue() uint64 {
	l.seq++
	return l.seq
}

// replace applies a fetch result unless a newer fetch was issued meanwhile.
func (l *list[T]) replace(seq uint64, items []T) bool {
	if seq != l.seq {
		return false
	}
	if items == nil {
		items = []T{}
	}
	l.items = items
	return true
}

// upsert appends v, or replaces the element with the same key.
func (l *list[T]) upsert(v T) {
	k := l.key(v)
	for i := range l.items {
		if l.key(l.items[i]) == k {
			l.items[i] = v
			return
		}
	}
	l.items = append(l.items, v)
}

// update replaces the element with the same key; unknown keys are ignored.
func (l *list[T]) update(v T) {
	k := l.key(v)
	for i := range l.items {
		if l.key(l.items[i]) == k {
			l.items[i] = v
			return
		}
	}
}

// remove deletes the element with key k, preserving the order of the rest.
func (l *list[T]) remove(k string) {
	for i := range l.items {
		if l.key(l.items[i]) == k {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return
		}
	}
}

func (l *list[T]) snapshot() []T {
	if l.items == nil {
		return nil
	}
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

func (l *list[T]) reset() {
	l.items = nil
	// старые ответы после сброса не применяются
	l.seq++
}

// slot is a single "current" record with its own sequencing token.
type slot[T any] struct {
	key func(T) string
	v   *T
	seq uint64
}

func newSlot[T any](key func(T) string) slot[T] {
	return slot[T]{key: key}
}

func (s *slot[T]) issue() uint64 {
	s.seq++
	return s.seq
}

func (s *slot[T]) replace(seq uint64, v *T) bool {
	if seq != s.seq {
		return false
	}
	s.v = v
	return true
}

func (s *slot[T]) set(v *T) {
	s.v = v
}

// update replaces the record if it has the same key.
func (s *slot[T]) update(v T) {
	if s.v != nil && s.key(*s.v) == s.key(v) {
		cp := v
		s.v = &cp
	}
}

// clearIf drops the record if it has key k.
func (s *slot[T]) clearIf(k string) {
	if s.v != nil && s.key(*s.v) == k {
		s.v = nil
	}
}

func (s *slot[T]) snapshot() *T {
	if s.v == nil {
		return nil
	}
	cp := *s.v
	return &cp
}

func (s *slot[T]) reset() {
	s.v = nil
	s.seq++
}

// fetchInto runs a list fetch with sequencing.
func fetchInto[T any](ctx context.Context, b *base, l *list[T], action, fallback string, fn func(context.Context) ([]T, error)) ([]T, error) {
	b.mu.Lock()
	seq := l.issue()
	b.mu.Unlock()

	return call(ctx, b, action, fallback, fn, func(items []T) {
		if !l.replace(seq, items) {
			b.logger.Debug("stale fetch dropped", "action", action)
		}
	})
}

// fetchCurrent runs a single-record fetch with sequencing.
func fetchCurrent[T any](ctx context.Context, b *base, s *slot[T], action, fallback string, fn func(context.Context) (*T, error)) (*T, error) {
	b.mu.Lock()
	seq := s.issue()
	b.mu.Unlock()

	return call(ctx, b, action, fallback, fn, func(v *T) {
		if !s.replace(seq, v) {
			b.logger.Debug("stale fetch dropped", "action", action)
		}
	})
}

// crud bundles a collection with its current record; most containers are exactly this.
type crud[T any] struct {
	items   list[T]
	current slot[T]
	base
}

func newCrud[T any](name string, logger *slog.Logger, key func(T) string) crud[T] {
	return crud[T]{
		base:    newBase(name, logger),
		items:   newList(key),
		current: newSlot(key),
	}
}

// State returns a copy of the container state.
func (c *crud[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state()
}

// state must be called with c.mu held.
func (c *crud[T]) state() State[T] {
	return State[T]{
		Items:   c.items.snapshot(),
		Current: c.current.snapshot(),
		Loading: c.inflight > 0,
		Error:   c.errMsg,
	}
}

// Reset drops everything the container holds.
func (c *crud[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// reset must be called with c.mu held.
func (c *crud[T]) reset() {
	c.items.reset()
	c.current.reset()
	c.resetBase()
}

func (c *crud[T]) fetchAll(ctx context.Context, action, fallback string, fn func(context.Context) ([]T, error)) ([]T, error) {
	return fetchInto(ctx, &c.base, &c.items, action, fallback, fn)
}

func (c *crud[T]) fetchOne(ctx context.Context, action, fallback string, fn func(context.Context) (*T, error)) (*T, error) {
	return fetchCurrent(ctx, &c.base, &c.current, action, fallback, fn)
}

func (c *crud[T]) create(ctx context.Context, action, fallback string, fn func(context.Context) (*T, error)) (*T, error) {
	return call(ctx, &c.base, action, fallback, fn, func(v *T) {
		if v != nil {
			c.items.upsert(*v)
		}
	})
}

func (c *crud[T]) update(ctx context.Context, action, fallback string, fn func(context.Context) (*T, error)) (*T, error) {
	return call(ctx, &c.base, action, fallback, fn, func(v *T) {
		if v != nil {
			c.items.update(*v)
			c.current.update(*v)
		}
	})
}

func (c *crud[T]) remove(ctx context.Context, id, action, fallback string, fn func(context.Context) error) error {
	_, err := call(ctx, &c.base, action, fallback, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, func(struct{}) {
		c.items.remove(id)
		c.current.clearIf(id)
	})
	return err
}
