package appearance

import "sync"

// Subscription is the capability to remove one registration from a Hub.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func newSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Unsubscribe removes the registration. Calling it again, or on a nil
// Subscription, does nothing.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

type entry[T any] struct {
	id uint64
	fn func(T)
}

// registry is an ordered list of callbacks keyed by registration id. The
// caller holds the Hub lock for every method.
type registry[T any] struct {
	nextID  uint64
	entries []entry[T]
}

func (r *registry[T]) add(fn func(T)) uint64 {
	r.nextID++
	r.entries = append(r.entries, entry[T]{id: r.nextID, fn: fn})
	return r.nextID
}

func (r *registry[T]) remove(id uint64) {
	for i, e := range r.entries {
		if e.id == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}

func (r *registry[T]) snapshot() []entry[T] {
	return append([]entry[T](nil), r.entries...)
}

func (r *registry[T]) len() int {
	return len(r.entries)
}
