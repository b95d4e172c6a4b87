package pulse

import "sync"

// Outcome is what a completion callback reports. OK is false when the server
// rejected the request; the reason is available from Context.Errno.
type Outcome[T any] struct {
	Value T
	OK    bool
}

// Slot is a single-assignment container shared between the caller waiting on
// a request and the callback completing it
type Slot[T any] struct {
	lock    sync.Mutex
	outcome *Outcome[T]
	written bool
}

// NewSlot returns an empty slot
func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{}
}

// Succeed stores a successful result, see Set
func (s *Slot[T]) Succeed(value T) bool {
	return s.Set(Outcome[T]{Value: value, OK: true})
}

// Fail stores a failure marker, see Set
func (s *Slot[T]) Fail() bool {
	return s.Set(Outcome[T]{})
}

// Set stores outcome. A slot accepts exactly one write, later writes are
// dropped and reported with false.
func (s *Slot[T]) Set(outcome Outcome[T]) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.written {
		return false
	}

	s.outcome = &outcome
	s.written = true

	return true
}

// Take consumes the stored outcome. The second return value is false while
// nothing has been written or after the outcome was already taken.
func (s *Slot[T]) Take() (Outcome[T], bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.outcome == nil {
		return Outcome[T]{}, false
	}

	outcome := *s.outcome
	s.outcome = nil

	return outcome, true
}
