// Package pulse provides a callback-driven client for PulseAudio compatible
// sound servers (PulseAudio itself, pipewire-pulse). All completions are
// delivered through a single-threaded Mainloop: worker goroutines talk to the
// server and queue callbacks, which only ever run on the goroutine that calls
// Mainloop.Iterate.
package pulse

import (
	"errors"
	"sync"
)

// size of the callback queue, workers block when it fills up
const eventQueueSize = 64

// ErrLoopClosed is returned by Iterate once the loop has been freed
var ErrLoopClosed = errors.New("main loop closed")

// IterateResult describes one pass of the main loop
type IterateResult struct {
	// number of callbacks that ran during this pass
	Dispatched int

	// set when somebody asked the loop to quit, RetVal holds the requested exit code
	Quit   bool
	RetVal int
}

// Mainloop is a minimal event loop. Events are plain callbacks posted by
// connection workers.
type Mainloop struct {
	events chan func()
	quit   chan int
	closed chan struct{}

	freeOnce sync.Once
}

// NewMainloop creates an empty main loop
func NewMainloop() *Mainloop {
	return &Mainloop{
		events: make(chan func(), eventQueueSize),
		quit:   make(chan int, 1),
		closed: make(chan struct{}),
	}
}

// Iterate runs all currently queued callbacks. If block is set and nothing
// is queued, it waits until at least one event arrives.
// A pending quit request takes precedence over queued callbacks.
func (m *Mainloop) Iterate(block bool) (IterateResult, error) {
	select {
	case <-m.closed:
		return IterateResult{}, ErrLoopClosed
	case code := <-m.quit:
		return IterateResult{Quit: true, RetVal: code}, nil
	default:
	}

	dispatched := 0

	if block {
		select {
		case fn := <-m.events:
			fn()
			dispatched++
		case code := <-m.quit:
			return IterateResult{Quit: true, RetVal: code}, nil
		case <-m.closed:
			return IterateResult{}, ErrLoopClosed
		}
	}

	// only drain what was already queued, callbacks may post new events
	for pending := len(m.events); pending > 0; pending-- {
		fn := <-m.events
		fn()
		dispatched++
	}

	return IterateResult{Dispatched: dispatched}, nil
}

// Quit asks the loop to stop, the next Iterate reports retval.
// Only the first request is kept.
func (m *Mainloop) Quit(retval int) {
	select {
	case m.quit <- retval:
	default:
	}
}

// Free closes the loop. Posting to a freed loop is a no-op.
func (m *Mainloop) Free() {
	m.freeOnce.Do(func() {
		close(m.closed)
	})
}

// post queues fn to run on the loop goroutine. It reports false if the loop was freed.
func (m *Mainloop) post(fn func()) bool {
	select {
	case <-m.closed:
		return false
	default:
	}

	select {
	case m.events <- fn:
		return true
	case <-m.closed:
		return false
	}
}
