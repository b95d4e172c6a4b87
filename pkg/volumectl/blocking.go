package volumectl

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/MixyLabs/volume-ctl/pkg/volumectl/pulse"
)

// only surfaces when exit was replaced and returned, os.Exit never does
var errQuitRequested = errors.New("main loop asked to quit")

type eventLoop interface {
	Iterate(block bool) (pulse.IterateResult, error)
}

// blockingLoop turns callback completions into blocking calls by pumping
// the main loop one blocking tick at a time
type blockingLoop struct {
	logger *zap.SugaredLogger
	loop   eventLoop

	// called when the loop asks us to quit, os.Exit outside of tests
	exit func(code int)
}

func (b *blockingLoop) iterate() error {
	result, err := b.loop.Iterate(true)
	if err != nil {
		return fmt.Errorf("iterate main loop: %w", err)
	}

	if result.Quit {
		b.logger.Debugw("Main loop asked to quit", "exitCode", result.RetVal)
		b.exit(result.RetVal)
		return errQuitRequested
	}

	b.logger.Logw(TraceLevel, "Main loop iteration", "dispatched", result.Dispatched)

	return nil
}

// runUntil pumps the loop until condition holds, checking it after every tick
func (b *blockingLoop) runUntil(condition func() bool) error {
	for {
		if err := b.iterate(); err != nil {
			return err
		}

		if condition() {
			return nil
		}
	}
}

// run issues one asynchronous request and blocks until its callback has
// filled the slot. The slot is checked before every tick, never without one.
func run[T any](b *blockingLoop, issue func(slot *pulse.Slot[T])) (pulse.Outcome[T], error) {
	slot := pulse.NewSlot[T]()
	issue(slot)

	for {
		if outcome, ok := slot.Take(); ok {
			return outcome, nil
		}

		if err := b.iterate(); err != nil {
			return pulse.Outcome[T]{}, err
		}
	}
}
