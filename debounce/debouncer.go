// Package debounce coalesces bursts of values into a single delayed emission
// of the last value, once no new value has arrived for a quiet period.
//
// Each Debouncer runs at most one scheduling goroutine. The goroutine is
// started by the value that opens a cycle and loops until the cycle settles:
// values arriving meanwhile only update the state machine, they never start
// goroutines or reset timers themselves.
package debounce

import (
	"context"
	"runtime"
	"time"

	"github.com/vcnkl/pulse/guarded"
	"github.com/vcnkl/pulse/logger"
)

// Output receives the last value of each settled burst. ctx is canceled when
// the debouncer stops.
type Output[T any] func(ctx context.Context, value T)

type Options struct {
	// Context bounds the debouncer's lifetime. Canceling it has the same
	// effect as Stop.
	Context context.Context
	Logger  logger.Logger
}

// Debouncer is safe for concurrent use.
type Debouncer[T any] struct {
	*shared[T]
}

// task is the handle of one scheduling goroutine.
type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// shared is everything the scheduling goroutine touches. It never points back
// at the Debouncer handle, so an abandoned handle can be collected while a
// cycle is still open.
type shared[T any] struct {
	duration time.Duration
	output   Output[T]
	log      logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	machine *guarded.Cell[StateMachine[T]]
	task    *guarded.Cell[*task]

	// running observes scheduling goroutines past the overlap wait. Set by
	// tests only.
	running func(delta int)
}

func New[T any](duration time.Duration, output Output[T]) *Debouncer[T] {
	return NewWithOptions(duration, output, nil)
}

func NewWithOptions[T any](duration time.Duration, output Output[T], opts *Options) *Debouncer[T] {
	if output == nil {
		panic("debounce: nil output")
	}
	if opts == nil {
		opts = &Options{}
	}

	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	ctx, cancel := context.WithCancel(parent)
	s := &shared[T]{
		duration: duration,
		output:   output,
		log:      log.WithPrefix("debounce"),
		ctx:      ctx,
		cancel:   cancel,
		machine:  guarded.NewCell(StateMachine[T]{}),
		task:     guarded.NewCell[*task](nil),
	}

	d := &Debouncer[T]{shared: s}
	runtime.AddCleanup(d, func(s *shared[T]) { s.stop() }, s)
	return d
}

// Emit records value as the latest of the current burst. It never blocks on
// the output and is a no-op once the debouncer has stopped.
func (d *Debouncer[T]) Emit(value T) {
	s := d.shared

	tr, ok := applyIfLive(s, func(m *StateMachine[T]) transition {
		first, dueTime := m.NewValue(value, time.Now(), s.duration)
		return transition{first: first, dueTime: dueTime}
	})
	if !ok || !tr.first {
		return
	}

	ctx, cancel := context.WithCancel(s.ctx)
	t := &task{cancel: cancel, done: make(chan struct{})}
	prev := guarded.Apply(s.task, func(cur **task) *task {
		old := *cur
		*cur = t
		return old
	})

	s.log.Debug("cycle started", logger.Time("due", tr.dueTime))
	go s.run(ctx, t, prev, tr.dueTime)
}

// Stop cancels the open cycle, if any. No output that has not already been
// committed will fire once Stop returns. Stop does not wait for a running
// output and may be called from inside one.
func (d *Debouncer[T]) Stop() {
	d.shared.stop()
}

// Pending reports whether a cycle is open. It is false once stopped.
func (d *Debouncer[T]) Pending() bool {
	open, ok := applyIfLive(d.shared, func(m *StateMachine[T]) bool {
		return !m.Idle()
	})
	return ok && open
}

// Wait blocks until the most recently started scheduling goroutine exits,
// which includes its output call.
func (d *Debouncer[T]) Wait(ctx context.Context) error {
	t := d.task.Get()
	if t == nil {
		return nil
	}

	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *shared[T]) stop() {
	// Canceling under the machine lock orders Stop against the finish
	// transition taken in run.
	s.machine.Update(func(m *StateMachine[T]) {
		s.cancel()
		*m = StateMachine[T]{}
	})
}

func (s *shared[T]) run(ctx context.Context, t *task, prev *task, dueTime time.Time) {
	defer close(t.done)
	defer t.cancel()

	// Outputs of one instance never overlap.
	if prev != nil {
		select {
		case <-prev.done:
		case <-ctx.Done():
			s.log.Debug("cycle canceled")
			return
		}
	}

	if s.running != nil {
		s.running(1)
		defer s.running(-1)
	}

	timer := time.NewTimer(time.Until(dueTime))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("cycle canceled")
			return
		case <-timer.C:
		}

		action, ok := applyIfLive(s, func(m *StateMachine[T]) Action {
			return m.Action()
		})
		if !ok {
			s.log.Debug("cycle canceled")
			return
		}

		switch a := action.(type) {
		case FinishDebouncing[T]:
			s.log.Debug("cycle finished")
			s.output(ctx, a.Value)
			return
		case ContinueDebouncing:
			timer.Reset(time.Until(a.DueTime))
		}
	}
}

// applyIfLive runs fn on the state machine unless the debouncer has stopped.
// The liveness check and fn share one critical section.
func applyIfLive[T, R any](s *shared[T], fn func(m *StateMachine[T]) R) (R, bool) {
	res := guarded.Apply(s.machine, func(m *StateMachine[T]) liveResult[R] {
		if s.ctx.Err() != nil {
			return liveResult[R]{}
		}
		return liveResult[R]{value: fn(m), ok: true}
	})
	return res.value, res.ok
}

type liveResult[R any] struct {
	value R
	ok    bool
}

type transition struct {
	first   bool
	dueTime time.Time
}
