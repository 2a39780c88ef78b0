package debounce

import "time"

type state interface {
	state()
}

type idle struct{}

// debouncing is an open cycle. pendingUpdate is set when a value arrived
// after the scheduling goroutine last looked at the machine.
type debouncing[T any] struct {
	value         T
	dueTime       time.Time
	pendingUpdate bool
}

func (idle) state()          {}
func (debouncing[T]) state() {}

// Action tells the scheduling goroutine what to do after a wake-up.
// It is either ContinueDebouncing or FinishDebouncing.
type Action interface {
	action()
}

// ContinueDebouncing asks for another sleep until DueTime.
type ContinueDebouncing struct {
	DueTime time.Time
}

// FinishDebouncing closes the cycle; Value must be handed to the output.
type FinishDebouncing[T any] struct {
	Value T
}

func (ContinueDebouncing) action()  {}
func (FinishDebouncing[T]) action() {}

// StateMachine decides cycle transitions. It performs no timing and no I/O
// and is not safe for concurrent use on its own; Debouncer keeps it in a
// guarded.Cell.
type StateMachine[T any] struct {
	state state
}

// NewValue records value as the latest of the cycle and returns its due time.
// first reports whether value opened a new cycle.
func (m *StateMachine[T]) NewValue(value T, now time.Time, duration time.Duration) (first bool, dueTime time.Time) {
	dueTime = now.Add(duration)

	switch m.state.(type) {
	case nil, idle:
		m.state = debouncing[T]{value: value, dueTime: dueTime}
		return true, dueTime
	case debouncing[T]:
		m.state = debouncing[T]{value: value, dueTime: dueTime, pendingUpdate: true}
		return false, dueTime
	default:
		panic("debounce: unknown state")
	}
}

// Action claims the updates accumulated since the previous call.
// It panics if no cycle is open.
func (m *StateMachine[T]) Action() Action {
	switch s := m.state.(type) {
	case debouncing[T]:
		if !s.pendingUpdate {
			m.state = idle{}
			return FinishDebouncing[T]{Value: s.value}
		}
		s.pendingUpdate = false
		m.state = s
		return ContinueDebouncing{DueTime: s.dueTime}
	default:
		panic("debounce: action requested while idle")
	}
}

// Idle reports whether no cycle is open.
func (m *StateMachine[T]) Idle() bool {
	switch m.state.(type) {
	case debouncing[T]:
		return false
	default:
		return true
	}
}
