package signal

import (
	"github.com/deltav-sim/deltav/kernel"
)

// Signal is a single-value channel. Set defers the write to the update phase
// of the current delta cycle; Read always returns the committed value. When
// several processes write in the same cycle, the last write wins. The changed
// event fires only when the committed value actually differs from the
// previous one.
type Signal[T comparable] struct {
	sched   *kernel.Scheduler
	name    string
	changed *kernel.Event

	cur        T
	pending    T
	hasPending bool
}

// NewSignal creates a signal with the given initial value. The name scopes
// the signal's changed event, which is registered as name+".Changed".
func NewSignal[T comparable](
	s *kernel.Scheduler,
	name string,
	init T,
) *Signal[T] {
	kernel.NameMustBeValid(name)

	return &Signal[T]{
		sched:   s,
		name:    name,
		changed: kernel.NewEvent(s, kernel.BuildName(name, "Changed")),
		cur:     init,
	}
}

// Name returns the signal's hierarchical name.
func (sg *Signal[T]) Name() string {
	return sg.name
}

// Read returns the committed value.
func (sg *Signal[T]) Read() T {
	return sg.cur
}

// Set schedules v to be committed in the update phase of the current cycle.
func (sg *Signal[T]) Set(v T) {
	sg.pending = v
	sg.hasPending = true
	sg.sched.ScheduleUpdate(sg)
}

// Changed returns the event that fires in the cycle after a commit changes
// the value.
func (sg *Signal[T]) Changed() *kernel.Event {
	return sg.changed
}

// Value returns the committed value as an untyped interface, for observers
// that record signals of mixed element types.
func (sg *Signal[T]) Value() any {
	return sg.cur
}

// ApplyUpdate commits the pending write. It is called by the kernel during
// the update phase and must not be called directly.
func (sg *Signal[T]) ApplyUpdate() []*kernel.Event {
	if !sg.hasPending {
		return nil
	}

	sg.hasPending = false
	if sg.pending == sg.cur {
		return nil
	}

	sg.cur = sg.pending

	return []*kernel.Event{sg.changed}
}
