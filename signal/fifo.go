package signal

import (
	"log"

	"github.com/deltav-sim/deltav/kernel"
)

// Fifo is a bounded first-in first-out channel. Pops remove data immediately,
// but the freed slot becomes pushable only after the update phase; pushes
// claim a slot immediately, but the data becomes poppable only after the
// update phase. The dataWritten and dataRead events fire in the
// delta-notification phase of the cycle in which the corresponding operation
// happened.
type Fifo[T any] struct {
	sched    *kernel.Scheduler
	name     string
	capacity int

	items       []T
	pendingPush []T
	numFree     int
	reads       int

	dataWritten *kernel.Event
	dataRead    *kernel.Event
}

// NewFifo creates a fifo holding at most capacity elements.
func NewFifo[T any](
	s *kernel.Scheduler,
	name string,
	capacity int,
) *Fifo[T] {
	if capacity <= 0 {
		log.Panicf("fifo %s capacity must be positive, got %d",
			name, capacity)
	}

	kernel.NameMustBeValid(name)

	return &Fifo[T]{
		sched:    s,
		name:     name,
		capacity: capacity,
		numFree:  capacity,
		dataWritten: kernel.NewEvent(s,
			kernel.BuildName(name, "DataWritten")),
		dataRead: kernel.NewEvent(s,
			kernel.BuildName(name, "DataRead")),
	}
}

// Name returns the fifo's hierarchical name.
func (f *Fifo[T]) Name() string {
	return f.name
}

// Cap returns the fifo's capacity.
func (f *Fifo[T]) Cap() int {
	return f.capacity
}

// Len returns the number of elements currently poppable.
func (f *Fifo[T]) Len() int {
	return len(f.items)
}

// Free returns the number of slots currently pushable.
func (f *Fifo[T]) Free() int {
	return f.numFree
}

// TryPush claims a slot for v without blocking. It returns false when the
// fifo is full.
func (f *Fifo[T]) TryPush(v T) bool {
	if f.numFree == 0 {
		return false
	}

	f.numFree--
	f.pendingPush = append(f.pendingPush, v)
	f.sched.ScheduleUpdate(f)

	return true
}

// TryPop removes and returns the oldest element without blocking. It returns
// false when no element is poppable.
func (f *Fifo[T]) TryPop() (T, bool) {
	if len(f.items) == 0 {
		var zero T
		return zero, false
	}

	v := f.items[0]
	f.items = f.items[1:]
	f.reads++
	f.sched.ScheduleUpdate(f)

	return v, true
}

// Push pushes v, waiting on the dataRead event while the fifo is full. It
// must be called from a thread process.
func (f *Fifo[T]) Push(ctx kernel.ProcContext, v T) error {
	for !f.TryPush(v) {
		if err := ctx.Wait(f.dataRead); err != nil {
			return err
		}
	}

	return nil
}

// Pop pops the oldest element, waiting on the dataWritten event while the
// fifo is empty. It must be called from a thread process.
func (f *Fifo[T]) Pop(ctx kernel.ProcContext) (T, error) {
	for {
		if v, ok := f.TryPop(); ok {
			return v, nil
		}

		if err := ctx.Wait(f.dataWritten); err != nil {
			var zero T
			return zero, err
		}
	}
}

// DataWritten returns the event that fires in the cycle after a push commits.
func (f *Fifo[T]) DataWritten() *kernel.Event {
	return f.dataWritten
}

// DataRead returns the event that fires in the cycle after a pop commits.
func (f *Fifo[T]) DataRead() *kernel.Event {
	return f.dataRead
}

// ApplyUpdate commits the cycle's pushes and pops. It is called by the kernel
// during the update phase and must not be called directly.
func (f *Fifo[T]) ApplyUpdate() []*kernel.Event {
	var events []*kernel.Event

	if len(f.pendingPush) > 0 {
		f.items = append(f.items, f.pendingPush...)
		f.pendingPush = f.pendingPush[:0]
		events = append(events, f.dataWritten)
	}

	if f.reads > 0 {
		f.numFree += f.reads
		f.reads = 0
		events = append(events, f.dataRead)
	}

	return events
}
