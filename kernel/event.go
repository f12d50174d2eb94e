package kernel

import "log"

// TriggerStamp records the last instant at which an event fired. Processes
// and tracers compare stamps to detect "changed since I last checked".
type TriggerStamp struct {
	Time  Time
	Delta uint64
	Seq   uint64
}

// After returns true if s happened after other. Seq is a global firing
// counter, so it orders stamps even within one delta cycle.
func (s TriggerStamp) After(other TriggerStamp) bool {
	return s.Seq > other.Seq
}

// An Event is a notifiable condition that processes can wait on. It keeps two
// disjoint waiter groups: static waiters persist across suspensions, dynamic
// waiters are one-shot and replaced by each wait call. The scheduler owns all
// events for the lifetime of the simulation.
type Event struct {
	name  string
	sched *Scheduler
	stamp TriggerStamp

	static  []*Process
	dynamic []*Process

	pendingDelta bool
	pendingTimed []*timedEntry
}

// NewEvent creates an event owned by the given scheduler. The name is only
// used for diagnostics and may be empty.
func NewEvent(s *Scheduler, name string) *Event {
	if s == nil || !s.live {
		log.Panic("kernel: creating an event outside a scheduler context")
	}

	if name == "" {
		name = "Event" + s.idGen.Generate()
	}

	e := &Event{name: name, sched: s}
	s.events = append(s.events, e)

	return e
}

// Name returns the diagnostic name of the event.
func (e *Event) Name() string {
	return e.name
}

// Stamp returns the trigger stamp of the last firing.
func (e *Event) Stamp() TriggerStamp {
	return e.stamp
}

// An event carries at most one pending notification, and the earliest one
// wins: an immediate notification supersedes a pending delta or timed one, a
// delta notification supersedes any timed one, and of two timed notifications
// only the earlier survives.

// Notify fires the event immediately. Waiters become runnable within the
// current evaluate phase, before the next update. Immediate notification is
// only legal while the scheduler is evaluating.
func (e *Event) Notify() {
	if e.sched.Phase() != PhaseEvaluate {
		log.Panic("kernel: immediate notify outside the evaluate phase")
	}

	e.sched.cancelDeltaNotification(e)
	e.cancelTimed()
	e.trigger()
}

// NotifyDelta schedules the event to fire in the delta-notification phase of
// the current delta cycle, at the same simulated time. Multiple delta
// notifications of one event within a cycle collapse into one firing.
func (e *Event) NotifyDelta() {
	if e.pendingDelta {
		return
	}

	e.cancelTimed()
	e.pendingDelta = true
	e.sched.queueDeltaEvent(e)
}

// NotifyAfter schedules the event to fire after the given simulated delay.
// The notification is discarded if a delta or earlier timed notification is
// already pending. A zero delay is equivalent to NotifyDelta.
func (e *Event) NotifyAfter(d Time) {
	if d.IsZero() {
		e.NotifyDelta()
		return
	}

	if e.pendingDelta {
		return
	}

	at := e.sched.CurrentTime().Add(d)
	for _, pending := range e.pendingTimed {
		if !pending.canceled && !at.Before(pending.at) {
			return
		}
	}
	e.cancelTimed()

	entry := e.sched.wheel.insertEvent(at, e)
	e.pendingTimed = append(e.pendingTimed, entry)
}

// Cancel withdraws all pending delta and timed notifications of this event.
// Notifications that already fired are unaffected.
func (e *Event) Cancel() {
	e.sched.cancelDeltaNotification(e)
	e.cancelTimed()
}

func (e *Event) cancelTimed() {
	for _, entry := range e.pendingTimed {
		entry.canceled = true
	}
	e.pendingTimed = e.pendingTimed[:0]
}

// trigger fires the event: the stamp advances and every waiter in both
// groups is woken. There is no ordering guarantee among waiters woken by the
// same firing.
func (e *Event) trigger() {
	e.pendingDelta = false
	e.stamp = e.sched.nextStamp()

	// Waiter sets may be mutated by wake (dynamic removal), so walk copies.
	static := append([]*Process(nil), e.static...)
	dynamic := append([]*Process(nil), e.dynamic...)

	for _, p := range static {
		e.sched.wake(p, e)
	}

	for _, p := range dynamic {
		e.sched.wake(p, e)
	}
}

func (e *Event) forgetTimed(entry *timedEntry) {
	for i, pending := range e.pendingTimed {
		if pending == entry {
			e.pendingTimed = append(
				e.pendingTimed[:i], e.pendingTimed[i+1:]...)
			return
		}
	}
}

func (e *Event) addStatic(p *Process) {
	e.static = append(e.static, p)
}

func (e *Event) removeStatic(p *Process) {
	for i, waiter := range e.static {
		if waiter == p {
			e.static = append(e.static[:i], e.static[i+1:]...)
			return
		}
	}
}

func (e *Event) addDynamic(p *Process) {
	e.dynamic = append(e.dynamic, p)
}

func (e *Event) removeDynamic(p *Process) {
	for i, waiter := range e.dynamic {
		if waiter == p {
			e.dynamic = append(e.dynamic[:i], e.dynamic[i+1:]...)
			return
		}
	}
}
