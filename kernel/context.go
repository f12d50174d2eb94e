package kernel

import (
	"log"

	"github.com/pkg/errors"
)

// ProcContext is the view a process body has of the kernel. Every Runnable
// receives one on execution; it is only valid while that process is the one
// the scheduler is running.
type ProcContext interface {
	// Name returns the hierarchical name of the process.
	Name() string

	// Handle returns a handle to the process itself.
	Handle() Handle

	// Scheduler returns the owning scheduler, for dynamic event creation
	// and spawning.
	Scheduler() *Scheduler

	// Now returns the current simulated time.
	Now() Time

	// DeltaCount returns the delta-cycle counter, for diagnostics.
	DeltaCount() uint64

	// Wait suspends a thread process until one of the events fires (OR
	// semantics). With no arguments the process waits on its static
	// sensitivity; ErrSensitivityConflict is returned without suspending
	// if it has none. Calling Wait from a method process panics.
	Wait(events ...*Event) error

	// WaitFor suspends a thread process for the given simulated delay. A
	// zero delay waits a single delta cycle.
	WaitFor(d Time)

	// WaitDelta suspends a thread process until the next delta cycle.
	WaitDelta()

	// WaitWithTimeout suspends until one of the events fires or the delay
	// elapses, whichever comes first. timedOut is true if the delay won.
	WaitWithTimeout(d Time, events ...*Event) (timedOut bool, err error)

	// NextTrigger re-arms the dynamic sensitivity of a method process for
	// its next activation, without suspending. With no arguments the
	// process reverts to its static sensitivity.
	NextTrigger(events ...*Event) error

	// NextTriggerAfter re-triggers a method process after a delay.
	NextTriggerAfter(d Time)
}

type procCtx struct {
	p *Process
}

func (c procCtx) Name() string {
	return c.p.name
}

func (c procCtx) Handle() Handle {
	return c.p.sched.handleOf(c.p)
}

func (c procCtx) Scheduler() *Scheduler {
	return c.p.sched
}

func (c procCtx) Now() Time {
	return c.p.sched.CurrentTime()
}

func (c procCtx) DeltaCount() uint64 {
	return c.p.sched.DeltaCount()
}

func (c procCtx) Wait(events ...*Event) error {
	p := c.p
	p.mustBeCurrent("Wait")
	p.mustBeThread("Wait")

	if len(events) == 0 {
		if len(p.static) == 0 {
			return errors.Wrap(ErrSensitivityConflict, p.name)
		}

		// Static sensitivity is permanently registered; parking with
		// no dynamic condition waits on it alone.
		p.park()
		return nil
	}

	p.setDynamic(events)
	p.park()

	return nil
}

func (c procCtx) WaitFor(d Time) {
	p := c.p
	p.mustBeCurrent("WaitFor")
	p.mustBeThread("WaitFor")

	if d.IsZero() {
		c.WaitDelta()
		return
	}

	p.timed = p.sched.wheel.insertProc(p.sched.CurrentTime().Add(d), p)
	p.park()
}

func (c procCtx) WaitDelta() {
	p := c.p
	p.mustBeCurrent("WaitDelta")
	p.mustBeThread("WaitDelta")

	p.sched.queueDeltaProc(p)
	p.park()
}

func (c procCtx) WaitWithTimeout(
	d Time,
	events ...*Event,
) (timedOut bool, err error) {
	p := c.p
	p.mustBeCurrent("WaitWithTimeout")
	p.mustBeThread("WaitWithTimeout")

	if len(events) == 0 {
		c.WaitFor(d)
		return true, nil
	}

	if d.IsZero() {
		return false, errors.Wrap(ErrSensitivityConflict,
			p.name+": zero timeout")
	}

	p.setDynamic(events)
	p.timed = p.sched.wheel.insertProc(p.sched.CurrentTime().Add(d), p)
	p.park()

	return p.wokenBy == nil, nil
}

func (c procCtx) NextTrigger(events ...*Event) error {
	p := c.p
	p.mustBeCurrent("NextTrigger")
	p.mustBeMethod("NextTrigger")

	if len(events) == 0 && len(p.static) == 0 {
		return errors.Wrap(ErrSensitivityConflict, p.name)
	}

	p.nextTrig = sensitivity{events: events}
	p.nextTrigSet = true

	return nil
}

func (c procCtx) NextTriggerAfter(d Time) {
	p := c.p
	p.mustBeCurrent("NextTriggerAfter")
	p.mustBeMethod("NextTriggerAfter")

	p.nextTrig = sensitivity{delay: d, hasDelay: true}
	p.nextTrigSet = true
}

func (p *Process) mustBeCurrent(op string) {
	if p.sched.current != p {
		log.Panicf("kernel: %s called on process %s, which is not "+
			"the one executing", op, p.name)
	}
}

func (p *Process) mustBeThread(op string) {
	if p.kind != ThreadProcess {
		log.Panicf("kernel: %s called from method process %s; "+
			"method processes cannot suspend mid-body, "+
			"use NextTrigger instead", op, p.name)
	}
}

func (p *Process) mustBeMethod(op string) {
	if p.kind != MethodProcess {
		log.Panicf("kernel: %s called from thread process %s; "+
			"thread processes should call Wait", op, p.name)
	}
}
