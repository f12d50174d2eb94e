package kernel

import "github.com/pkg/errors"

// A Handle is a non-owning, generation-checked reference to a process. The
// scheduler owns the process; handles may outlive it. Every operation on a
// handle whose process was killed or torn down fails with ErrInvalidHandle
// instead of touching reclaimed state.
type Handle struct {
	sched *Scheduler
	idx   int
	gen   uint64
}

func (h Handle) deref() (*Process, error) {
	if h.sched == nil {
		return nil, errors.Wrap(ErrInvalidHandle, "zero handle")
	}

	h.sched.procsMu.Lock()
	defer h.sched.procsMu.Unlock()

	if h.idx >= len(h.sched.procs) {
		return nil, errors.Wrap(ErrInvalidHandle, "unknown process")
	}

	slot := h.sched.procs[h.idx]
	if slot.destroyed || slot.gen != h.gen {
		return nil, errors.Wrapf(ErrInvalidHandle,
			"process %s", slot.proc.name)
	}

	return slot.proc, nil
}

// Valid reports whether the handle still refers to a live process.
func (h Handle) Valid() bool {
	_, err := h.deref()
	return err == nil
}

// Name returns the process name.
func (h Handle) Name() (string, error) {
	p, err := h.deref()
	if err != nil {
		return "", err
	}

	return p.name, nil
}

// State returns the current lifecycle state.
func (h Handle) State() (ProcessState, error) {
	p, err := h.deref()
	if err != nil {
		return StateTerminated, err
	}

	return p.State(), nil
}

// TerminatedEvent returns the event that fires when the process ends, for
// joining.
func (h Handle) TerminatedEvent() (*Event, error) {
	p, err := h.deref()
	if err != nil {
		return nil, err
	}

	return p.terminatedEv, nil
}

// Kill terminates the process: it is removed from every wait list and the
// timed queue, its execution context is unwound and reclaimed, and the
// handle becomes invalid. Killing the currently executing process does not
// return.
func (h Handle) Kill() error {
	p, err := h.deref()
	if err != nil {
		return err
	}

	h.sched.procsMu.Lock()
	h.sched.procs[h.idx].destroyed = true
	h.sched.procsMu.Unlock()

	h.sched.killProcess(p)

	return nil
}

// Reset discards the in-flight execution state of a thread process and
// restarts it from its entry point. Static sensitivity survives. Only
// thread processes support reset.
func (h Handle) Reset() error {
	p, err := h.deref()
	if err != nil {
		return err
	}

	if p.kind != ThreadProcess {
		return errors.Wrapf(ErrInvalidHandle,
			"reset of method process %s", p.name)
	}

	h.sched.resetProcess(p)

	return nil
}

// Disable makes the process skip sensitivity firings. It stays registered on
// its events; Enable restores normal triggering.
func (h Handle) Disable() error {
	p, err := h.deref()
	if err != nil {
		return err
	}

	p.disabled = true

	if p.inRunQueue {
		h.sched.runnable.remove(p)
		p.state = StateWaiting
	}

	return nil
}

// Enable reverts a Disable.
func (h Handle) Enable() error {
	p, err := h.deref()
	if err != nil {
		return err
	}

	p.disabled = false

	return nil
}

// Suspend holds the process even when its sensitivity fires. A firing that
// arrives while suspended is remembered and turns into a wakeup on Resume.
func (h Handle) Suspend() error {
	p, err := h.deref()
	if err != nil {
		return err
	}

	p.suspended = true

	if p.inRunQueue {
		h.sched.runnable.remove(p)
		p.pendingTrigger = true
		p.state = StateWaiting
	}

	return nil
}

// Resume reverts a Suspend. If the sensitivity fired while suspended, the
// process becomes runnable in the next evaluate phase.
func (h Handle) Resume() error {
	p, err := h.deref()
	if err != nil {
		return err
	}

	p.suspended = false

	if p.pendingTrigger && p.state != StateTerminated {
		p.pendingTrigger = false
		p.state = StateRunnable
		h.sched.runnable.push(p)
	}

	return nil
}
