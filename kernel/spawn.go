package kernel

import "github.com/pkg/errors"

// SpawnOptions selects the process variant and its standing behavior.
type SpawnOptions struct {
	// IsMethod spawns a run-to-completion method process instead of a
	// suspendable thread process.
	IsMethod bool

	// StackSizeHint is advisory. Goroutine stacks grow on demand, so the
	// hint is recorded but has no effect; it keeps spawn call sites
	// portable from kernels where stacks are fixed.
	StackSizeHint int

	// DontInitialize skips the initial activation at simulation start.
	// The process first runs when its static sensitivity fires.
	DontInitialize bool

	// StaticSensitivity lists the events that always wake the process,
	// independent of its dynamic wait conditions.
	StaticSensitivity []*Event

	// ResetEvent, when it fires, resets the process to its entry point
	// instead of resuming it. Only meaningful for thread processes.
	ResetEvent *Event

	// AsyncReset makes the reset event act even while the process is
	// disabled or suspended.
	AsyncReset bool

	// Priority groups the process for delta-cycle scheduling. Lower
	// values run earlier within their kind partition.
	Priority int
}

// Spawn wraps body as a process, registers it with the scheduler, and
// returns a non-owning handle. The name must be unique within its
// hierarchical scope; an empty name is generated. Spawning is legal during
// elaboration and during the run; a process spawned mid-run joins the next
// evaluate phase unless DontInitialize is set.
func Spawn(
	s *Scheduler,
	body Runnable,
	name string,
	opts *SpawnOptions,
) (Handle, error) {
	if s == nil || !s.live {
		return Handle{}, errors.Wrap(ErrInvalidContext, "spawn")
	}

	if opts == nil {
		opts = &SpawnOptions{}
	}

	// Option validation precedes any registration. A rejected spawn must
	// leave no trace: no claimed name, no terminated event.
	if opts.ResetEvent != nil && opts.IsMethod {
		return Handle{}, errors.Wrap(ErrSensitivityConflict,
			"reset event on a method process")
	}

	if name == "" {
		name = "Proc" + s.idGen.Generate()
	}
	NameMustBeValid(name)

	s.procsMu.Lock()
	if _, taken := s.names[name]; taken {
		s.procsMu.Unlock()
		return Handle{}, errors.Wrapf(ErrDuplicateName,
			"%q in scope %q", name, scopeOf(name))
	}
	s.names[name] = struct{}{}
	s.procsMu.Unlock()

	kind := ThreadProcess
	if opts.IsMethod {
		kind = MethodProcess
	}

	p := &Process{
		id:             s.idGen.Generate(),
		name:           name,
		kind:           kind,
		sched:          s,
		body:           body,
		priority:       opts.Priority,
		state:          StateCreated,
		dontInitialize: opts.DontInitialize,
		stackSizeHint:  opts.StackSizeHint,
		asyncReset:     opts.AsyncReset,
	}
	p.terminatedEv = NewEvent(s, name+".Terminated")

	for _, e := range opts.StaticSensitivity {
		e.addStatic(p)
		p.static = append(p.static, e)
	}

	if opts.ResetEvent != nil {
		p.resetEvent = opts.ResetEvent
		opts.ResetEvent.addStatic(p)
	}

	s.procsMu.Lock()
	slot := &procSlot{proc: p, gen: 1}
	p.slotIdx = len(s.procs)
	s.procs = append(s.procs, slot)
	s.procsMu.Unlock()

	// A spawn after the simulation started joins the ready queue right
	// away; before that, scheduleInitialRuns picks it up.
	if s.started && !opts.DontInitialize {
		p.state = StateRunnable
		s.runnable.push(p)
	}

	return Handle{sched: s, idx: p.slotIdx, gen: slot.gen}, nil
}

// handleOf returns a handle to a live process.
func (s *Scheduler) handleOf(p *Process) Handle {
	s.procsMu.Lock()
	gen := s.procs[p.slotIdx].gen
	s.procsMu.Unlock()

	return Handle{sched: s, idx: p.slotIdx, gen: gen}
}
