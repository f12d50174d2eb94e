package kernel

// ProcessKind tells whether a process is a run-to-completion method or a
// suspendable thread.
type ProcessKind int

// The two process kinds.
const (
	MethodProcess ProcessKind = iota
	ThreadProcess
)

func (k ProcessKind) String() string {
	if k == MethodProcess {
		return "method"
	}

	return "thread"
}

// ProcessState is the externally visible lifecycle state of a process.
type ProcessState int

// The process lifecycle states.
const (
	StateCreated ProcessState = iota
	StateRunnable
	StateWaiting
	StateDisabled
	StateSuspended
	StateTerminated
)

func (s ProcessState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunnable:
		return "runnable"
	case StateWaiting:
		return "waiting"
	case StateDisabled:
		return "disabled"
	case StateSuspended:
		return "suspended"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Runnable provides the execution semantics of a process. Execute is called
// exactly once per activation for a method process and exactly once for the
// whole lifetime of a thread process.
type Runnable interface {
	Execute(ctx ProcContext)
}

// RunnableFunc adapts a plain function into a Runnable.
type RunnableFunc func(ctx ProcContext)

// Execute calls f.
func (f RunnableFunc) Execute(ctx ProcContext) {
	f(ctx)
}

// sensitivity is a dynamic wait condition: one or more events with OR
// semantics, an optional delay, or both.
type sensitivity struct {
	events   []*Event
	delay    Time
	hasDelay bool
}

// A Process is an independently schedulable unit of hardware-description
// code. The scheduler owns all processes; user code holds generation-checked
// Handles only.
type Process struct {
	id       string
	name     string
	kind     ProcessKind
	sched    *Scheduler
	body     Runnable
	priority int

	state     ProcessState
	disabled  bool
	suspended bool

	// pendingTrigger remembers a sensitivity firing that arrived while the
	// process was suspended. Resume turns it into a wakeup.
	pendingTrigger bool

	static  []*Event
	dynamic []*Event
	timed   *timedEntry
	wokenBy *Event

	dontInitialize bool
	stackSizeHint  int
	resetEvent     *Event
	asyncReset     bool

	terminatedEv *Event

	slotIdx    int
	inRunQueue bool
	killed     bool
	resetting  bool
	failure    interface{}

	coro *coroutine

	nextTrig    sensitivity
	nextTrigSet bool
}

// Name returns the hierarchical name of the process.
func (p *Process) Name() string {
	return p.name
}

// Kind returns whether the process is a method or a thread.
func (p *Process) Kind() ProcessKind {
	return p.kind
}

// State reports the externally visible state. The disabled and suspended
// conditions mask the waiting state they overlay.
func (p *Process) State() ProcessState {
	switch {
	case p.state == StateTerminated:
		return StateTerminated
	case p.disabled:
		return StateDisabled
	case p.suspended:
		return StateSuspended
	default:
		return p.state
	}
}

// clearDynamic removes the process from every one-shot wait list and cancels
// its pending timed wakeup. Dynamic sensitivity replaces, never accumulates,
// so this runs on every wakeup and before every new wait.
func (p *Process) clearDynamic() {
	for _, e := range p.dynamic {
		e.removeDynamic(p)
	}
	p.dynamic = p.dynamic[:0]

	if p.timed != nil {
		p.timed.canceled = true
		p.timed = nil
	}
}

// dropStatic unregisters the process from its static sensitivity. Only kill
// and teardown do this; reset keeps static sensitivity intact.
func (p *Process) dropStatic() {
	for _, e := range p.static {
		e.removeStatic(p)
	}
	p.static = nil

	if p.resetEvent != nil {
		p.resetEvent.removeStatic(p)
		p.resetEvent = nil
	}
}

func (p *Process) setDynamic(events []*Event) {
	for _, e := range events {
		e.addDynamic(p)
	}
	p.dynamic = append(p.dynamic[:0], events...)
}

// applyNextTrigger installs the sensitivity a method process requested via
// NextTrigger during its last activation. Without a request the static
// sensitivity stays in force.
func (p *Process) applyNextTrigger() {
	if !p.nextTrigSet {
		return
	}
	p.nextTrigSet = false

	p.setDynamic(p.nextTrig.events)

	if p.nextTrig.hasDelay {
		at := p.sched.CurrentTime().Add(p.nextTrig.delay)
		p.timed = p.sched.wheel.insertProc(at, p)
	}
}

// terminate finalizes the process: every sensitivity is dropped and the
// terminated event fires so that joiners wake up.
func (p *Process) terminate() {
	if p.state == StateTerminated {
		return
	}

	p.clearDynamic()
	p.dropStatic()
	p.sched.forgetDeltaProc(p)
	p.sched.runnable.remove(p)
	p.state = StateTerminated

	if p.terminatedEv != nil {
		p.terminatedEv.NotifyDelta()
	}
}
