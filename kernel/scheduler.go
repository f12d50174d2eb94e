package kernel

import (
	"log"
	"sync"

	"github.com/pkg/errors"
)

// Phase identifies where the scheduler is in its state machine.
type Phase int

// The scheduler phases. One delta cycle is Evaluate, Update, DeltaNotify;
// TimeAdvance runs only when no runnable work is left at the current time.
const (
	PhaseIdle Phase = iota
	PhaseEvaluate
	PhaseUpdate
	PhaseDeltaNotify
	PhaseTimeAdvance
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEvaluate:
		return "evaluate"
	case PhaseUpdate:
		return "update"
	case PhaseDeltaNotify:
		return "delta-notify"
	case PhaseTimeAdvance:
		return "time-advance"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// A DeltaObserver is called once at the end of every delta cycle, after the
// update phase committed. Tracers use it to sample changed values.
type DeltaObserver interface {
	OnDeltaCycleEnd(now Time, delta uint64)
}

// An EndHandler is called after the simulation ends.
type EndHandler interface {
	Handle(now Time)
}

// Config carries the scheduler settings.
type Config struct {
	// MaxDeltaCycles is the safety ceiling on consecutive delta cycles
	// without a time advance. Exceeding it fails the run with
	// ErrInfiniteLoop. Zero disables the check, matching the reference
	// behavior of hanging on a true zero-time loop.
	MaxDeltaCycles uint64

	// EscalateProcessErrors aborts the run when a process fails, instead
	// of terminating only the offending process.
	EscalateProcessErrors bool
}

type procSlot struct {
	proc      *Process
	gen       uint64
	destroyed bool
}

// A Scheduler is the simulation context: it owns every process and event and
// drives the phase state machine until quiescence, a stop request, or a
// failure. It is not a global; thread it explicitly through spawn and trace
// calls.
type Scheduler struct {
	HookableBase

	cfg   Config
	idGen IDGenerator

	stateLock sync.RWMutex
	now       Time
	delta     uint64
	phase     Phase

	runnable runQueue
	wheel    *timeWheel

	updateSet   map[Updatable]struct{}
	updateQueue []Updatable

	deltaEvents []*Event
	deltaProcs  []*Process

	procsMu sync.Mutex
	procs   []*procSlot
	names   map[string]struct{}
	events  []*Event

	observers   []DeltaObserver
	endHandlers []EndHandler

	current *Process
	stampSeq uint64

	stopLock  sync.Mutex
	stopped   bool

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex

	live    bool
	started bool
}

// NewScheduler creates a simulation context with the given configuration.
func NewScheduler(cfg Config) *Scheduler {
	s := &Scheduler{
		cfg:       cfg,
		idGen:     NewSequentialIDGenerator(),
		wheel:     newTimeWheel(),
		updateSet: make(map[Updatable]struct{}),
		names:     make(map[string]struct{}),
		live:      true,
	}

	return s
}

// UseIDGenerator replaces the ID generator. Must be called before any event
// or process is created.
func (s *Scheduler) UseIDGenerator(g IDGenerator) {
	if len(s.procs) > 0 || len(s.events) > 0 {
		log.Panic("kernel: cannot change ID generator after use")
	}

	s.idGen = g
}

// CurrentTime returns the current simulated time. It never decreases.
func (s *Scheduler) CurrentTime() Time {
	s.stateLock.RLock()
	t := s.now
	s.stateLock.RUnlock()
	return t
}

// DeltaCount returns the number of completed delta cycles, a diagnostic
// counter that strictly increases within one time value.
func (s *Scheduler) DeltaCount() uint64 {
	s.stateLock.RLock()
	d := s.delta
	s.stateLock.RUnlock()
	return d
}

// Phase returns the current phase of the state machine.
func (s *Scheduler) Phase() Phase {
	s.stateLock.RLock()
	p := s.phase
	s.stateLock.RUnlock()
	return p
}

func (s *Scheduler) setPhase(p Phase) {
	s.stateLock.Lock()
	s.phase = p
	s.stateLock.Unlock()
}

func (s *Scheduler) writeNow(t Time) {
	s.stateLock.Lock()
	s.now = t
	s.stateLock.Unlock()
}

func (s *Scheduler) bumpDelta() uint64 {
	s.stateLock.Lock()
	s.delta++
	d := s.delta
	s.stateLock.Unlock()
	return d
}

func (s *Scheduler) nextStamp() TriggerStamp {
	s.stampSeq++
	return TriggerStamp{
		Time:  s.CurrentTime(),
		Delta: s.DeltaCount(),
		Seq:   s.stampSeq,
	}
}

// RegisterDeltaObserver adds an observer called once per delta cycle.
func (s *Scheduler) RegisterDeltaObserver(o DeltaObserver) {
	s.observers = append(s.observers, o)
}

// RegisterEndHandler registers a handler invoked by Finished.
func (s *Scheduler) RegisterEndHandler(h EndHandler) {
	s.endHandlers = append(s.endHandlers, h)
}

// Finished should be called after the simulation ends. It invokes all the
// registered end handlers.
func (s *Scheduler) Finished() {
	now := s.CurrentTime()
	for _, h := range s.endHandlers {
		h.Handle(now)
	}
}

// Stop requests termination. The scheduler reaches the Stopped state as soon
// as the currently executing process returns control; it is safe to call
// from within a process body or from outside the run.
func (s *Scheduler) Stop() {
	s.stopLock.Lock()
	s.stopped = true
	s.stopLock.Unlock()
}

func (s *Scheduler) stopRequested() bool {
	s.stopLock.Lock()
	v := s.stopped
	s.stopLock.Unlock()
	return v
}

// Pause prevents the scheduler from starting more delta cycles until
// Continue is called.
func (s *Scheduler) Pause() {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if s.isPaused {
		return
	}

	s.pauseLock.Lock()
	s.isPaused = true
}

// Continue resumes a paused scheduler.
func (s *Scheduler) Continue() {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if !s.isPaused {
		return
	}

	s.pauseLock.Unlock()
	s.isPaused = false
}

// Run drives the simulation until quiescence, a stop request, or a failure.
// Quiescence, both the ready queue and the timed queue running empty, is a
// normal return, not an error.
func (s *Scheduler) Run() error {
	return s.run(Time{}, false)
}

// RunUntil runs like Run but stops once simulated time would pass the given
// bound. Work scheduled exactly at the bound still executes.
func (s *Scheduler) RunUntil(until Time) error {
	return s.run(until, true)
}

// RunFor runs for the given amount of simulated time from now.
func (s *Scheduler) RunFor(d Time) error {
	return s.run(s.CurrentTime().Add(d), true)
}

func (s *Scheduler) run(until Time, bounded bool) error {
	s.singleRunLock.Lock()
	defer s.singleRunLock.Unlock()

	if !s.live {
		return errors.Wrap(ErrInvalidContext, "run")
	}

	if !s.started {
		s.started = true
		s.scheduleInitialRuns()
	}

	deltasSinceAdvance := uint64(0)

	for {
		if s.stopRequested() {
			s.setPhase(PhaseStopped)
			return nil
		}

		s.pauseLock.Lock()

		// Evaluate: drain the ready queue. Processes woken by
		// immediate notification join this same pass.
		s.setPhase(PhaseEvaluate)
		if err := s.evaluate(); err != nil {
			s.pauseLock.Unlock()
			s.setPhase(PhaseStopped)
			return err
		}

		// Update: commit the deferred writes atomically.
		s.setPhase(PhaseUpdate)
		s.applyUpdates()

		// DeltaNotify: move waiters of fired events back to ready at
		// the same simulated time.
		s.setPhase(PhaseDeltaNotify)
		s.fireDeltaNotifications()

		delta := s.bumpDelta()
		deltasSinceAdvance++
		now := s.CurrentTime()

		for _, o := range s.observers {
			o.OnDeltaCycleEnd(now, delta)
		}
		s.InvokeHook(HookCtx{Domain: s, Pos: HookPosDeltaCycleEnd,
			Item: delta})

		if !s.runnable.empty() {
			if s.cfg.MaxDeltaCycles > 0 &&
				deltasSinceAdvance > s.cfg.MaxDeltaCycles {
				s.pauseLock.Unlock()
				s.setPhase(PhaseStopped)
				return errors.Wrapf(ErrInfiniteLoop,
					"%d delta cycles at time %s",
					deltasSinceAdvance, now)
			}

			s.pauseLock.Unlock()
			continue
		}

		// TimeAdvance: jump to the next pending timestamp, or halt at
		// quiescence.
		s.setPhase(PhaseTimeAdvance)

		next, ok := s.wheel.nextTime()
		if !ok {
			s.pauseLock.Unlock()
			s.setPhase(PhaseIdle)
			return nil
		}

		if bounded && until.Before(next) {
			// The bound never moves the clock backwards. A bound
			// that already passed halts at the current time.
			if s.CurrentTime().Before(until) {
				s.writeNow(until)
			}
			s.pauseLock.Unlock()
			s.setPhase(PhaseIdle)
			return nil
		}

		s.advanceTime(next)
		deltasSinceAdvance = 0

		s.pauseLock.Unlock()
	}
}

func (s *Scheduler) evaluate() error {
	for {
		if s.stopRequested() {
			return nil
		}

		p := s.runnable.pop()
		if p == nil {
			return nil
		}

		if err := s.runProcess(p); err != nil {
			return err
		}
	}
}

func (s *Scheduler) runProcess(p *Process) error {
	if p.state == StateTerminated || p.disabled || p.suspended {
		return nil
	}

	s.current = p
	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosBeforeProcess, Item: p})

	if p.kind == MethodProcess {
		s.runMethod(p)
	} else {
		p.resumeThread()
	}

	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosAfterProcess, Item: p})
	s.current = nil

	// A self-reset unwinds the goroutine and leaves the process runnable
	// with no execution context; it restarts from its entry point.
	if p.state == StateRunnable && p.kind == ThreadProcess &&
		p.coro == nil {
		s.runnable.push(p)
	}

	if p.failure != nil {
		failure := p.failure
		p.failure = nil
		return s.reportProcessFailure(p, failure)
	}

	return nil
}

func (s *Scheduler) runMethod(p *Process) {
	defer func() {
		if r := recover(); r != nil {
			if _, isUnwind := r.(unwindSignal); !isUnwind {
				p.failure = r
			}
			p.killed = false
			p.terminate()
		}
	}()

	p.state = StateRunnable
	p.body.Execute(procCtx{p: p})

	p.state = StateWaiting
	p.applyNextTrigger()
}

// reportProcessFailure handles an unhandled failure inside a process body:
// the process is already terminated, the failure is logged with the process
// name and simulated time, and the run aborts only if configured to
// escalate.
func (s *Scheduler) reportProcessFailure(p *Process, r interface{}) error {
	log.Printf("kernel: process %s failed at time %s: %v",
		p.name, s.CurrentTime(), r)

	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosProcessFailure,
		Item: p, Detail: r})

	if s.cfg.EscalateProcessErrors {
		return errors.Errorf("process %s failed at time %s: %v",
			p.name, s.CurrentTime(), r)
	}

	return nil
}

func (s *Scheduler) fireDeltaNotifications() {
	events := s.deltaEvents
	s.deltaEvents = nil

	for _, e := range events {
		if !e.pendingDelta {
			continue
		}

		e.trigger()
	}

	procs := s.deltaProcs
	s.deltaProcs = nil

	for _, p := range procs {
		if p == nil {
			continue
		}

		s.wake(p, nil)
	}
}

func (s *Scheduler) advanceTime(next Time) {
	prev := s.CurrentTime()
	if next.Before(prev) {
		log.Panicf("kernel: time moving backwards, from %s to %s",
			prev, next)
	}

	s.writeNow(next)
	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosTimeAdvance,
		Item: next, Detail: prev})

	for _, entry := range s.wheel.popDue(next) {
		if entry.event != nil {
			entry.event.forgetTimed(entry)
			entry.event.trigger()
			continue
		}

		p := entry.proc
		if p.timed != entry {
			continue
		}
		p.timed = nil

		s.wake(p, nil)
	}
}

// wake moves a process back to the ready queue in reaction to a firing of
// ev, or of a timed or delta wakeup when ev is nil. Disabled processes are
// skipped with their sensitivity intact; suspended processes remember the
// trigger and become runnable on resume.
func (s *Scheduler) wake(p *Process, ev *Event) {
	if p.state == StateTerminated {
		return
	}

	if ev != nil && ev == p.resetEvent {
		if (p.disabled || p.suspended) && !p.asyncReset {
			return
		}

		s.resetProcess(p)
		return
	}

	if p.disabled {
		return
	}

	if p.suspended {
		p.pendingTrigger = true
		p.clearDynamic()
		return
	}

	p.clearDynamic()
	p.wokenBy = ev
	p.state = StateRunnable
	s.runnable.push(p)
}

func (s *Scheduler) queueDeltaEvent(e *Event) {
	s.deltaEvents = append(s.deltaEvents, e)
}

func (s *Scheduler) cancelDeltaNotification(e *Event) {
	e.pendingDelta = false
}

func (s *Scheduler) queueDeltaProc(p *Process) {
	s.deltaProcs = append(s.deltaProcs, p)
}

func (s *Scheduler) forgetDeltaProc(p *Process) {
	for i, queued := range s.deltaProcs {
		if queued == p {
			s.deltaProcs[i] = nil
		}
	}
}

func (s *Scheduler) scheduleInitialRuns() {
	s.procsMu.Lock()
	slots := append([]*procSlot(nil), s.procs...)
	s.procsMu.Unlock()

	for _, slot := range slots {
		p := slot.proc
		if p.dontInitialize || p.state != StateCreated {
			continue
		}

		p.state = StateRunnable
		s.runnable.push(p)
	}
}

// killProcess removes a process from every wait list and the timed queue and
// unwinds its execution context. Safe to call for the currently executing
// process, in which case it does not return.
func (s *Scheduler) killProcess(p *Process) {
	if p.state == StateTerminated {
		return
	}

	p.killed = true

	if p == s.current {
		panic(unwindSignal{})
	}

	if p.kind == ThreadProcess && p.coro != nil {
		p.unwind()
		return
	}

	p.killed = false
	p.terminate()
}

// resetProcess discards the in-flight execution context of a thread process
// and re-queues it at its entry point. Static sensitivity survives the
// reset; dynamic sensitivity and timed waits do not.
func (s *Scheduler) resetProcess(p *Process) {
	if p.state == StateTerminated {
		return
	}

	if p == s.current {
		p.resetting = true
		panic(unwindSignal{reset: true})
	}

	if p.coro != nil {
		p.resetting = true
		p.unwind()
	} else {
		p.clearDynamic()
		p.state = StateRunnable
	}

	s.runnable.push(p)
}

// Teardown ends the simulation context: every live process goroutine is
// unwound, all handles become invalid, and further kernel calls fail with
// ErrInvalidContext. The owner calls this exactly once, after the last run.
func (s *Scheduler) Teardown() {
	if !s.live {
		return
	}

	s.live = false
	s.setPhase(PhaseStopped)

	s.procsMu.Lock()
	slots := append([]*procSlot(nil), s.procs...)
	s.procsMu.Unlock()

	for _, slot := range slots {
		slot.destroyed = true

		p := slot.proc
		if p.state == StateTerminated {
			continue
		}

		p.killed = true
		if p.kind == ThreadProcess && p.coro != nil {
			p.unwind()
		} else {
			p.killed = false
			p.terminate()
		}
	}
}

// ProcessInfo is a point-in-time description of one process, for monitoring.
type ProcessInfo struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	State string `json:"state"`
}

// Snapshot is a point-in-time description of the scheduler, for monitoring.
type Snapshot struct {
	TimeHigh  uint64        `json:"time_high"`
	TimeLow   uint64        `json:"time_low"`
	Seconds   float64       `json:"seconds"`
	Delta     uint64        `json:"delta"`
	Phase     string        `json:"phase"`
	Pending   int           `json:"pending_timed"`
	Processes []ProcessInfo `json:"processes"`
}

// TakeSnapshot captures the current scheduler state. Pause the scheduler
// first for a consistent process table.
func (s *Scheduler) TakeSnapshot() Snapshot {
	now := s.CurrentTime()

	snap := Snapshot{
		TimeHigh: now.High(),
		TimeLow:  now.Low(),
		Seconds:  now.Seconds(),
		Delta:    s.DeltaCount(),
		Phase:    s.Phase().String(),
		Pending:  s.wheel.pending(),
	}

	s.procsMu.Lock()
	for _, slot := range s.procs {
		p := slot.proc
		snap.Processes = append(snap.Processes, ProcessInfo{
			Name:  p.name,
			Kind:  p.kind.String(),
			State: p.State().String(),
		})
	}
	s.procsMu.Unlock()

	return snap
}
