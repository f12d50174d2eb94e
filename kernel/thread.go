package kernel

// The thread variant of a process keeps its own execution context: a
// goroutine parked on a channel handshake. Concurrency is strictly
// cooperative; the scheduler goroutine and at most one process goroutine are
// ever unblocked, and control changes hands only at an explicit wait call.
//
// The handshake is: the scheduler sends on resume and then blocks on yield;
// the process body runs until it parks (sends on yield, blocks on resume) or
// ends (the deferred finisher sends on yield).

// coroutine is the suspension point of a thread process.
type coroutine struct {
	resume chan struct{}
	yield  chan struct{}
}

// unwindSignal is panicked inside a process goroutine to unwind its stack on
// kill or reset. It must never escape threadMain.
type unwindSignal struct {
	reset bool
}

func (p *Process) startThread() {
	p.coro = &coroutine{
		resume: make(chan struct{}),
		yield:  make(chan struct{}),
	}

	go p.threadMain()
}

func (p *Process) threadMain() {
	coro := p.coro

	defer func() {
		p.finishThread(recover())
		coro.yield <- struct{}{}
	}()

	<-coro.resume
	p.checkUnwind()

	p.body.Execute(procCtx{p: p})
}

// park suspends the calling process goroutine and returns control to the
// scheduler. It returns when the scheduler resumes the process, continuing
// from this exact point with all local state intact.
func (p *Process) park() {
	p.state = StateWaiting
	p.wokenBy = nil

	coro := p.coro
	coro.yield <- struct{}{}
	<-coro.resume

	p.checkUnwind()
}

func (p *Process) checkUnwind() {
	if p.killed {
		panic(unwindSignal{})
	}

	if p.resetting {
		panic(unwindSignal{reset: true})
	}
}

// finishThread runs as the last code of a process goroutine, whether the
// body returned, was unwound, or panicked.
func (p *Process) finishThread(r interface{}) {
	sig, isUnwind := r.(unwindSignal)

	if isUnwind && sig.reset {
		// Reset: discard the execution context but keep the process
		// alive. Static sensitivity stays registered; the caller of the
		// reset re-queues the process at its entry point.
		p.clearDynamic()
		p.resetting = false
		p.coro = nil
		p.state = StateRunnable
		return
	}

	if r != nil && !isUnwind {
		p.failure = r
	}

	p.killed = false
	p.coro = nil
	p.terminate()
}

// resumeThread hands the execution slot to the process goroutine and blocks
// until it parks or finishes. The channels are captured before the resume
// send: a finishing goroutine clears p.coro before its final yield, so p.coro
// must not be read again while the body runs.
func (p *Process) resumeThread() {
	if p.coro == nil {
		p.startThread()
	}

	coro := p.coro
	coro.resume <- struct{}{}
	<-coro.yield
}

// unwind forces a parked process goroutine to run its unwind path. The
// caller has already set the killed or resetting flag. Must not be called
// for the currently executing process.
func (p *Process) unwind() {
	coro := p.coro
	if coro == nil {
		return
	}

	coro.resume <- struct{}{}
	<-coro.yield
}
