package kernel

// Updatable is the contract between the kernel and signal/channel
// collaborators. A target whose value was written during the evaluate phase
// registers itself with ScheduleUpdate; the kernel calls ApplyUpdate exactly
// once per cycle during the update phase, with no process running. The
// target commits its pending value (resolving multiple same-cycle writes as
// it sees fit, typically last-write-wins) and returns the events to fire in
// the delta-notification phase, usually its value-changed event, or nil if
// the committed value is unchanged.
type Updatable interface {
	ApplyUpdate() []*Event
}

// ScheduleUpdate queues a deferred update for the current delta cycle.
// Scheduling the same target several times within one cycle results in a
// single ApplyUpdate call.
func (s *Scheduler) ScheduleUpdate(u Updatable) {
	if _, queued := s.updateSet[u]; queued {
		return
	}

	s.updateSet[u] = struct{}{}
	s.updateQueue = append(s.updateQueue, u)
}

// applyUpdates commits the whole batch atomically with respect to process
// execution: no process observes a partially applied batch because none runs
// until the next evaluate phase.
func (s *Scheduler) applyUpdates() {
	if len(s.updateQueue) == 0 {
		return
	}

	ctx := HookCtx{Domain: s, Pos: HookPosBeforeUpdate,
		Item: len(s.updateQueue)}
	s.InvokeHook(ctx)

	for _, u := range s.updateQueue {
		for _, e := range u.ApplyUpdate() {
			e.NotifyDelta()
		}
	}

	s.updateQueue = s.updateQueue[:0]
	clear(s.updateSet)

	ctx.Pos = HookPosAfterUpdate
	s.InvokeHook(ctx)
}
