package kernel

// runQueue holds the processes that are ready to execute in the current
// evaluate phase, partitioned by kind. Method processes run before thread
// processes; within a partition, lower priority values run first and equal
// priorities keep FIFO registration order. Callers must not rely on the
// order between processes woken by the same notification.
type runQueue struct {
	methods []*Process
	threads []*Process
}

func (q *runQueue) push(p *Process) {
	if p.inRunQueue {
		return
	}

	p.inRunQueue = true

	list := &q.threads
	if p.kind == MethodProcess {
		list = &q.methods
	}

	// Insert behind all processes of lower or equal priority, keeping
	// FIFO order within one priority level.
	i := len(*list)
	for i > 0 && (*list)[i-1].priority > p.priority {
		i--
	}

	*list = append(*list, nil)
	copy((*list)[i+1:], (*list)[i:])
	(*list)[i] = p
}

func (q *runQueue) pop() *Process {
	if len(q.methods) > 0 {
		p := q.methods[0]
		q.methods = q.methods[1:]
		p.inRunQueue = false
		return p
	}

	if len(q.threads) > 0 {
		p := q.threads[0]
		q.threads = q.threads[1:]
		p.inRunQueue = false
		return p
	}

	return nil
}

func (q *runQueue) remove(p *Process) {
	if !p.inRunQueue {
		return
	}

	p.inRunQueue = false

	list := &q.threads
	if p.kind == MethodProcess {
		list = &q.methods
	}

	for i, queued := range *list {
		if queued == p {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

func (q *runQueue) empty() bool {
	return len(q.methods) == 0 && len(q.threads) == 0
}

func (q *runQueue) len() int {
	return len(q.methods) + len(q.threads)
}
