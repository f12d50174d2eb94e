package kernel

import "container/heap"

// A timedEntry is one pending timed notification. It targets either an event
// (NotifyAfter) or a process (timed wait); exactly one of the two is set.
// Canceled entries stay in the heap and are skipped lazily at pop time.
type timedEntry struct {
	at       Time
	seq      uint64
	event    *Event
	proc     *Process
	canceled bool
}

// timeWheel is the time-ordered notification queue. Entries pop in
// non-decreasing time order; at equal time, insertion order is preserved.
type timeWheel struct {
	entries timedHeap
	nextSeq uint64
}

func newTimeWheel() *timeWheel {
	w := new(timeWheel)
	heap.Init(&w.entries)
	return w
}

func (w *timeWheel) insertEvent(at Time, e *Event) *timedEntry {
	return w.insert(&timedEntry{at: at, event: e})
}

func (w *timeWheel) insertProc(at Time, p *Process) *timedEntry {
	return w.insert(&timedEntry{at: at, proc: p})
}

func (w *timeWheel) insert(entry *timedEntry) *timedEntry {
	entry.seq = w.nextSeq
	w.nextSeq++
	heap.Push(&w.entries, entry)
	return entry
}

// nextTime returns the earliest pending time, discarding canceled entries
// found at the front. ok is false if nothing is pending.
func (w *timeWheel) nextTime() (at Time, ok bool) {
	for w.entries.Len() > 0 {
		front := w.entries[0]
		if !front.canceled {
			return front.at, true
		}

		heap.Pop(&w.entries)
	}

	return Time{}, false
}

// popDue removes and returns all live entries scheduled for exactly time t,
// in insertion order.
func (w *timeWheel) popDue(t Time) []*timedEntry {
	var due []*timedEntry

	for w.entries.Len() > 0 {
		front := w.entries[0]
		if front.canceled {
			heap.Pop(&w.entries)
			continue
		}

		if !front.at.Equal(t) {
			break
		}

		heap.Pop(&w.entries)
		due = append(due, front)
	}

	return due
}

func (w *timeWheel) pending() int {
	n := 0
	for _, entry := range w.entries {
		if !entry.canceled {
			n++
		}
	}

	return n
}

type timedHeap []*timedEntry

func (h timedHeap) Len() int {
	return len(h)
}

func (h timedHeap) Less(i, j int) bool {
	c := h[i].at.Cmp(h[j].at)
	if c != 0 {
		return c < 0
	}

	return h[i].seq < h[j].seq
}

func (h timedHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *timedHeap) Push(x interface{}) {
	*h = append(*h, x.(*timedEntry))
}

func (h *timedHeap) Pop() interface{} {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[0 : n-1]
	return entry
}
