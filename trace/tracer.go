// Package trace records value changes of watched signals over simulated
// time. A Tracer samples its watch list at the end of every delta cycle and
// appends one row per changed value to a record table, producing a
// queryable waveform of the run.
package trace

import (
	"fmt"

	"github.com/deltav-sim/deltav/kernel"
	"github.com/deltav-sim/deltav/record"
)

// Traceable is anything with a name and an observable committed value.
// Signals satisfy it directly.
type Traceable interface {
	Name() string
	Value() any
}

// Token identifies one watch so it can be removed later.
type Token int

// Row is the table schema of a trace. Time is split into its two words so
// it survives the round trip through the database intact.
type Row struct {
	TimeHigh uint64
	TimeLow  uint64
	Delta    uint64
	Signal   string
	Value    string
}

type watch struct {
	target Traceable
	last   string
	primed bool
}

// Tracer samples watched values once per delta cycle and records changes.
type Tracer struct {
	rec   record.Recorder
	table string

	next    Token
	watches map[Token]*watch
	order   []Token
}

// NewTracer creates a tracer writing to the given table and hooks it into
// the scheduler's delta cycle.
func NewTracer(
	s *kernel.Scheduler,
	rec record.Recorder,
	table string,
) *Tracer {
	t := &Tracer{
		rec:     rec,
		table:   table,
		watches: make(map[Token]*watch),
	}

	rec.CreateTable(table, Row{})
	s.RegisterDeltaObserver(t)

	return t
}

// Watch adds a target to the watch list. Its current value is recorded at
// the end of the next delta cycle, and again whenever it changes.
func (t *Tracer) Watch(target Traceable) Token {
	tok := t.next
	t.next++

	t.watches[tok] = &watch{target: target}
	t.order = append(t.order, tok)

	return tok
}

// Unwatch stops sampling the watch identified by tok.
func (t *Tracer) Unwatch(tok Token) {
	delete(t.watches, tok)
}

// OnDeltaCycleEnd samples the watch list. It is called by the scheduler and
// must not be called directly.
func (t *Tracer) OnDeltaCycleEnd(now kernel.Time, delta uint64) {
	for _, tok := range t.order {
		w, ok := t.watches[tok]
		if !ok {
			continue
		}

		v := fmt.Sprint(w.target.Value())
		if w.primed && v == w.last {
			continue
		}

		w.last = v
		w.primed = true

		t.rec.InsertData(t.table, Row{
			TimeHigh: now.High(),
			TimeLow:  now.Low(),
			Delta:    delta,
			Signal:   w.target.Name(),
			Value:    v,
		})
	}
}
