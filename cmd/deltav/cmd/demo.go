package cmd

import (
	"github.com/deltav-sim/deltav/kernel"
	"github.com/deltav-sim/deltav/signal"
	"github.com/deltav-sim/deltav/trace"
)

// buildDemoModel wires a small producer/consumer design: a free-running
// clock, a rising-edge counter, and a fifo between a producer and a
// consumer. It exists so the CLI has something to run out of the box.
func buildDemoModel(s *kernel.Scheduler, tr *trace.Tracer) error {
	clk := signal.NewSignal(s, "Demo.Clk", 0)
	count := signal.NewSignal(s, "Demo.Count", 0)
	queue := signal.NewFifo[int](s, "Demo.Queue", 4)

	halfPeriod := kernel.Units(5, kernel.NS)

	_, err := kernel.Spawn(s, kernel.RunnableFunc(
		func(ctx kernel.ProcContext) {
			for {
				clk.Set(1 - clk.Read())
				ctx.WaitFor(halfPeriod)
			}
		}), "Demo.ClkDriver", nil)
	if err != nil {
		return err
	}

	_, err = kernel.Spawn(s, kernel.RunnableFunc(
		func(ctx kernel.ProcContext) {
			if clk.Read() == 1 {
				count.Set(count.Read() + 1)
			}
		}), "Demo.Counter", &kernel.SpawnOptions{
		IsMethod:          true,
		DontInitialize:    true,
		StaticSensitivity: []*kernel.Event{clk.Changed()},
	})
	if err != nil {
		return err
	}

	_, err = kernel.Spawn(s, kernel.RunnableFunc(
		func(ctx kernel.ProcContext) {
			for {
				if err := ctx.Wait(count.Changed()); err != nil {
					return
				}

				if err := queue.Push(ctx, count.Read()); err != nil {
					return
				}
			}
		}), "Demo.Producer", nil)
	if err != nil {
		return err
	}

	_, err = kernel.Spawn(s, kernel.RunnableFunc(
		func(ctx kernel.ProcContext) {
			for {
				if _, err := queue.Pop(ctx); err != nil {
					return
				}
			}
		}), "Demo.Consumer", nil)
	if err != nil {
		return err
	}

	if tr != nil {
		tr.Watch(clk)
		tr.Watch(count)
	}

	return nil
}
