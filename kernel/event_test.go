package kernel

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Event", func() {
	var sched *Scheduler

	BeforeEach(func() {
		sched = NewScheduler(Config{MaxDeltaCycles: 1000})
	})

	AfterEach(func() {
		sched.Teardown()
	})

	It("should wake static waiters on every firing", func() {
		clk := NewEvent(sched, "Clk")

		runs := 0
		_, err := Spawn(sched, RunnableFunc(func(ctx ProcContext) {
			runs++
		}), "Counter", &SpawnOptions{
			IsMethod:          true,
			DontInitialize:    true,
			StaticSensitivity: []*Event{clk},
		})
		Expect(err).ToNot(HaveOccurred())

		_, err = Spawn(sched, RunnableFunc(func(ctx ProcContext) {
			for i := 0; i < 3; i++ {
				clk.NotifyAfter(Units(10, NS))
				ctx.WaitFor(Units(10, NS))
			}
		}), "Driver", nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(sched.Run()).To(Succeed())
		Expect(runs).To(Equal(3))
	})

	It("should replace dynamic sensitivity on each wait", func() {
		e1 := NewEvent(sched, "E1")
		e2 := NewEvent(sched, "E2")

		resumes := 0
		_, err := Spawn(sched, RunnableFunc(func(ctx ProcContext) {
			_ = ctx.Wait(e1)
			resumes++
			_ = ctx.Wait(e2)
			resumes++
		}), "Waiter", nil)
		Expect(err).ToNot(HaveOccurred())

		_, err = Spawn(sched, RunnableFunc(func(ctx ProcContext) {
			e1.NotifyDelta()
			ctx.WaitFor(Units(1, NS))

			// The waiter now waits on E2; this firing of E1 must
			// not wake it.
			e1.NotifyDelta()
			ctx.WaitFor(Units(1, NS))

			e2.NotifyDelta()
		}), "Driver", nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(sched.Run()).To(Succeed())
		Expect(resumes).To(Equal(2))
	})

	It("should advance the trigger stamp before waiters resume", func() {
		e := NewEvent(sched, "E")

		before := e.Stamp()
		var atResume TriggerStamp

		_, err := Spawn(sched, RunnableFunc(func(ctx ProcContext) {
			_ = ctx.Wait(e)
			atResume = e.Stamp()
		}), "Waiter", nil)
		Expect(err).ToNot(HaveOccurred())

		_, err = Spawn(sched, RunnableFunc(func(ctx ProcContext) {
			e.NotifyDelta()
		}), "Driver", nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(sched.Run()).To(Succeed())
		Expect(atResume.After(before)).To(BeTrue())
	})

	It("should run all waiters of one update batch in the same delta cycle",
		func() {
			const n = 8

			events := make([]*Event, n)
			wokenAt := make([]uint64, n)

			for i := 0; i < n; i++ {
				events[i] = NewEvent(sched, fmt.Sprintf("E[%d]", i))

				i := i
				_, err := Spawn(sched,
					RunnableFunc(func(ctx ProcContext) {
						_ = ctx.Wait(events[i])
						wokenAt[i] = ctx.DeltaCount()
					}),
					fmt.Sprintf("Waiter[%d]", i), nil)
				Expect(err).ToNot(HaveOccurred())
			}

			_, err := Spawn(sched, RunnableFunc(func(ctx ProcContext) {
				for _, e := range events {
					e.NotifyDelta()
				}
			}), "Driver", nil)
			Expect(err).ToNot(HaveOccurred())

			Expect(sched.Run()).To(Succeed())

			for i := 1; i < n; i++ {
				Expect(wokenAt[i]).To(Equal(wokenAt[0]))
			}
		})

	It("should collapse repeated delta notifications into one firing", func() {
		e := NewEvent(sched, "E")

		resumes := 0
		_, err := Spawn(sched, RunnableFunc(func(ctx ProcContext) {
			for {
				if waitErr := ctx.Wait(e); waitErr != nil {
					return
				}
				resumes++
			}
		}), "Waiter", nil)
		Expect(err).ToNot(HaveOccurred())

		_, err = Spawn(sched, RunnableFunc(func(ctx ProcContext) {
			e.NotifyDelta()
			e.NotifyDelta()
			e.NotifyDelta()
			ctx.WaitFor(Units(1, NS))
			ctx.Scheduler().Stop()
		}), "Driver", nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(sched.Run()).To(Succeed())
		Expect(resumes).To(Equal(1))
	})

	It("should withdraw pending notifications on cancel", func() {
		e := NewEvent(sched, "E")

		resumes := 0
		_, err := Spawn(sched, RunnableFunc(func(ctx ProcContext) {
			timedOut, waitErr := ctx.WaitWithTimeout(
				Units(100, NS), e)
			if waitErr != nil {
				return
			}
			if !timedOut {
				resumes++
			}
		}), "Waiter", nil)
		Expect(err).ToNot(HaveOccurred())

		_, err = Spawn(sched, RunnableFunc(func(ctx ProcContext) {
			e.NotifyAfter(Units(10, NS))
			e.Cancel()
		}), "Driver", nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(sched.Run()).To(Succeed())
		Expect(resumes).To(Equal(0))
		Expect(sched.CurrentTime()).To(Equal(Units(100, NS)))
	})

	It("should keep only the earliest of two timed notifications", func() {
		e := NewEvent(sched, "E")

		var fired []Time
		_, err := Spawn(sched, RunnableFunc(func(ctx ProcContext) {
			fired = append(fired, ctx.Now())
		}), "Listener", &SpawnOptions{
			IsMethod:          true,
			DontInitialize:    true,
			StaticSensitivity: []*Event{e},
		})
		Expect(err).ToNot(HaveOccurred())

		_, err = Spawn(sched, RunnableFunc(func(ctx ProcContext) {
			e.NotifyAfter(Units(20, NS))
			e.NotifyAfter(Units(10, NS))
			ctx.WaitFor(Units(50, NS))

			e.NotifyAfter(Units(10, NS))
			e.NotifyAfter(Units(20, NS))
			ctx.WaitFor(Units(50, NS))
		}), "Driver", nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(sched.Run()).To(Succeed())
		Expect(fired).To(Equal([]Time{Units(10, NS), Units(60, NS)}))
	})

	It("should let a delta notification supersede a pending timed one",
		func() {
			e := NewEvent(sched, "E")

			runs := 0
			_, err := Spawn(sched, RunnableFunc(func(ctx ProcContext) {
				runs++
			}), "Listener", &SpawnOptions{
				IsMethod:          true,
				DontInitialize:    true,
				StaticSensitivity: []*Event{e},
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = Spawn(sched, RunnableFunc(func(ctx ProcContext) {
				e.NotifyAfter(Units(10, NS))
				e.NotifyDelta()
				ctx.WaitFor(Units(50, NS))
			}), "Driver", nil)
			Expect(err).ToNot(HaveOccurred())

			Expect(sched.Run()).To(Succeed())
			Expect(runs).To(Equal(1))
		})

	It("should let an immediate notification supersede a pending timed one",
		func() {
			e := NewEvent(sched, "E")

			var fired []Time
			_, err := Spawn(sched, RunnableFunc(func(ctx ProcContext) {
				fired = append(fired, ctx.Now())
			}), "Listener", &SpawnOptions{
				IsMethod:          true,
				DontInitialize:    true,
				StaticSensitivity: []*Event{e},
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = Spawn(sched, RunnableFunc(func(ctx ProcContext) {
				e.NotifyAfter(Units(10, NS))
				e.Notify()
				ctx.WaitFor(Units(50, NS))
			}), "Driver", nil)
			Expect(err).ToNot(HaveOccurred())

			Expect(sched.Run()).To(Succeed())
			Expect(fired).To(Equal([]Time{{}}))
		})
})
