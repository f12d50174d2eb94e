package kernel

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("Update Phase", func() {
	var (
		mockCtrl *gomock.Controller
		sched    *Scheduler
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		sched = NewScheduler(Config{})
	})

	AfterEach(func() {
		sched.Teardown()
		mockCtrl.Finish()
	})

	It("should apply a target scheduled twice only once per cycle", func() {
		target := NewMockUpdatable(mockCtrl)
		target.EXPECT().ApplyUpdate().Return(nil).Times(1)

		_, err := Spawn(sched, RunnableFunc(func(ctx ProcContext) {
			ctx.Scheduler().ScheduleUpdate(target)
			ctx.Scheduler().ScheduleUpdate(target)
		}), "Writer", nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(sched.Run()).To(Succeed())
	})

	It("should delta-notify the events an update returns", func() {
		changed := NewEvent(sched, "Changed")

		woken := false
		_, err := Spawn(sched, RunnableFunc(func(ctx ProcContext) {
			if waitErr := ctx.Wait(changed); waitErr != nil {
				return
			}
			woken = true
		}), "Reader", nil)
		Expect(err).ToNot(HaveOccurred())

		target := NewMockUpdatable(mockCtrl)
		target.EXPECT().ApplyUpdate().Return([]*Event{changed})

		_, err = Spawn(sched, RunnableFunc(func(ctx ProcContext) {
			ctx.Scheduler().ScheduleUpdate(target)
		}), "Writer", nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(sched.Run()).To(Succeed())
		Expect(woken).To(BeTrue())
	})

	It("should invoke delta observers once per delta cycle", func() {
		observer := NewMockDeltaObserver(mockCtrl)
		observer.EXPECT().
			OnDeltaCycleEnd(gomock.Any(), gomock.Any()).
			Times(1)
		sched.RegisterDeltaObserver(observer)

		_, err := Spawn(sched, RunnableFunc(func(ctx ProcContext) {
		}), "Noop", nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(sched.Run()).To(Succeed())
	})

	It("should invoke update hooks around the commit", func() {
		hook := NewMockHook(mockCtrl)

		before := hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
			Expect(ctx.Pos).To(BeIdenticalTo(HookPosBeforeUpdate))
		})
		hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
			Expect(ctx.Pos).To(BeIdenticalTo(HookPosAfterUpdate))
		}).After(before)

		filter := filteredHook{
			pos:  map[*HookPos]bool{HookPosBeforeUpdate: true, HookPosAfterUpdate: true},
			next: hook,
		}
		sched.AcceptHook(filter)

		target := NewMockUpdatable(mockCtrl)
		target.EXPECT().ApplyUpdate().Return(nil)

		_, err := Spawn(sched, RunnableFunc(func(ctx ProcContext) {
			ctx.Scheduler().ScheduleUpdate(target)
		}), "Writer", nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(sched.Run()).To(Succeed())
	})
})

// filteredHook forwards only the listed positions to the wrapped hook.
type filteredHook struct {
	pos  map[*HookPos]bool
	next Hook
}

func (h filteredHook) Func(ctx HookCtx) {
	if h.pos[ctx.Pos] {
		h.next.Func(ctx)
	}
}
