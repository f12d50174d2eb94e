package kernel

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TimeWheel", func() {
	var wheel *timeWheel

	BeforeEach(func() {
		wheel = newTimeWheel()
	})

	It("should report nothing pending when empty", func() {
		_, ok := wheel.nextTime()
		Expect(ok).To(BeFalse())
		Expect(wheel.pending()).To(Equal(0))
	})

	It("should pop entries in non-decreasing time order", func() {
		events := make([]*Event, 0, 100)
		for i := 0; i < 100; i++ {
			e := &Event{}
			events = append(events, e)
			wheel.insertEvent(TimeFromUnits(rand.Uint64()%50), e)
		}

		popped := 0
		last := Time{}
		for {
			at, ok := wheel.nextTime()
			if !ok {
				break
			}

			Expect(last.Cmp(at) <= 0).To(BeTrue())
			last = at

			popped += len(wheel.popDue(at))
		}

		Expect(popped).To(Equal(len(events)))
	})

	It("should keep insertion order at equal time", func() {
		e1 := &Event{name: "E1"}
		e2 := &Event{name: "E2"}
		e3 := &Event{name: "E3"}

		wheel.insertEvent(TimeFromUnits(10), e1)
		wheel.insertEvent(TimeFromUnits(10), e2)
		wheel.insertEvent(TimeFromUnits(10), e3)

		at, ok := wheel.nextTime()
		Expect(ok).To(BeTrue())
		Expect(at).To(Equal(TimeFromUnits(10)))

		due := wheel.popDue(at)
		Expect(due).To(HaveLen(3))
		Expect(due[0].event).To(BeIdenticalTo(e1))
		Expect(due[1].event).To(BeIdenticalTo(e2))
		Expect(due[2].event).To(BeIdenticalTo(e3))
	})

	It("should skip canceled entries lazily", func() {
		e1 := &Event{name: "E1"}
		e2 := &Event{name: "E2"}

		first := wheel.insertEvent(TimeFromUnits(5), e1)
		wheel.insertEvent(TimeFromUnits(8), e2)

		first.canceled = true

		at, ok := wheel.nextTime()
		Expect(ok).To(BeTrue())
		Expect(at).To(Equal(TimeFromUnits(8)))

		due := wheel.popDue(at)
		Expect(due).To(HaveLen(1))
		Expect(due[0].event).To(BeIdenticalTo(e2))
		Expect(wheel.pending()).To(Equal(0))
	})

	It("should only pop entries due exactly at the given time", func() {
		wheel.insertEvent(TimeFromUnits(5), &Event{})
		wheel.insertEvent(TimeFromUnits(5), &Event{})
		wheel.insertEvent(TimeFromUnits(6), &Event{})

		due := wheel.popDue(TimeFromUnits(5))
		Expect(due).To(HaveLen(2))
		Expect(wheel.pending()).To(Equal(1))
	})
})
