package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recordingHandler struct {
	handled []string
	onHandle func(name string)
}

func (h *recordingHandler) Handle(e Event) error {
	name := e.(*namedEvent).name
	h.handled = append(h.handled, name)

	if h.onHandle != nil {
		h.onHandle(name)
	}

	return nil
}

type namedEvent struct {
	*EventBase
	name string
}

func newNamedEvent(t VTimeInSec, h Handler, name string) *namedEvent {
	return &namedEvent{EventBase: NewEventBase(t, h), name: name}
}

var _ = Describe("SerialEngine", func() {
	It("dispatches events in non-decreasing time order", func() {
		engine := NewSerialEngine()
		handler := &recordingHandler{}

		engine.Schedule(newNamedEvent(3, handler, "third"))
		engine.Schedule(newNamedEvent(1, handler, "first"))
		engine.Schedule(newNamedEvent(2, handler, "second"))

		Expect(engine.Run()).To(Succeed())
		Expect(handler.handled).To(Equal([]string{"first", "second", "third"}))
	})

	It("breaks ties at the same time by insertion order", func() {
		engine := NewSerialEngine()
		handler := &recordingHandler{}

		engine.Schedule(newNamedEvent(1, handler, "a"))
		engine.Schedule(newNamedEvent(1, handler, "b"))
		engine.Schedule(newNamedEvent(1, handler, "c"))

		Expect(engine.Run()).To(Succeed())
		Expect(handler.handled).To(Equal([]string{"a", "b", "c"}))
	})

	It("allows a handler to schedule further events while running", func() {
		engine := NewSerialEngine()
		handler := &recordingHandler{}
		handler.onHandle = func(name string) {
			if name == "first" {
				engine.Schedule(newNamedEvent(5, handler, "spawned"))
			}
		}

		engine.Schedule(newNamedEvent(1, handler, "first"))

		Expect(engine.Run()).To(Succeed())
		Expect(handler.handled).To(Equal([]string{"first", "spawned"}))
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(5)))
	})

	It("blocks Run while paused and resumes once Continue is called", func() {
		engine := NewSerialEngine()
		handler := &recordingHandler{}

		engine.Schedule(newNamedEvent(1, handler, "first"))
		engine.Schedule(newNamedEvent(2, handler, "second"))

		engine.Pause()

		done := make(chan error, 1)
		go func() { done <- engine.Run() }()

		Consistently(func() []string { return handler.handled }).Should(BeEmpty())

		engine.Continue()

		Eventually(done).Should(Receive(BeNil()))
		Expect(handler.handled).To(Equal([]string{"first", "second"}))
	})
})
