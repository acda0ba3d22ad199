package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ComponentBase", func() {
	It("returns a previously registered port", func() {
		comp := NewComponentBase("Comp")
		port := NewLimitNumMsgPort(nil, 1, "Comp.Port")
		comp.AddPort("Main", port)

		Expect(comp.GetPortByName("Main")).To(BeIdenticalTo(Port(port)))
	})

	It("panics when the port is unknown", func() {
		comp := NewComponentBase("Comp")
		Expect(func() { comp.GetPortByName("Missing") }).To(Panic())
	})
})
