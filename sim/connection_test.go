package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DirectConnection", func() {
	var (
		compA, compB *recordingComp
		portA, portB *LimitNumMsgPort
		conn         *DirectConnection
	)

	BeforeEach(func() {
		compA = newRecordingComp("A")
		compB = newRecordingComp("B")
		portA = NewLimitNumMsgPort(compA, 4, "A.Port")
		portB = NewLimitNumMsgPort(compB, 4, "B.Port")

		conn = NewDirectConnection("AB")
		conn.PlugIn(portA)
		conn.PlugIn(portB)
	})

	It("delivers a message to the port on the other end", func() {
		msg := &testMsg{}
		msg.Src = portA
		msg.SendTime = 5

		Expect(portA.Send(msg)).To(BeNil())
		Expect(compB.recvNotifications).To(Equal([]string{"B.Port"}))
		Expect(portB.Peek()).To(BeIdenticalTo(msg))
	})

	It("refuses a third port", func() {
		portC := NewLimitNumMsgPort(newRecordingComp("C"), 4, "C.Port")
		Expect(func() { conn.PlugIn(portC) }).To(Panic())
	})

	It("notifies both owning components when space frees up", func() {
		conn.NotifyAvailable(0)
		Expect(compA.freeNotifications).To(Equal([]string{"A.Port"}))
		Expect(compB.freeNotifications).To(Equal([]string{"B.Port"}))
	})
})
