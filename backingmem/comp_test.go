package backingmem_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/smc/backingmem"
	"github.com/sarchlab/smc/mem"
	"github.com/sarchlab/smc/sim"
)

// requestor is a minimal upstream test double: it records every response it
// receives and can issue requests directly.
type requestor struct {
	*sim.ComponentBase

	Port     sim.Port
	Received []mem.AccessRsp
}

func newRequestor(name string) *requestor {
	r := &requestor{ComponentBase: sim.NewComponentBase(name)}
	r.Port = sim.NewLimitNumMsgPort(r, 4, name+".Port")
	r.AddPort("Port", r.Port)

	return r
}

func (r *requestor) Handle(e sim.Event) error { return nil }

func (r *requestor) NotifyRecv(now sim.VTimeInSec, port sim.Port) {
	msg := port.Retrieve(now)
	if msg == nil {
		return
	}

	r.Received = append(r.Received, msg.(mem.AccessRsp))
}

func (r *requestor) NotifyPortFree(now sim.VTimeInSec, port sim.Port) {}

var _ = Describe("Comp", func() {
	var (
		engine *sim.SerialEngine
		c      *backingmem.Comp
		req    *requestor
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		c = backingmem.MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithLatency(50).
			WithNewStorage(4096).
			Build("Mem")

		req = newRequestor("Req")

		conn := sim.NewDirectConnection("Conn")
		conn.PlugIn(req.Port)
		conn.PlugIn(c.TopPort)
	})

	It("answers a write then a read with a fixed latency", func() {
		data := []byte{0xaa, 0xbb, 0xcc, 0xdd}

		wreq := mem.WriteReqBuilder{}.
			WithSrc(req.Port).
			WithAddress(64).
			WithData(data).
			Build()
		wreq.SendTime = 0
		Expect(req.Port.Send(wreq)).To(BeNil())

		rreq := mem.ReadReqBuilder{}.
			WithSrc(req.Port).
			WithAddress(64).
			WithByteSize(uint64(len(data))).
			Build()
		rreq.SendTime = 0
		Expect(req.Port.Send(rreq)).To(BeNil())

		Expect(engine.Run()).To(Succeed())

		Expect(req.Received).To(HaveLen(2))

		wrsp, ok := req.Received[0].(*mem.WriteDoneRsp)
		Expect(ok).To(BeTrue())
		Expect(wrsp.RespondTo).To(Equal(wreq.ID))

		rrsp, ok := req.Received[1].(*mem.DataReadyRsp)
		Expect(ok).To(BeTrue())
		Expect(rrsp.RespondTo).To(Equal(rreq.ID))
		Expect(rrsp.Data).To(Equal(data))
	})

	It("echoes the configured access-depth hint on a response", func() {
		c.DepthHints[128] = 0
		c.DefaultAccessDepth = 3

		hinted := mem.ReadReqBuilder{}.WithSrc(req.Port).WithAddress(128).WithByteSize(4).Build()
		hinted.SendTime = 0
		Expect(req.Port.Send(hinted)).To(BeNil())

		unhinted := mem.ReadReqBuilder{}.WithSrc(req.Port).WithAddress(256).WithByteSize(4).Build()
		unhinted.SendTime = 0
		Expect(req.Port.Send(unhinted)).To(BeNil())

		Expect(engine.Run()).To(Succeed())

		Expect(req.Received).To(HaveLen(2))

		hintedRsp := req.Received[0].(*mem.DataReadyRsp)
		Expect(hintedRsp.AccessDepth).To(Equal(0))

		unhintedRsp := req.Received[1].(*mem.DataReadyRsp)
		Expect(unhintedRsp.AccessDepth).To(Equal(3))
	})
})
