package smc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/smc/backingmem"
	"github.com/sarchlab/smc/mem"
	"github.com/sarchlab/smc/sim"
	"github.com/sarchlab/smc/smc"
)

// pruningHarness is a variant of the Comp harness with three fetchable
// Merkle levels (deep enough to prune at a genuinely intermediate level,
// distinct from both the leaf and the last-walked level) and MACCycle
// zeroed out, so the only thing that can move chargeTime between two
// otherwise-identical runs is the number of Merkle levels actually
// walked.
type pruningHarness struct {
	engine  *sim.SerialEngine
	addrMap *smc.AddressMap
	c       *smc.Comp
	cpu     *cpuAgent
	dataMem *backingmem.Comp
	metaMem *backingmem.Comp

	chargeTime   sim.VTimeInSec
	levelsWalked int
	completed    bool
}

func newPruningHarness() *pruningHarness {
	h := &pruningHarness{}

	h.engine = sim.NewSerialEngine()
	h.addrMap = smc.NewAddressMap(4096, 64, 4) // FetchableLevels() == 3
	cfg := smc.Config{
		DataSpace: 4096,
		NodeSpace: 64,
		MTLevels:  4,
		MACCycle:  0,
		HashCycle: 2,
	}

	h.c = smc.MakeBuilder().
		WithEngine(h.engine).
		WithFreq(1 * sim.GHz).
		WithAddressMap(h.addrMap).
		WithConfig(cfg).
		Build("SMC")

	h.c.OnTransactionComplete = func(kind string, address uint64, chargeTime sim.VTimeInSec, levelsWalked int) {
		h.chargeTime = chargeTime
		h.levelsWalked = levelsWalked
		h.completed = true
	}

	h.cpu = newCPUAgent("CPU")

	sharedStorage := backingmem.NewStorage(h.addrMap.End())
	h.dataMem = backingmem.MakeBuilder().
		WithEngine(h.engine).WithFreq(1 * sim.GHz).WithLatency(10).
		WithStorage(sharedStorage).
		Build("DataMem")
	h.metaMem = backingmem.MakeBuilder().
		WithEngine(h.engine).WithFreq(1 * sim.GHz).WithLatency(10).
		WithStorage(sharedStorage).
		Build("MetaMem")

	cpuConn := sim.NewDirectConnection("CPUConn")
	cpuConn.PlugIn(h.cpu.Port)
	cpuConn.PlugIn(h.c.CPUPort)

	dataConn := sim.NewDirectConnection("DataConn")
	dataConn.PlugIn(h.c.DataPort)
	dataConn.PlugIn(h.dataMem.TopPort)

	metaConn := sim.NewDirectConnection("MetaConn")
	metaConn.PlugIn(h.c.MetaPort)
	metaConn.PlugIn(h.metaMem.TopPort)

	Expect(h.c.BindDownstreamRange(mem.AddressRange{
		LowAddress:  0,
		HighAddress: h.addrMap.End(),
	})).To(Succeed())

	return h
}

var _ = Describe("Merkle-walk pruning", func() {
	const address = uint64(128)
	const hashCycleLatency = sim.VTimeInSec(2000)

	It("short-circuits the read-path walk when an intermediate level reports access-depth zero", func() {
		full := newPruningHarness()

		fullReq := mem.ReadReqBuilder{}.
			WithSrc(full.cpu.Port).WithDst(full.c.CPUPort).
			WithAddress(address).WithByteSize(16).
			Build()
		fullReq.SendTime = 0
		Expect(full.cpu.Port.Send(fullReq)).To(BeNil())
		Expect(full.engine.Run()).To(Succeed())

		Expect(full.completed).To(BeTrue())
		Expect(full.levelsWalked).To(Equal(3))

		level2Addr, _ := full.addrMap.MTReadAddress(2, address)
		Expect(full.metaMem.RequestAddresses).To(ContainElement(level2Addr))

		pruned := newPruningHarness()
		level1Addr, _ := pruned.addrMap.MTReadAddress(1, address)
		pruned.metaMem.DepthHints[level1Addr] = 0

		prunedReq := mem.ReadReqBuilder{}.
			WithSrc(pruned.cpu.Port).WithDst(pruned.c.CPUPort).
			WithAddress(address).WithByteSize(16).
			Build()
		prunedReq.SendTime = 0
		Expect(pruned.cpu.Port.Send(prunedReq)).To(BeNil())
		Expect(pruned.engine.Run()).To(Succeed())

		Expect(pruned.completed).To(BeTrue())
		Expect(pruned.levelsWalked).To(Equal(2))
		Expect(pruned.chargeTime).To(Equal(full.chargeTime - hashCycleLatency))

		prunedLevel2Addr, _ := pruned.addrMap.MTReadAddress(2, address)
		Expect(pruned.metaMem.RequestAddresses).NotTo(ContainElement(prunedLevel2Addr))
	})

	It("short-circuits the write-path walk when an intermediate level's write reports access-depth zero", func() {
		data := []byte{1, 2, 3, 4}

		full := newPruningHarness()

		fullReq := mem.WriteReqBuilder{}.
			WithSrc(full.cpu.Port).WithDst(full.c.CPUPort).
			WithAddress(address).WithData(data).WithResponseRequired().
			Build()
		fullReq.SendTime = 0
		Expect(full.cpu.Port.Send(fullReq)).To(BeNil())
		Expect(full.engine.Run()).To(Succeed())

		Expect(full.completed).To(BeTrue())
		Expect(full.levelsWalked).To(Equal(3))

		level2WriteAddr, _ := full.addrMap.MTWriteAddress(2, address)
		Expect(full.metaMem.RequestAddresses).To(ContainElement(level2WriteAddr))

		pruned := newPruningHarness()
		level1WriteAddr, _ := pruned.addrMap.MTWriteAddress(1, address)
		pruned.metaMem.DepthHints[level1WriteAddr] = 0

		prunedReq := mem.WriteReqBuilder{}.
			WithSrc(pruned.cpu.Port).WithDst(pruned.c.CPUPort).
			WithAddress(address).WithData(data).WithResponseRequired().
			Build()
		prunedReq.SendTime = 0
		Expect(pruned.cpu.Port.Send(prunedReq)).To(BeNil())
		Expect(pruned.engine.Run()).To(Succeed())

		Expect(pruned.completed).To(BeTrue())
		Expect(pruned.levelsWalked).To(Equal(2))
		Expect(pruned.chargeTime).To(Equal(full.chargeTime - hashCycleLatency))

		prunedLevel2WriteAddr, _ := pruned.addrMap.MTWriteAddress(2, address)
		Expect(pruned.metaMem.RequestAddresses).NotTo(ContainElement(prunedLevel2WriteAddr))
	})
})
