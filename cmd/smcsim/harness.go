package main

import (
	"github.com/sarchlab/smc/backingmem"
	"github.com/sarchlab/smc/mem"
	"github.com/sarchlab/smc/sim"
	"github.com/sarchlab/smc/smc"
)

// driver is a CPU-side test agent: it issues requests when a scenario asks
// it to and records every response it receives, the way cpuAgent does in
// the smc package's own tests.
type driver struct {
	*sim.ComponentBase

	Port     sim.Port
	Received []sim.Msg
}

func newDriver(name string) *driver {
	d := &driver{ComponentBase: sim.NewComponentBase(name)}
	d.Port = sim.NewLimitNumMsgPort(d, 4, name+".Port")
	d.AddPort("Port", d.Port)

	return d
}

func (d *driver) Handle(_ sim.Event) error { return nil }

func (d *driver) NotifyRecv(now sim.VTimeInSec, port sim.Port) {
	msg := port.Retrieve(now)
	if msg == nil {
		return
	}

	d.Received = append(d.Received, msg)
}

func (d *driver) NotifyPortFree(_ sim.VTimeInSec, _ sim.Port) {}

// harness wires one Comp to a CPU driver and a shared backing store, ready
// to run the §8 scenarios against.
type harness struct {
	engine  *sim.SerialEngine
	addrMap *smc.AddressMap
	smc     *smc.Comp
	cpu     *driver
	dataMem *backingmem.Comp
	metaMem *backingmem.Comp
}

// onTransactionComplete, when set by the run command, is wired into every
// harness's Comp so a trace store sees real per-transaction completions
// rather than one synthetic row per scenario.
var onTransactionComplete func(kind string, address uint64, chargeTime sim.VTimeInSec, levelsWalked int)

func newHarness(cfg smc.Config) *harness {
	engine := sim.NewSerialEngine()
	addrMap := smc.NewAddressMap(cfg.DataSpace, cfg.NodeSpace, cfg.MTLevels)

	c := smc.MakeBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithAddressMap(addrMap).
		WithConfig(cfg).
		Build("SMC")
	c.OnTransactionComplete = onTransactionComplete

	cpu := newDriver("CPU")

	storage := backingmem.NewStorage(addrMap.End())
	dataMem := backingmem.MakeBuilder().
		WithEngine(engine).WithFreq(1 * sim.GHz).WithLatency(10).
		WithStorage(storage).Build("DataMem")
	metaMem := backingmem.MakeBuilder().
		WithEngine(engine).WithFreq(1 * sim.GHz).WithLatency(10).
		WithStorage(storage).Build("MetaMem")

	cpuConn := sim.NewDirectConnection("CPUConn")
	cpuConn.PlugIn(cpu.Port)
	cpuConn.PlugIn(c.CPUPort)

	dataConn := sim.NewDirectConnection("DataConn")
	dataConn.PlugIn(c.DataPort)
	dataConn.PlugIn(dataMem.TopPort)

	metaConn := sim.NewDirectConnection("MetaConn")
	metaConn.PlugIn(c.MetaPort)
	metaConn.PlugIn(metaMem.TopPort)

	if err := c.BindDownstreamRange(mem.AddressRange{LowAddress: 0, HighAddress: addrMap.End()}); err != nil {
		panic(err)
	}

	return &harness{
		engine:  engine,
		addrMap: addrMap,
		smc:     c,
		cpu:     cpu,
		dataMem: dataMem,
		metaMem: metaMem,
	}
}

func (h *harness) sendRead(address uint64) *sim.SendError {
	req := mem.ReadReqBuilder{}.
		WithSrc(h.cpu.Port).
		WithDst(h.smc.CPUPort).
		WithAddress(address).
		WithByteSize(64).
		Build()
	req.SendTime = h.engine.CurrentTime()

	return h.cpu.Port.Send(req)
}

func (h *harness) sendWrite(address uint64, data []byte, responseRequired bool) *sim.SendError {
	b := mem.WriteReqBuilder{}.
		WithSrc(h.cpu.Port).
		WithDst(h.smc.CPUPort).
		WithAddress(address).
		WithData(data)

	if responseRequired {
		b = b.WithResponseRequired()
	}

	req := b.Build()
	req.SendTime = h.engine.CurrentTime()

	return h.cpu.Port.Send(req)
}
