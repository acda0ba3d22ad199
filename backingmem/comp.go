// Package backingmem implements an ideal, fixed-latency memory model used
// both as the data backing store and as the metadata backing store
// (counters, MACs, and Merkle-tree nodes) behind a secure memory
// controller.
package backingmem

import (
	"log"
	"reflect"

	"github.com/sarchlab/smc/mem"
	"github.com/sarchlab/smc/sim"
)

type readRespondEvent struct {
	*sim.EventBase
	req *mem.ReadReq
}

func newReadRespondEvent(t sim.VTimeInSec, h sim.Handler, req *mem.ReadReq) *readRespondEvent {
	return &readRespondEvent{sim.NewEventBase(t, h), req}
}

type writeRespondEvent struct {
	*sim.EventBase
	req *mem.WriteReq
}

func newWriteRespondEvent(t sim.VTimeInSec, h sim.Handler, req *mem.WriteReq) *writeRespondEvent {
	return &writeRespondEvent{sim.NewEventBase(t, h), req}
}

// Comp is an ideal memory controller: every request completes exactly
// Latency cycles after it is accepted, with no bandwidth limit and no
// queuing beyond the port's buffer.
type Comp struct {
	*sim.ComponentBase

	TopPort sim.Port
	Storage *Storage
	Engine  sim.Engine
	Freq    sim.Freq
	Latency int

	// DepthHints lets a test harness model a cache hierarchy this ideal
	// memory does not otherwise simulate: a response to an access at
	// address a reports AccessDepth DepthHints[a] if present, else
	// DefaultAccessDepth. A depth of 0 means "served from a high-level
	// cache", authorizing the requestor to prune a Merkle-tree walk.
	DepthHints         map[uint64]int
	DefaultAccessDepth int

	// RequestAddresses records the address of every request this Comp has
	// received, in arrival order, so a test harness can assert exactly
	// which addresses a caller did or did not touch.
	RequestAddresses []uint64
}

// NewComp creates a Comp with the given name, storage capacity, and fixed
// per-request latency in cycles.
func NewComp(name string, engine sim.Engine, freq sim.Freq, capacityBytes uint64, latency int) *Comp {
	c := &Comp{
		ComponentBase: sim.NewComponentBase(name),
		Storage:       NewStorage(capacityBytes),
		Engine:        engine,
		Freq:          freq,
		Latency:       latency,
	}

	c.TopPort = sim.NewLimitNumMsgPort(c, 16, name+".TopPort")
	c.AddPort("Top", c.TopPort)
	c.DepthHints = make(map[uint64]int)
	c.DefaultAccessDepth = 1

	return c
}

func (c *Comp) depthFor(address uint64) int {
	if d, ok := c.DepthHints[address]; ok {
		return d
	}

	return c.DefaultAccessDepth
}

// Handle dispatches a scheduled event to the matching handler.
func (c *Comp) Handle(e sim.Event) error {
	switch e := e.(type) {
	case *readRespondEvent:
		return c.handleReadRespondEvent(e)
	case *writeRespondEvent:
		return c.handleWriteRespondEvent(e)
	default:
		log.Panicf("backingmem.Comp cannot handle event of type %s", reflect.TypeOf(e))
	}

	return nil
}

// NotifyRecv is called when a request has arrived on TopPort.
func (c *Comp) NotifyRecv(now sim.VTimeInSec, port sim.Port) {
	msg := port.Retrieve(now)
	if msg == nil {
		return
	}

	switch req := msg.(type) {
	case *mem.ReadReq:
		c.RequestAddresses = append(c.RequestAddresses, req.Address)
		t := c.Freq.NCyclesLater(c.Latency, now)
		c.Engine.Schedule(newReadRespondEvent(t, c, req))
	case *mem.WriteReq:
		c.RequestAddresses = append(c.RequestAddresses, req.Address)
		t := c.Freq.NCyclesLater(c.Latency, now)
		c.Engine.Schedule(newWriteRespondEvent(t, c, req))
	default:
		log.Panicf("backingmem.Comp cannot handle request of type %s", reflect.TypeOf(req))
	}
}

// NotifyPortFree retries nothing here: Comp never blocks on a Send to its
// own TopPort's peer outside of the respond events, which reschedule
// themselves on failure.
func (c *Comp) NotifyPortFree(now sim.VTimeInSec, port sim.Port) {}

func (c *Comp) handleReadRespondEvent(e *readRespondEvent) error {
	now := e.Time()
	req := e.req

	data, err := c.Storage.Read(req.Address, req.AccessByteSize)
	if err != nil {
		log.Panic(err)
	}

	rsp := mem.DataReadyRspBuilder{}.
		WithSrc(c.TopPort).
		WithDst(req.Src).
		WithRspTo(req.ID).
		WithAddress(req.Address).
		WithData(data).
		WithAccessDepth(c.depthFor(req.Address)).
		Build()
	rsp.SendTime = now

	if err := c.TopPort.Send(rsp); err != nil {
		c.Engine.Schedule(newReadRespondEvent(c.Freq.NextTick(now), c, req))
		return nil
	}

	return nil
}

func (c *Comp) handleWriteRespondEvent(e *writeRespondEvent) error {
	now := e.Time()
	req := e.req

	rsp := mem.WriteDoneRspBuilder{}.
		WithSrc(c.TopPort).
		WithDst(req.Src).
		WithRspTo(req.ID).
		WithAddress(req.Address).
		WithAccessDepth(c.depthFor(req.Address)).
		Build()
	rsp.SendTime = now

	if err := c.TopPort.Send(rsp); err != nil {
		c.Engine.Schedule(newWriteRespondEvent(c.Freq.NextTick(now), c, req))
		return nil
	}

	if err := c.Storage.Write(req.Address, req.Data); err != nil {
		log.Panic(err)
	}

	return nil
}
