// Package smc implements the verification-state-machine and
// metadata-traffic orchestrator at the heart of a secure memory
// controller: for every data request it derives the counter, MAC, and
// Merkle-tree node addresses, fans out the metadata traffic, correlates
// the (possibly out-of-order) responses, accounts for cryptographic
// latency, and emits the final response at the resulting charge time.
package smc

import (
	"log"
	"reflect"

	"github.com/sarchlab/smc/mem"
	"github.com/sarchlab/smc/sim"
)

// slotRole identifies which transaction slot an outstanding request will
// fill once its response arrives.
type slotRole struct {
	kind  string // "data", "counter", "mac", "mt-read", "mt-write", "mt-probe"
	level int    // meaningful for the mt-* kinds
}

// blockedSend is a request or response the orchestrator tried to send and
// could not; resend replays the same send when the port frees up.
type blockedSend struct {
	resend func(now sim.VTimeInSec) bool
}

// Comp is the secure memory controller orchestrator. It exposes a
// CPU-side port, a data-side port, and a metadata-side port, and drives
// at most one transaction at a time.
type Comp struct {
	*sim.ComponentBase

	CPUPort  sim.Port
	DataPort sim.Port
	MetaPort sim.Port

	Engine sim.Engine
	Freq   sim.Freq

	AddressMap *AddressMap
	Config     Config

	state  state
	record *transactionRecord

	// needRetry is set whenever a request is rejected because the
	// orchestrator was not Idle, and cleared once the corresponding
	// upstream retry-request has been emitted.
	needRetry bool

	// reqIndex maps an outstanding metadata/data request ID to the slot it
	// will fill once its response arrives.
	reqIndex map[string]slotRole

	blockedCPU *blockedSend

	// blockedData/blockedMeta are queues rather than a single slot: the
	// read-path fan-out issues several metadata sub-requests on the same
	// port before any of them can complete, so more than one may be
	// waiting on a transport retry at once. Each still represents "a send
	// that transport refused and must be replayed unchanged".
	blockedData []*blockedSend
	blockedMeta []*blockedSend

	downstreamRange mem.AddressRange
	rangeBound      bool

	// OnTransactionComplete, if set, is invoked once per finished
	// transaction (read or write) with its kind and final charge time.
	// This is how an external trace recorder observes completions without
	// the orchestrator owning any persisted state of its own.
	OnTransactionComplete func(kind string, address uint64, chargeTime sim.VTimeInSec, levelsWalked int)
}

// NewComp creates an unwired Comp. BindDownstreamRange must be called
// before the first request is processed.
func NewComp(name string, engine sim.Engine, freq sim.Freq, addrMap *AddressMap, cfg Config) *Comp {
	c := &Comp{
		ComponentBase: sim.NewComponentBase(name),
		Engine:        engine,
		Freq:          freq,
		AddressMap:    addrMap,
		Config:        cfg,
		state:         stateIdle,
		reqIndex:      make(map[string]slotRole),
	}

	c.CPUPort = sim.NewLimitNumMsgPort(c, 1, name+".CPUPort")
	c.DataPort = sim.NewLimitNumMsgPort(c, 4, name+".DataPort")
	c.MetaPort = sim.NewLimitNumMsgPort(c, 4, name+".MetaPort")
	c.AddPort("CPU", c.CPUPort)
	c.AddPort("Data", c.DataPort)
	c.AddPort("Meta", c.MetaPort)

	return c
}

// Handle dispatches a scheduled event to the matching handler.
func (c *Comp) Handle(e sim.Event) error {
	switch e := e.(type) {
	case *readVerFinishedEvent:
		c.fireReadVerFinished(e.Time())
	case *writeVerFinishedEvent:
		c.fireWriteVerFinished(e.Time())
	case *sendMacWriteEvent:
		c.fireSendMacWrite(e.Time())
	case *sendNextMtWriteEvent:
		c.fireSendNextMtWrite(e.Time())
	default:
		log.Panicf("smc.Comp cannot handle event of type %s", reflect.TypeOf(e))
	}

	return nil
}

// NotifyRecv is called whenever a message has arrived on one of the three
// ports; it retrieves the message and routes it to the right handler.
func (c *Comp) NotifyRecv(now sim.VTimeInSec, port sim.Port) {
	msg := port.Retrieve(now)
	if msg == nil {
		return
	}

	switch port {
	case c.CPUPort:
		c.handleCPURequest(now, msg.(mem.AccessReq))
	case c.DataPort:
		c.handleDownstreamResponse(now, msg.(mem.AccessRsp))
	case c.MetaPort:
		c.handleDownstreamResponse(now, msg.(mem.AccessRsp))
	default:
		log.Panicf("smc.Comp received a message on an unknown port")
	}
}

// NotifyPortFree retries whichever send(s) were previously blocked on
// port, in FIFO order, stopping at the first one that fails again.
func (c *Comp) NotifyPortFree(now sim.VTimeInSec, port sim.Port) {
	switch port {
	case c.CPUPort:
		if c.blockedCPU != nil && c.blockedCPU.resend(now) {
			c.blockedCPU = nil
		}
	case c.DataPort:
		c.blockedData = drainBlocked(c.blockedData, now)
	case c.MetaPort:
		c.blockedMeta = drainBlocked(c.blockedMeta, now)
	}
}

// drainBlocked replays queued sends in order, stopping at (and keeping)
// the first one that fails again.
func drainBlocked(queue []*blockedSend, now sim.VTimeInSec) []*blockedSend {
	for len(queue) > 0 {
		if !queue[0].resend(now) {
			break
		}

		queue = queue[1:]
	}

	return queue
}

// sendOrQueue sends msg on port immediately, unless earlier sends on the
// same port are still queued for retry, in which case msg joins the back
// of the queue unchanged. On any send failure, msg is retried unmodified
// (save for a refreshed SendTime) the next time the port frees up.
func sendOrQueue(port sim.Port, queue *[]*blockedSend, msg sim.Msg, now sim.VTimeInSec) {
	resend := func(now sim.VTimeInSec) bool {
		msg.Meta().SendTime = now
		return port.Send(msg) == nil
	}

	if len(*queue) > 0 {
		*queue = append(*queue, &blockedSend{resend: resend})
		return
	}

	msg.Meta().SendTime = now

	if err := port.Send(msg); err != nil {
		*queue = append(*queue, &blockedSend{resend: resend})
	}
}

// handleCPURequest implements invariant 1: a request is only accepted
// while Idle; otherwise it is dropped and needRetry is set.
func (c *Comp) handleCPURequest(now sim.VTimeInSec, req mem.AccessReq) {
	if c.state != stateIdle {
		c.needRetry = true
		return
	}

	switch req := req.(type) {
	case *mem.ReadReq:
		c.startRead(now, req)
	case *mem.WriteReq:
		c.startWrite(now, req)
	default:
		log.Panicf("smc.Comp received an unsupported CPU-side request type %s", reflect.TypeOf(req))
	}
}

// handleDownstreamResponse correlates a data- or metadata-side response
// against the role recorded for its request ID, then dispatches into the
// read- or write-path handler appropriate for the current state.
func (c *Comp) handleDownstreamResponse(now sim.VTimeInSec, rsp mem.AccessRsp) {
	role, found := c.reqIndex[rsp.GetRspTo()]
	if !found {
		panic(NewProtocolError("response does not match any outstanding request for the current transaction"))
	}

	delete(c.reqIndex, rsp.GetRspTo())

	switch c.state {
	case stateRead:
		c.handleReadResponse(now, role, rsp)
	case stateWrite:
		c.handleWriteResponse(now, role, rsp)
	default:
		panic(NewProtocolError("received a downstream response while idle"))
	}
}

// goIdle tears down the transaction record and, if a request was rejected
// since the last time the orchestrator went idle, emits an upstream
// retry-request.
func (c *Comp) goIdle(now sim.VTimeInSec) {
	c.state = stateIdle
	c.record = nil
	c.reqIndex = make(map[string]slotRole)

	if c.needRetry && c.blockedCPU == nil {
		c.sendRetryReq(now)
	}
}

func (c *Comp) sendRetryReq(now sim.VTimeInSec) {
	req := newRetryReq(c.CPUPort, nil, now)

	if err := c.CPUPort.Send(req); err != nil {
		c.blockedCPU = &blockedSend{resend: func(now sim.VTimeInSec) bool {
			retry := newRetryReq(c.CPUPort, nil, now)
			if c.CPUPort.Send(retry) != nil {
				return false
			}

			c.needRetry = false

			return true
		}}

		return
	}

	c.needRetry = false
}
