package smc

import (
	"github.com/sarchlab/smc/mem"
	"github.com/sarchlab/smc/sim"
)

// startRead begins a read transaction: it captures A and C, fans out the
// original data access plus counter, MAC, and Merkle level-0 metadata
// reads, and transitions to Read.
func (c *Comp) startRead(now sim.VTimeInSec, req *mem.ReadReq) {
	c.state = stateRead
	rec := newTransactionRecord(c.AddressMap.FetchableLevels())
	rec.a = req.Address
	rec.c = counterOffset(req.Address)
	rec.requestorID = req.Meta().Src.Name()
	rec.responseRequired = true
	rec.origReq = req
	c.record = rec

	c.issueDataRead(now, req.Address, req.AccessByteSize)
	c.issueCounterRead(now, req.Address)
	c.issueMACRead(now, req.Address)
	c.issueMTRead(now, 0, req.Address)
}

func (c *Comp) issueDataRead(now sim.VTimeInSec, addr, size uint64) {
	req := mem.ReadReqBuilder{}.
		WithSrc(c.DataPort).
		WithAddress(addr).
		WithByteSize(size).
		Build()

	c.reqIndex[req.ID] = slotRole{kind: "data"}
	sendOrQueue(c.DataPort, &c.blockedData, req, now)
}

func (c *Comp) issueCounterRead(now sim.VTimeInSec, a uint64) {
	addr, size := c.AddressMap.CounterAddress(a)

	req := mem.ReadReqBuilder{}.
		WithSrc(c.MetaPort).
		WithAddress(addr).
		WithByteSize(size).
		Build()

	c.reqIndex[req.ID] = slotRole{kind: "counter"}
	sendOrQueue(c.MetaPort, &c.blockedMeta, req, now)
}

func (c *Comp) issueMACRead(now sim.VTimeInSec, a uint64) {
	addr, size := c.AddressMap.MACAddress(a)

	req := mem.ReadReqBuilder{}.
		WithSrc(c.MetaPort).
		WithAddress(addr).
		WithByteSize(size).
		Build()

	c.reqIndex[req.ID] = slotRole{kind: "mac"}
	sendOrQueue(c.MetaPort, &c.blockedMeta, req, now)
}

func (c *Comp) issueMTRead(now sim.VTimeInSec, level int, a uint64) {
	addr, size := c.AddressMap.MTReadAddress(level, a)

	req := mem.ReadReqBuilder{}.
		WithSrc(c.MetaPort).
		WithAddress(addr).
		WithByteSize(size).
		Build()

	c.reqIndex[req.ID] = slotRole{kind: "mt-read", level: level}
	sendOrQueue(c.MetaPort, &c.blockedMeta, req, now)
}

// handleReadResponse folds one arrived response into the current read
// transaction's record, per §4.3.
func (c *Comp) handleReadResponse(now sim.VTimeInSec, role slotRole, rsp mem.AccessRsp) {
	rec := c.record

	switch role.kind {
	case "data":
		c.checkAddress(rsp, rec.a, "data response")
		rec.responsePkt = rsp

	case "counter":
		expected, _ := c.AddressMap.CounterAddress(rec.a)
		c.checkAddress(rsp, expected, "counter response")
		rec.counterPkt = rsp
		rec.bumpChargeTime(now + c.Config.hashLatency())

	case "mac":
		expected, _ := c.AddressMap.MACAddress(rec.a)
		c.checkAddress(rsp, expected, "MAC response")
		rec.macPkt = rsp

	case "mt-read":
		expected, _ := c.AddressMap.MTReadAddress(role.level, rec.a)
		c.checkAddress(rsp, expected, "Merkle read response")
		rec.mtPkts[role.level] = rsp
		rec.addChargeTime(c.Config.hashLatency())

		depth := accessDepthOf(rsp)
		if depth == 0 {
			if rec.terminalLevel < 0 || role.level < rec.terminalLevel {
				rec.terminalLevel = role.level
			}
		} else if role.level < c.AddressMap.FetchableLevels()-1 {
			c.issueMTRead(now, role.level+1, rec.a)
		}

	default:
		panic(NewProtocolError("unexpected slot role on the read path: " + role.kind))
	}

	if rec.responsePkt != nil && rec.counterPkt != nil && rec.macPkt != nil {
		rec.addChargeTime(c.Config.macLatency())
	}

	if rec.readComplete() {
		c.checkMTAddresses(rec, false)
		c.Engine.Schedule(newReadVerFinishedEvent(rec.chargeTime, c))
	}
}

// checkMTAddresses sanity-checks every filled Merkle slot's address
// against the expected address for its level, per §4.3's "sanity-check
// each filled mtPkts[i]" step.
func (c *Comp) checkMTAddresses(rec *transactionRecord, write bool) {
	for i, pkt := range rec.mtPkts {
		if pkt == nil {
			continue
		}

		var expected uint64
		if write {
			expected, _ = c.AddressMap.MTWriteAddress(i, rec.a)
		} else {
			expected, _ = c.AddressMap.MTReadAddress(i, rec.a)
		}

		c.checkAddress(pkt, expected, "Merkle response sanity check")
	}
}

func (c *Comp) checkAddress(rsp mem.AccessRsp, expected uint64, what string) {
	var got uint64

	switch r := rsp.(type) {
	case *mem.DataReadyRsp:
		got = r.Address
	case *mem.WriteDoneRsp:
		got = r.Address
	default:
		panic(NewProtocolError("unrecognised response type in " + what))
	}

	if got != expected {
		panic(NewProtocolError(what + ": address does not match the derived address for the current transaction"))
	}
}

func accessDepthOf(rsp mem.AccessRsp) int {
	switch r := rsp.(type) {
	case *mem.DataReadyRsp:
		return r.AccessDepth
	case *mem.WriteDoneRsp:
		return r.AccessDepth
	default:
		return 0
	}
}

// fireReadVerFinished attempts to forward the completed read's response
// upstream; on success it returns to Idle.
func (c *Comp) fireReadVerFinished(now sim.VTimeInSec) {
	rec := c.record

	rsp := mem.DataReadyRspBuilder{}.
		WithSrc(c.CPUPort).
		WithDst(rec.origReq.Meta().Src).
		WithRspTo(rec.origReq.Meta().ID).
		WithAddress(rec.a).
		WithData(rec.responsePkt.(*mem.DataReadyRsp).Data).
		Build()

	levelsWalked := c.levelsWalked(rec)

	if err := c.CPUPort.Send(rsp); err != nil {
		msg := sim.Msg(rsp)
		c.blockedCPU = &blockedSend{resend: func(now sim.VTimeInSec) bool {
			msg.Meta().SendTime = now
			if c.CPUPort.Send(msg) != nil {
				return false
			}

			c.finishRead(now, rec, levelsWalked)

			return true
		}}

		return
	}

	c.finishRead(now, rec, levelsWalked)
}

func (c *Comp) finishRead(now sim.VTimeInSec, rec *transactionRecord, levelsWalked int) {
	if c.OnTransactionComplete != nil {
		c.OnTransactionComplete("read", rec.a, rec.chargeTime, levelsWalked)
	}

	c.goIdle(now)
}

func (c *Comp) levelsWalked(rec *transactionRecord) int {
	if rec.terminalLevel >= 0 {
		return rec.terminalLevel + 1
	}

	return len(rec.mtPkts)
}
