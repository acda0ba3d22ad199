package smc

import (
	"github.com/sarchlab/smc/mem"
	"github.com/sarchlab/smc/sim"
)

// startWrite begins a write transaction: it issues the original data
// write and a counter read only; MAC and Merkle-tree traffic follow once
// the counter response arrives (§4.4).
func (c *Comp) startWrite(now sim.VTimeInSec, req *mem.WriteReq) {
	c.state = stateWrite
	rec := newTransactionRecord(c.AddressMap.FetchableLevels())
	rec.a = req.Address
	rec.c = counterOffset(req.Address)
	rec.requestorID = req.Meta().Src.Name()
	rec.responseRequired = req.ResponseRequired
	rec.origReq = req
	c.record = rec

	c.issueDataWrite(now, req)
	c.issueCounterRead(now, req.Address)
}

func (c *Comp) issueDataWrite(now sim.VTimeInSec, orig *mem.WriteReq) {
	req := mem.WriteReqBuilder{}.
		WithSrc(c.DataPort).
		WithAddress(orig.Address).
		WithData(orig.Data).
		Build()

	c.reqIndex[req.ID] = slotRole{kind: "data"}
	sendOrQueue(c.DataPort, &c.blockedData, req, now)
}

func (c *Comp) issueMACWrite(now sim.VTimeInSec, a uint64) {
	addr, size := c.AddressMap.MACAddress(a)

	req := mem.WriteReqBuilder{}.
		WithSrc(c.MetaPort).
		WithAddress(addr).
		WithData(make([]byte, size)).
		Build()

	c.reqIndex[req.ID] = slotRole{kind: "mac"}
	sendOrQueue(c.MetaPort, &c.blockedMeta, req, now)
}

func (c *Comp) issueMTWrite(now sim.VTimeInSec, level int, a uint64) {
	addr, size := c.AddressMap.MTWriteAddress(level, a)

	req := mem.WriteReqBuilder{}.
		WithSrc(c.MetaPort).
		WithAddress(addr).
		WithData(make([]byte, size)).
		Build()

	c.reqIndex[req.ID] = slotRole{kind: "mt-write", level: level}
	sendOrQueue(c.MetaPort, &c.blockedMeta, req, now)
}

func (c *Comp) issueMTProbe(now sim.VTimeInSec, level int, a uint64) {
	addr, size := c.AddressMap.MTReadAddress(level, a)

	req := mem.ReadReqBuilder{}.
		WithSrc(c.MetaPort).
		WithAddress(addr).
		WithByteSize(size).
		Build()

	c.reqIndex[req.ID] = slotRole{kind: "mt-probe", level: level}
	sendOrQueue(c.MetaPort, &c.blockedMeta, req, now)
}

// handleWriteResponse folds one arrived response into the current write
// transaction's record, per §4.4.
func (c *Comp) handleWriteResponse(now sim.VTimeInSec, role slotRole, rsp mem.AccessRsp) {
	rec := c.record

	switch role.kind {
	case "data":
		c.checkAddress(rsp, rec.a, "data write acknowledgement")

		if rec.responseRequired {
			rec.responsePkt = rsp
		}

		rec.bumpChargeTime(now)

	case "counter":
		expected, _ := c.AddressMap.CounterAddress(rec.a)
		c.checkAddress(rsp, expected, "counter response")
		rec.counterPkt = rsp

		c.Engine.Schedule(newSendMacWriteEvent(now+c.Config.macLatency(), c))
		c.Engine.Schedule(newSendNextMtWriteEvent(now+c.Config.hashLatency(), c))

	case "mac":
		expected, _ := c.AddressMap.MACAddress(rec.a)
		c.checkAddress(rsp, expected, "MAC write response")
		rec.macPkt = rsp
		rec.bumpChargeTime(now)

	case "mt-write":
		c.handleMTWriteResponse(now, role.level, rsp)

	case "mt-probe":
		c.handleMTProbeResponse(now, role.level, rsp)

	default:
		panic(NewProtocolError("unexpected slot role on the write path: " + role.kind))
	}

	c.maybeCompleteWrite(now)
}

func (c *Comp) handleMTWriteResponse(now sim.VTimeInSec, level int, rsp mem.AccessRsp) {
	rec := c.record

	expected, _ := c.AddressMap.MTWriteAddress(level, rec.a)
	c.checkAddress(rsp, expected, "Merkle write response")
	rec.mtPkts[level] = rsp

	if accessDepthOf(rsp) == 0 {
		if rec.terminalLevel < 0 || level < rec.terminalLevel {
			rec.terminalLevel = level
		}

		rec.addChargeTime(c.Config.hashLatency())

		return
	}

	c.issueMTProbe(now, level, rec.a)
}

func (c *Comp) handleMTProbeResponse(now sim.VTimeInSec, level int, rsp mem.AccessRsp) {
	rec := c.record

	if rec.mtPkts[level] == nil {
		panic(NewProtocolError("Merkle-tree probe arrived before its level's write was acknowledged"))
	}

	expected, _ := c.AddressMap.MTReadAddress(level, rec.a)
	c.checkAddress(rsp, expected, "Merkle-tree access-depth probe")

	rec.addChargeTime(c.Config.hashLatency())

	if level == c.AddressMap.FetchableLevels()-1 {
		return
	}

	c.Engine.Schedule(newSendNextMtWriteEvent(now+c.Config.hashLatency(), c))
}

func (c *Comp) maybeCompleteWrite(now sim.VTimeInSec) {
	rec := c.record

	if !rec.writeComplete() {
		return
	}

	// A level's write acknowledgement fills its slot before the follow-up
	// probe returns, and an unrequired data acknowledgement may still be in
	// flight; the transaction only completes once nothing is outstanding.
	if len(c.reqIndex) > 0 {
		return
	}

	c.checkMTAddresses(rec, true)
	c.Engine.Schedule(newWriteVerFinishedEvent(rec.chargeTime, c))
}

// fireSendMacWrite issues the re-MAC write MAC_CYCLE·1000 ticks after the
// counter response arrived.
func (c *Comp) fireSendMacWrite(now sim.VTimeInSec) {
	c.issueMACWrite(now, c.record.a)
}

// fireSendNextMtWrite scans for the first not-yet-written Merkle level and
// issues its write. Finding none is a ProtocolError: the write path is
// sequential and this helper should never be invoked once every level is
// settled.
func (c *Comp) fireSendNextMtWrite(now sim.VTimeInSec) {
	rec := c.record

	level := rec.firstEmptyMTWriteLevel()
	if level < 0 {
		panic(NewProtocolError("sendNextMtWrite found no empty Merkle-tree slot to write"))
	}

	c.issueMTWrite(now, level, rec.a)
}

// fireWriteVerFinished attempts to forward the completed write's response
// upstream (if one was required); on success, or if none was required, it
// returns to Idle.
func (c *Comp) fireWriteVerFinished(now sim.VTimeInSec) {
	rec := c.record

	levelsWalked := c.levelsWalked(rec)

	if !rec.responseRequired {
		c.finishWrite(now, rec, levelsWalked)
		return
	}

	rsp := mem.WriteDoneRspBuilder{}.
		WithSrc(c.CPUPort).
		WithDst(rec.origReq.Meta().Src).
		WithRspTo(rec.origReq.Meta().ID).
		WithAddress(rec.a).
		Build()

	if err := c.CPUPort.Send(rsp); err != nil {
		msg := sim.Msg(rsp)
		c.blockedCPU = &blockedSend{resend: func(now sim.VTimeInSec) bool {
			msg.Meta().SendTime = now
			if c.CPUPort.Send(msg) != nil {
				return false
			}

			c.finishWrite(now, rec, levelsWalked)

			return true
		}}

		return
	}

	c.finishWrite(now, rec, levelsWalked)
}

func (c *Comp) finishWrite(now sim.VTimeInSec, rec *transactionRecord, levelsWalked int) {
	if c.OnTransactionComplete != nil {
		c.OnTransactionComplete("write", rec.a, rec.chargeTime, levelsWalked)
	}

	c.goIdle(now)
}
