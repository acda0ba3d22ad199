package smc

import "github.com/sarchlab/smc/sim"

// RetryReq is sent upstream to tell the CPU-side requestor that a request
// it sent earlier was rejected while the orchestrator was busy and should
// be resent now that the controller is idle again.
type RetryReq struct {
	sim.MsgMeta
}

// Meta returns the message meta data.
func (r *RetryReq) Meta() *sim.MsgMeta { return &r.MsgMeta }

func newRetryReq(src, dst sim.Port, now sim.VTimeInSec) *RetryReq {
	r := &RetryReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = src
	r.Dst = dst
	r.SendTime = now

	return r
}

// RangeChangeNotice is sent upstream whenever the downstream data range
// changes, so the requestor can re-learn the advertised address range.
type RangeChangeNotice struct {
	sim.MsgMeta
}

// Meta returns the message meta data.
func (n *RangeChangeNotice) Meta() *sim.MsgMeta { return &n.MsgMeta }

func newRangeChangeNotice(src, dst sim.Port, now sim.VTimeInSec) *RangeChangeNotice {
	n := &RangeChangeNotice{}
	n.ID = sim.GetIDGenerator().Generate()
	n.Src = src
	n.Dst = dst
	n.SendTime = now

	return n
}
