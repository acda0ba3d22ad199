package smc

import (
	"github.com/sarchlab/smc/mem"
	"github.com/sarchlab/smc/sim"
)

// state is the orchestrator's tagged-variant lifecycle: Idle has no
// record; Read and Write each carry a transactionRecord with the slots
// appropriate to that path.
type state int

const (
	stateIdle state = iota
	stateRead
	stateWrite
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateRead:
		return "Read"
	case stateWrite:
		return "Write"
	default:
		return "Unknown"
	}
}

// transactionRecord holds everything in flight for a single transaction.
// It is logically owned by the orchestrator and is only ever touched while
// state is Read or Write; it is discarded the moment the orchestrator
// returns to Idle.
type transactionRecord struct {
	a                 uint64 // verified data address
	c                 uint64 // counter offset, A>>6
	requestorID       string
	responseRequired  bool
	origReq           mem.AccessReq

	responsePkt mem.AccessRsp
	counterPkt  mem.AccessRsp
	macPkt      mem.AccessRsp

	// mtPkts[i] is the last response observed for Merkle level i (0-based,
	// leaves first). On the read path, a filled slot means the level's
	// authentication read has returned. On the write path, a filled slot
	// means that level's write has been acknowledged.
	mtPkts []mem.AccessRsp

	// terminalLevel is the first level (from the bottom) whose response
	// reported access-depth zero, i.e. where the walk stopped because an
	// upper cache already vouches for everything above. -1 means no such
	// level has been observed yet.
	terminalLevel int

	chargeTime sim.VTimeInSec
}

func newTransactionRecord(fetchableLevels int) *transactionRecord {
	return &transactionRecord{
		mtPkts:        make([]mem.AccessRsp, fetchableLevels),
		terminalLevel: -1,
	}
}

// bumpChargeTime advances chargeTime to at least t; chargeTime is
// monotonic non-decreasing by construction.
func (r *transactionRecord) bumpChargeTime(t sim.VTimeInSec) {
	if t > r.chargeTime {
		r.chargeTime = t
	}
}

// addChargeTime adds a fixed cost to chargeTime (e.g. a hash or MAC op
// that must be paid regardless of how early the dependency resolved).
func (r *transactionRecord) addChargeTime(d sim.VTimeInSec) {
	r.chargeTime += d
}

// mtLevelDone reports whether level i is considered settled for read-path
// completion purposes: either it has its own response, or some lower
// level already reported access-depth zero (pruning the walk above it).
func (r *transactionRecord) mtLevelDone(i int) bool {
	if r.terminalLevel >= 0 && i > r.terminalLevel {
		return true
	}

	return r.mtPkts[i] != nil
}

// readComplete reports whether every slot required for the read-path
// completion law is present.
func (r *transactionRecord) readComplete() bool {
	if r.responsePkt == nil || r.counterPkt == nil || r.macPkt == nil {
		return false
	}

	for i := range r.mtPkts {
		if !r.mtLevelDone(i) {
			return false
		}
	}

	return true
}

// writeComplete reports whether every slot required for the write-path
// completion law is present.
func (r *transactionRecord) writeComplete() bool {
	if r.counterPkt == nil || r.macPkt == nil {
		return false
	}

	if r.responseRequired && r.responsePkt == nil {
		return false
	}

	for i := range r.mtPkts {
		if !r.mtLevelDone(i) {
			return false
		}
	}

	return true
}

// firstEmptyMTWriteLevel scans for the first not-yet-written Merkle level.
// Returns -1 if every level is already written.
func (r *transactionRecord) firstEmptyMTWriteLevel() int {
	for i, pkt := range r.mtPkts {
		if pkt == nil {
			return i
		}
	}

	return -1
}
