package smc

import "github.com/sarchlab/smc/sim"

// readVerFinishedEvent fires when a read transaction's verification
// latency has fully accumulated; on firing, the orchestrator attempts to
// forward the response upstream.
type readVerFinishedEvent struct {
	*sim.EventBase
}

func newReadVerFinishedEvent(t sim.VTimeInSec, h sim.Handler) *readVerFinishedEvent {
	return &readVerFinishedEvent{sim.NewEventBase(t, h)}
}

// writeVerFinishedEvent fires when a write transaction's verification
// latency has fully accumulated.
type writeVerFinishedEvent struct {
	*sim.EventBase
}

func newWriteVerFinishedEvent(t sim.VTimeInSec, h sim.Handler) *writeVerFinishedEvent {
	return &writeVerFinishedEvent{sim.NewEventBase(t, h)}
}

// sendMacWriteEvent fires MAC_CYCLE*1000 ticks after a write's counter
// response arrives, triggering the re-MAC write.
type sendMacWriteEvent struct {
	*sim.EventBase
}

func newSendMacWriteEvent(t sim.VTimeInSec, h sim.Handler) *sendMacWriteEvent {
	return &sendMacWriteEvent{sim.NewEventBase(t, h)}
}

// sendNextMtWriteEvent fires HASH_CYCLE*1000 ticks after the previous
// Merkle-tree step on the write path, triggering the next not-yet-written
// level's write. The read probe that follows a write is issued when that
// write's acknowledgement arrives, not by this event.
type sendNextMtWriteEvent struct {
	*sim.EventBase
}

func newSendNextMtWriteEvent(t sim.VTimeInSec, h sim.Handler) *sendNextMtWriteEvent {
	return &sendNextMtWriteEvent{sim.NewEventBase(t, h)}
}
