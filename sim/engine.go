package sim

import (
	"container/heap"
	"sync"
)

// An Engine drives the simulation forward by dispatching Events to their
// Handlers in non-decreasing time order.
type Engine interface {
	// Schedule enqueues an event for future dispatch.
	Schedule(e Event)

	// Run dispatches every scheduled event, in time order, until the queue
	// is empty.
	Run() error

	// CurrentTime returns the time of the event currently (or most
	// recently) being processed.
	CurrentTime() VTimeInSec

	// Pause blocks Run at the next event boundary until Continue is
	// called. Safe to call from a goroutine other than the one running Run,
	// so a monitoring server can halt a simulation mid-flight.
	Pause()

	// Continue releases a Pause.
	Continue()
}

// SerialEngine is a single-threaded Engine that processes events strictly
// in timestamp order, breaking ties in insertion order.
type SerialEngine struct {
	queue eventQueue
	now   VTimeInSec
	seq   uint64

	pauseMu sync.Mutex
	paused  bool
	resume  *sync.Cond
}

// NewSerialEngine creates an empty SerialEngine.
func NewSerialEngine() *SerialEngine {
	e := &SerialEngine{}
	heap.Init(&e.queue)
	e.resume = sync.NewCond(&e.pauseMu)

	return e
}

// Pause halts Run before its next event dispatch.
func (e *SerialEngine) Pause() {
	e.pauseMu.Lock()
	e.paused = true
	e.pauseMu.Unlock()
}

// Continue resumes a Run halted by Pause.
func (e *SerialEngine) Continue() {
	e.pauseMu.Lock()
	e.paused = false
	e.pauseMu.Unlock()
	e.resume.Broadcast()
}

func (e *SerialEngine) waitIfPaused() {
	e.pauseMu.Lock()
	defer e.pauseMu.Unlock()

	for e.paused {
		e.resume.Wait()
	}
}

// Schedule enqueues e for dispatch at e.Time().
func (e *SerialEngine) Schedule(evt Event) {
	e.seq++
	heap.Push(&e.queue, &queuedEvent{event: evt, seq: e.seq})
}

// Run dispatches every queued event in order until none remain.
func (e *SerialEngine) Run() error {
	for e.queue.Len() > 0 {
		e.waitIfPaused()

		qe := heap.Pop(&e.queue).(*queuedEvent)
		e.now = qe.event.Time()

		err := qe.event.Handler().Handle(qe.event)
		if err != nil {
			return err
		}
	}

	return nil
}

// CurrentTime returns the time of the event most recently dispatched.
func (e *SerialEngine) CurrentTime() VTimeInSec {
	return e.now
}

type queuedEvent struct {
	event Event
	seq   uint64
}

type eventQueue []*queuedEvent

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].event.Time() == q[j].event.Time() {
		return q[i].seq < q[j].seq
	}

	return q[i].event.Time() < q[j].event.Time()
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) {
	*q = append(*q, x.(*queuedEvent))
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]

	return item
}
