package sim

import "log"

// A Port is a message endpoint that a Component uses to send and receive
// Msgs. A port holds a small, bounded buffer of incoming messages; once the
// receiving port's buffer is full, Send returns a SendError and the caller
// must retry later.
type Port interface {
	Name() string

	// SetConnection attaches the Connection that carries messages away from
	// this port.
	SetConnection(conn Connection)

	// Send enqueues msg for delivery over the port's connection. Returns a
	// SendError if the receiving port's incoming buffer is full.
	Send(msg Msg) *SendError

	// Recv is called by a Connection to deliver msg into the port's incoming
	// buffer at time now. Returns a SendError if the incoming buffer is
	// full. On success, the owning component is notified via NotifyRecv.
	Recv(now VTimeInSec, msg Msg) *SendError

	// Retrieve removes and returns the oldest message in the incoming
	// buffer, or nil if the buffer is empty.
	Retrieve(now VTimeInSec) Msg

	// Peek returns the oldest message in the incoming buffer without
	// removing it, or nil if the buffer is empty.
	Peek() Msg

	// NotifyAvailable is called by the Connection when space frees up on
	// the other end, so a previously blocked Send can be retried.
	NotifyAvailable(now VTimeInSec)
}

// LimitNumMsgPort is a Port implementation that limits the number of
// messages buffered on the incoming side to a fixed capacity.
type LimitNumMsgPort struct {
	comp Component
	name string
	conn Connection

	capacity int
	buf      []Msg
}

// NewLimitNumMsgPort creates a LimitNumMsgPort owned by comp with the given
// incoming-buffer capacity.
func NewLimitNumMsgPort(comp Component, capacity int, name string) *LimitNumMsgPort {
	return &LimitNumMsgPort{
		comp:     comp,
		name:     name,
		capacity: capacity,
		buf:      make([]Msg, 0, capacity),
	}
}

// Name returns the port's fully qualified name.
func (p *LimitNumMsgPort) Name() string {
	return p.name
}

// SetConnection attaches the Connection used to deliver outgoing messages.
func (p *LimitNumMsgPort) SetConnection(conn Connection) {
	p.conn = conn
}

// Send hands msg to the port's connection for delivery.
func (p *LimitNumMsgPort) Send(msg Msg) *SendError {
	if p.conn == nil {
		log.Panicf("port %s is not connected", p.name)
	}

	return p.conn.Send(msg)
}

// Recv buffers an incoming message, rejecting it with a SendError if the
// buffer is already at capacity. On success, it notifies the owning
// component that a message has arrived.
func (p *LimitNumMsgPort) Recv(now VTimeInSec, msg Msg) *SendError {
	if len(p.buf) >= p.capacity {
		return NewSendError()
	}

	p.buf = append(p.buf, msg)

	if p.comp != nil {
		p.comp.NotifyRecv(now, p)
	}

	return nil
}

// Retrieve pops the oldest buffered message, notifying the connection that
// buffer space has freed up.
func (p *LimitNumMsgPort) Retrieve(now VTimeInSec) Msg {
	if len(p.buf) == 0 {
		return nil
	}

	msg := p.buf[0]
	p.buf = p.buf[1:]

	if p.conn != nil {
		p.conn.NotifyAvailable(now)
	}

	return msg
}

// Peek returns the oldest buffered message without removing it.
func (p *LimitNumMsgPort) Peek() Msg {
	if len(p.buf) == 0 {
		return nil
	}

	return p.buf[0]
}

// NotifyAvailable tells the owning component that a previously blocked Send
// on this port may now succeed.
func (p *LimitNumMsgPort) NotifyAvailable(now VTimeInSec) {
	if p.comp != nil {
		p.comp.NotifyPortFree(now, p)
	}
}
