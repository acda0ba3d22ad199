package sim

import "log"

// A Connection carries Msgs from one Port to another.
type Connection interface {
	// PlugIn attaches a port to the connection.
	PlugIn(port Port)

	// Send delivers msg to whichever port is on the other end of the one
	// that originated it.
	Send(msg Msg) *SendError

	// NotifyAvailable is forwarded from a destination port to tell the
	// connection that a blocked sender may retry.
	NotifyAvailable(now VTimeInSec)
}

// DirectConnection is a zero-latency point-to-point Connection between
// exactly two ports, used to wire adjacent components together.
type DirectConnection struct {
	name  string
	ports []Port
}

// NewDirectConnection creates an unplugged DirectConnection.
func NewDirectConnection(name string) *DirectConnection {
	return &DirectConnection{name: name}
}

// PlugIn attaches port to the connection. A DirectConnection accepts
// exactly two ports.
func (c *DirectConnection) PlugIn(port Port) {
	if len(c.ports) >= 2 {
		log.Panicf("direct connection %s already has two ports plugged in", c.name)
	}

	c.ports = append(c.ports, port)
	port.SetConnection(c)
}

// Send routes msg to the other end of the connection from msg's source.
// Delivery is instantaneous, so the destination is notified at msg's own
// send time.
func (c *DirectConnection) Send(msg Msg) *SendError {
	dst := c.otherEnd(msg.Meta().Src)
	return dst.Recv(msg.Meta().SendTime, msg)
}

// NotifyAvailable forwards the notification to every port plugged into the
// connection, both ends included, since either component may have a
// blocked Send pending.
func (c *DirectConnection) NotifyAvailable(now VTimeInSec) {
	for _, p := range c.ports {
		p.NotifyAvailable(now)
	}
}

func (c *DirectConnection) otherEnd(src Port) Port {
	for _, p := range c.ports {
		if p != src {
			return p
		}
	}

	log.Panicf("direct connection %s: source port not plugged in", c.name)

	return nil
}
