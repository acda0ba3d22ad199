package sim

import "log"

// A Component is a simulated hardware unit that communicates through Ports
// and reacts to Msgs and Events.
type Component interface {
	Handler

	Name() string

	// NotifyRecv is called by a Port when a new Msg has arrived on it.
	NotifyRecv(now VTimeInSec, port Port)

	// NotifyPortFree is called by a Port when buffer space has freed up on
	// its connection, so the component can retry a previously blocked Send.
	NotifyPortFree(now VTimeInSec, port Port)
}

// ComponentBase provides the common bookkeeping (name, port table) shared
// by every Component implementation.
type ComponentBase struct {
	name  string
	ports map[string]Port
}

// NewComponentBase creates a ComponentBase with the given name.
func NewComponentBase(name string) *ComponentBase {
	return &ComponentBase{
		name:  name,
		ports: make(map[string]Port),
	}
}

// Name returns the component's name.
func (c *ComponentBase) Name() string {
	return c.name
}

// AddPort registers a port under the component, keyed by its short name
// (e.g. "CPU", "Data", "Meta").
func (c *ComponentBase) AddPort(shortName string, port Port) {
	c.ports[shortName] = port
}

// GetPortByName looks up a previously registered port, panicking if it is
// not found since this always indicates a wiring bug.
func (c *ComponentBase) GetPortByName(shortName string) Port {
	port, found := c.ports[shortName]
	if !found {
		log.Panicf("component %s has no port named %s", c.name, shortName)
	}

	return port
}
