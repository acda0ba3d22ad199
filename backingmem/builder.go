package backingmem

import "github.com/sarchlab/smc/sim"

// Builder configures and constructs a Comp.
type Builder struct {
	engine  sim.Engine
	freq    sim.Freq
	latency int

	capacity uint64
	storage  *Storage
}

// MakeBuilder returns a new Builder with a 100-cycle fixed latency and a
// fresh 4GB storage.
func MakeBuilder() Builder {
	return Builder{
		freq:     1 * sim.GHz,
		latency:  100,
		capacity: 4 * 1024 * 1024 * 1024,
	}
}

// WithEngine sets the event-driven simulation engine the memory schedules
// its respond events on.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the memory's nominal clock frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithLatency sets the fixed per-request latency, in cycles.
func (b Builder) WithLatency(latency int) Builder {
	b.latency = latency
	return b
}

// WithNewStorage sizes a freshly allocated Storage for the memory to build.
// Ignored if WithStorage is also used.
func (b Builder) WithNewStorage(capacity uint64) Builder {
	b.capacity = capacity
	return b
}

// WithStorage gives the memory to build a pre-existing Storage, letting two
// Comps — one addressed for data, one for metadata — expose disjoint
// windows of the same backing array, as a single physical memory wired to
// an orchestrator over two separate links would.
func (b Builder) WithStorage(storage *Storage) Builder {
	b.storage = storage
	return b
}

// Build constructs the Comp.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		ComponentBase: sim.NewComponentBase(name),
		Engine:        b.engine,
		Freq:          b.freq,
		Latency:       b.latency,
	}

	if b.storage != nil {
		c.Storage = b.storage
	} else {
		c.Storage = NewStorage(b.capacity)
	}

	c.TopPort = sim.NewLimitNumMsgPort(c, 16, name+".TopPort")
	c.AddPort("Top", c.TopPort)
	c.DepthHints = make(map[uint64]int)
	c.DefaultAccessDepth = 1

	return c
}
