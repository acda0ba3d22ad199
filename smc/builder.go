package smc

import "github.com/sarchlab/smc/sim"

// Builder configures and constructs a Comp.
type Builder struct {
	engine  sim.Engine
	freq    sim.Freq
	addrMap *AddressMap
	config  Config
}

// MakeBuilder returns a new Builder with the S1 scenario's parameters: an
// 8GB data region, 64-byte Merkle nodes, a 7-level tree, and a cost of 80
// cycles per hash op and per MAC op.
func MakeBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
		config: Config{
			DataSpace: 8 * 1024 * 1024 * 1024,
			NodeSpace: 64,
			MTLevels:  7,
			MACCycle:  80,
			HashCycle: 80,
		},
	}
}

// WithEngine sets the event-driven simulation engine the controller
// schedules its follow-up events on.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the controller's nominal clock frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithAddressMap sets the region layout the controller derives counter,
// MAC, and Merkle-tree addresses from. Required.
func (b Builder) WithAddressMap(m *AddressMap) Builder {
	b.addrMap = m
	return b
}

// WithConfig sets the latency constants governing charge-time accounting.
func (b Builder) WithConfig(cfg Config) Builder {
	b.config = cfg
	return b
}

// Build constructs the Comp. It panics with a ConfigError if no AddressMap
// was supplied, since the controller cannot derive metadata addresses
// without one.
func (b Builder) Build(name string) *Comp {
	if b.addrMap == nil {
		panic(NewConfigError("smc.Builder: an AddressMap is required to build a Comp"))
	}

	return NewComp(name, b.engine, b.freq, b.addrMap, b.config)
}

// Config returns the Builder's currently configured latency constants,
// without requiring an AddressMap to be set. Useful for callers that want
// MakeBuilder's defaults without constructing a Comp.
func (b Builder) Config() Config {
	return b.config
}
