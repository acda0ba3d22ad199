package smc

import "github.com/sarchlab/smc/sim"

// Config bundles the compile-time parameters of a secure memory
// controller instance. All fields are fixed for the lifetime of a Comp;
// nothing here changes at runtime.
type Config struct {
	// DataSpace is the size, in bytes, of the data region.
	DataSpace uint64

	// NodeSpace is the per-root metadata granule: the byte size of a
	// single Merkle-tree node.
	NodeSpace uint64

	// MTLevels is L, the Merkle-tree depth including the implicit root.
	MTLevels int

	// MACCycle is the cost of a MAC operation. The orchestrator charges
	// MACCycle×1000 directly as a VTimeInSec amount; the Comp's Freq plays
	// no part in the conversion.
	MACCycle sim.VTimeInSec

	// HashCycle is the cost of a hash operation (counter derive,
	// Merkle-node hash), charged the same way as MACCycle.
	HashCycle sim.VTimeInSec
}

const latencyScale sim.VTimeInSec = 1000

func (cfg Config) macLatency() sim.VTimeInSec {
	return cfg.MACCycle * latencyScale
}

func (cfg Config) hashLatency() sim.VTimeInSec {
	return cfg.HashCycle * latencyScale
}
