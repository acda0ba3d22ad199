package smc

import "github.com/sarchlab/smc/mem"

// AddressMap computes the region borders of the backing address space and
// derives the counter, MAC, and Merkle-tree node addresses for a data
// address, per the partitioning scheme: data, then counter, then MAC, then
// one region per Merkle-tree level.
//
// Borders are laid out by increasing address exactly as the levels are
// fetched: level 0 (the leaves, directly above the MAC region, fanout 8
// per counter-group-of-8) occupies the largest span; each subsequent level
// is coarser and smaller, until level L-1 (the root) occupies a single
// NodeSpace-sized slot ending the address space. Only levels 0..L-2 are
// ever read or written as metadata packets — the root is never fetched or
// written back, consistent with Bonsai Merkle Tree semantics where the
// root lives only in on-chip state.
type AddressMap struct {
	dataSpace uint64
	nodeSpace uint64
	levels    int // L, including the implicit root

	cntBorder uint64
	macBorder uint64
	mtBorders []uint64 // length L; mtBorders[L-1] is the root's border
}

// NewAddressMap computes the region layout for the given parameters.
// levels must be at least 2 (at least one fetchable level plus the root).
func NewAddressMap(dataSpace, nodeSpace uint64, levels int) *AddressMap {
	if levels < 2 {
		panic("smc: AddressMap requires at least 2 Merkle levels (one fetchable level plus the root)")
	}

	m := &AddressMap{
		dataSpace: dataSpace,
		nodeSpace: nodeSpace,
		levels:    levels,
	}

	m.cntBorder = dataSpace
	m.macBorder = m.cntBorder + dataSpace/64

	m.mtBorders = make([]uint64, levels)
	border := m.macBorder + dataSpace/4

	for i := 0; i < levels; i++ {
		m.mtBorders[i] = border
		border += m.levelSize(i)
	}

	return m
}

// levelSize returns the byte size of Merkle level i's region: the leaves
// (level 0) span NodeSpace*8^(L-1) bytes, each level above it a factor of
// 8 smaller, down to the root's single NodeSpace-sized slot.
func (m *AddressMap) levelSize(level int) uint64 {
	size := m.nodeSpace
	for k := 0; k < m.levels-1-level; k++ {
		size *= 8
	}

	return size
}

// DataSpace returns the size, in bytes, of the data region.
func (m *AddressMap) DataSpace() uint64 { return m.dataSpace }

// Levels returns L, the Merkle-tree depth including the root.
func (m *AddressMap) Levels() int { return m.levels }

// CntBorder returns the start address of the counter region.
func (m *AddressMap) CntBorder() uint64 { return m.cntBorder }

// MacBorder returns the start address of the MAC region.
func (m *AddressMap) MacBorder() uint64 { return m.macBorder }

// MTBorder returns the start address of Merkle level i's region.
func (m *AddressMap) MTBorder(level int) uint64 { return m.mtBorders[level] }

// End returns the exclusive end of the whole backing address space: the
// root's border plus its single node slot.
func (m *AddressMap) End() uint64 {
	return m.mtBorders[m.levels-1] + m.nodeSpace
}

// AdvertisedRange returns the range that is visible upstream of the SMC:
// just the data region, [0, cntBorder).
func (m *AddressMap) AdvertisedRange() mem.AddressRange {
	return mem.AddressRange{LowAddress: 0, HighAddress: m.cntBorder}
}

// ValidateDownstreamRange checks that the backing memory's advertised range
// matches what this AddressMap expects: zero-based and exactly End() bytes
// long. Any mismatch is a ConfigError, since an interposer with the wrong
// region sizes cannot be trusted to address metadata correctly.
func (m *AddressMap) ValidateDownstreamRange(r mem.AddressRange) error {
	if r.LowAddress != 0 {
		return NewConfigError("downstream range does not start at address 0")
	}

	if r.HighAddress != m.End() {
		return NewConfigError("downstream range size does not match the region layout")
	}

	return nil
}

// counterOffset returns C = A >> 6 for a 64-byte-aligned data address A.
func counterOffset(a uint64) uint64 {
	return a >> 6
}

func alignDown(addr, granule uint64) uint64 {
	return addr &^ (granule - 1)
}

// CounterAddress returns the (address, size) of the counter line covering
// data address a.
func (m *AddressMap) CounterAddress(a uint64) (uint64, uint64) {
	return m.cntBorder + counterOffset(a), 1
}

// MACAddress returns the (address, size) of the 16-byte-aligned MAC line
// covering data address a.
func (m *AddressMap) MACAddress(a uint64) (uint64, uint64) {
	addr := alignDown(m.macBorder+(a>>2), 16)
	return addr, 16
}

// MTReadAddress returns the (address, size) of the 64-byte-aligned Merkle
// node at level (0 <= level < L-1) covering data address a.
func (m *AddressMap) MTReadAddress(level int, a uint64) (uint64, uint64) {
	c := counterOffset(a)
	shift := uint(3 * (level + 1))
	addr := alignDown(m.mtBorders[level]+(c>>shift), 64)

	return addr, 64
}

// MTWriteAddress returns the (address, size) of the 8-byte-aligned Merkle
// node at level (0 <= level < L-1) covering data address a.
func (m *AddressMap) MTWriteAddress(level int, a uint64) (uint64, uint64) {
	c := counterOffset(a)
	shift := uint(3 * (level + 1))
	addr := alignDown(m.mtBorders[level]+(c>>shift), 8)

	return addr, 8
}

// FetchableLevels returns the number of Merkle levels that are ever
// fetched or written as metadata packets: L-1, excluding the implicit
// root.
func (m *AddressMap) FetchableLevels() int {
	return m.levels - 1
}
