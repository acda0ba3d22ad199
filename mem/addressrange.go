package mem

// AddressRange describes a contiguous, half-open span of addresses
// [LowAddress, HighAddress) served by a single backing memory.
type AddressRange struct {
	LowAddress  uint64
	HighAddress uint64
}

// Contains reports whether address falls within the range.
func (r AddressRange) Contains(address uint64) bool {
	return address >= r.LowAddress && address < r.HighAddress
}

// ByteSize returns the number of addressable bytes in the range.
func (r AddressRange) ByteSize() uint64 {
	return r.HighAddress - r.LowAddress
}

// LowModuleFinder locates the backing-memory port responsible for an
// address, mirroring how a cache's address-to-port mapper picks a lower
// module.
type LowModuleFinder interface {
	Find(address uint64) AddressRange
}

// SingleLowModuleFinder is used when all addresses are served by one
// backing memory.
type SingleLowModuleFinder struct {
	Range AddressRange
}

// Find always returns the solo range that this finder was built with.
func (f *SingleLowModuleFinder) Find(address uint64) AddressRange {
	return f.Range
}
