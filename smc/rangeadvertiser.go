package smc

import (
	"github.com/sarchlab/smc/mem"
	"github.com/sarchlab/smc/sim"
)

// BindDownstreamRange records the data-memory port's advertised address
// range and validates it against the region layout this AddressMap
// computes. A mismatch is a ConfigError and is fatal — the controller
// cannot safely address metadata if the backing store's extent disagrees
// with the layout it was configured for.
func (c *Comp) BindDownstreamRange(r mem.AddressRange) error {
	if err := c.AddressMap.ValidateDownstreamRange(r); err != nil {
		return err
	}

	c.downstreamRange = r
	c.rangeBound = true

	return nil
}

// DownstreamRange returns the data-memory range this controller was bound
// to, and whether a range has been bound yet.
func (c *Comp) DownstreamRange() (mem.AddressRange, bool) {
	return c.downstreamRange, c.rangeBound
}

// AdvertisedRange returns the range the controller exposes upstream: just
// the data region, with the metadata space carved out and made invisible.
func (c *Comp) AdvertisedRange() mem.AddressRange {
	return c.AddressMap.AdvertisedRange()
}

// NotifyDownstreamRangeChange re-validates a new downstream range and, if
// it is still consistent with the AddressMap, propagates a
// RangeChangeNotice upstream. An inconsistent new range is a ConfigError.
func (c *Comp) NotifyDownstreamRangeChange(now sim.VTimeInSec, r mem.AddressRange) error {
	if err := c.BindDownstreamRange(r); err != nil {
		return err
	}

	notice := newRangeChangeNotice(c.CPUPort, nil, now)
	if err := c.CPUPort.Send(notice); err != nil {
		c.blockedCPU = &blockedSend{resend: func(now sim.VTimeInSec) bool {
			retry := newRangeChangeNotice(c.CPUPort, nil, now)
			return c.CPUPort.Send(retry) == nil
		}}
	}

	return nil
}
