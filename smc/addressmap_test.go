package smc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/smc/mem"
	"github.com/sarchlab/smc/smc"
)

var _ = Describe("AddressMap", func() {
	// The S1 scenario from the controller's region-layout scheme: an 8GB
	// data region, a 64-byte node granule, and a 7-level tree.
	var m *smc.AddressMap

	BeforeEach(func() {
		m = smc.NewAddressMap(0x200000000, 0x40, 7)
	})

	It("places the counter region directly after the data region", func() {
		Expect(m.CntBorder()).To(Equal(uint64(0x200000000)))
	})

	It("places the 16-byte-aligned MAC region after the counter region", func() {
		Expect(m.MacBorder()).To(Equal(uint64(0x208000000)))
	})

	It("ends the address space with the root's single node slot", func() {
		Expect(m.End()).To(Equal(m.MTBorder(6) + 0x40))
	})

	It("lays out each Merkle level an eighth the size of the one below it", func() {
		for level := 0; level < 5; level++ {
			lower := m.MTBorder(level + 1) - m.MTBorder(level)
			upper := m.MTBorder(level+2) - m.MTBorder(level+1)
			Expect(lower).To(Equal(upper * 8))
		}
	})

	It("derives a counter address one byte per 64-byte data line", func() {
		addr, size := m.CounterAddress(0x40)
		Expect(addr).To(Equal(m.CntBorder() + 1))
		Expect(size).To(Equal(uint64(1)))
	})

	It("rejects a downstream range that does not start at zero", func() {
		err := m.ValidateDownstreamRange(mem.AddressRange{LowAddress: 1, HighAddress: m.End()})
		Expect(err).To(HaveOccurred())
	})

	It("rejects a downstream range with the wrong extent", func() {
		err := m.ValidateDownstreamRange(mem.AddressRange{LowAddress: 0, HighAddress: m.End() + 1})
		Expect(err).To(HaveOccurred())
	})

	It("accepts the downstream range it computed itself", func() {
		err := m.ValidateDownstreamRange(mem.AddressRange{LowAddress: 0, HighAddress: m.End()})
		Expect(err).NotTo(HaveOccurred())
	})

	It("exposes only the data region upstream", func() {
		r := m.AdvertisedRange()
		Expect(r.LowAddress).To(Equal(uint64(0)))
		Expect(r.HighAddress).To(Equal(uint64(0x200000000)))
	})

	It("only ever fetches L-1 levels, excluding the root", func() {
		Expect(m.FetchableLevels()).To(Equal(6))
	})
})
