package smc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/smc/sim"
	"github.com/sarchlab/smc/smc"
)

var _ = Describe("Builder", func() {
	It("panics if no AddressMap was supplied", func() {
		Expect(func() {
			smc.MakeBuilder().WithEngine(sim.NewSerialEngine()).Build("SMC")
		}).To(Panic())
	})

	It("builds a Comp wired with its three ports", func() {
		addrMap := smc.NewAddressMap(4096, 64, 3)

		c := smc.MakeBuilder().
			WithEngine(sim.NewSerialEngine()).
			WithAddressMap(addrMap).
			Build("SMC")

		Expect(c.CPUPort).NotTo(BeNil())
		Expect(c.DataPort).NotTo(BeNil())
		Expect(c.MetaPort).NotTo(BeNil())
		Expect(c.AddressMap).To(BeIdenticalTo(addrMap))
	})
})

var _ = Describe("errors", func() {
	It("formats a ConfigError", func() {
		err := smc.NewConfigError("bad range")
		Expect(err.Error()).To(ContainSubstring("bad range"))
	})

	It("formats a ProtocolError", func() {
		err := smc.NewProtocolError("unrecognised address")
		Expect(err.Error()).To(ContainSubstring("unrecognised address"))
	})
})
