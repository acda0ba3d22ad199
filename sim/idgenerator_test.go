package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IDGenerator", func() {
	It("produces monotonically increasing IDs once switched to sequential", func() {
		UseSequentialIDGenerator()

		first := GetIDGenerator().Generate()
		second := GetIDGenerator().Generate()

		Expect(first).To(Equal("1"))
		Expect(second).To(Equal("2"))
	})

	It("produces unique IDs from the default xid-based generator", func() {
		idGeneratorMutex.Lock()
		idGeneratorInstantiated = false
		idGeneratorMutex.Unlock()

		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			id := GetIDGenerator().Generate()
			Expect(seen[id]).To(BeFalse())
			seen[id] = true
		}
	})
})
