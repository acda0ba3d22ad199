package backingmem_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/smc/backingmem"
)

var _ = Describe("Storage", func() {
	var s *backingmem.Storage

	BeforeEach(func() {
		s = backingmem.NewStorage(16384)
	})

	It("reads back zero-initialized bytes from an untouched page", func() {
		data, err := s.Read(100, 8)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal(make([]byte, 8)))
	})

	It("reads back exactly what was written", func() {
		payload := []byte{1, 2, 3, 4, 5, 6, 7, 8}
		Expect(s.Write(200, payload)).To(Succeed())

		got, err := s.Read(200, uint64(len(payload)))
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(payload))
	})

	It("handles an access that straddles a page boundary", func() {
		payload := make([]byte, 16)
		for i := range payload {
			payload[i] = byte(i + 1)
		}

		Expect(s.Write(4090, payload)).To(Succeed())

		got, err := s.Read(4090, uint64(len(payload)))
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(payload))
	})

	It("rejects an access beyond its capacity", func() {
		_, err := s.Read(16384, 1)
		Expect(err).To(HaveOccurred())
	})
})
