package monitor

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/smc/sim"
)

type sampleComponent struct {
	*sim.ComponentBase
}

func (c *sampleComponent) Handle(_ sim.Event) error                { return nil }
func (c *sampleComponent) NotifyRecv(_ sim.VTimeInSec, _ sim.Port) {}
func (c *sampleComponent) NotifyPortFree(_ sim.VTimeInSec, _ sim.Port) {}

func newSampleComponent(name string) *sampleComponent {
	c := &sampleComponent{ComponentBase: sim.NewComponentBase(name)}
	c.AddPort("Port1", sim.NewLimitNumMsgPort(c, 2, name+".Port1"))

	return c
}

var _ = Describe("Monitor", func() {
	var m *Monitor

	BeforeEach(func() {
		m = New()
	})

	It("registers components", func() {
		c := newSampleComponent("Comp")
		m.RegisterComponent(c)

		Expect(m.components).To(HaveLen(1))
		Expect(m.findComponentOr404(nil, "Comp")).To(BeIdenticalTo(sim.Component(c)))
	})

	It("creates and completes progress bars", func() {
		bar := m.CreateProgressBar("S1", 100)
		Expect(m.progressBars).To(HaveLen(1))

		bar.IncrementInProgress(10)
		bar.MoveInProgressToFinished(4)
		Expect(bar.InProgress).To(Equal(uint64(6)))
		Expect(bar.Finished).To(Equal(uint64(4)))

		m.CompleteProgressBar(bar)
		Expect(m.progressBars).To(BeEmpty())
	})

	It("tallies completed transactions by kind through TransactionHook", func() {
		hook := m.TransactionHook()

		hook("read", 0, 2.0, 1)
		hook("read", 8, 4.0, 1)
		hook("write", 16, 3.0, 2)

		Expect(m.txCounts["read"]).To(Equal(uint64(2)))
		Expect(m.txChargeNs["read"]).To(BeNumerically("~", 6.0, 1e-9))
		Expect(m.txCounts["write"]).To(Equal(uint64(1)))
	})
})
