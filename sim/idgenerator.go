package sim

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate unique IDs for messages, events, and packets.
type IDGenerator interface {
	Generate() string
}

var (
	idGeneratorMutex        sync.Mutex
	idGeneratorInstantiated bool
	idGenerator             IDGenerator
)

// UseSequentialIDGenerator configures the ID generator to produce
// deterministic, monotonically increasing IDs ("1", "2", ...), starting
// afresh on every call.
func UseSequentialIDGenerator() {
	idGeneratorMutex.Lock()
	defer idGeneratorMutex.Unlock()

	idGenerator = &sequentialIDGenerator{}
	idGeneratorInstantiated = true
}

// GetIDGenerator returns the ID generator used by the current simulation,
// defaulting to a randomized xid-based generator on first use.
func GetIDGenerator() IDGenerator {
	idGeneratorMutex.Lock()
	defer idGeneratorMutex.Unlock()

	if !idGeneratorInstantiated {
		idGenerator = &xidGenerator{}
		idGeneratorInstantiated = true
	}

	return idGenerator
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	n := atomic.AddUint64(&g.nextID, 1)
	return strconv.FormatUint(n, 10)
}

type xidGenerator struct{}

func (g *xidGenerator) Generate() string {
	return xid.New().String()
}
