package kernel

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate IDs.
type IDGenerator interface {
	// Generate an ID.
	Generate() string
}

// NewSequentialIDGenerator returns a generator that produces deterministic,
// consecutive IDs. It is the default for reproducible runs.
func NewSequentialIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

// NewXIDGenerator returns a generator that produces globally unique IDs. The
// IDs are not deterministic across runs.
func NewXIDGenerator() IDGenerator {
	return xidGenerator{}
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	n := atomic.AddUint64(&g.nextID, 1)
	return strconv.FormatUint(n, 10)
}

type xidGenerator struct{}

func (g xidGenerator) Generate() string {
	return xid.New().String()
}
