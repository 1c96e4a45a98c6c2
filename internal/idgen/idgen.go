package idgen

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator produces identifiers for entities created on the device before
// the server has seen them. Generated ids double as idempotency keys for
// push, so collision probability must be negligible.
type Generator interface {
	NewID() string
}

type ulidGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewULIDGenerator returns a Generator backed by crypto/rand entropy,
// monotonic within the process.
func NewULIDGenerator() Generator {
	return &ulidGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (g *ulidGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), g.entropy).String()
}
