package idgen

import (
	"sync"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDIsValidULID(t *testing.T) {
	gen := NewULIDGenerator()

	id := gen.NewID()
	assert.Len(t, id, 26)
	_, err := ulid.ParseStrict(id)
	assert.NoError(t, err)
}

func TestNewIDIsUniqueUnderConcurrency(t *testing.T) {
	gen := NewULIDGenerator()

	const workers = 8
	const perWorker = 200

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := gen.NewID()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker)
}
