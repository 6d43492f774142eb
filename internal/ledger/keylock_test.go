package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex(t *testing.T) {
	locks := newKeyedMutex()

	var wg sync.WaitGroup
	counts := map[string]int{}
	var mu sync.Mutex
	inside := map[string]int{}

	for i := 0; i < 50; i++ {
		key := []string{"a", "b"}[i%2]
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(key)
			defer unlock()

			mu.Lock()
			inside[key]++
			assert.Equal(t, 1, inside[key], "two holders of %s", key)
			mu.Unlock()

			mu.Lock()
			counts[key]++
			inside[key]--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 25, counts["a"])
	assert.Equal(t, 25, counts["b"])
	assert.Zero(t, locks.size())
}
