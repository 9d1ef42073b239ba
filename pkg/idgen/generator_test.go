package idgen

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnowflakeGenerator_InvalidNode(t *testing.T) {
	_, err := NewSnowflakeGenerator(4096)
	assert.Error(t, err)
}

func TestSnowflakeGenerator_UniqueUnderConcurrency(t *testing.T) {
	gen, err := NewSnowflakeGenerator(1)
	require.NoError(t, err)

	const workers, perWorker = 8, 500
	var (
		mu    sync.Mutex
		seen  = make(map[string]struct{}, workers*perWorker)
		wg    sync.WaitGroup
		dupes int
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				code := gen.ConfirmationCode()
				mu.Lock()
				if _, ok := seen[code]; ok {
					dupes++
				}
				seen[code] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, dupes)
	assert.Len(t, seen, workers*perWorker)
}

func TestSnowflakeGenerator_ConfirmationCodeShape(t *testing.T) {
	gen, err := NewSnowflakeGenerator(7)
	require.NoError(t, err)

	code := gen.ConfirmationCode()

	assert.True(t, strings.HasPrefix(code, ConfirmationPrefix))
	assert.Equal(t, strings.ToUpper(code), code)
	assert.Greater(t, len(code), len(ConfirmationPrefix)+6)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "CNFABC123", NormalizeCode("  cnfAbc123 "))
}
