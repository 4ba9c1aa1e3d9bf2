package ports

import (
	"sync"
	"testing"

	"github.com/aretw0/inkwell/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunContextSourceContract runs a suite of tests to verify that a ContextSource
// implementation adheres to the defined interface contract.
// expected is the value the source is known to hold while the suite runs.
func RunContextSourceContract(t *testing.T, source ContextSource, expected domain.Value) {
	t.Run("Current returns the held value", func(t *testing.T) {
		assert.Equal(t, expected, source.Current())
	})

	t.Run("Snapshots are isolated", func(t *testing.T) {
		snapshot := source.Current()
		require.NotNil(t, snapshot, "Current should never return nil")

		// Writing to a snapshot must not leak into the source
		snapshot["__contract_marker"] = true

		_, leaked := source.Current()["__contract_marker"]
		assert.False(t, leaked, "mutating a snapshot should not affect the source")
	})

	t.Run("Concurrent readers", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					_ = source.Current()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, expected, source.Current())
	})
}
