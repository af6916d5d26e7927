package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadinessZeroValueIsFullyDegraded(t *testing.T) {
	var r Readiness
	assert.Empty(t, r.Provider)
	assert.False(t, r.CloneReady)
	assert.False(t, r.Listening)
	assert.Zero(t, r.SampleCount)
}

func TestCloneCapableProbesWithoutError(t *testing.T) {
	// The answer depends on the host; the probe itself must not panic and
	// must be consistent across calls.
	first := CloneCapable()
	assert.Equal(t, first, CloneCapable())
}
