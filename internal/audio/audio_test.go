package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRMS(t *testing.T) {
	t.Run("silence is zero", func(t *testing.T) {
		assert.Zero(t, rms(make([]int16, 256)))
	})

	t.Run("empty buffer is zero", func(t *testing.T) {
		assert.Zero(t, rms(nil))
	})

	t.Run("full-scale square wave is one", func(t *testing.T) {
		buf := make([]int16, 256)
		for i := range buf {
			buf[i] = math.MaxInt16
		}
		assert.InDelta(t, 1.0, rms(buf), 0.001)
	})

	t.Run("louder buffers score higher", func(t *testing.T) {
		quiet := make([]int16, 256)
		loud := make([]int16, 256)
		for i := range quiet {
			quiet[i] = 100
			loud[i] = 10000
		}
		assert.Greater(t, rms(loud), rms(quiet))
	})
}

func TestWriteWav(t *testing.T) {
	samples := make([]int, 16000)
	for i := range samples {
		samples[i] = int(math.Sin(float64(i)/50) * 10000)
	}

	path, err := writeWav(samples)
	require.NoError(t, err)
	defer func() {
		_ = os.Remove(path)
	}()

	assert.Equal(t, ".wav", filepath.Ext(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	// 16k samples at 16 bits plus header.
	assert.Greater(t, info.Size(), int64(32000))
}

func TestCaptureRequiresInit(t *testing.T) {
	r := NewRecorder()
	_, err := r.Capture(0, 0)
	assert.Error(t, err)

	assert.Error(t, r.Calibrate(0))
}
