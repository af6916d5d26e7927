package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	goawav "github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog/log"
)

// Capture parameters. 16 kHz mono matches what the transcription backends
// expect.
const (
	captureRate     = 16000
	framesPerBuffer = 1024

	// defaultThreshold is the voice-activity RMS floor used before any
	// ambient calibration has run.
	defaultThreshold = 0.01

	// trailingSilence ends a phrase once this much quiet follows speech.
	trailingSilence = 800 * time.Millisecond
)

// ErrNoSpeech is returned when the listen timeout elapses before any voice
// activity is detected.
var ErrNoSpeech = errors.New("no speech detected before timeout")

// Recorder captures microphone audio to temporary wav files. The capture
// timeout is cooperative: once a read is in flight it runs to its own
// completion, and the deadline is checked between buffers.
type Recorder struct {
	threshold   float64
	initialized bool
}

// NewRecorder creates a Recorder with the default activity threshold.
func NewRecorder() *Recorder {
	return &Recorder{threshold: defaultThreshold}
}

// Init initializes the audio host. Must be called once before Capture.
func (r *Recorder) Init() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize audio capture: %w", err)
	}
	r.initialized = true
	return nil
}

// Terminate releases the audio host.
func (r *Recorder) Terminate() {
	if r.initialized {
		_ = portaudio.Terminate()
		r.initialized = false
	}
}

// Calibrate samples ambient noise for the given duration and raises the
// activity threshold above the measured floor.
func (r *Recorder) Calibrate(d time.Duration) error {
	if !r.initialized {
		return fmt.Errorf("recorder not initialized")
	}

	buf := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(captureRate), len(buf), buf)
	if err != nil {
		return fmt.Errorf("failed to open capture stream: %w", err)
	}
	defer func() {
		_ = stream.Close()
	}()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start capture stream: %w", err)
	}
	defer func() {
		_ = stream.Stop()
	}()

	var total float64
	var buffers int
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if err := stream.Read(); err != nil {
			return fmt.Errorf("calibration read failed: %w", err)
		}
		total += rms(buf)
		buffers++
	}

	if buffers > 0 {
		ambient := total / float64(buffers)
		r.threshold = math.Max(ambient*1.5, defaultThreshold)
		log.Debug().Float64("ambient", ambient).Float64("threshold", r.threshold).Msg("Microphone calibrated")
	}
	return nil
}

// Capture waits up to timeout for voice activity, then records until the
// speaker pauses or phraseLimit elapses, and writes the phrase to a
// temporary wav file. The caller removes the file when done with it.
func (r *Recorder) Capture(timeout, phraseLimit time.Duration) (string, error) {
	if !r.initialized {
		return "", fmt.Errorf("recorder not initialized")
	}

	buf := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(captureRate), len(buf), buf)
	if err != nil {
		return "", fmt.Errorf("failed to open capture stream: %w", err)
	}
	defer func() {
		_ = stream.Close()
	}()

	if err := stream.Start(); err != nil {
		return "", fmt.Errorf("failed to start capture stream: %w", err)
	}
	defer func() {
		_ = stream.Stop()
	}()

	var samples []int
	var voiced bool
	var quietSince time.Time

	waitDeadline := time.Now().Add(timeout)
	for {
		if err := stream.Read(); err != nil {
			return "", fmt.Errorf("capture read failed: %w", err)
		}

		level := rms(buf)
		now := time.Now()

		if !voiced {
			if level >= r.threshold {
				voiced = true
				// The phrase clock starts at first voice activity.
				waitDeadline = now.Add(phraseLimit)
			} else if now.After(waitDeadline) {
				return "", ErrNoSpeech
			} else {
				continue
			}
		}

		for _, s := range buf {
			samples = append(samples, int(s))
		}

		if level < r.threshold {
			if quietSince.IsZero() {
				quietSince = now
			} else if now.Sub(quietSince) >= trailingSilence {
				break
			}
		} else {
			quietSince = time.Time{}
		}

		if now.After(waitDeadline) {
			break
		}
	}

	return writeWav(samples)
}

// writeWav encodes captured samples to a temporary 16-bit mono wav file.
func writeWav(samples []int) (string, error) {
	tmp, err := os.CreateTemp("", "barkuni_capture_*.wav")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	enc := goawav.NewEncoder(tmp, captureRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: captureRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to encode capture: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to finalize capture: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close capture file: %w", err)
	}

	log.Debug().Int("samples", len(samples)).Str("file", tmp.Name()).Msg("Captured phrase")
	return tmp.Name(), nil
}

// rms computes the normalized root mean square of a buffer.
func rms(buf []int16) float64 {
	if len(buf) == 0 {
		return 0
	}
	var sum float64
	for _, s := range buf {
		v := float64(s) / math.MaxInt16
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(buf)))
}
