// Package audio wraps the playback and microphone-capture primitives. Both
// are synchronous: Play returns when the clip has finished and Capture
// returns when a phrase (or its timeout) has elapsed.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/rs/zerolog/log"
)

// playbackRate is the fixed speaker rate; clips at other rates are
// resampled on the fly.
const playbackRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(playbackRate, playbackRate.N(100*time.Millisecond))
	})
	return speakerErr
}

// Player renders audio files through the system speaker. Play is safe to
// call from any goroutine; concurrent calls are serialized.
type Player struct {
	mu sync.Mutex
}

// NewPlayer creates a Player.
func NewPlayer() *Player {
	return &Player{}
}

// Play decodes and plays a wav or mp3 file, blocking until playback
// completes.
func (p *Player) Play(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := initSpeaker(); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		_ = f.Close()
		return fmt.Errorf("unsupported audio format: %s", filepath.Ext(path))
	}
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	defer func() {
		_ = streamer.Close()
	}()

	var stream beep.Streamer = streamer
	if format.SampleRate != playbackRate {
		stream = beep.Resample(4, format.SampleRate, playbackRate, streamer)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		close(done)
	})))
	<-done

	log.Debug().Str("file", filepath.Base(path)).Msg("Playback finished")
	return nil
}
