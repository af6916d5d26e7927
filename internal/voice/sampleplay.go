package voice

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/barkuni-voice/barkuni/internal/audio"
	"github.com/barkuni-voice/barkuni/internal/samples"
)

// PlaybackBackend plays a random pre-recorded sample of the character's real
// voice. The spoken clip is unrelated to the reply text; the reply is still
// shown on screen.
type PlaybackBackend struct {
	library *samples.Library
	player  *audio.Player
}

// NewPlaybackBackend creates the backend over a loaded sample library.
func NewPlaybackBackend(library *samples.Library, player *audio.Player) *PlaybackBackend {
	return &PlaybackBackend{library: library, player: player}
}

// Name returns the backend name.
func (b *PlaybackBackend) Name() string {
	return "playback"
}

// Kind returns KindPlayback.
func (b *PlaybackBackend) Kind() Kind {
	return KindPlayback
}

// Ready reports whether the library has at least one sample.
func (b *PlaybackBackend) Ready() bool {
	return b.library != nil && !b.library.Empty()
}

// Speak plays one random sample, ignoring the reply text.
func (b *PlaybackBackend) Speak(_ context.Context, _ string) error {
	if !b.Ready() {
		return fmt.Errorf("no voice samples available")
	}

	path, ok := b.library.Random()
	if !ok {
		return fmt.Errorf("all voice samples have vanished from disk")
	}

	log.Debug().Str("sample", path).Msg("Playing persona sample")
	return b.player.Play(path)
}
