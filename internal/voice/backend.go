// Package voice renders reply text as audio. Three backends exist: system
// speech synthesis (the backend of last resort), cloned-voice synthesis
// against a local engine, and raw playback of pre-recorded samples. The
// Adapter picks one per call and falls back between them.
package voice

import "context"

// Kind identifies a rendering backend.
type Kind string

const (
	// KindSynthesis is system speech synthesis, always the last resort.
	KindSynthesis Kind = "synthesis"

	// KindClone is neural voice cloning via a local synthesis engine.
	KindClone Kind = "clone"

	// KindPlayback plays a random pre-recorded persona sample.
	KindPlayback Kind = "playback"
)

// Backend renders text as audible speech. Speak blocks until playback
// completes.
type Backend interface {
	// Name returns the backend name for logs.
	Name() string

	// Kind returns the backend kind.
	Kind() Kind

	// Ready reports whether the backend initialized successfully.
	Ready() bool

	// Speak renders text and blocks until the audio has finished playing.
	Speak(ctx context.Context, text string) error
}
