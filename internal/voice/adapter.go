package voice

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/barkuni-voice/barkuni/internal/accent"
)

// Adapter owns the backend selection policy: the character backend (cloned
// voice or sample playback) is preferred when present and ready, system
// synthesis is the last resort. Speak never propagates backend errors to the
// conversation loop; it reports whether anything was actually voiced so the
// caller can fall back to text-only output.
type Adapter struct {
	mu sync.Mutex

	character Backend
	synth     Backend

	transformer  *accent.Transformer
	accentOn     bool
	useCharacter bool
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithCharacterBackend installs the preferred character-voice backend.
func WithCharacterBackend(b Backend) AdapterOption {
	return func(a *Adapter) {
		a.character = b
	}
}

// WithAccent enables the accent transform on synthesized speech.
func WithAccent() AdapterOption {
	return func(a *Adapter) {
		a.accentOn = true
	}
}

// NewAdapter creates an Adapter. The synthesis backend is mandatory; a
// character backend is optional and preferred while it stays ready.
func NewAdapter(synth Backend, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		synth:       synth,
		transformer: accent.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.useCharacter = a.character != nil && a.character.Ready()
	return a
}

// Preferred returns the kind of the backend Speak will try first.
func (a *Adapter) Preferred() Kind {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.preferredLocked()
}

func (a *Adapter) preferredLocked() Kind {
	if a.useCharacter && a.character != nil && a.character.Ready() {
		return a.character.Kind()
	}
	return a.synth.Kind()
}

// Toggle flips between the character voice and plain synthesis. It reports
// the kind now preferred; toggling is a no-op when no character backend is
// ready.
func (a *Adapter) Toggle() Kind {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.character == nil || !a.character.Ready() {
		log.Debug().Msg("No character voice to switch to")
		return a.preferredLocked()
	}

	a.useCharacter = !a.useCharacter
	kind := a.preferredLocked()
	log.Info().Str("voice", string(kind)).Msg("Switched voice")
	return kind
}

// CharacterReady reports whether a character-voice backend is usable.
func (a *Adapter) CharacterReady() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.character != nil && a.character.Ready()
}

// Speak voices the text through the preferred backend, falling back to
// system synthesis when the character backend fails. It returns true if any
// backend finished playing; false means the caller should rely on the
// on-screen text alone.
func (a *Adapter) Speak(ctx context.Context, text string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.useCharacter && a.character != nil && a.character.Ready() {
		err := a.character.Speak(ctx, text)
		if err == nil {
			return true
		}
		log.Warn().Err(err).Str("backend", a.character.Name()).Msg("Character voice failed, using synthesis")
	}

	if !a.synth.Ready() {
		log.Warn().Msg("No speech backend available, text only")
		return false
	}

	spoken := text
	if a.accentOn {
		spoken = a.transformer.Apply(text)
	}
	if err := a.synth.Speak(ctx, spoken); err != nil {
		log.Warn().Err(err).Msg("Speech synthesis failed, text only")
		return false
	}
	return true
}
