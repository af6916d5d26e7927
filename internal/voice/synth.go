package voice

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// SynthEngine is one concrete speech synthesizer. Render blocks until the
// utterance has finished playing.
type SynthEngine interface {
	Name() string
	Available(ctx context.Context) bool
	Render(ctx context.Context, text string) error
}

// SynthBackend is the system-synthesis backend, and the backend of last
// resort: it must never be disabled while any engine is up. It holds an
// ordered engine chain (native OS voice first, then cloud synthesizers) and
// uses the first one that probed available, trying the rest only if the
// active engine fails mid-call.
type SynthBackend struct {
	engines []SynthEngine
	active  SynthEngine
}

// NewSynthBackend creates the backend over an ordered engine chain.
func NewSynthBackend(engines ...SynthEngine) *SynthBackend {
	return &SynthBackend{engines: engines}
}

// Probe selects the first available engine. Called once at session start.
func (b *SynthBackend) Probe(ctx context.Context) {
	for _, engine := range b.engines {
		if engine.Available(ctx) {
			b.active = engine
			log.Info().Str("engine", engine.Name()).Msg("System synthesis ready")
			return
		}
	}
	log.Warn().Msg("No speech synthesis engine available")
}

// Name returns the backend name.
func (b *SynthBackend) Name() string {
	if b.active != nil {
		return "synthesis/" + b.active.Name()
	}
	return "synthesis"
}

// Kind returns KindSynthesis.
func (b *SynthBackend) Kind() Kind {
	return KindSynthesis
}

// Ready reports whether any engine probed available.
func (b *SynthBackend) Ready() bool {
	return b.active != nil
}

// ActiveEngine returns the name of the selected engine, or "" if none.
func (b *SynthBackend) ActiveEngine() string {
	if b.active == nil {
		return ""
	}
	return b.active.Name()
}

// Speak renders text with the active engine, falling through the remaining
// chain on failure.
func (b *SynthBackend) Speak(ctx context.Context, text string) error {
	if b.active == nil {
		return fmt.Errorf("no synthesis engine available")
	}

	err := b.active.Render(ctx, text)
	if err == nil {
		return nil
	}
	log.Warn().Err(err).Str("engine", b.active.Name()).Msg("Synthesis engine failed, trying others")

	for _, engine := range b.engines {
		if engine == b.active || !engine.Available(ctx) {
			continue
		}
		renderErr := engine.Render(ctx, text)
		if renderErr == nil {
			return nil
		}
		log.Warn().Err(renderErr).Str("engine", engine.Name()).Msg("Synthesis engine failed")
		err = renderErr
	}
	return fmt.Errorf("all synthesis engines failed: %w", err)
}
