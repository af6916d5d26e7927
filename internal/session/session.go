package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/barkuni-voice/barkuni/internal/conversation"
	"github.com/barkuni-voice/barkuni/internal/listen"
	"github.com/barkuni-voice/barkuni/internal/persona"
	"github.com/barkuni-voice/barkuni/internal/voice"
)

// State is the session lifecycle phase.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateReady         State = "ready"
	StateListening     State = "listening"
	StateSpeaking      State = "speaking"
	StateEnded         State = "ended"
)

// exitWords end the conversation. Text input must match exactly; voice input
// matches any whole word of the transcription since transcriptions carry
// filler words. Whole words only, so "maybe" never trips "bye".
var exitWords = []string{"quit", "exit", "bye", "goodbye"}

// switchVoiceCommand toggles between the character voice and synthesis.
const switchVoiceCommand = "switch voice"

// Speaker voices replies. Implemented by voice.Adapter.
type Speaker interface {
	Speak(ctx context.Context, text string) bool
	Toggle() voice.Kind
}

// Listener captures one phrase of user speech as text.
type Listener interface {
	Listen(ctx context.Context, timeout time.Duration) (string, error)
}

// Responder produces one reply. Implemented by respond.Generator.
type Responder interface {
	Generate(ctx context.Context, input string, history []conversation.Entry) string
}

// Session drives one conversation with the character. It owns the history
// and the lifecycle state; rendering goes through the Speaker and the display
// hook so the session logic stays free of terminal concerns.
type Session struct {
	persona   *persona.Persona
	responder Responder
	speaker   Speaker
	listener  Listener

	history *conversation.History
	state   State

	cloneGreeting bool
	display       func(text string)

	idleRounds int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithListener enables voice input.
func WithListener(l Listener) SessionOption {
	return func(s *Session) {
		s.listener = l
	}
}

// WithDisplay sets the hook that shows each character line on screen.
func WithDisplay(fn func(text string)) SessionOption {
	return func(s *Session) {
		s.display = fn
	}
}

// WithCloneGreeting makes Start use the cloned-voice greeting.
func WithCloneGreeting() SessionOption {
	return func(s *Session) {
		s.cloneGreeting = true
	}
}

// NewSession creates a Session. speaker may be nil for text-only output.
func NewSession(p *persona.Persona, responder Responder, speaker Speaker, opts ...SessionOption) *Session {
	s := &Session{
		persona:   p,
		responder: responder,
		speaker:   speaker,
		history:   conversation.NewHistory(),
		state:     StateUninitialized,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	return s.state
}

// History returns the conversation history.
func (s *Session) History() *conversation.History {
	return s.history
}

// Start greets the user. The cloned-voice greeting is used when the cloned
// voice came up at startup.
func (s *Session) Start(ctx context.Context) {
	greeting := s.persona.Greeting
	if s.cloneGreeting && s.persona.GreetingCloned != "" {
		greeting = s.persona.GreetingCloned
	}
	s.deliver(ctx, greeting)
	s.state = StateReady
}

// HandleText processes one line of typed input. done is true once the
// conversation has ended; the returned reply is what was shown and spoken,
// or "" when the input produced no turn (blank line).
func (s *Session) HandleText(ctx context.Context, input string) (reply string, done bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	if isExitWord(input, false) {
		s.end(ctx)
		return s.persona.Farewell, true
	}

	if strings.Contains(strings.ToLower(input), switchVoiceCommand) {
		return s.switchVoice(ctx), false
	}

	return s.respond(ctx, input), false
}

// RunVoiceLoop listens and replies until the user says goodbye or the
// context is cancelled. Consecutive silent rounds escalate through the
// persona's idle prompts; after the final one the session waits silently.
func (s *Session) RunVoiceLoop(ctx context.Context, timeout time.Duration) {
	for s.state != StateEnded {
		if ctx.Err() != nil {
			s.state = StateEnded
			return
		}

		s.runVoiceTurn(ctx, timeout)
	}
}

// runVoiceTurn executes one listen-respond round. A panic anywhere in the
// round is confined to it: the session apologizes and keeps going.
func (s *Session) runVoiceTurn(ctx context.Context, timeout time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Conversation turn panicked")
			s.deliver(ctx, s.persona.Canned.Apology)
		}
	}()

	s.state = StateListening
	input, err := s.listener.Listen(ctx, timeout)
	s.state = StateReady

	if err != nil {
		if errors.Is(err, listen.ErrNoSpeech) {
			s.handleSilence(ctx)
			return
		}
		log.Warn().Err(err).Msg("Listening failed")
		return
	}

	s.idleRounds = 0

	if isExitWord(input, true) {
		s.end(ctx)
		return
	}

	if strings.Contains(strings.ToLower(input), switchVoiceCommand) {
		s.switchVoice(ctx)
		return
	}

	s.respond(ctx, input)
}

// handleSilence escalates through the idle prompts, then goes quiet.
func (s *Session) handleSilence(ctx context.Context) {
	s.idleRounds++

	switch {
	case s.idleRounds <= len(s.persona.IdlePrompts):
		s.deliver(ctx, s.persona.IdlePrompts[s.idleRounds-1])
	case s.idleRounds == len(s.persona.IdlePrompts)+1:
		s.deliver(ctx, s.persona.FinalIdlePrompt)
	default:
		// Stay silent until the user speaks again.
	}
}

// respond generates a reply, records the turn, and voices it.
func (s *Session) respond(ctx context.Context, input string) string {
	reply := s.responder.Generate(ctx, input, s.history.Entries())
	s.history.Append(input, reply)
	s.deliver(ctx, reply)
	return reply
}

// switchVoice toggles the voice backend without generating a reply or
// recording a history entry.
func (s *Session) switchVoice(ctx context.Context) string {
	if s.speaker == nil {
		confirmation := "I only have my text voice right now!"
		s.deliver(ctx, confirmation)
		return confirmation
	}
	kind := s.speaker.Toggle()

	confirmation := "Okay, back to my real voice!"
	if kind == voice.KindSynthesis {
		confirmation = "Okay, switching to my regular voice!"
	}
	s.deliver(ctx, confirmation)
	return confirmation
}

// end says the farewell and closes the session.
func (s *Session) end(ctx context.Context) {
	s.deliver(ctx, s.persona.Farewell)
	s.state = StateEnded
}

// deliver shows a character line and voices it.
func (s *Session) deliver(ctx context.Context, text string) {
	s.state = StateSpeaking
	if s.display != nil {
		s.display(text)
	}
	if s.speaker != nil {
		s.speaker.Speak(ctx, text)
	}
	s.state = StateReady
}

// isExitWord checks whether input ends the conversation. Voice input matches
// whole words anywhere in the transcription because transcriptions pick up
// filler around the goodbye.
func isExitWord(input string, spoken bool) bool {
	lower := strings.ToLower(strings.TrimSpace(input))
	for _, word := range exitWords {
		if lower == word {
			return true
		}
	}
	if !spoken {
		return false
	}

	for _, token := range strings.Fields(lower) {
		token = strings.Trim(token, ".,!?")
		for _, word := range exitWords {
			if token == word {
				return true
			}
		}
	}
	return false
}
