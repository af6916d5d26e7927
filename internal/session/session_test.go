package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barkuni-voice/barkuni/internal/conversation"
	"github.com/barkuni-voice/barkuni/internal/listen"
	"github.com/barkuni-voice/barkuni/internal/persona"
	"github.com/barkuni-voice/barkuni/internal/respond"
	"github.com/barkuni-voice/barkuni/internal/voice"
)

// fakeSpeaker records everything spoken and can simulate toggling.
type fakeSpeaker struct {
	spoken    []string
	preferred voice.Kind
}

func (f *fakeSpeaker) Speak(_ context.Context, text string) bool {
	f.spoken = append(f.spoken, text)
	return true
}

func (f *fakeSpeaker) Toggle() voice.Kind {
	if f.preferred == voice.KindSynthesis {
		f.preferred = voice.KindPlayback
	} else {
		f.preferred = voice.KindSynthesis
	}
	return f.preferred
}

// echoResponder replies with a transform of the input so tests can track
// which turn produced which reply.
type echoResponder struct {
	calls int
}

func (e *echoResponder) Generate(_ context.Context, input string, _ []conversation.Entry) string {
	e.calls++
	return "re: " + input
}

// scriptedListener replays a fixed sequence of utterances and errors.
type scriptedListener struct {
	script []scriptStep
	pos    int
}

type scriptStep struct {
	text string
	err  error
}

func (s *scriptedListener) Listen(_ context.Context, _ time.Duration) (string, error) {
	if s.pos >= len(s.script) {
		return "goodbye", nil
	}
	step := s.script[s.pos]
	s.pos++
	return step.text, step.err
}

func newTestSession(t *testing.T, opts ...SessionOption) (*Session, *fakeSpeaker, *echoResponder) {
	t.Helper()
	speaker := &fakeSpeaker{preferred: voice.KindPlayback}
	responder := &echoResponder{}
	return NewSession(persona.Resolve("Barkuni"), responder, speaker, opts...), speaker, responder
}

func TestSessionStartGreets(t *testing.T) {
	s, speaker, _ := newTestSession(t)
	s.Start(context.Background())

	require.Len(t, speaker.spoken, 1)
	assert.Equal(t, persona.Resolve("Barkuni").Greeting, speaker.spoken[0])
	assert.Equal(t, StateReady, s.State())
}

func TestSessionStartClonedGreeting(t *testing.T) {
	s, speaker, _ := newTestSession(t, WithCloneGreeting())
	s.Start(context.Background())

	require.Len(t, speaker.spoken, 1)
	assert.Equal(t, persona.Resolve("Barkuni").GreetingCloned, speaker.spoken[0])
}

func TestSessionHandleTextTurn(t *testing.T) {
	s, speaker, _ := newTestSession(t)
	s.Start(context.Background())

	reply, done := s.HandleText(context.Background(), "tell me a joke")
	assert.False(t, done)
	assert.Equal(t, "re: tell me a joke", reply)
	assert.Contains(t, speaker.spoken, reply)

	entries := s.History().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "tell me a joke", entries[0].User)
	assert.Equal(t, reply, entries[0].Bot)
}

func TestSessionHandleTextBlankLine(t *testing.T) {
	s, _, responder := newTestSession(t)
	s.Start(context.Background())

	reply, done := s.HandleText(context.Background(), "   ")
	assert.Empty(t, reply)
	assert.False(t, done)
	assert.Zero(t, responder.calls)
}

func TestSessionTextExitWords(t *testing.T) {
	for _, word := range []string{"quit", "exit", "bye", "goodbye", "QUIT"} {
		t.Run(word, func(t *testing.T) {
			s, speaker, _ := newTestSession(t)
			s.Start(context.Background())

			reply, done := s.HandleText(context.Background(), word)
			assert.True(t, done)
			assert.Equal(t, persona.Resolve("Barkuni").Farewell, reply)
			assert.Equal(t, StateEnded, s.State())
			assert.Contains(t, speaker.spoken, reply)
			assert.Empty(t, s.History().Entries())
		})
	}
}

func TestSessionTextExitRequiresExactMatch(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Start(context.Background())

	_, done := s.HandleText(context.Background(), "don't quit on me")
	assert.False(t, done)
	assert.Equal(t, StateReady, s.State())
}

func TestSessionSwitchVoiceCommand(t *testing.T) {
	s, speaker, responder := newTestSession(t)
	s.Start(context.Background())

	reply, done := s.HandleText(context.Background(), "please switch voice")
	assert.False(t, done)
	assert.Equal(t, "Okay, switching to my regular voice!", reply)
	assert.Equal(t, voice.KindSynthesis, speaker.preferred)

	// No generation and no history entry for the command.
	assert.Zero(t, responder.calls)
	assert.Empty(t, s.History().Entries())
}

func TestSessionSwitchVoiceWithoutSpeaker(t *testing.T) {
	s := NewSession(persona.Resolve("Barkuni"), &echoResponder{}, nil)
	s.Start(context.Background())

	reply, done := s.HandleText(context.Background(), "switch voice")
	assert.False(t, done)
	assert.Equal(t, "I only have my text voice right now!", reply)
}

func TestVoiceLoopIdlePromptEscalation(t *testing.T) {
	p := persona.Resolve("Barkuni")
	script := make([]scriptStep, 0, 8)
	// Six silent rounds: three idle prompts, one final prompt, then quiet.
	for i := 0; i < 6; i++ {
		script = append(script, scriptStep{err: listen.ErrNoSpeech})
	}
	script = append(script, scriptStep{text: "okay goodbye then"})

	s, speaker, _ := newTestSession(t, WithListener(&scriptedListener{script: script}))
	s.Start(context.Background())
	s.RunVoiceLoop(context.Background(), time.Second)

	require.Equal(t, StateEnded, s.State())

	want := []string{p.Greeting}
	want = append(want, p.IdlePrompts...)
	want = append(want, p.FinalIdlePrompt, p.Farewell)
	assert.Equal(t, want, speaker.spoken)
}

func TestVoiceLoopSpeechResetsIdleCounter(t *testing.T) {
	script := []scriptStep{
		{err: listen.ErrNoSpeech},
		{text: "hello there"},
		{err: listen.ErrNoSpeech},
		{text: "goodbye"},
	}

	s, speaker, _ := newTestSession(t, WithListener(&scriptedListener{script: script}))
	s.Start(context.Background())
	s.RunVoiceLoop(context.Background(), time.Second)

	p := persona.Resolve("Barkuni")
	// The second silence replays the first idle prompt, not the second.
	assert.Equal(t, []string{
		p.Greeting,
		p.IdlePrompts[0],
		"re: hello there",
		p.IdlePrompts[0],
		p.Farewell,
	}, speaker.spoken)
}

func TestVoiceLoopExitByWholeWord(t *testing.T) {
	for _, phrase := range []string{"okay bye for now", "Goodbye, Barkuni!"} {
		t.Run(phrase, func(t *testing.T) {
			script := []scriptStep{{text: phrase}}
			s, _, responder := newTestSession(t, WithListener(&scriptedListener{script: script}))
			s.Start(context.Background())
			s.RunVoiceLoop(context.Background(), time.Second)

			assert.Equal(t, StateEnded, s.State())
			assert.Zero(t, responder.calls)
		})
	}
}

func TestVoiceLoopExitIgnoresEmbeddedWords(t *testing.T) {
	// "maybe" contains "bye" but must not end the session.
	script := []scriptStep{
		{text: "maybe we should keep talking"},
		{text: "goodbye"},
	}
	s, _, responder := newTestSession(t, WithListener(&scriptedListener{script: script}))
	s.Start(context.Background())
	s.RunVoiceLoop(context.Background(), time.Second)

	assert.Equal(t, StateEnded, s.State())
	assert.Equal(t, 1, responder.calls)
	entries := s.History().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "maybe we should keep talking", entries[0].User)
}

func TestVoiceLoopContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, _, _ := newTestSession(t, WithListener(&scriptedListener{}))
	s.Start(context.Background())
	s.RunVoiceLoop(ctx, time.Second)

	assert.Equal(t, StateEnded, s.State())
}

// panicResponder blows up on demand to exercise turn isolation.
type panicResponder struct {
	fail bool
}

func (p *panicResponder) Generate(_ context.Context, input string, _ []conversation.Entry) string {
	if p.fail {
		p.fail = false
		panic("provider exploded")
	}
	return "fine: " + input
}

func TestVoiceLoopTurnPanicIsContained(t *testing.T) {
	p := persona.Resolve("Barkuni")
	script := []scriptStep{
		{text: "break please"},
		{text: "still there?"},
		{text: "goodbye"},
	}

	speaker := &fakeSpeaker{preferred: voice.KindPlayback}
	s := NewSession(p, &panicResponder{fail: true}, speaker, WithListener(&scriptedListener{script: script}))
	s.Start(context.Background())
	s.RunVoiceLoop(context.Background(), time.Second)

	assert.Equal(t, StateEnded, s.State())
	assert.Contains(t, speaker.spoken, p.Canned.Apology)
	assert.Contains(t, speaker.spoken, "fine: still there?")
}

// Full text conversation: greeting, two generated turns, farewell, and a log
// holding exactly the two real turns.
func TestTextConversationEndToEnd(t *testing.T) {
	p := persona.Resolve("Barkuni")
	gen := respond.New(p, nil, respond.WithSeed(7))
	speaker := &fakeSpeaker{preferred: voice.KindPlayback}

	var shown []string
	s := NewSession(p, gen, speaker, WithDisplay(func(text string) {
		shown = append(shown, text)
	}))
	s.Start(context.Background())

	reply1, done := s.HandleText(context.Background(), "hello!")
	require.False(t, done)
	assert.Contains(t, greetingReplies(p), reply1)

	reply2, done := s.HandleText(context.Background(), "thanks for everything")
	require.False(t, done)
	assert.Contains(t, gratitudeReplies(p), reply2)

	farewell, done := s.HandleText(context.Background(), "quit")
	require.True(t, done)
	assert.Equal(t, p.Farewell, farewell)
	assert.Equal(t, StateEnded, s.State())

	// Greeting, two replies, farewell all went through the display hook.
	assert.Equal(t, []string{p.Greeting, reply1, reply2, p.Farewell}, shown)

	entries := s.History().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "hello!", entries[0].User)
	assert.Equal(t, "thanks for everything", entries[1].User)

	// The quit command is never logged as a turn.
	logPath := filepath.Join(t.TempDir(), "log.json")
	require.NoError(t, s.History().SaveLog(logPath))
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	var logged []map[string]string
	require.NoError(t, json.Unmarshal(data, &logged))
	assert.Len(t, logged, 2)
}

func greetingReplies(p *persona.Persona) []string {
	return categoryReplies(p, "greeting")
}

func gratitudeReplies(p *persona.Persona) []string {
	return categoryReplies(p, "gratitude")
}

func categoryReplies(p *persona.Persona, name string) []string {
	for _, c := range p.Canned.Categories {
		if c.Name == name {
			return c.Replies
		}
	}
	panic(fmt.Sprintf("no category %q", name))
}
