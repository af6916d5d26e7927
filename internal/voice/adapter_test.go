package voice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a scriptable Backend for adapter tests.
type fakeBackend struct {
	name   string
	kind   Kind
	ready  bool
	err    error
	spoken []string
}

func (f *fakeBackend) Name() string {
	return f.name
}

func (f *fakeBackend) Kind() Kind {
	return f.kind
}

func (f *fakeBackend) Ready() bool {
	return f.ready
}

func (f *fakeBackend) Speak(_ context.Context, text string) error {
	f.spoken = append(f.spoken, text)
	return f.err
}

func TestAdapterPrefersCharacterVoice(t *testing.T) {
	character := &fakeBackend{name: "clone", kind: KindClone, ready: true}
	synth := &fakeBackend{name: "synthesis", kind: KindSynthesis, ready: true}
	adapter := NewAdapter(synth, WithCharacterBackend(character))

	assert.Equal(t, KindClone, adapter.Preferred())
	assert.True(t, adapter.Speak(context.Background(), "shalom"))
	assert.Equal(t, []string{"shalom"}, character.spoken)
	assert.Empty(t, synth.spoken)
}

func TestAdapterFallsBackToSynthesis(t *testing.T) {
	character := &fakeBackend{name: "clone", kind: KindClone, ready: true, err: errors.New("engine crashed")}
	synth := &fakeBackend{name: "synthesis", kind: KindSynthesis, ready: true}
	adapter := NewAdapter(synth, WithCharacterBackend(character))

	assert.True(t, adapter.Speak(context.Background(), "hello"))
	assert.Len(t, character.spoken, 1)
	assert.Len(t, synth.spoken, 1)
}

func TestAdapterFalseWhenAllBackendsFail(t *testing.T) {
	character := &fakeBackend{name: "playback", kind: KindPlayback, ready: true, err: errors.New("samples gone")}
	synth := &fakeBackend{name: "synthesis", kind: KindSynthesis, ready: true, err: errors.New("no engine")}
	adapter := NewAdapter(synth, WithCharacterBackend(character))

	assert.False(t, adapter.Speak(context.Background(), "hello"))
}

func TestAdapterFalseWhenNothingReady(t *testing.T) {
	synth := &fakeBackend{name: "synthesis", kind: KindSynthesis, ready: false}
	adapter := NewAdapter(synth)

	assert.False(t, adapter.Speak(context.Background(), "hello"))
	assert.Empty(t, synth.spoken)
}

func TestAdapterSkipsUnreadyCharacterBackend(t *testing.T) {
	character := &fakeBackend{name: "clone", kind: KindClone, ready: false}
	synth := &fakeBackend{name: "synthesis", kind: KindSynthesis, ready: true}
	adapter := NewAdapter(synth, WithCharacterBackend(character))

	assert.Equal(t, KindSynthesis, adapter.Preferred())
	assert.True(t, adapter.Speak(context.Background(), "hello"))
	assert.Empty(t, character.spoken)
	assert.Len(t, synth.spoken, 1)
}

func TestAdapterToggle(t *testing.T) {
	character := &fakeBackend{name: "playback", kind: KindPlayback, ready: true}
	synth := &fakeBackend{name: "synthesis", kind: KindSynthesis, ready: true}
	adapter := NewAdapter(synth, WithCharacterBackend(character))

	require.Equal(t, KindPlayback, adapter.Preferred())

	assert.Equal(t, KindSynthesis, adapter.Toggle())
	assert.True(t, adapter.Speak(context.Background(), "hello"))
	assert.Empty(t, character.spoken)
	assert.Len(t, synth.spoken, 1)

	assert.Equal(t, KindPlayback, adapter.Toggle())
	assert.True(t, adapter.Speak(context.Background(), "again"))
	assert.Equal(t, []string{"again"}, character.spoken)
}

func TestAdapterToggleWithoutCharacterVoice(t *testing.T) {
	synth := &fakeBackend{name: "synthesis", kind: KindSynthesis, ready: true}
	adapter := NewAdapter(synth)

	assert.Equal(t, KindSynthesis, adapter.Toggle())
	assert.Equal(t, KindSynthesis, adapter.Preferred())
	assert.False(t, adapter.CharacterReady())
}

func TestAdapterAccentAppliesToSynthesisOnly(t *testing.T) {
	character := &fakeBackend{name: "clone", kind: KindClone, ready: true}
	synth := &fakeBackend{name: "synthesis", kind: KindSynthesis, ready: true}
	adapter := NewAdapter(synth, WithCharacterBackend(character), WithAccent())

	// The character voice gets the reply verbatim.
	require.True(t, adapter.Speak(context.Background(), "the cat"))
	assert.Equal(t, []string{"the cat"}, character.spoken)

	// Synthesis gets the accented rendering.
	adapter.Toggle()
	require.True(t, adapter.Speak(context.Background(), "the cat"))
	assert.Equal(t, []string{"ze cat"}, synth.spoken)
}

func TestAdapterWithoutAccentPassesTextThrough(t *testing.T) {
	synth := &fakeBackend{name: "synthesis", kind: KindSynthesis, ready: true}
	adapter := NewAdapter(synth)

	require.True(t, adapter.Speak(context.Background(), "the cat"))
	assert.Equal(t, []string{"the cat"}, synth.spoken)
}
