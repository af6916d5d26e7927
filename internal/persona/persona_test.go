package persona

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectedKey string
	}{
		{"exact barkuni", "Barkuni", KeyBarkuni},
		{"alternate spelling", "barkoni", KeyBarkuni},
		{"uppercase", "BARKUNI", KeyBarkuni},
		{"substring match", "The Real Barkoni Show", KeyBarkuni},
		{"other character", "Alice", KeyGeneric},
		{"empty name", "", KeyGeneric},
		{"whitespace only", "   ", KeyGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Resolve(tt.input)
			require.NotNil(t, p)
			assert.Equal(t, tt.expectedKey, p.Key)
		})
	}
}

func TestResolveKeepsDisplayName(t *testing.T) {
	p := Resolve("Mr Barkoni")
	assert.Equal(t, "Mr Barkoni", p.Name)

	p = Resolve("")
	assert.Equal(t, "Character", p.Name)
}

func TestBarkuniPersonaShape(t *testing.T) {
	p := Resolve("Barkuni")

	assert.True(t, p.Accent)
	assert.Contains(t, p.SystemPrompt, "BARKONI")
	assert.NotEmpty(t, p.Greeting)
	assert.NotEmpty(t, p.GreetingCloned)
	assert.NotEmpty(t, p.Farewell)
	assert.Len(t, p.IdlePrompts, 3)
	assert.NotEmpty(t, p.FinalIdlePrompt)
}

func TestGenericPersonaInterpolatesName(t *testing.T) {
	p := Resolve("Alice")

	assert.False(t, p.Accent)
	assert.Contains(t, p.SystemPrompt, "You are Alice")
	assert.Contains(t, p.Greeting, "Alice")
}

func TestCannedTableOrder(t *testing.T) {
	// Category order is load-bearing for the matcher: greeting must always
	// be checked before question, question before gratitude, and so on.
	expected := []string{"greeting", "question", "gratitude", "positive"}

	for _, name := range []string{"Barkuni", "Alice"} {
		p := Resolve(name)
		require.Len(t, p.Canned.Categories, len(expected))
		for i, cat := range p.Canned.Categories {
			assert.Equal(t, expected[i], cat.Name)
			assert.NotEmpty(t, cat.Keywords)
			assert.NotEmpty(t, cat.Replies)
		}
		assert.NotEmpty(t, p.Canned.Default)
		assert.NotEmpty(t, p.Canned.Apology)
	}
}

func TestBarkuniCannedIncludesHebrewKeywords(t *testing.T) {
	p := Resolve("Barkuni")

	var greeting Category
	for _, c := range p.Canned.Categories {
		if c.Name == "greeting" {
			greeting = c
		}
	}
	assert.Contains(t, greeting.Keywords, "shalom")
	assert.Contains(t, greeting.Keywords, "שלום")

	joined := strings.Join(greeting.Replies, " ")
	assert.Contains(t, joined, "BRO")
}
