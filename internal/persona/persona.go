package persona

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// Persona is the resolved character configuration driving response
// generation and voice rendering. It is resolved exactly once at session
// construction; downstream components branch on its fields, never on the raw
// character name.
type Persona struct {
	// Key identifies the registry entry this persona was resolved from.
	Key string

	// Name is the display name exactly as the user entered it.
	Name string

	// SystemPrompt is the character-voice description sent to remote chat
	// providers.
	SystemPrompt string

	// Canned is the category fallback table used when no provider is
	// configured or a provider call fails.
	Canned CannedTable

	// Accent enables the accent transformer on system-synthesized speech.
	Accent bool

	// Greeting and GreetingCloned open the conversation, depending on
	// whether the cloned voice loaded. Farewell closes it.
	Greeting       string
	GreetingCloned string
	Farewell       string

	// IdlePrompts are spoken on consecutive listen timeouts, in order. After
	// FinalIdlePrompt the session goes silent.
	IdlePrompts     []string
	FinalIdlePrompt string
}

// Category is one keyword-matched bucket of canned replies.
type Category struct {
	Name     string
	Keywords []string
	Replies  []string
}

// CannedTable holds the ordered fallback categories for a persona. Matching
// is first-category-wins in declaration order; Default is used when no
// category matches (including empty input). Apology is the absolute fallback
// for unexpected internal errors.
type CannedTable struct {
	Categories []Category
	Default    []string
	Apology    string
}

// Resolve maps a character name to a persona. Names containing "barkuni" or
// "barkoni" (case-insensitive) resolve to the Barkuni persona; everything
// else gets the generic friendly character.
func Resolve(name string) *Persona {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		trimmed = "Character"
	}

	lower := strings.ToLower(trimmed)
	var p Persona
	if strings.Contains(lower, "barkuni") || strings.Contains(lower, "barkoni") {
		p = barkuniPersona(trimmed)
	} else {
		p = genericPersona(trimmed)
	}

	log.Debug().Str("name", trimmed).Str("persona", p.Key).Msg("Resolved persona")
	return &p
}
