package respond

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/barkuni-voice/barkuni/internal/conversation"
	"github.com/barkuni-voice/barkuni/internal/persona"
)

// Generator decides how a reply is produced: remote provider when one is
// configured and reachable, canned category fallback otherwise, and a static
// apology if anything blows up internally. Generate never returns an empty
// string and never fails.
type Generator struct {
	persona  *persona.Persona
	provider ChatProvider // nil when no provider is configured

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed fixes the random seed used for canned reply selection.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// New creates a Generator for the given persona. provider may be nil, in
// which case every reply comes from the canned table.
func New(p *persona.Persona, provider ChatProvider, opts ...Option) *Generator {
	g := &Generator{
		persona:  p,
		provider: provider,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// HasProvider reports whether a remote provider is configured.
func (g *Generator) HasProvider() bool {
	return g.provider != nil
}

// ProviderName returns the configured provider name, or "" without one.
func (g *Generator) ProviderName() string {
	if g.provider == nil {
		return ""
	}
	return g.provider.Name()
}

// Generate produces a reply to input given the full conversation history.
// Only the most recent HistoryWindow entries are forwarded to the provider.
func (g *Generator) Generate(ctx context.Context, input string, history []conversation.Entry) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Response generation panicked")
			reply = g.persona.Canned.Apology
		}
	}()

	if g.provider != nil {
		text, err := g.provider.Complete(ctx, g.persona.SystemPrompt, lastN(history, HistoryWindow), input)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		log.Warn().Err(err).Str("provider", g.provider.Name()).Msg("Provider call failed, using canned response")
	}

	return g.canned(input)
}

// canned picks a reply from the matching category bucket.
func (g *Generator) canned(input string) string {
	category, replies := matchCategory(g.persona.Canned, input)
	if len(replies) == 0 {
		return g.persona.Canned.Apology
	}

	g.mu.Lock()
	reply := replies[g.rng.Intn(len(replies))]
	g.mu.Unlock()

	log.Debug().Str("category", category).Msg("Selected canned response")
	return reply
}

// lastN returns the trailing n entries in chronological order.
func lastN(history []conversation.Entry, n int) []conversation.Entry {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
