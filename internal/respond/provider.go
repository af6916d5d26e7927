package respond

import (
	"context"

	"github.com/barkuni-voice/barkuni/internal/conversation"
)

// Generation limits shared by every chat provider. Replies are rendered as
// speech, so they are kept short.
const (
	// HistoryWindow is how many of the most recent exchanges are sent as
	// context on each provider call.
	HistoryWindow = 8

	// MaxReplyTokens caps completion length.
	MaxReplyTokens = 120

	// SamplingTemperature is the fixed sampling temperature.
	SamplingTemperature = 0.8
)

// ChatProvider generates a reply from a remote model. Implementations must
// return an error for any network, auth or quota problem; the generator
// demotes those to canned responses and never surfaces them to the user.
type ChatProvider interface {
	// Name returns the provider name.
	Name() string

	// Complete generates a reply for input, given the persona system prompt
	// and the trailing history window in chronological order.
	Complete(ctx context.Context, system string, history []conversation.Entry, input string) (string, error)
}
