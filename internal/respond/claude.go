package respond

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"

	"github.com/barkuni-voice/barkuni/internal/conversation"
)

// DefaultClaudeModel is the model used when none is configured.
const DefaultClaudeModel = "claude-opus-4-1-20250805"

// ClaudeProvider implements ChatProvider against the Anthropic Messages API.
type ClaudeProvider struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewClaudeProvider creates a Claude-backed chat provider.
func NewClaudeProvider(apiKey string) *ClaudeProvider {
	return &ClaudeProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(DefaultClaudeModel),
	}
}

// Name returns the provider name.
func (p *ClaudeProvider) Name() string {
	return "claude"
}

// Complete generates a reply via the Messages API.
func (p *ClaudeProvider) Complete(ctx context.Context, system string, history []conversation.Entry, input string) (string, error) {
	messages := make([]anthropic.MessageParam, 0, len(history)*2+1)
	for _, entry := range history {
		messages = append(messages,
			anthropic.NewUserMessage(anthropic.NewTextBlock(entry.User)),
			anthropic.NewAssistantMessage(anthropic.NewTextBlock(entry.Bot)),
		)
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(input)))

	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       p.model,
		MaxTokens:   MaxReplyTokens,
		Temperature: anthropic.Float(SamplingTemperature),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("claude completion failed: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return strings.TrimSpace(block.Text), nil
		}
	}

	log.Debug().Str("model", string(p.model)).Msg("Claude returned no text content")
	return "", fmt.Errorf("claude returned no text content")
}
