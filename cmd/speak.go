package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/barkuni-voice/barkuni/internal/audio"
	"github.com/barkuni-voice/barkuni/internal/config"
	"github.com/barkuni-voice/barkuni/internal/persona"
)

// handleSpeak voices one line of text and exits. Text comes from the
// arguments, or stdin when none are given.
func handleSpeak(ctx context.Context, c *cli.Command) error {
	text := strings.Join(c.Args().Slice(), " ")
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}
	if text == "" {
		return fmt.Errorf("nothing to say")
	}

	cfg := config.Load()
	name := c.String("character")
	if name == "" {
		name = "Barkuni"
	}
	p := persona.Resolve(name)
	if c.Bool("plain") {
		p.Accent = false
	}

	player := audio.NewPlayer()
	settings := loadSettings()
	adapter, _ := buildVoiceStack(ctx, cfg, settings, c, p, player, storedReference(c, settings))

	if !adapter.Speak(ctx, text) {
		return fmt.Errorf("no voice backend could speak")
	}
	return nil
}
