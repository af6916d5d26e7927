package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/barkuni-voice/barkuni/internal/audio"
	"github.com/barkuni-voice/barkuni/internal/config"
	"github.com/barkuni-voice/barkuni/internal/listen"
	"github.com/barkuni-voice/barkuni/internal/persona"
	"github.com/barkuni-voice/barkuni/internal/voice"
)

// handleDoctor runs every startup probe and reports what a chat session
// would have to work with, without starting one.
func handleDoctor(ctx context.Context, c *cli.Command) error {
	cfg := config.Load()
	p := persona.Resolve("Barkuni")
	player := audio.NewPlayer()

	settings := loadSettings()
	_, ready := buildVoiceStack(ctx, cfg, settings, c, p, player, storedReference(c, settings))

	check := func(on bool, label, yes, no string) {
		if on {
			color.Green("✓ %-18s %s", label, yes)
		} else {
			color.Yellow("✗ %-18s %s", label, no)
		}
	}

	fmt.Println("Chat:")
	check(cfg.AnthropicKey != "", "claude", "key configured", "no "+config.EnvAnthropicKey)
	check(cfg.OpenAIKey != "", "openai", "key configured", "no "+config.EnvOpenAIKey)

	fmt.Println("\nVoice output:")
	check(ready.SynthEngine != "", "synthesis", ready.SynthEngine, "no engine found")
	check(ready.CloneCapable, "clone capacity", "enough free memory", "below the memory floor")
	check(ready.CloneReady, "cloned voice", "engine and reference ready", "not available")
	check(ready.SampleCount > 0, "samples", fmt.Sprintf("%d usable", ready.SampleCount), "none usable")

	fmt.Println("\nVoice input:")
	recognizer, err := listen.NewRecognizer(cfg.OpenAIKey)
	if err != nil {
		check(false, "transcription", "", "no Whisper key or local binary")
	} else {
		check(true, "transcription", "ready", "")
		if initErr := recognizer.Init(); initErr != nil {
			check(false, "microphone", "", initErr.Error())
		} else {
			check(true, "microphone", "calibrated", "")
			recognizer.Close()
		}
	}

	if ready.Voice == voice.KindSynthesis && ready.SynthEngine == "" {
		return fmt.Errorf("no way to produce audio on this machine")
	}
	return nil
}
