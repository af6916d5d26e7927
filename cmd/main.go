package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/barkuni-voice/barkuni/internal/config"
)

var (
	version  = "dev"
	revision = "none"
)

func main() {
	// Setup logger
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:  "barkuni",
		Usage: "Talk with Barkuni on your desktop",
		Description: `barkuni is a desktop voice chatbot impersonating the Israeli YouTuber
Barkuni. It replies in character, speaks through a cloned voice, recorded
samples, or system speech synthesis, and can listen through the microphone.`,
		Version: fmt.Sprintf("%s (rev: %s)", version, revision),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				Usage:   "Enable verbose logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "chat",
				Usage:   "Start a conversation with the character",
				Action:  handleChat,
				Aliases: []string{"c"},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "character",
						Aliases: []string{"n"},
						Usage:   "Character to talk to",
					},
					&cli.StringFlag{
						Name:  "reference",
						Usage: "Reference audio clip for the cloned voice",
					},
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "Voice sample manifest path",
					},
					&cli.StringFlag{
						Name:  "clone-url",
						Usage: "Cloned-voice engine address",
					},
					&cli.BoolFlag{
						Name:    "voice",
						Aliases: []string{"v"},
						Usage:   "Listen through the microphone instead of the keyboard",
					},
					&cli.StringFlag{
						Name:  "save",
						Usage: "Write the conversation log to this path on exit",
					},
					&cli.BoolFlag{
						Name:  "remember",
						Usage: "Store these options as defaults in " + config.SettingsFileName,
					},
					&cli.StringFlag{
						Name:  "api-key",
						Usage: "Chat provider API key (overrides environment)",
					},
				},
			},
			{
				Name:      "speak",
				Usage:     "Speak one line of text in the character's voice",
				Action:    handleSpeak,
				Aliases:   []string{"s"},
				ArgsUsage: "<text>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "character",
						Aliases: []string{"n"},
						Usage:   "Character voice to use",
					},
					&cli.StringFlag{
						Name:  "reference",
						Usage: "Reference audio clip for the cloned voice",
					},
					&cli.StringFlag{
						Name:  "clone-url",
						Usage: "Cloned-voice engine address",
					},
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "Voice sample manifest path",
					},
					&cli.BoolFlag{
						Name:  "plain",
						Usage: "Skip the accent transform",
					},
				},
			},
			{
				Name:      "samples",
				Usage:     "Inspect the voice sample manifest",
				Action:    handleSamples,
				ArgsUsage: "[reference-clip]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "Voice sample manifest path",
					},
				},
			},
			{
				Name:   "doctor",
				Usage:  "Check which voice and chat subsystems are usable",
				Action: handleDoctor,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "reference",
						Usage: "Reference audio clip for the cloned voice",
					},
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "Voice sample manifest path",
					},
					&cli.StringFlag{
						Name:  "clone-url",
						Usage: "Cloned-voice engine address",
					},
				},
			},
		},
		Before: func(ctx context.Context, c *cli.Command) error {
			if c.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("Failed to run application")
	}
}
