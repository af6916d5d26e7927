package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/barkuni-voice/barkuni/internal/samples"
)

// handleSamples reports on the voice sample manifest, and optionally
// validates a reference clip given as an argument.
func handleSamples(ctx context.Context, c *cli.Command) error {
	if reference := c.Args().Get(0); reference != "" {
		if samples.ValidateReference(reference) {
			color.Green("✓ %s is usable as a cloned-voice reference", reference)
			return nil
		}
		return fmt.Errorf("%s is not usable as a cloned-voice reference", reference)
	}

	manifest := c.String("manifest")
	if manifest == "" {
		manifest = samples.DefaultManifestName
	}

	library := samples.Load(manifest)
	if library.Empty() {
		fmt.Println("No usable voice samples found.")
		return nil
	}

	fmt.Printf("Voice samples (%d usable):\n", library.Count())
	for _, f := range library.Files() {
		fmt.Printf("  - %s\n", f)
	}

	if features := library.Features(); len(features) > 0 {
		fmt.Println("\nVoice features:")
		for _, feature := range features {
			fmt.Printf("  - %s\n", feature)
		}
	}
	return nil
}
