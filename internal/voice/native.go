package voice

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/rs/zerolog/log"
)

// speechRate approximates the original character's delivery on engines that
// accept a words-per-minute setting.
const speechRate = "180"

// NativeEngine speaks through whatever speech synthesizer the operating
// system provides. The synthesizer command blocks until the utterance has
// been rendered, which gives Speak its synchronous contract for free.
type NativeEngine struct{}

// NewNativeEngine creates a NativeEngine.
func NewNativeEngine() *NativeEngine {
	return &NativeEngine{}
}

// Name returns the engine name.
func (e *NativeEngine) Name() string {
	return "native"
}

// Available reports whether any known synthesizer command is on PATH.
func (e *NativeEngine) Available(_ context.Context) bool {
	cmd, _ := e.resolveCommand("probe")
	return cmd != ""
}

// Render speaks the text, blocking until the synthesizer exits.
func (e *NativeEngine) Render(ctx context.Context, text string) error {
	name, args := e.resolveCommand(text)
	if name == "" {
		return fmt.Errorf("no system speech synthesizer found")
	}

	log.Debug().Str("synthesizer", name).Msg("Rendering with system voice")
	if err := exec.CommandContext(ctx, name, args...).Run(); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

// resolveCommand picks the first synthesizer present on this host.
func (e *NativeEngine) resolveCommand(text string) (string, []string) {
	switch {
	case isCommandAvailable("say"):
		// macOS
		return "say", []string{"-r", speechRate, text}
	case isCommandAvailable("espeak-ng"):
		return "espeak-ng", []string{"-s", speechRate, text}
	case isCommandAvailable("espeak"):
		return "espeak", []string{"-s", speechRate, text}
	case isCommandAvailable("spd-say"):
		// speech-dispatcher; --wait keeps the call synchronous
		return "spd-say", []string{"--wait", text}
	case runtime.GOOS == "windows" && isCommandAvailable("powershell"):
		script := fmt.Sprintf(
			"Add-Type -AssemblyName System.Speech; (New-Object System.Speech.Synthesis.SpeechSynthesizer).Speak(%q)",
			text,
		)
		return "powershell", []string{"-NoProfile", "-Command", script}
	}
	return "", nil
}

// isCommandAvailable checks if a command is available.
func isCommandAvailable(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}
