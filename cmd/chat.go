package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/barkuni-voice/barkuni/internal/audio"
	"github.com/barkuni-voice/barkuni/internal/config"
	"github.com/barkuni-voice/barkuni/internal/conversation"
	"github.com/barkuni-voice/barkuni/internal/listen"
	"github.com/barkuni-voice/barkuni/internal/persona"
	"github.com/barkuni-voice/barkuni/internal/respond"
	"github.com/barkuni-voice/barkuni/internal/samples"
	"github.com/barkuni-voice/barkuni/internal/session"
	"github.com/barkuni-voice/barkuni/internal/voice"
)

func handleChat(ctx context.Context, c *cli.Command) error {
	cfg := config.Load()
	settings := loadSettings()
	stdin := bufio.NewReader(os.Stdin)

	name := c.String("character")
	if name == "" {
		name = settings.Character
	}
	if name == "" {
		name = promptLine(stdin, "Who do you want to talk to? [Barkuni]: ", "Barkuni")
	}
	p := persona.Resolve(name)

	reference := resolveReference(stdin, storedReference(c, settings))
	apiKey := resolveAPIKey(stdin, c.String("api-key"), cfg)

	if c.Bool("remember") {
		remembered := config.Settings{
			Character: name,
			Reference: reference,
			Manifest:  c.String("manifest"),
			CloneURL:  c.String("clone-url"),
		}
		if err := config.SaveSettings(".", &remembered); err != nil {
			log.Warn().Err(err).Msg("Could not store defaults")
		} else {
			settings = &remembered
		}
	}

	provider := buildChatProvider(cfg, apiKey)
	gen := respond.New(p, provider)

	player := audio.NewPlayer()
	adapter, ready := buildVoiceStack(ctx, cfg, settings, c, p, player, reference)
	ready.Character = p.Name
	if provider != nil {
		ready.Provider = provider.Name()
	}
	opts := []session.SessionOption{
		session.WithDisplay(func(text string) {
			color.Cyan("%s: %s", p.Name, text)
		}),
	}
	if ready.CloneReady {
		opts = append(opts, session.WithCloneGreeting())
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recognizer *listen.Recognizer
	if c.Bool("voice") {
		var err error
		recognizer, err = listen.NewRecognizer(cfg.OpenAIKey)
		if err == nil {
			err = recognizer.Init()
		}
		if err != nil {
			log.Warn().Err(err).Msg("Voice input unavailable, falling back to the keyboard")
			recognizer = nil
		} else {
			defer recognizer.Close()
			opts = append(opts, session.WithListener(recognizer))
			ready.Listening = true
		}
	}

	printReadiness(ready)

	sess := session.NewSession(p, gen, adapter, opts...)
	sess.Start(ctx)

	if recognizer != nil {
		color.Yellow("Listening. Say \"goodbye\" to finish, or \"switch voice\" to change how I sound.")
		sess.RunVoiceLoop(ctx, listen.DefaultTimeout)
	} else {
		runTextLoop(ctx, sess, stdin)
	}

	return saveLogIfWanted(sess, p, c.String("save"), stdin)
}

// runTextLoop reads typed lines until the conversation ends. EOF counts as a
// goodbye so piped input still gets a farewell.
func runTextLoop(ctx context.Context, sess *session.Session, stdin *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			break
		}

		color.New(color.FgGreen).Print("You: ")
		line, err := stdin.ReadString('\n')
		if err != nil {
			fmt.Println()
			break
		}

		if _, done := sess.HandleText(ctx, line); done {
			return
		}
	}

	if sess.State() != session.StateEnded {
		_, _ = sess.HandleText(context.WithoutCancel(ctx), "goodbye")
	}
}

// saveLogIfWanted writes the conversation log. With no --save path the user
// is asked; a non-interactive session defaults to not saving.
func saveLogIfWanted(sess *session.Session, p *persona.Persona, path string, stdin *bufio.Reader) error {
	if sess.History().Len() == 0 {
		return nil
	}

	if path == "" {
		answer := promptLine(stdin, "Save conversation log? [y/N]: ", "n")
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			return nil
		}
		path = conversation.DefaultLogName(p.Name, time.Now())
	}

	if err := sess.History().SaveLog(path); err != nil {
		return fmt.Errorf("failed to save conversation log: %w", err)
	}
	color.Yellow("Conversation saved to %s", path)
	return nil
}

// buildChatProvider picks the chat provider from an explicit key or the
// environment. Claude wins when both are configured. nil means canned-only.
func buildChatProvider(cfg config.Config, flagKey string) respond.ChatProvider {
	if flagKey != "" {
		if strings.HasPrefix(flagKey, "sk-ant") {
			return respond.NewClaudeProvider(flagKey)
		}
		return respond.NewOpenAIProvider(flagKey)
	}

	switch {
	case cfg.AnthropicKey != "":
		return respond.NewClaudeProvider(cfg.AnthropicKey)
	case cfg.OpenAIKey != "":
		return respond.NewOpenAIProvider(cfg.OpenAIKey)
	}

	log.Info().Msg("No chat provider key found, replies will be canned")
	return nil
}

// storedReference resolves the reference clip path from the flag or the
// settings file, without asking the user.
func storedReference(c *cli.Command, settings *config.Settings) string {
	if r := c.String("reference"); r != "" {
		return r
	}
	return settings.Reference
}

// resolveReference asks whether to use the cloned voice, and for a reference
// clip, when nothing supplied one. Declining means no cloning.
func resolveReference(stdin *bufio.Reader, stored string) string {
	if stored != "" {
		return stored
	}

	answer := promptLine(stdin, "Clone a voice from a reference clip? [y/N]: ", "n")
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		return ""
	}
	return promptLine(stdin, "Path to the reference clip: ", "")
}

// resolveAPIKey asks for a chat key when neither the flag nor the environment
// provides one. A blank answer keeps the canned replies.
func resolveAPIKey(stdin *bufio.Reader, flagKey string, cfg config.Config) string {
	if flagKey != "" || cfg.HasChatProvider() {
		return flagKey
	}
	return promptLine(stdin, "Claude or OpenAI API key (blank for canned replies): ", "")
}

// loadSettings reads the per-directory settings file, degrading to empty
// defaults when it is missing or unreadable.
func loadSettings() *config.Settings {
	settings, err := config.LoadSettings(".")
	if err != nil {
		log.Warn().Err(err).Msg("Ignoring unreadable settings file")
	}
	if settings == nil {
		settings = &config.Settings{}
	}
	return settings
}

// buildVoiceStack probes every voice subsystem and assembles the adapter.
// Each probe is independent: a failing engine just drops out of the stack.
func buildVoiceStack(ctx context.Context, cfg config.Config, settings *config.Settings, c *cli.Command, p *persona.Persona, player *audio.Player, reference string) (*voice.Adapter, session.Readiness) {
	engines := []voice.SynthEngine{voice.NewNativeEngine()}
	if cfg.GCPCredentials != "" {
		if e, err := voice.NewGCPEngine(ctx, player); err == nil {
			engines = append(engines, e)
		} else {
			log.Warn().Err(err).Msg("Cloud TTS engine unavailable")
		}
	}
	if cfg.AWSRegion != "" {
		if e, err := voice.NewPollyEngine(ctx, player, cfg.AWSRegion); err == nil {
			engines = append(engines, e)
		} else {
			log.Warn().Err(err).Msg("Polly engine unavailable")
		}
	}

	synth := voice.NewSynthBackend(engines...)
	synth.Probe(ctx)

	ready := session.Readiness{
		Voice:        voice.KindSynthesis,
		SynthEngine:  synth.ActiveEngine(),
		CloneCapable: session.CloneCapable(),
	}

	cloneURL := c.String("clone-url")
	if cloneURL == "" {
		cloneURL = settings.CloneURL
	}
	if cloneURL == "" {
		cloneURL = cfg.CloneURL
	}

	var character voice.Backend
	if reference != "" {
		switch {
		case !samples.ValidateReference(reference):
			log.Warn().Str("reference", reference).Msg("Reference clip failed validation")
		case !ready.CloneCapable:
			log.Warn().Msg("Not enough free memory for the cloned voice")
		default:
			clone := voice.NewCloneBackend(cloneURL, player)
			clone.Probe(ctx, reference)
			if clone.Ready() {
				character = clone
				ready.CloneReady = true
			}
		}
	}

	manifest := c.String("manifest")
	if manifest == "" {
		manifest = settings.Manifest
	}
	if manifest == "" {
		manifest = samples.DefaultManifestName
	}
	library := samples.Load(manifest)
	ready.SampleCount = library.Count()

	if character == nil {
		if playback := voice.NewPlaybackBackend(library, player); playback.Ready() {
			character = playback
		}
	}

	opts := []voice.AdapterOption{}
	if character != nil {
		opts = append(opts, voice.WithCharacterBackend(character))
		ready.Voice = character.Kind()
	}
	if p.Accent {
		opts = append(opts, voice.WithAccent())
	}

	return voice.NewAdapter(synth, opts...), ready
}

// printReadiness shows what the startup probes found.
func printReadiness(r session.Readiness) {
	ok := color.New(color.FgGreen).SprintFunc()
	off := color.New(color.FgYellow).SprintFunc()

	status := func(on bool, yes, no string) string {
		if on {
			return ok(yes)
		}
		return off(no)
	}

	fmt.Printf("Character:   %s\n", r.Character)
	fmt.Printf("Brain:       %s\n", status(r.Provider != "", r.Provider, "canned replies"))
	fmt.Printf("Voice:       %s\n", status(r.Voice != voice.KindSynthesis, string(r.Voice), "system synthesis"))
	if r.SynthEngine != "" {
		fmt.Printf("Synthesis:   %s\n", ok(r.SynthEngine))
	} else {
		fmt.Printf("Synthesis:   %s\n", off("unavailable, text only"))
	}
	fmt.Printf("Samples:     %d\n", r.SampleCount)
	fmt.Printf("Clone-ready: %s\n", status(r.CloneReady, "yes", "no"))
	fmt.Println()
}

// promptLine reads one answer, returning def on EOF or a blank line.
func promptLine(stdin *bufio.Reader, prompt, def string) string {
	fmt.Print(prompt)
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		fmt.Println()
		return def
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}
