package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/barkuni-voice/barkuni/internal/audio"
)

// DefaultCloneURL is where a local XTTS-compatible synthesis server is
// expected to listen.
const DefaultCloneURL = "http://127.0.0.1:8020"

// cloneRequest is the synthesis request body for the local engine.
type cloneRequest struct {
	Text       string `json:"text"`
	SpeakerWav string `json:"speaker_wav"`
	Language   string `json:"language"`
}

// CloneBackend synthesizes speech in the character's own voice using a
// local neural TTS server conditioned on a reference sample.
type CloneBackend struct {
	baseURL    string
	reference  string
	player     *audio.Player
	httpClient *http.Client
	ready      bool
}

// NewCloneBackend creates the backend. It is not usable until Probe has
// confirmed the engine is up and a reference sample is loaded.
func NewCloneBackend(baseURL string, player *audio.Player) *CloneBackend {
	if baseURL == "" {
		baseURL = DefaultCloneURL
	}
	return &CloneBackend{
		baseURL: baseURL,
		player:  player,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Probe checks the engine's health endpoint and records the reference
// sample. Called once at session start; not re-run on voice toggles.
func (b *CloneBackend) Probe(ctx context.Context, referencePath string) {
	b.reference = referencePath
	if referencePath == "" {
		log.Debug().Msg("No reference sample, cloned voice disabled")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/health", nil)
	if err != nil {
		return
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("url", b.baseURL).Msg("Cloned-voice engine not reachable")
		return
	}
	_ = resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		b.ready = true
		log.Info().Str("url", b.baseURL).Str("reference", referencePath).Msg("Cloned voice ready")
	}
}

// Name returns the backend name.
func (b *CloneBackend) Name() string {
	return "clone"
}

// Kind returns KindClone.
func (b *CloneBackend) Kind() Kind {
	return KindClone
}

// Ready reports whether the engine is up and a reference sample is loaded.
func (b *CloneBackend) Ready() bool {
	return b.ready && b.reference != ""
}

// Reference returns the loaded reference sample path.
func (b *CloneBackend) Reference() string {
	return b.reference
}

// Speak synthesizes text in the cloned voice and plays it. The transient
// audio buffer is deleted at the end of the call regardless of outcome.
func (b *CloneBackend) Speak(ctx context.Context, text string) error {
	if !b.Ready() {
		return fmt.Errorf("cloned voice not ready")
	}

	body, err := json.Marshal(cloneRequest{
		Text:       text,
		SpeakerWav: b.reference,
		Language:   "en",
	})
	if err != nil {
		return fmt.Errorf("failed to encode synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/tts_to_audio", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cloned-voice synthesis failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cloned-voice synthesis failed: status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "barkuni_clone_*.wav")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to save audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close audio file: %w", err)
	}

	return b.player.Play(tmp.Name())
}
