package voice

import (
	"context"
	"fmt"
	"os"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/barkuni-voice/barkuni/internal/audio"
)

// GCP voice defaults. The Wavenet male voice is the closest match for the
// character; Hebrew-capable voices can be configured instead.
const (
	defaultGCPVoice    = "en-US-Wavenet-D"
	defaultGCPLanguage = "en-US"
)

// gcpSynthClient is the subset of the Cloud TTS client the engine uses,
// extracted so tests can substitute a mock.
type gcpSynthClient interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
}

// GCPEngine synthesizes speech with Google Cloud Text-to-Speech and plays
// the result locally.
type GCPEngine struct {
	client   gcpSynthClient
	player   *audio.Player
	voice    string
	language string
}

// GCPOption configures a GCPEngine.
type GCPOption func(*GCPEngine)

// WithGCPVoice overrides the synthesis voice.
func WithGCPVoice(voice, language string) GCPOption {
	return func(e *GCPEngine) {
		e.voice = voice
		e.language = language
	}
}

// NewGCPEngine creates the engine. Authentication comes from Application
// Default Credentials; an error here just means the engine stays out of the
// synthesis chain.
func NewGCPEngine(ctx context.Context, player *audio.Player, opts ...GCPOption) (*GCPEngine, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud TTS client: %w", err)
	}

	e := &GCPEngine{
		client:   client,
		player:   player,
		voice:    defaultGCPVoice,
		language: defaultGCPLanguage,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Name returns the engine name.
func (e *GCPEngine) Name() string {
	return "gcp"
}

// Available reports whether the engine has a usable client.
func (e *GCPEngine) Available(_ context.Context) bool {
	return e.client != nil
}

// Render synthesizes text to a transient mp3 and plays it. The temp file is
// removed before returning, whatever the outcome.
func (e *GCPEngine) Render(ctx context.Context, text string) error {
	resp, err := e.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: e.language,
			Name:         e.voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		if s, ok := status.FromError(err); ok && (s.Code() == codes.Unauthenticated || s.Code() == codes.PermissionDenied) {
			log.Warn().Str("code", s.Code().String()).Msg("Cloud TTS credentials rejected")
		}
		return fmt.Errorf("cloud tts synthesis failed: %w", err)
	}

	tmp, err := os.CreateTemp("", "barkuni_gcp_*.mp3")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(resp.AudioContent); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close audio file: %w", err)
	}

	return e.player.Play(tmp.Name())
}
