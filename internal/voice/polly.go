package voice

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/rs/zerolog/log"

	"github.com/barkuni-voice/barkuni/internal/audio"
)

const defaultPollyVoice = types.VoiceIdMatthew

// pollySynthClient is the subset of the Polly client the engine uses.
type pollySynthClient interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// PollyEngine synthesizes speech with Amazon Polly and plays the result
// locally.
type PollyEngine struct {
	client pollySynthClient
	player *audio.Player
	voice  types.VoiceId
	region string
}

// NewPollyEngine creates the engine using the default AWS credential chain.
func NewPollyEngine(ctx context.Context, player *audio.Player, region string) (*PollyEngine, error) {
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &PollyEngine{
		client: polly.NewFromConfig(cfg),
		player: player,
		voice:  defaultPollyVoice,
		region: region,
	}, nil
}

// Name returns the engine name.
func (e *PollyEngine) Name() string {
	return "polly"
}

// Available reports whether the engine has a usable client.
func (e *PollyEngine) Available(_ context.Context) bool {
	return e.client != nil
}

// Render synthesizes text to a transient mp3 and plays it. The temp file is
// removed before returning, whatever the outcome.
func (e *PollyEngine) Render(ctx context.Context, text string) error {
	out, err := e.client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Text:         aws.String(text),
		VoiceId:      e.voice,
		OutputFormat: types.OutputFormatMp3,
		Engine:       types.EngineNeural,
	})
	if err != nil {
		return fmt.Errorf("polly synthesis failed: %w", err)
	}
	defer func() {
		_ = out.AudioStream.Close()
	}()

	tmp, err := os.CreateTemp("", "barkuni_polly_*.mp3")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, out.AudioStream); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close audio file: %w", err)
	}

	log.Debug().Str("voice", string(e.voice)).Str("region", e.region).Msg("Polly synthesis completed")
	return e.player.Play(tmp.Name())
}
