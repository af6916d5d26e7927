// Package listen turns microphone input into text. Capture comes from the
// audio package; transcription goes through the Whisper API when an OpenAI
// key is configured, or a local whisper binary otherwise.
package listen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rs/zerolog/log"

	"github.com/barkuni-voice/barkuni/internal/audio"
)

// Listening windows. A phrase is cut off after PhraseLimit even if the
// speaker has not paused.
const (
	DefaultTimeout = 10 * time.Second
	PhraseLimit    = 15 * time.Second

	calibrateFor = time.Second
)

// ErrNoSpeech is returned when the listen window closes without voice
// activity.
var ErrNoSpeech = audio.ErrNoSpeech

// ErrNoTranscriber is returned when neither the Whisper API nor a local
// whisper binary is available.
var ErrNoTranscriber = errors.New("no speech transcriber available")

// Transcriber converts a captured wav file to text.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, wavPath string) (string, error)
}

// whisperTranscriptionClient is the subset of the OpenAI client used here,
// extracted so tests can substitute a mock.
type whisperTranscriptionClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// WhisperAPI transcribes through OpenAI's hosted Whisper model.
type WhisperAPI struct {
	client whisperTranscriptionClient
}

// NewWhisperAPI creates the API transcriber.
func NewWhisperAPI(apiKey string) *WhisperAPI {
	return &WhisperAPI{client: openai.NewClient(apiKey)}
}

// Name returns the transcriber name.
func (w *WhisperAPI) Name() string {
	return "whisper-api"
}

// Transcribe sends the wav file to the Whisper API.
func (w *WhisperAPI) Transcribe(ctx context.Context, wavPath string) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: wavPath,
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// WhisperCLI transcribes with a locally installed whisper binary.
type WhisperCLI struct {
	binary string
}

// NewWhisperCLI locates a local whisper binary on PATH. Returns nil when
// none is installed.
func NewWhisperCLI() *WhisperCLI {
	for _, candidate := range []string{"whisper-cli", "whisper-cpp", "whisper"} {
		if _, err := exec.LookPath(candidate); err == nil {
			return &WhisperCLI{binary: candidate}
		}
	}
	return nil
}

// Name returns the transcriber name.
func (w *WhisperCLI) Name() string {
	return w.binary
}

// Transcribe runs the binary and returns its stdout.
func (w *WhisperCLI) Transcribe(ctx context.Context, wavPath string) (string, error) {
	out, err := exec.CommandContext(ctx, w.binary, "-nt", "-np", "-f", wavPath).Output()
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", w.binary, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Recognizer couples the microphone recorder with a transcriber.
type Recognizer struct {
	recorder    *audio.Recorder
	transcriber Transcriber
}

// NewRecognizer builds a Recognizer. The Whisper API is preferred when a key
// is present; otherwise a local whisper binary is used if installed.
func NewRecognizer(openAIKey string) (*Recognizer, error) {
	var transcriber Transcriber
	if openAIKey != "" {
		transcriber = NewWhisperAPI(openAIKey)
	} else if cli := NewWhisperCLI(); cli != nil {
		transcriber = cli
	}
	if transcriber == nil {
		return nil, ErrNoTranscriber
	}

	log.Debug().Str("transcriber", transcriber.Name()).Msg("Speech recognition ready")
	return &Recognizer{
		recorder:    audio.NewRecorder(),
		transcriber: transcriber,
	}, nil
}

// Init opens the audio host and calibrates against ambient noise.
func (r *Recognizer) Init() error {
	if err := r.recorder.Init(); err != nil {
		return err
	}
	if err := r.recorder.Calibrate(calibrateFor); err != nil {
		log.Warn().Err(err).Msg("Ambient calibration failed, using default threshold")
	}
	return nil
}

// Close releases the audio host.
func (r *Recognizer) Close() {
	r.recorder.Terminate()
}

// Listen captures one phrase and returns its transcription. ErrNoSpeech
// passes through unchanged so the caller can count silent rounds.
func (r *Recognizer) Listen(ctx context.Context, timeout time.Duration) (string, error) {
	wavPath, err := r.recorder.Capture(timeout, PhraseLimit)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = os.Remove(wavPath)
	}()

	text, err := r.transcriber.Transcribe(ctx, wavPath)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}
