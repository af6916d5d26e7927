// Package samples loads and validates the persona's pre-recorded audio clip
// manifest, used for playback-based voice "cloning".
package samples

import (
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-audio/wav"
	"github.com/rs/zerolog/log"
)

// DefaultManifestName is the manifest filename looked up in the working
// directory when no explicit path is given.
const DefaultManifestName = "barkuni_voice_config.json"

// Manifest mirrors the voice config file written by the data-collection
// pipeline.
type Manifest struct {
	VoiceType    string   `json:"voice_type"`
	AudioFiles   []string `json:"audio_files"`
	TotalSamples int      `json:"total_samples"`
	Status       string   `json:"status"`
	Features     []string `json:"features"`
}

// Library is the set of validated sample paths. It is immutable after Load;
// files that vanish mid-session are skipped at playback time, never removed.
type Library struct {
	manifest Manifest
	files    []string

	mu  sync.Mutex
	rng *rand.Rand
}

// Load reads a manifest and keeps only the listed files that exist on disk.
// A missing or malformed manifest yields an empty library, never an error:
// the caller degrades to other voice backends.
func Load(path string) *Library {
	lib := &Library{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Str("path", path).Msg("Voice sample manifest not found")
		return lib
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Voice sample manifest is malformed")
		return lib
	}

	valid := make([]string, 0, len(manifest.AudioFiles))
	for _, file := range manifest.AudioFiles {
		if _, err := os.Stat(file); err != nil {
			log.Debug().Str("file", file).Msg("Sample listed in manifest is missing")
			continue
		}
		valid = append(valid, file)
	}

	// The manifest is rewritten in memory to the surviving subset; the file
	// on disk is left alone.
	manifest.AudioFiles = valid
	manifest.TotalSamples = len(valid)

	lib.manifest = manifest
	lib.files = valid

	log.Info().Int("samples", len(valid)).Str("path", path).Msg("Loaded voice sample library")
	return lib
}

// Count returns the number of validated samples.
func (l *Library) Count() int {
	return len(l.files)
}

// Empty reports whether the library has no usable samples.
func (l *Library) Empty() bool {
	return len(l.files) == 0
}

// Files returns the validated sample paths.
func (l *Library) Files() []string {
	out := make([]string, len(l.files))
	copy(out, l.files)
	return out
}

// Features returns the manifest's feature descriptions.
func (l *Library) Features() []string {
	return l.manifest.Features
}

// Random picks a sample uniformly at random. Samples that have vanished
// since load are skipped; ok is false when nothing playable remains.
func (l *Library) Random() (path string, ok bool) {
	if len(l.files) == 0 {
		return "", false
	}

	l.mu.Lock()
	start := l.rng.Intn(len(l.files))
	l.mu.Unlock()

	for i := 0; i < len(l.files); i++ {
		candidate := l.files[(start+i)%len(l.files)]
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

// ValidateReference checks a user-supplied reference clip for the cloned
// voice: known audio extension, and for wav files a decodable header.
func ValidateReference(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".mp3", ".m4a", ".flac":
	default:
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() {
		_ = f.Close()
	}()

	if strings.EqualFold(filepath.Ext(path), ".wav") {
		decoder := wav.NewDecoder(f)
		decoder.ReadInfo()
		if !decoder.IsValidFile() {
			log.Debug().Str("path", path).Msg("Reference wav failed header validation")
			return false
		}
		if decoder.SampleRate < 16000 {
			log.Debug().Uint32("rate", decoder.SampleRate).Msg("Reference wav sample rate too low")
			return false
		}
	}

	return true
}
