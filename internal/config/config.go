// Package config gathers credentials and endpoints from the environment.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Environment variable names.
const (
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvCloneURL     = "BARKUNI_CLONE_URL"
	EnvAWSRegion    = "AWS_REGION"
	EnvGCPCreds     = "GOOGLE_APPLICATION_CREDENTIALS"
)

// Config holds everything read from the environment. Empty fields mean the
// corresponding subsystem degrades rather than fails.
type Config struct {
	AnthropicKey string
	OpenAIKey    string

	// CloneURL overrides the local cloned-voice engine address.
	CloneURL string

	// AWSRegion enables the Polly synthesis engine when set.
	AWSRegion string

	// GCPCredentials is the Application Default Credentials path; its
	// presence enables the Cloud TTS engine.
	GCPCredentials string
}

// Load reads a .env file if one exists, then the environment. It never
// fails: missing values leave the zero Config fields.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	return Config{
		AnthropicKey:   os.Getenv(EnvAnthropicKey),
		OpenAIKey:      os.Getenv(EnvOpenAIKey),
		CloneURL:       os.Getenv(EnvCloneURL),
		AWSRegion:      os.Getenv(EnvAWSRegion),
		GCPCredentials: os.Getenv(EnvGCPCreds),
	}
}

// HasChatProvider reports whether any remote chat provider can be built.
func (c Config) HasChatProvider() bool {
	return c.AnthropicKey != "" || c.OpenAIKey != ""
}
