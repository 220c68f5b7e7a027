// SPDX-License-Identifier: MIT

// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the full runtime configuration of the service.
type Config struct {
	// Listen is the address the HTTP server binds to.
	Listen string

	// OutputDir is the root directory holding per-process workspaces.
	OutputDir string

	// OpenAI holds model-service client settings.
	OpenAI OpenAIConfig

	// FFmpegBin is an explicit ffmpeg binary path. Empty resolves from PATH.
	FFmpegBin string

	// AllowedOrigins is the CORS origin allowlist. Empty enables dev defaults.
	AllowedOrigins []string

	// RateLimitRPM is the per-IP request limit per minute. Zero disables limiting.
	RateLimitRPM int

	// MaxUploadBytes caps the size of an uploaded video.
	MaxUploadBytes int64

	// TranslateWorkers bounds the per-request translation fan-out.
	TranslateWorkers int

	// LogLevel is the zerolog level name.
	LogLevel string
}

// OpenAIConfig holds model-service client configuration.
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	WhisperModel string
	ChatModel    string
}

// FromEnv builds a Config from environment variables with defaults.
func FromEnv() *Config {
	return &Config{
		Listen:    ParseString("SUBLATE_LISTEN", ":5001"),
		OutputDir: ParseString("SUBLATE_OUTPUT_DIR", "outputs"),
		OpenAI: OpenAIConfig{
			APIKey:       ParseString("SUBLATE_OPENAI_API_KEY", ""),
			BaseURL:      ParseString("SUBLATE_OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Timeout:      ParseDuration("SUBLATE_OPENAI_TIMEOUT", 60*time.Second),
			WhisperModel: ParseString("SUBLATE_WHISPER_MODEL", "whisper-1"),
			ChatModel:    ParseString("SUBLATE_CHAT_MODEL", "gpt-4o"),
		},
		FFmpegBin:        ParseString("SUBLATE_FFMPEG_BIN", ""),
		AllowedOrigins:   ParseStringSlice("SUBLATE_ALLOWED_ORIGINS", nil),
		RateLimitRPM:     ParseInt("SUBLATE_RATE_LIMIT_RPM", 0),
		MaxUploadBytes:   ParseInt64("SUBLATE_MAX_UPLOAD_BYTES", 2<<30),
		TranslateWorkers: ParseInt("SUBLATE_TRANSLATE_WORKERS", 4),
		LogLevel:         ParseString("LOG_LEVEL", "info"),
	}
}

// Validate checks that the configuration is complete enough to start.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		missing = append(missing, "SUBLATE_OPENAI_API_KEY")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		missing = append(missing, "SUBLATE_OUTPUT_DIR")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.TranslateWorkers <= 0 {
		return fmt.Errorf("translate workers must be positive, got %d", c.TranslateWorkers)
	}
	return nil
}
