// SPDX-License-Identifier: MIT

// Package translate turns subtitle text into a target language via the
// model service's chat endpoint.
package translate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/sublate/sublate/internal/log"
	"github.com/sublate/sublate/internal/openai"
	"github.com/sublate/sublate/internal/subtitle"
)

// translationTemperature keeps the model's output deterministic-leaning.
const translationTemperature = 0.3

// ChatClient is the slice of the model-service client the translator needs.
type ChatClient interface {
	ChatComplete(ctx context.Context, req openai.ChatRequest) (string, error)
}

// Translator is a stateless adapter over the chat endpoint. Construct once
// and share across requests.
type Translator struct {
	chat ChatClient
}

// New returns a Translator using the given chat client.
func New(chat ChatClient) *Translator {
	return &Translator{chat: chat}
}

// TranslateText translates text into the target language. A blank language
// is a passthrough: the input is returned unchanged without any network
// call. Unknown languages fail fast before any network call.
func (t *Translator) TranslateText(ctx context.Context, text, language string) (string, error) {
	if strings.TrimSpace(language) == "" {
		return text, nil
	}
	code, err := Code(language)
	if err != nil {
		return "", err
	}

	out, err := t.chat.ChatComplete(ctx, openai.ChatRequest{
		System: fmt.Sprintf(
			"You are a professional translator. Translate the text to %s (%s). Maintain the original formatting and tone.",
			language, code),
		User:        text,
		Temperature: translationTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	return out, nil
}

// TranslateFile translates an SRT file cue by cue into outputPath.
//
// The language is validated before any file I/O; UnsupportedLanguageError
// propagates unwrapped. Any cue failing to translate aborts the whole
// operation without writing output. All other failures are wrapped in
// SRTTranslationError. A blank language skips the operation entirely.
func (t *Translator) TranslateFile(ctx context.Context, inputPath, outputPath, language string) error {
	if strings.TrimSpace(language) == "" {
		return nil
	}
	if _, err := Code(language); err != nil {
		return err
	}

	logger := log.WithComponentFromContext(ctx, "translate")

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return &SRTTranslationError{Language: language, Err: err}
	}
	cues, err := subtitle.ParseSRT(string(raw))
	if err != nil {
		return &SRTTranslationError{Language: language, Err: err}
	}

	logger.Debug().
		Str(log.FieldLanguage, language).
		Int("cues", len(cues)).
		Str(log.FieldPath, inputPath).
		Msg("translating subtitle file")

	// Timestamps and ordering are untouched; only cue text changes.
	for i := range cues {
		translated, err := t.TranslateText(ctx, cues[i].Text, language)
		if err != nil {
			if errors.Is(err, ErrUnsupportedLanguage) {
				return err
			}
			return &SRTTranslationError{Language: language, Err: err}
		}
		cues[i].Text = translated
	}

	if err := renameio.WriteFile(outputPath, []byte(subtitle.ComposeSRT(cues)), 0o644); err != nil {
		return &SRTTranslationError{Language: language, Err: err}
	}

	logger.Debug().
		Str(log.FieldLanguage, language).
		Str(log.FieldPath, outputPath).
		Msg("translated subtitle file written")
	return nil
}
