// SPDX-License-Identifier: MIT

// Package openai is a minimal client for the model-service endpoints the
// pipeline needs: speech-to-text transcription and chat completions.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Options configures a Client.
type Options struct {
	APIKey       string
	BaseURL      string // e.g. "https://api.openai.com/v1"
	Timeout      time.Duration
	WhisperModel string
	ChatModel    string
}

// Client talks to the model service. It is constructed once at startup and
// shared across requests; all methods are safe for concurrent use.
type Client struct {
	base         string
	apiKey       string
	http         *http.Client
	whisperModel string
	chatModel    string
}

// New builds a Client from options, applying defaults for empty fields.
func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	whisper := opts.WhisperModel
	if whisper == "" {
		whisper = "whisper-1"
	}
	chat := opts.ChatModel
	if chat == "" {
		chat = "gpt-4o"
	}
	return &Client{
		base:         base,
		apiKey:       opts.APIKey,
		http:         &http.Client{Timeout: timeout},
		whisperModel: whisper,
		chatModel:    chat,
	}
}

// Transcribe uploads the audio file to the transcription endpoint and
// returns the response body as SRT text.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model", c.whisperModel); err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	// The service composes the SRT itself; no parse step on our side.
	if err := mw.WriteField("response_format", "srt"); err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := c.http.Do(req)
	if err != nil {
		return "", &APIError{Sentinel: ErrUnavailable, Operation: "transcribe", Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &APIError{Sentinel: ErrBadResponse, Operation: "transcribe", Status: res.StatusCode, Err: err}
	}
	if res.StatusCode >= 300 {
		return "", &APIError{Sentinel: ErrUpstream, Operation: "transcribe", Status: res.StatusCode, Body: truncateBody(raw)}
	}
	return string(raw), nil
}

// ChatRequest describes a single-turn chat completion call.
type ChatRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatPayload struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatComplete sends a system+user message pair to the chat completions
// endpoint and returns the trimmed content of the first choice.
func (c *Client) ChatComplete(ctx context.Context, creq ChatRequest) (string, error) {
	payload := chatPayload{
		Model: c.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: creq.System},
			{Role: "user", Content: creq.User},
		},
		Temperature: creq.Temperature,
		MaxTokens:   creq.MaxTokens,
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/chat/completions", bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", &APIError{Sentinel: ErrUnavailable, Operation: "chat", Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= 300 {
		raw, _ := io.ReadAll(res.Body)
		return "", &APIError{Sentinel: ErrUpstream, Operation: "chat", Status: res.StatusCode, Body: truncateBody(raw)}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", &APIError{Sentinel: ErrBadResponse, Operation: "chat", Status: res.StatusCode, Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &APIError{Sentinel: ErrBadResponse, Operation: "chat", Status: res.StatusCode, Body: "no choices in response"}
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

const maxErrorBody = 512

func truncateBody(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
