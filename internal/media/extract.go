// SPDX-License-Identifier: MIT

// Package media wraps ffmpeg invocations for audio extraction and subtitle
// embedding.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sublate/sublate/internal/log"
	"github.com/sublate/sublate/internal/procgroup"
)

// terminateGrace is how long a cancelled ffmpeg run gets to exit on
// SIGTERM before the whole process group is killed.
const terminateGrace = 5 * time.Second

// Extractor runs ffmpeg. It is stateless apart from the resolved binary
// path and safe for concurrent use.
type Extractor struct {
	bin string
}

// NewExtractor resolves the ffmpeg binary. An empty bin resolves "ffmpeg"
// from PATH.
func NewExtractor(bin string) (*Extractor, error) {
	if bin == "" {
		bin = "ffmpeg"
	}
	resolved, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("locate ffmpeg binary: %w", err)
	}
	return &Extractor{bin: resolved}, nil
}

// ExtractAudio demuxes and resamples the video's audio track into a mono
// 16kHz 16-bit PCM WAV file at audioPath, overwriting any existing file.
// On failure the state of audioPath is unspecified.
func (e *Extractor) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	return e.run(ctx, "audio_extract", extractArgs(videoPath, audioPath))
}

// EmbedSubtitles writes a copy of the video with the SRT track attached.
// Soft mode muxes a mov_text stream without re-encoding; hard mode burns
// the subtitles into the picture.
func (e *Extractor) EmbedSubtitles(ctx context.Context, videoPath, srtPath, outputPath string, soft bool) error {
	return e.run(ctx, "subtitle_embed", embedArgs(videoPath, srtPath, outputPath, soft))
}

func (e *Extractor) run(ctx context.Context, op string, args []string) error {
	logger := log.WithComponentFromContext(ctx, "media")
	logger.Debug().
		Str(log.FieldEvent, op+".start").
		Str("command", e.bin+" "+strings.Join(args, " ")).
		Msg("invoking ffmpeg")

	cmd := exec.Command(e.bin, args...)
	procgroup.Set(cmd)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := e.runGroup(ctx, cmd); err != nil {
		diag := truncateDiagnostic(strings.TrimSpace(stderr.String()))
		logger.Error().
			Str(log.FieldEvent, op+".failed").
			Str("diagnostic", diag).
			Err(err).
			Msg("ffmpeg invocation failed")
		return &ExtractionError{Output: diag, Err: err}
	}

	logger.Debug().Str(log.FieldEvent, op+".done").Msg("ffmpeg finished")
	return nil
}

// runGroup runs the command and, on context cancellation, tears down the
// full ffmpeg process group rather than just the direct child.
func (e *Extractor) runGroup(ctx context.Context, cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	select {
	case err := <-waitCh:
		return err
	case <-ctx.Done():
		_ = procgroup.Terminate(cmd, waitCh, terminateGrace)
		return ctx.Err()
	}
}

func extractArgs(videoPath, audioPath string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", "16000",
		audioPath,
	}
}

func embedArgs(videoPath, srtPath, outputPath string, soft bool) []string {
	if soft {
		return []string{
			"-y",
			"-i", videoPath,
			"-i", srtPath,
			"-c", "copy",
			"-c:s", "mov_text",
			outputPath,
		}
	}
	return []string{
		"-y",
		"-i", videoPath,
		"-vf", "subtitles=" + srtPath,
		outputPath,
	}
}
