// SPDX-License-Identifier: MIT

// Package pipeline orchestrates the video → subtitles flow: workspace
// creation, audio extraction, transcription, and per-language translation
// fan-out with isolated failures.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sublate/sublate/internal/log"
)

// AllowedExtensions is the closed set of accepted video container
// extensions (lowercase, without dot).
var AllowedExtensions = map[string]bool{
	"mp4": true,
	"avi": true,
	"mov": true,
	"mkv": true,
}

// AudioExtractor demuxes a video's audio track to a PCM WAV file.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
}

// Transcriber turns an audio file into SRT text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// FileTranslator translates an SRT file into a target language.
type FileTranslator interface {
	TranslateFile(ctx context.Context, inputPath, outputPath, language string) error
}

// Request is one video-processing job.
type Request struct {
	FileName  string
	Video     io.Reader
	Languages []string
}

// Outcome is the terminal state of one language's translation: either a
// filename or an error message. It marshals to a bare JSON string so the
// response manifest reads {"french": "clip_french.srt", "spanish": "..."}.
type Outcome struct {
	Filename string
	Err      string
}

// OK reports whether the translation produced a file.
func (o Outcome) OK() bool {
	return o.Err == ""
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.OK() {
		return json.Marshal(o.Filename)
	}
	return json.Marshal(o.Err)
}

// Result is the manifest returned for a processed video.
type Result struct {
	ProcessID    string             `json:"process_id"`
	OriginalSRT  string             `json:"original_srt"`
	Translations map[string]Outcome `json:"translations"`
}

// Orchestrator sequences the pipeline stages. Construct once with its
// collaborators and share across requests.
type Orchestrator struct {
	outputRoot  string
	extractor   AudioExtractor
	transcriber Transcriber
	translator  FileTranslator
	workers     int
}

// NewOrchestrator wires the pipeline. workers bounds the per-request
// translation fan-out; values below one fall back to sequential.
func NewOrchestrator(outputRoot string, ex AudioExtractor, tr Transcriber, fl FileTranslator, workers int) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		outputRoot:  outputRoot,
		extractor:   ex,
		transcriber: tr,
		translator:  fl,
		workers:     workers,
	}
}

// ParseLanguages splits a comma-separated language list, trimming entries
// and dropping empties.
func ParseLanguages(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Process runs the full pipeline for one uploaded video.
//
// Extraction and transcription failures abort the whole request. Each
// requested language is processed independently afterwards: its failure is
// recorded in the manifest and never touches sibling languages. The
// intermediate audio file is removed best-effort once transcription
// succeeded.
func (o *Orchestrator) Process(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	ws, err := NewWorkspace(o.outputRoot)
	if err != nil {
		processesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	ctx = log.ContextWithProcessID(ctx, ws.ID)
	logger := log.WithComponentFromContext(ctx, "pipeline")
	start := time.Now()

	result, err := o.run(ctx, logger, ws, req)
	processDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		processesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	processesTotal.WithLabelValues("ok").Inc()
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, logger zerolog.Logger, ws *Workspace, req Request) (*Result, error) {
	videoName, err := ws.SaveVideo(req.FileName, req.Video)
	if err != nil {
		stageFailuresTotal.WithLabelValues("save").Inc()
		return nil, err
	}
	base := strings.TrimSuffix(videoName, filepath.Ext(videoName))
	logger.Info().
		Str(log.FieldEvent, "process.start").
		Str(log.FieldFilename, videoName).
		Strs("languages", req.Languages).
		Msg("processing video")

	audioName := base + ".wav"
	if err := o.extractor.ExtractAudio(ctx, ws.File(videoName), ws.File(audioName)); err != nil {
		stageFailuresTotal.WithLabelValues("extract").Inc()
		return nil, fmt.Errorf("audio extraction: %w", err)
	}

	srtText, err := o.transcriber.Transcribe(ctx, ws.File(audioName))
	if err != nil {
		stageFailuresTotal.WithLabelValues("transcribe").Inc()
		return nil, fmt.Errorf("transcription: %w", err)
	}

	originalSRT := base + ".srt"
	if err := renameio.WriteFile(ws.File(originalSRT), []byte(srtText), 0o644); err != nil {
		stageFailuresTotal.WithLabelValues("write_srt").Inc()
		return nil, fmt.Errorf("write original subtitles: %w", err)
	}

	translations := o.translateAll(ctx, logger, ws, base, originalSRT, req.Languages)

	// The audio file is a transient artifact; failing to remove it is not
	// the caller's problem.
	if err := os.Remove(ws.File(audioName)); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str(log.FieldFilename, audioName).Msg("failed to remove intermediate audio")
	}

	logger.Info().
		Str(log.FieldEvent, "process.done").
		Str(log.FieldFilename, originalSRT).
		Msg("processing finished")

	return &Result{
		ProcessID:    ws.ID,
		OriginalSRT:  originalSRT,
		Translations: translations,
	}, nil
}

// translateAll fans the languages out across a bounded worker group. One
// language's failure is recorded in its outcome and never cancels or
// blocks the others.
func (o *Orchestrator) translateAll(ctx context.Context, logger zerolog.Logger, ws *Workspace, base, originalSRT string, languages []string) map[string]Outcome {
	outcomes := make(map[string]Outcome, len(languages))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(o.workers)
	for _, lang := range languages {
		lang := lang
		g.Go(func() error {
			outName := base + "_" + lang + ".srt"
			err := o.translator.TranslateFile(ctx, ws.File(originalSRT), ws.File(outName), lang)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				translationsTotal.WithLabelValues("error").Inc()
				logger.Warn().
					Str(log.FieldLanguage, lang).
					Err(err).
					Msg("translation failed")
				outcomes[lang] = Outcome{Err: "Translation failed: " + err.Error()}
				return nil
			}
			translationsTotal.WithLabelValues("ok").Inc()
			outcomes[lang] = Outcome{Filename: outName}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func validateRequest(req Request) error {
	if req.Video == nil || strings.TrimSpace(req.FileName) == "" {
		return &ValidationError{Reason: "no video file provided"}
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(req.FileName), "."))
	if !AllowedExtensions[ext] {
		return &ValidationError{Reason: "invalid file type. Allowed types are: " + allowedExtensionList()}
	}
	for _, lang := range req.Languages {
		if strings.TrimSpace(lang) != "" {
			return nil
		}
	}
	return &ValidationError{Reason: "no target languages specified"}
}

func allowedExtensionList() string {
	exts := make([]string, 0, len(AllowedExtensions))
	for ext := range AllowedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
