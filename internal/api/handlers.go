// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sublate/sublate/internal/log"
	"github.com/sublate/sublate/internal/pipeline"
	"github.com/sublate/sublate/internal/subtitle"
)

// handleProcessVideo accepts a multipart upload and runs the full pipeline:
// extraction, transcription, and per-language translation.
func (s *Server) handleProcessVideo(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "api")

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("video")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No video file provided")
		return
	}
	defer func() { _ = file.Close() }()

	languages := pipeline.ParseLanguages(r.FormValue("target_languages"))

	result, err := s.processor.Process(r.Context(), pipeline.Request{
		FileName:  header.Filename,
		Video:     file,
		Languages: languages,
	})
	if err != nil {
		var vErr *pipeline.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, vErr.Reason)
			return
		}
		logger.Error().Err(err).Str(log.FieldEvent, "process.failed").Msg("pipeline failure")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleDownload serves a processed artifact as an attachment, or as
// on-the-fly WebVTT when stream=true&format=vtt is requested.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "api")

	processID := chi.URLParam(r, "processID")
	filename := chi.URLParam(r, "filename")

	path, err := workspaceFilePath(s.cfg.OutputDir, processID, filename)
	if err != nil {
		logger.Warn().
			Str(log.FieldEvent, "download.denied").
			Str(log.FieldProcessID, processID).
			Str(log.FieldFilename, filename).
			Msg("rejected unsafe download path")
		writeNotFound(w)
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		writeNotFound(w)
		return
	}

	if r.URL.Query().Get("stream") == "true" && r.URL.Query().Get("format") == "vtt" {
		raw, err := os.ReadFile(path)
		if err != nil {
			writeNotFound(w)
			return
		}
		w.Header().Set("Content-Type", "text/vtt")
		_, _ = w.Write([]byte(subtitle.ConvertSRTToVTT(string(raw))))
		return
	}

	f, err := os.Open(path)
	if err != nil {
		writeNotFound(w)
		return
	}
	defer func() { _ = f.Close() }()

	if strings.HasSuffix(filename, ".srt") {
		w.Header().Set("Content-Type", "application/x-subrip")
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	http.ServeContent(w, r, "", info.ModTime(), f)
}

type embedRequest struct {
	ProcessID string `json:"process_id"`
	Video     string `json:"video"`
	Subtitles string `json:"subtitles"`
	Soft      *bool  `json:"soft,omitempty"`
}

// handleEmbedSubtitles muxes (or burns) a workspace subtitle file into a
// workspace video and returns the new filename.
func (s *Server) handleEmbedSubtitles(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "api")

	var req embedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	videoPath, err := workspaceFilePath(s.cfg.OutputDir, req.ProcessID, req.Video)
	if err != nil {
		writeNotFound(w)
		return
	}
	srtPath, err := workspaceFilePath(s.cfg.OutputDir, req.ProcessID, req.Subtitles)
	if err != nil {
		writeNotFound(w)
		return
	}
	for _, p := range []string{videoPath, srtPath} {
		if _, err := os.Stat(p); err != nil {
			writeNotFound(w)
			return
		}
	}

	ext := filepath.Ext(req.Video)
	outputName := strings.TrimSuffix(req.Video, ext) + "_subtitled" + ext
	outputPath, err := workspaceFilePath(s.cfg.OutputDir, req.ProcessID, outputName)
	if err != nil {
		writeNotFound(w)
		return
	}

	soft := true
	if req.Soft != nil {
		soft = *req.Soft
	}
	if err := s.embedder.EmbedSubtitles(r.Context(), videoPath, srtPath, outputPath, soft); err != nil {
		logger.Error().Err(err).Str(log.FieldEvent, "embed.failed").Msg("subtitle embedding failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"output": outputName})
}
