// SPDX-License-Identifier: MIT

// Package api exposes the video-processing pipeline over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sublate/sublate/internal/api/middleware"
	"github.com/sublate/sublate/internal/config"
	"github.com/sublate/sublate/internal/pipeline"
	"github.com/sublate/sublate/internal/version"
)

// VideoProcessor runs the processing pipeline for one uploaded video.
type VideoProcessor interface {
	Process(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// SubtitleEmbedder attaches a subtitle track to a video file.
type SubtitleEmbedder interface {
	EmbedSubtitles(ctx context.Context, videoPath, srtPath, outputPath string, soft bool) error
}

// Server holds the handler dependencies. Construct once at startup.
type Server struct {
	cfg       *config.Config
	processor VideoProcessor
	embedder  SubtitleEmbedder
}

// New builds a Server.
func New(cfg *config.Config, processor VideoProcessor, embedder SubtitleEmbedder) *Server {
	return &Server{cfg: cfg, processor: processor, embedder: embedder}
}

// Routes builds the router with the canonical middleware stack.
func (s *Server) Routes() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		AllowedOrigins: s.cfg.AllowedOrigins,
		RateLimitRPM:   s.cfg.RateLimitRPM,
	})

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/process-video", s.handleProcessVideo)
		r.Post("/embed-subtitles", s.handleEmbedSubtitles)
		r.Get("/download/{processID}/{filename}", s.handleDownload)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}
