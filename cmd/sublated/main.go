// SPDX-License-Identifier: MIT

// Command sublated runs the video-to-subtitles HTTP service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sublate/sublate/internal/api"
	"github.com/sublate/sublate/internal/config"
	xglog "github.com/sublate/sublate/internal/log"
	"github.com/sublate/sublate/internal/media"
	"github.com/sublate/sublate/internal/openai"
	"github.com/sublate/sublate/internal/pipeline"
	"github.com/sublate/sublate/internal/translate"
	"github.com/sublate/sublate/internal/version"
)

func main() {
	cfg := config.FromEnv()

	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Service: "sublate",
	})
	logger := xglog.WithComponent("daemon")
	logger.Info().
		Str("version", version.Version).
		Str("commit", version.Commit).
		Str("build_date", version.Date).
		Msg("sublated starting")

	if err := cfg.Validate(); err != nil {
		logger.Fatal().
			Err(err).
			Str(xglog.FieldEvent, "config.invalid").
			Msg("configuration is incomplete")
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		logger.Fatal().
			Err(err).
			Str(xglog.FieldPath, cfg.OutputDir).
			Msg("failed to create output directory")
	}

	extractor, err := media.NewExtractor(cfg.FFmpegBin)
	if err != nil {
		logger.Fatal().Err(err).Msg("ffmpeg is required on PATH")
	}

	client := openai.New(openai.Options{
		APIKey:       cfg.OpenAI.APIKey,
		BaseURL:      cfg.OpenAI.BaseURL,
		Timeout:      cfg.OpenAI.Timeout,
		WhisperModel: cfg.OpenAI.WhisperModel,
		ChatModel:    cfg.OpenAI.ChatModel,
	})
	translator := translate.New(client)
	orchestrator := pipeline.NewOrchestrator(cfg.OutputDir, extractor, client, translator, cfg.TranslateWorkers)

	server := api.New(cfg, orchestrator, extractor)

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str(xglog.FieldEvent, "server.listen").
			Str("addr", cfg.Listen).
			Msg("HTTP server starting")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Str(xglog.FieldEvent, "server.shutdown").Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Str(xglog.FieldEvent, "server.stopped").Msg("HTTP server stopped")
}
