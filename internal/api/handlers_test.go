// SPDX-License-Identifier: MIT

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sublate/sublate/internal/config"
	"github.com/sublate/sublate/internal/pipeline"
)

const testSRT = "1\n00:00:00,500 --> 00:00:02,000\nhello world\n"

// fakeExtractor writes a placeholder wav file.
type fakeExtractor struct{}

func (fakeExtractor) ExtractAudio(_ context.Context, _, audioPath string) error {
	return os.WriteFile(audioPath, []byte("fake-wav"), 0o644)
}

// fakeTranscriber returns a fixed SRT.
type fakeTranscriber struct{}

func (fakeTranscriber) Transcribe(context.Context, string) (string, error) {
	return testSRT, nil
}

// fakeTranslator copies input to output, failing for configured languages.
type fakeTranslator struct {
	fail map[string]error
}

func (f fakeTranslator) TranslateFile(_ context.Context, inputPath, outputPath, language string) error {
	if err := f.fail[language]; err != nil {
		return err
	}
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, raw, 0o644)
}

type fakeEmbedder struct {
	err    error
	called bool
	soft   bool
}

func (f *fakeEmbedder) EmbedSubtitles(_ context.Context, _, _, outputPath string, soft bool) error {
	f.called = true
	f.soft = soft
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outputPath, []byte("fake-video"), 0o644)
}

func newTestServer(t *testing.T, translator pipeline.FileTranslator, embedder SubtitleEmbedder) (*Server, *config.Config) {
	t.Helper()
	cfg := config.FromEnv()
	cfg.OutputDir = t.TempDir()
	if embedder == nil {
		embedder = &fakeEmbedder{}
	}
	orch := pipeline.NewOrchestrator(cfg.OutputDir, fakeExtractor{}, fakeTranscriber{}, translator, 4)
	return New(cfg, orch, embedder), cfg
}

func multipartVideo(t *testing.T, filename, languages string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("video", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake-video-bytes"))
	require.NoError(t, err)
	if languages != "" {
		require.NoError(t, mw.WriteField("target_languages", languages))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestProcessVideoEndToEnd(t *testing.T) {
	srv, cfg := newTestServer(t, fakeTranslator{}, nil)
	router := srv.Routes()

	body, contentType := multipartVideo(t, "clip.mp4", "french,spanish")
	req := httptest.NewRequest(http.MethodPost, "/api/process-video", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		ProcessID    string            `json:"process_id"`
		OriginalSRT  string            `json:"original_srt"`
		Translations map[string]string `json:"translations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.ProcessID)
	assert.Equal(t, "clip.srt", resp.OriginalSRT)
	assert.True(t, strings.HasSuffix(resp.Translations["french"], "_french.srt"))
	assert.True(t, strings.HasSuffix(resp.Translations["spanish"], "_spanish.srt"))

	for _, name := range []string{resp.OriginalSRT, resp.Translations["french"], resp.Translations["spanish"]} {
		raw, err := os.ReadFile(filepath.Join(cfg.OutputDir, resp.ProcessID, name))
		require.NoError(t, err, name)
		assert.NotEmpty(t, raw, name)
	}
}

func TestProcessVideoMixedOutcomes(t *testing.T) {
	srv, _ := newTestServer(t, fakeTranslator{fail: map[string]error{"spanish": errors.New("model unavailable")}}, nil)
	router := srv.Routes()

	body, contentType := multipartVideo(t, "clip.mp4", "french,spanish")
	req := httptest.NewRequest(http.MethodPost, "/api/process-video", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Translations map[string]string `json:"translations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "clip_french.srt", resp.Translations["french"])
	assert.Contains(t, resp.Translations["spanish"], "Translation failed")
}

func TestProcessVideoBadRequests(t *testing.T) {
	srv, _ := newTestServer(t, fakeTranslator{}, nil)
	router := srv.Routes()

	t.Run("missing video part", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("target_languages", "french"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/process-video", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "No video file provided")
	})

	t.Run("disallowed extension", func(t *testing.T) {
		body, contentType := multipartVideo(t, "notes.txt", "french")
		req := httptest.NewRequest(http.MethodPost, "/api/process-video", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid file type")
	})

	t.Run("missing languages", func(t *testing.T) {
		body, contentType := multipartVideo(t, "clip.mp4", "")
		req := httptest.NewRequest(http.MethodPost, "/api/process-video", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "no target languages")
	})
}

func seedWorkspaceFile(t *testing.T, root, processID, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, processID), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, processID, name), []byte(content), 0o644))
}

func TestDownloadAttachment(t *testing.T) {
	srv, cfg := newTestServer(t, fakeTranslator{}, nil)
	router := srv.Routes()
	seedWorkspaceFile(t, cfg.OutputDir, "proc-1", "clip.srt", testSRT)

	req := httptest.NewRequest(http.MethodGet, "/api/download/proc-1/clip.srt", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-subrip", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="clip.srt"`)
	assert.Equal(t, testSRT, rec.Body.String())
}

func TestDownloadVTTStream(t *testing.T) {
	srv, cfg := newTestServer(t, fakeTranslator{}, nil)
	router := srv.Routes()
	seedWorkspaceFile(t, cfg.OutputDir, "proc-1", "clip.srt", testSRT)

	req := httptest.NewRequest(http.MethodGet, "/api/download/proc-1/clip.srt?stream=true&format=vtt", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/vtt", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "WEBVTT\n\n"))
	assert.Contains(t, rec.Body.String(), "00:00:00.500 --> 00:00:02.000")
}

func TestDownloadNotFound(t *testing.T) {
	srv, _ := newTestServer(t, fakeTranslator{}, nil)
	router := srv.Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/download/nope/clip.srt", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadTraversalBlocked(t *testing.T) {
	srv, cfg := newTestServer(t, fakeTranslator{}, nil)
	router := srv.Routes()

	// A secret outside any workspace must stay unreachable.
	secret := filepath.Join(cfg.OutputDir, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("top secret"), 0o644))

	for _, target := range []string{
		"/api/download/proc-1/..%2fsecret.txt",
		"/api/download/..%2f../secret.txt",
		"/api/download/proc-1/%2e%2e%2fsecret.txt",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.NotContains(t, rec.Body.String(), "top secret", target)
	}
}

func TestEmbedSubtitles(t *testing.T) {
	embedder := &fakeEmbedder{}
	srv, cfg := newTestServer(t, fakeTranslator{}, embedder)
	router := srv.Routes()
	seedWorkspaceFile(t, cfg.OutputDir, "proc-1", "clip.mp4", "video-bytes")
	seedWorkspaceFile(t, cfg.OutputDir, "proc-1", "clip.srt", testSRT)

	payload := `{"process_id":"proc-1","video":"clip.mp4","subtitles":"clip.srt"}`
	req := httptest.NewRequest(http.MethodPost, "/api/embed-subtitles", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, embedder.called)
	assert.True(t, embedder.soft, "soft embedding is the default")

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "clip_subtitled.mp4", resp["output"])
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "proc-1", "clip_subtitled.mp4"))
}

func TestEmbedSubtitlesMissingSource(t *testing.T) {
	srv, _ := newTestServer(t, fakeTranslator{}, nil)
	router := srv.Routes()

	payload := `{"process_id":"proc-1","video":"clip.mp4","subtitles":"clip.srt"}`
	req := httptest.NewRequest(http.MethodPost, "/api/embed-subtitles", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, fakeTranslator{}, nil)
	router := srv.Routes()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, fakeTranslator{}, nil)
	router := srv.Routes()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sublate_http_requests_in_flight")
}
