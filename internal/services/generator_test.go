package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/forgeworks/vertivid/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assetServer serves a decodable PNG plus opaque audio/music blobs.
func assetServer(t *testing.T) *httptest.Server {
	t.Helper()

	imageBytes := encodePNG(t, 1000, 2000)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, ".png"):
			w.Header().Set("Content-Type", "image/png")
			w.Write(imageBytes)
		default:
			w.Header().Set("Content-Type", "audio/mpeg")
			w.Write([]byte("pretend this is mp3 data"))
		}
	}))
}

func testSpec(server *httptest.Server, withMusic bool) GenerationSpec {
	cfg := models.VideoConfig{}
	cfg.ApplyDefaults()

	spec := GenerationSpec{
		ImageURL: server.URL + "/image.png",
		AudioURL: server.URL + "/audio.mp3",
		Config:   cfg,
	}
	if withMusic {
		spec.MusicURL = server.URL + "/music.mp3"
	}
	return spec
}

func TestGeneratorCleansUpAfterEncoderFailure(t *testing.T) {
	server := assetServer(t)
	defer server.Close()

	tempDir := t.TempDir()
	// Encoder and probe both exit non-zero: the probe falls back to 60s and
	// the encode fails terminally.
	ffmpeg := NewFFmpegService("false", "false", tempDir)
	gen := NewGenerator(NewFetcherService(), ffmpeg)

	_, err := gen.CreateVerticalVideo(context.Background(), testSpec(server, true))
	require.Error(t, err)

	var encErr *EncodingError
	assert.ErrorAs(t, err, &encErr)

	entries, readErr := os.ReadDir(tempDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "temporary files left behind after encoder failure")
}

func TestGeneratorCleansUpAfterMissingOutput(t *testing.T) {
	server := assetServer(t)
	defer server.Close()

	tempDir := t.TempDir()
	// "true" exits zero without producing output, failing the output read.
	ffmpeg := NewFFmpegService("true", "false", tempDir)
	gen := NewGenerator(NewFetcherService(), ffmpeg)

	_, err := gen.CreateVerticalVideo(context.Background(), testSpec(server, false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read encoded video")

	entries, readErr := os.ReadDir(tempDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "temporary files left behind after output read failure")
}

func TestGeneratorPropagatesDownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	tempDir := t.TempDir()
	gen := NewGenerator(NewFetcherService(), NewFFmpegService("false", "false", tempDir))

	_, err := gen.CreateVerticalVideo(context.Background(), testSpec(server, false))
	require.Error(t, err)

	var dlErr *DownloadError
	assert.ErrorAs(t, err, &dlErr)

	entries, readErr := os.ReadDir(tempDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestGeneratorPropagatesImageFailure(t *testing.T) {
	// Image endpoint serves bytes that cannot be decoded.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not an image"))
	}))
	defer server.Close()

	tempDir := t.TempDir()
	gen := NewGenerator(NewFetcherService(), NewFFmpegService("false", "false", tempDir))

	_, err := gen.CreateVerticalVideo(context.Background(), testSpec(server, false))
	require.Error(t, err)

	var imgErr *ImageError
	assert.ErrorAs(t, err, &imgErr)
}
