package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/forgeworks/vertivid/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireFFmpeg skips the test unless real ffmpeg and ffprobe binaries are
// installed.
func requireFFmpeg(t *testing.T) {
	t.Helper()
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not installed, skipping", bin)
		}
	}
}

// synthAudio renders a sine tone of the given duration to a wav file.
func synthAudio(t *testing.T, dir, name string, seconds float64) string {
	t.Helper()

	path := filepath.Join(dir, name)
	cmd := exec.Command("ffmpeg", "-y",
		"-f", "lavfi", "-i", fmt.Sprintf("sine=frequency=440:duration=%g", seconds),
		path,
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to synthesize audio: %s", out)
	return path
}

// The mixed track must end exactly with the primary audio: background music
// that is shorter than the voice track must not truncate the output, and
// music that is longer must not extend it.
func TestEncodeOutputEndsWithPrimaryAudio(t *testing.T) {
	requireFFmpeg(t)

	dir := t.TempDir()
	svc := NewFFmpegService("ffmpeg", "ffprobe", dir)

	imagePath := filepath.Join(dir, "frame.png")
	require.NoError(t, os.WriteFile(imagePath, encodePNG(t, 108, 192), 0644))

	audioPath := synthAudio(t, dir, "primary.wav", 5)

	cfg := models.VideoConfig{}
	cfg.ApplyDefaults()

	cases := []struct {
		name         string
		musicSeconds float64
	}{
		{"music shorter than audio", 2},
		{"music longer than audio", 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			musicPath := synthAudio(t, dir, fmt.Sprintf("music_%g.wav", tc.musicSeconds), tc.musicSeconds)
			outputPath := filepath.Join(dir, fmt.Sprintf("out_%g.mp4", tc.musicSeconds))

			plan := BuildEncodePlan(cfg, imagePath, audioPath, musicPath, outputPath, 5)
			require.NoError(t, svc.Encode(context.Background(), plan))

			duration, err := svc.ProbeAudioDuration(context.Background(), outputPath)
			require.NoError(t, err)
			assert.InDelta(t, 5.0, duration, 0.75, "output must end with the primary audio")
		})
	}
}
