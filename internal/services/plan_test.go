package services

import (
	"strings"
	"testing"
	"time"

	"github.com/forgeworks/vertivid/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() models.VideoConfig {
	cfg := models.VideoConfig{}
	cfg.ApplyDefaults()
	return cfg
}

func TestEncodeTimeout(t *testing.T) {
	cases := []struct {
		duration float64
		want     time.Duration
	}{
		{0, 300 * time.Second},
		{60, 320 * time.Second},
		{600, 500 * time.Second},
		{90, 330 * time.Second},
		{30, 310 * time.Second},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, EncodeTimeout(tc.duration), "duration=%v", tc.duration)
	}
}

func TestBuildEncodePlanWithoutMusic(t *testing.T) {
	plan := BuildEncodePlan(defaultConfig(), "/tmp/img.jpg", "/tmp/audio.mp3", "", "/tmp/out.mp4", 60)

	joined := strings.Join(plan.Args, " ")

	assert.False(t, plan.HasMusic)
	assert.NotContains(t, joined, "-filter_complex")
	assert.Contains(t, joined, "-loop 1 -i /tmp/img.jpg")
	assert.Contains(t, joined, "-c:v libx264 -preset fast -crf 28 -r 24")
	assert.Contains(t, joined, "-c:a aac -b:a 128k")
	assert.Contains(t, joined, "-shortest -movflags faststart")
	assert.Equal(t, "/tmp/out.mp4", plan.Args[len(plan.Args)-1])
	assert.Equal(t, 320*time.Second, plan.Timeout)
}

func TestBuildEncodePlanWithMusic(t *testing.T) {
	plan := BuildEncodePlan(defaultConfig(), "/tmp/img.jpg", "/tmp/audio.mp3", "/tmp/music.mp3", "/tmp/out.mp4", 60)

	require.True(t, plan.HasMusic)

	joined := strings.Join(plan.Args, " ")
	assert.Contains(t, joined, "-i /tmp/music.mp3")

	// The mix must be scaled to the configured gain and must end exactly with
	// the primary audio, whatever the music length.
	assert.Contains(t, joined, "[2:a]volume=0.06[bg]")
	assert.Contains(t, joined, "amix=inputs=2:duration=first:dropout_transition=0")
	assert.Contains(t, joined, "-map 0:v -map [audio]")
}

func TestBuildEncodePlanSilentMusic(t *testing.T) {
	cfg := defaultConfig()
	cfg.MusicVolume = 0

	plan := BuildEncodePlan(cfg, "i.jpg", "a.mp3", "m.mp3", "o.mp4", 60)

	// Zero gain mutes the music track rather than falling back to any default.
	assert.Contains(t, strings.Join(plan.Args, " "), "[2:a]volume=0[bg]")
}

func TestBuildEncodePlanUsesConfigValues(t *testing.T) {
	cfg := models.VideoConfig{
		Width:       720,
		Height:      1280,
		Bitrate:     "192k",
		FrameRate:   30,
		CRF:         20,
		MusicVolume: 0.25,
	}

	plan := BuildEncodePlan(cfg, "i.jpg", "a.mp3", "m.mp3", "o.mp4", 0)

	joined := strings.Join(plan.Args, " ")
	assert.Contains(t, joined, "-crf 20")
	assert.Contains(t, joined, "-r 30")
	assert.Contains(t, joined, "-b:a 192k")
	assert.Contains(t, joined, "volume=0.25")
	assert.Equal(t, 300*time.Second, plan.Timeout)
}
