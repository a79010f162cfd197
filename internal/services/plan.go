package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/forgeworks/vertivid/internal/models"
)

// Encode timeout: a base budget plus extra headroom per minute of audio.
const (
	encodeTimeoutBaseSeconds      = 300
	encodeTimeoutPerMinuteSeconds = 20
)

// EncodePlan is the derived set of encoder arguments and deadline for one job.
type EncodePlan struct {
	Args       []string
	Timeout    time.Duration
	OutputPath string
	HasMusic   bool
}

// EncodeTimeout computes the encoder deadline from the probed audio duration:
// floor(300 + (duration/60)*20) seconds.
func EncodeTimeout(durationSeconds float64) time.Duration {
	seconds := int(encodeTimeoutBaseSeconds + (durationSeconds/60)*encodeTimeoutPerMinuteSeconds)
	return time.Duration(seconds) * time.Second
}

// BuildEncodePlan derives the full ffmpeg invocation for a job.
//
// The still image is looped for the whole duration and trimmed to the audio
// with -shortest. When a music path is present, the music track is scaled to
// the configured volume and mixed under the primary audio; duration=first
// with no dropout transition makes the mixed track end exactly with the
// primary audio regardless of the music length. faststart relocates the moov
// atom so the output streams progressively.
func BuildEncodePlan(cfg models.VideoConfig, imagePath, audioPath, musicPath, outputPath string, durationSeconds float64) EncodePlan {
	args := []string{
		"-y",
		"-loop", "1", "-i", imagePath,
		"-i", audioPath,
	}

	hasMusic := musicPath != ""
	if hasMusic {
		filterComplex := fmt.Sprintf(
			"[2:a]volume=%s[bg];[1:a][bg]amix=inputs=2:duration=first:dropout_transition=0[audio]",
			strconv.FormatFloat(cfg.MusicVolume, 'f', -1, 64),
		)
		args = append(args,
			"-i", musicPath,
			"-filter_complex", filterComplex,
			"-map", "0:v", "-map", "[audio]",
		)
	}

	args = append(args,
		"-c:v", "libx264", "-preset", "fast",
		"-crf", strconv.Itoa(cfg.CRF), "-r", strconv.Itoa(cfg.FrameRate),
		"-c:a", "aac", "-b:a", cfg.Bitrate,
		"-shortest", "-movflags", "faststart",
		outputPath,
	)

	return EncodePlan{
		Args:       args,
		Timeout:    EncodeTimeout(durationSeconds),
		OutputPath: outputPath,
		HasMusic:   hasMusic,
	}
}
