package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// probeTimeout bounds a single ffprobe invocation.
	probeTimeout = 10 * time.Second

	// fallbackAudioDuration is used when the probe cannot determine the real
	// duration. The pipeline continues with it, never aborts.
	fallbackAudioDuration = 60.0
)

// FFmpegService wraps the external ffmpeg/ffprobe binaries and owns the
// temp directory used to hand files to them.
type FFmpegService struct {
	ffmpegPath  string
	ffprobePath string
	tempDir     string
}

func NewFFmpegService(ffmpegPath, ffprobePath, tempDir string) *FFmpegService {
	// Create temp directory if it doesn't exist
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		panic(fmt.Sprintf("failed to create temp dir: %v", err))
	}

	return &FFmpegService{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		tempDir:     tempDir,
	}
}

// ProbeAudioDuration returns the playback duration of an audio file in seconds.
func (s *FFmpegService) ProbeAudioDuration(ctx context.Context, audioPath string) (float64, error) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	}

	cmd := exec.CommandContext(probeCtx, s.ffprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return duration, nil
}

// AudioDurationWithFallback probes the audio duration, falling back to 60s on
// any probe failure. Probe failure is soft: it only affects the encode
// deadline, so the pipeline logs a warning and keeps going.
func (s *FFmpegService) AudioDurationWithFallback(ctx context.Context, audioPath string) float64 {
	duration, err := s.ProbeAudioDuration(ctx, audioPath)
	if err != nil {
		log.Printf("[FFmpeg] Warning: could not determine audio duration, using %.0fs default: %v", fallbackAudioDuration, err)
		return fallbackAudioDuration
	}

	log.Printf("[FFmpeg] Audio duration: %.2fs", duration)
	return duration
}

// Encode runs ffmpeg with the planned arguments under the planned deadline.
// A non-zero exit yields an *EncodingError carrying ffmpeg's stderr; exceeding
// the deadline yields ErrEncodingTimeout.
func (s *FFmpegService) Encode(ctx context.Context, plan EncodePlan) error {
	log.Printf("[FFmpeg] Encoding with timeout %v (music=%t)", plan.Timeout, plan.HasMusic)

	encodeCtx, cancel := context.WithTimeout(ctx, plan.Timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(encodeCtx, s.ffmpegPath, plan.Args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(encodeCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %v", ErrEncodingTimeout, plan.Timeout)
		}
		return &EncodingError{Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}

	return nil
}

// CreateTempFile returns a path for a temporary file inside the service's
// temp directory. Nothing is created on disk yet.
func (s *FFmpegService) CreateTempFile(filename string) string {
	return filepath.Join(s.tempDir, filename)
}

// Cleanup removes temporary files, best effort. Removal failures are
// swallowed so cleanup can never mask the pipeline's real outcome.
func (s *FFmpegService) Cleanup(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		_ = os.Remove(path)
	}
}
