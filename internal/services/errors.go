package services

import (
	"errors"
	"fmt"

	"github.com/forgeworks/vertivid/internal/models"
)

// ErrEncodingTimeout is returned when the encoder exceeds its computed deadline.
var ErrEncodingTimeout = errors.New("video encoding timed out")

// DownloadError wraps a failed asset fetch. Fatal to the job.
type DownloadError struct {
	Kind models.AssetKind
	URL  string
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download %s from %s: %v", e.Kind, e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// ImageError wraps an image decode/crop/resize/encode failure. Fatal to the job.
type ImageError struct {
	Err error
}

func (e *ImageError) Error() string {
	return "image processing failed: " + e.Err.Error()
}

func (e *ImageError) Unwrap() error {
	return e.Err
}

// EncodingError wraps a non-zero ffmpeg exit, preserving its stderr output.
type EncodingError struct {
	Stderr string
	Err    error
}

func (e *EncodingError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("ffmpeg failed: %v: %s", e.Err, e.Stderr)
	}
	return fmt.Sprintf("ffmpeg failed: %v", e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
