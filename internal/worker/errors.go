package worker

import "errors"

var (
	// ErrInvalidRequest is returned when a submission is missing a mandatory URL
	ErrInvalidRequest = errors.New("both image_url and audio_url are required")

	// ErrJobNotFound is returned for a status query with an unknown job ID
	ErrJobNotFound = errors.New("job not found")

	// ErrQueueFull is returned when the submission queue has no capacity left
	ErrQueueFull = errors.New("job queue is full")
)
