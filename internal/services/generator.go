package services

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/forgeworks/vertivid/internal/models"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// GenerationSpec is everything one pipeline run needs.
type GenerationSpec struct {
	ImageURL string
	AudioURL string
	MusicURL string // empty = no background music
	Config   models.VideoConfig
}

// Generator runs the full media pipeline for one job: fetch assets, reframe
// the image, probe the audio, and invoke the encoder.
type Generator struct {
	fetcher *FetcherService
	ffmpeg  *FFmpegService
}

func NewGenerator(fetcher *FetcherService, ffmpeg *FFmpegService) *Generator {
	return &Generator{
		fetcher: fetcher,
		ffmpeg:  ffmpeg,
	}
}

// CreateVerticalVideo produces the finished video bytes for a spec.
//
// The three asset fetches run concurrently; everything after converges into a
// single sequential encode. All temporary files created for the invocation are
// tracked in one list and removed by a single deferred cleanup, so no exit
// path — success, encoder failure, or timeout — leaves them behind.
func (g *Generator) CreateVerticalVideo(ctx context.Context, spec GenerationSpec) ([]byte, error) {
	log.Printf("[Generator] Starting video generation (music=%t)", spec.MusicURL != "")

	var (
		imageData []byte
		audioData []byte
		musicData []byte
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		imageData, err = g.fetcher.Fetch(egCtx, spec.ImageURL, models.AssetKindImage)
		return err
	})
	eg.Go(func() error {
		var err error
		audioData, err = g.fetcher.Fetch(egCtx, spec.AudioURL, models.AssetKindAudio)
		return err
	})
	if spec.MusicURL != "" {
		eg.Go(func() error {
			var err error
			musicData, err = g.fetcher.Fetch(egCtx, spec.MusicURL, models.AssetKindMusic)
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	frameData, err := ProcessImageForVertical(imageData, spec.Config.Width, spec.Config.Height)
	if err != nil {
		return nil, err
	}

	// Materialize everything the encoder needs; it only takes filesystem paths.
	invocationID := uuid.New().String()
	var tempPaths []string
	defer func() { g.ffmpeg.Cleanup(tempPaths...) }()

	writeTemp := func(name string, data []byte) (string, error) {
		path := g.ffmpeg.CreateTempFile(name)
		tempPaths = append(tempPaths, path)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", name, err)
		}
		return path, nil
	}

	imagePath, err := writeTemp(fmt.Sprintf("image_%s.jpg", invocationID), frameData)
	if err != nil {
		return nil, err
	}

	audioPath, err := writeTemp(fmt.Sprintf("audio_%s.mp3", invocationID), audioData)
	if err != nil {
		return nil, err
	}

	musicPath := ""
	if musicData != nil {
		musicPath, err = writeTemp(fmt.Sprintf("music_%s.mp3", invocationID), musicData)
		if err != nil {
			return nil, err
		}
	}

	outputPath := g.ffmpeg.CreateTempFile(fmt.Sprintf("output_%s.mp4", invocationID))
	tempPaths = append(tempPaths, outputPath)

	duration := g.ffmpeg.AudioDurationWithFallback(ctx, audioPath)
	plan := BuildEncodePlan(spec.Config, imagePath, audioPath, musicPath, outputPath, duration)

	if err := g.ffmpeg.Encode(ctx, plan); err != nil {
		return nil, err
	}

	videoData, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read encoded video: %w", err)
	}

	log.Printf("[Generator] Video generated successfully (%d bytes)", len(videoData))
	return videoData, nil
}
