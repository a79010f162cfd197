package models

import "time"

// Enums

type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// AssetKind tags a fetched blob for logging and error messages only.
type AssetKind string

const (
	AssetKindImage AssetKind = "image"
	AssetKindAudio AssetKind = "audio"
	AssetKindMusic AssetKind = "music"
)

// VideoConfig holds the encode settings for one job. Immutable once the job
// is submitted. Zero-valued fields are filled by ApplyDefaults.
type VideoConfig struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Bitrate     string  `json:"bitrate"` // audio bitrate, e.g. "128k"
	FrameRate   int     `json:"frame_rate"`
	CRF         int     `json:"crf"`          // lower = higher quality
	MusicVolume float64 `json:"music_volume"` // gain applied to background music, 0..1
}

// Default encode settings for the 9:16 vertical target.
const (
	DefaultWidth       = 1080
	DefaultHeight      = 1920
	DefaultBitrate     = "128k"
	DefaultFrameRate   = 24
	DefaultCRF         = 28
	DefaultMusicVolume = 0.06
)

// ApplyDefaults fills any unset field with the default encode settings.
func (c *VideoConfig) ApplyDefaults() {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Bitrate == "" {
		c.Bitrate = DefaultBitrate
	}
	if c.FrameRate <= 0 {
		c.FrameRate = DefaultFrameRate
	}
	if c.CRF <= 0 {
		c.CRF = DefaultCRF
	}
	if c.MusicVolume <= 0 {
		c.MusicVolume = DefaultMusicVolume
	}
}

// VideoResult is present only on completed jobs.
type VideoResult struct {
	Location string `json:"location"`  // storage handle for the finished video
	FileSize int64  `json:"file_size"` // bytes
}

// Job is one end-to-end generation request. Created as processing, mutated
// exactly once by the owning worker to completed or failed. Result and Error
// are mutually exclusive and both nil while processing.
type Job struct {
	ID         string       `json:"id"`
	Status     JobStatus    `json:"status"`
	ImageURL   string       `json:"image_url"`
	AudioURL   string       `json:"audio_url"`
	MusicURL   string       `json:"music_url,omitempty"`
	Config     VideoConfig  `json:"config"`
	Result     *VideoResult `json:"result,omitempty"`
	Error      *string      `json:"error,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
}

// Generation is one row of the video_generations audit table.
type Generation struct {
	ID        int64     `json:"id"`
	ImageURL  string    `json:"image_url"`
	AudioURL  string    `json:"audio_url"`
	Status    string    `json:"status"`
	FileSize  *int64    `json:"file_size,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DTOs for API requests and responses

type GenerateVideoRequest struct {
	ImageURL           string   `json:"image_url"`
	AudioURL           string   `json:"audio_url"`
	BackgroundMusicURL string   `json:"background_music_url,omitempty"`
	Width              *int     `json:"width,omitempty"`
	Height             *int     `json:"height,omitempty"`
	Bitrate            *string  `json:"bitrate,omitempty"`
	FrameRate          *int     `json:"frame_rate,omitempty"`
	CRF                *int     `json:"crf,omitempty"`
	MusicVolume        *float64 `json:"music_volume,omitempty"`
}

// VideoConfig builds the job's encode settings from the optional request
// overrides. A field defaults only when the request leaves it unset (nil),
// so an explicit zero such as music_volume=0 or crf=0 is preserved.
func (r *GenerateVideoRequest) VideoConfig() VideoConfig {
	cfg := VideoConfig{}
	cfg.ApplyDefaults()
	if r.Width != nil {
		cfg.Width = *r.Width
	}
	if r.Height != nil {
		cfg.Height = *r.Height
	}
	if r.Bitrate != nil {
		cfg.Bitrate = *r.Bitrate
	}
	if r.FrameRate != nil {
		cfg.FrameRate = *r.FrameRate
	}
	if r.CRF != nil {
		cfg.CRF = *r.CRF
	}
	if r.MusicVolume != nil {
		cfg.MusicVolume = *r.MusicVolume
	}
	return cfg
}

type GenerateVideoResponse struct {
	JobID  string    `json:"job_id"`
	Status JobStatus `json:"status"`
}

type ListGenerationsResponse struct {
	Generations []Generation `json:"generations"`
	Total       int          `json:"total"`
}
