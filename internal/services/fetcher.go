package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/forgeworks/vertivid/internal/models"
)

// fetchTimeout bounds a single asset download.
const fetchTimeout = 30 * time.Second

// FetcherService downloads remote assets (image, audio, background music)
// into memory with a bounded wait.
type FetcherService struct {
	client *http.Client
}

func NewFetcherService() *FetcherService {
	return &FetcherService{
		client: &http.Client{
			Timeout: fetchTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Fetch downloads url and returns the raw bytes. A network failure or non-2xx
// status yields a *DownloadError annotated with the asset kind. A content type
// that doesn't look like the expected kind is only warned about — plenty of
// asset hosts misreport it.
func (f *FetcherService) Fetch(ctx context.Context, url string, kind models.AssetKind) ([]byte, error) {
	log.Printf("[Fetcher] Downloading %s from %s", kind, url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &DownloadError{Kind: kind, URL: url, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &DownloadError{Kind: kind, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DownloadError{
			Kind: kind,
			URL:  url,
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !contentTypeMatches(ct, kind) {
		log.Printf("[Fetcher] Warning: unexpected content type for %s: %s", kind, ct)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &DownloadError{Kind: kind, URL: url, Err: err}
	}

	log.Printf("[Fetcher] Downloaded %s (%d bytes)", kind, len(data))
	return data, nil
}

// contentTypeMatches checks the declared content type against the expected
// family for the asset kind. Generic binary types are always accepted.
func contentTypeMatches(contentType string, kind models.AssetKind) bool {
	ct := strings.ToLower(contentType)
	if strings.HasPrefix(ct, "application/octet-stream") || strings.HasPrefix(ct, "application/binary") {
		return true
	}

	switch kind {
	case models.AssetKindImage:
		return strings.HasPrefix(ct, "image/")
	case models.AssetKindAudio, models.AssetKindMusic:
		return strings.HasPrefix(ct, "audio/")
	default:
		return true
	}
}
