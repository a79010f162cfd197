package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/forgeworks/vertivid/internal/db"
	"github.com/forgeworks/vertivid/internal/models"
	"github.com/forgeworks/vertivid/internal/services"
	"github.com/forgeworks/vertivid/internal/storage"
	"github.com/google/uuid"
)

// janitorInterval is how often expired terminal jobs are swept from the table.
const janitorInterval = time.Minute

// VideoGenerator runs the media pipeline for one job.
type VideoGenerator interface {
	CreateVerticalVideo(ctx context.Context, spec services.GenerationSpec) ([]byte, error)
}

// Options tunes the orchestrator.
type Options struct {
	Concurrency   int           // worker goroutines draining the queue
	QueueCapacity int           // pending submissions before Submit rejects
	Retention     time.Duration // how long terminal jobs stay queryable
}

// Worker owns the in-memory job table and the bounded pool that drains it.
// Each job is written by exactly one goroutine: created by Submit, mutated
// once to a terminal state by the worker that processed it.
type Worker struct {
	generator VideoGenerator
	store     storage.Store
	history   *db.DB // optional audit sink, nil = disabled

	mu      sync.RWMutex
	jobs    map[string]*models.Job
	pending chan string

	concurrency int
	retention   time.Duration
}

func New(generator VideoGenerator, store storage.Store, history *db.DB, opts Options) *Worker {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.QueueCapacity < 1 {
		opts.QueueCapacity = 64
	}
	if opts.Retention <= 0 {
		opts.Retention = time.Hour
	}

	return &Worker{
		generator:   generator,
		store:       store,
		history:     history,
		jobs:        make(map[string]*models.Job),
		pending:     make(chan string, opts.QueueCapacity),
		concurrency: opts.Concurrency,
		retention:   opts.Retention,
	}
}

// Submit validates the request, records a processing job, and queues the
// pipeline without blocking on its completion. Returns the new job ID.
func (w *Worker) Submit(req models.GenerateVideoRequest) (string, error) {
	if req.ImageURL == "" || req.AudioURL == "" {
		return "", ErrInvalidRequest
	}

	job := &models.Job{
		ID:        uuid.New().String(),
		Status:    models.JobStatusProcessing,
		ImageURL:  req.ImageURL,
		AudioURL:  req.AudioURL,
		MusicURL:  req.BackgroundMusicURL,
		Config:    req.VideoConfig(),
		CreatedAt: time.Now().UTC(),
	}

	// Reserve the queue slot and publish the job under one lock, so a
	// rejected submission is never observable through Status.
	w.mu.Lock()
	select {
	case w.pending <- job.ID:
		w.jobs[job.ID] = job
	default:
		w.mu.Unlock()
		return "", ErrQueueFull
	}
	w.mu.Unlock()

	log.Printf("[Worker] Job %s submitted (image=%s, audio=%s)", job.ID, req.ImageURL, req.AudioURL)
	return job.ID, nil
}

// Status returns a snapshot of the job, or ErrJobNotFound.
func (w *Worker) Status(jobID string) (models.Job, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	job, ok := w.jobs[jobID]
	if !ok {
		return models.Job{}, ErrJobNotFound
	}
	return *job, nil
}

// Start runs the worker pool and the eviction janitor until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	log.Printf("[Worker] Started with concurrency %d", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		go w.runLoop(ctx)
	}
	go w.runJanitor(ctx)

	<-ctx.Done()
	log.Println("[Worker] Shutting down...")
}

func (w *Worker) runLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case jobID := <-w.pending:
			w.process(ctx, jobID)
		}
	}
}

func (w *Worker) runJanitor(ctx context.Context) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			w.evictExpired(now)
		}
	}
}

// evictExpired drops terminal jobs whose retention window has passed.
// Processing jobs are never evicted.
func (w *Worker) evictExpired(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, job := range w.jobs {
		if job.Status == models.JobStatusProcessing || job.FinishedAt == nil {
			continue
		}
		if now.Sub(*job.FinishedAt) > w.retention {
			delete(w.jobs, id)
			log.Printf("[Worker] Evicted job %s (%s, finished %v ago)", id, job.Status, now.Sub(*job.FinishedAt).Round(time.Second))
		}
	}
}

// process runs the full pipeline for one job and writes its terminal state.
// Every pipeline error, including a panic, ends as a failed job — nothing
// here may crash the process.
func (w *Worker) process(ctx context.Context, jobID string) {
	w.mu.RLock()
	job, ok := w.jobs[jobID]
	w.mu.RUnlock()
	if !ok {
		// Evicted or never recorded; nothing to do.
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Worker] Job %s panicked: %v", jobID, r)
			w.fail(job, fmt.Errorf("internal error: %v", r))
		}
	}()

	log.Printf("[Worker] Processing job %s", jobID)

	spec := services.GenerationSpec{
		ImageURL: job.ImageURL,
		AudioURL: job.AudioURL,
		MusicURL: job.MusicURL,
		Config:   job.Config,
	}

	videoData, err := w.generator.CreateVerticalVideo(ctx, spec)
	if err != nil {
		log.Printf("[Worker] Job %s failed: %v", jobID, err)
		w.fail(job, err)
		return
	}

	name := fmt.Sprintf("video_%s_%s.mp4", time.Now().UTC().Format("20060102_150405"), shortID(jobID))
	location, err := w.store.Put(ctx, name, videoData)
	if err != nil {
		log.Printf("[Worker] Job %s failed to persist video: %v", jobID, err)
		w.fail(job, fmt.Errorf("failed to persist video: %w", err))
		return
	}

	w.complete(job, location, int64(len(videoData)))
	log.Printf("[Worker] Job %s completed (%s, %d bytes)", jobID, location, len(videoData))
}

func (w *Worker) complete(job *models.Job, location string, size int64) {
	now := time.Now().UTC()

	w.mu.Lock()
	if job.Status != models.JobStatusProcessing {
		w.mu.Unlock()
		return
	}
	job.Status = models.JobStatusCompleted
	job.Result = &models.VideoResult{Location: location, FileSize: size}
	job.FinishedAt = &now
	w.mu.Unlock()

	w.record(job)
}

func (w *Worker) fail(job *models.Job, err error) {
	now := time.Now().UTC()
	msg := err.Error()

	w.mu.Lock()
	if job.Status != models.JobStatusProcessing {
		w.mu.Unlock()
		return
	}
	job.Status = models.JobStatusFailed
	job.Error = &msg
	job.FinishedAt = &now
	w.mu.Unlock()

	w.record(job)
}

// record writes the audit row for a terminal job. Best effort: the sink is
// optional and its failures never surface as job failures.
func (w *Worker) record(job *models.Job) {
	if w.history == nil {
		return
	}

	gen := &models.Generation{
		ImageURL: job.ImageURL,
		AudioURL: job.AudioURL,
		Status:   string(job.Status),
	}
	if job.Result != nil {
		size := job.Result.FileSize
		gen.FileSize = &size
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := w.history.InsertGeneration(ctx, gen); err != nil {
		log.Printf("[Worker] Warning: failed to record generation for job %s: %v", job.ID, err)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
