package service

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/notify"
	"github.com/portfolio-api/internal/repository"
	"github.com/rs/zerolog"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultMaxAttempts  = 3
	defaultBaseBackoff  = 10 * time.Second
	jobBatchSize        = 10
	// jobLease is how long a job may stay processing before it is presumed abandoned
	jobLease = 5 * time.Minute
	// outcomeTimeout bounds recording a result after the processor was stopped
	outcomeTimeout = 10 * time.Second
)

// jobHandler runs one job. A returned error schedules a retry.
type jobHandler func(ctx context.Context, job *models.NotificationJob) error

// jobService is the concrete implementation of JobService
type jobService struct {
	jobRepo      repository.JobRepository
	notifier     notify.Notifier
	handlers     map[models.JobKind]jobHandler
	pollInterval time.Duration
	maxAttempts  int
	baseBackoff  time.Duration
	now          func() time.Time
	log          zerolog.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	running      bool
	mu           sync.Mutex
	// sem bounds the number of jobs running at once
	sem chan struct{}
}

// newJobService creates a JobService with a worker pool sized for I/O-bound work
func newJobService(jobRepo repository.JobRepository, notifier notify.Notifier, cfg *config.Config, now func() time.Time, log zerolog.Logger) *jobService {
	maxWorkers := runtime.NumCPU() * 4
	if maxWorkers < 4 {
		maxWorkers = 4
	}
	if maxWorkers > 32 {
		maxWorkers = 32
	}

	s := &jobService{
		jobRepo:      jobRepo,
		notifier:     notifier,
		pollInterval: cfg.Jobs.PollInterval,
		maxAttempts:  cfg.Jobs.MaxAttempts,
		baseBackoff:  cfg.Jobs.BaseBackoff,
		now:          now,
		log:          log.With().Str("service", "job").Logger(),
		sem:          make(chan struct{}, maxWorkers),
	}
	if s.pollInterval <= 0 {
		s.pollInterval = defaultPollInterval
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = defaultMaxAttempts
	}
	if s.baseBackoff <= 0 {
		s.baseBackoff = defaultBaseBackoff
	}
	s.handlers = map[models.JobKind]jobHandler{
		models.JobKindContactEmail: s.sendContactEmail,
	}

	s.log.Info().Int("max_workers", maxWorkers).Msg("Initializing notification worker pool")
	return s
}

// Enqueue stores a pending job that is due immediately
func (s *jobService) Enqueue(ctx context.Context, kind models.JobKind, payload interface{}) (*models.NotificationJob, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode job payload: %w", err)
	}
	now := s.now()
	job := &models.NotificationJob{
		ID:          uuid.New().String(),
		Kind:        kind,
		Payload:     raw,
		Status:      models.JobStatusPending,
		MaxAttempts: s.maxAttempts,
		RunAt:       now,
		CreatedAt:   now,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	s.log.Debug().Str("job_id", job.ID).Str("kind", string(kind)).Msg("Job enqueued")
	return job, nil
}

// GetJob retrieves a job by ID
func (s *jobService) GetJob(ctx context.Context, id string) (*models.NotificationJob, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrNotFound
	}
	return job, nil
}

// StartProcessor polls for due jobs until ctx is cancelled or StopProcessor is called
func (s *jobService) StartProcessor(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.log.Info().Dur("poll_interval", s.pollInterval).Msg("Job processor started")
	s.requeueStale()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	reaper := time.NewTicker(jobLease)
	defer reaper.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info().Msg("Job processor stopping")
			return
		case <-reaper.C:
			s.requeueStale()
		case <-ticker.C:
			s.processDueJobs()
		}
	}
}

// requeueStale puts jobs whose lease expired back in the queue
func (s *jobService) requeueStale() {
	n, err := s.jobRepo.RequeueStale(s.ctx, s.now().Add(-jobLease))
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to requeue stale jobs")
		return
	}
	if n > 0 {
		s.log.Warn().Int("count", n).Dur("lease", jobLease).Msg("Requeued stale processing jobs")
	}
}

// StopProcessor stops polling and waits for running jobs
func (s *jobService) StopProcessor() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.wg.Wait()
	s.running = false
	s.log.Info().Msg("Job processor stopped")
}

// processDueJobs claims due jobs and runs them on the worker pool
func (s *jobService) processDueJobs() {
	jobs, err := s.jobRepo.GetDueJobs(s.ctx, s.now(), jobBatchSize)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to get due jobs")
		return
	}

	for _, job := range jobs {
		// blocks while every worker is busy
		select {
		case s.sem <- struct{}{}:
		case <-s.ctx.Done():
			return
		}

		marked, err := s.jobRepo.MarkJobAsProcessing(s.ctx, job.ID, s.now())
		if err != nil || !marked {
			<-s.sem
			continue
		}

		s.wg.Add(1)
		go func(j *models.NotificationJob) {
			defer s.wg.Done()
			defer func() { <-s.sem }()
			s.runJob(s.ctx, j)
		}(job)
	}
}

// runJob executes one claimed job and records the outcome
func (s *jobService) runJob(ctx context.Context, job *models.NotificationJob) {
	log := s.log.With().Str("job_id", job.ID).Str("kind", string(job.Kind)).Int("attempt", job.Attempts+1).Logger()
	log.Info().Msg("Processing job")

	err := s.execute(ctx, job)

	// The outcome must be stored even when the processor is stopping
	outcome, cancel := context.WithTimeout(context.WithoutCancel(ctx), outcomeTimeout)
	defer cancel()

	if err == nil {
		if markErr := s.jobRepo.MarkCompleted(outcome, job.ID); markErr != nil {
			log.Error().Err(markErr).Msg("Failed to mark job completed")
			return
		}
		log.Info().Msg("Job completed")
		return
	}
	if ctx.Err() != nil {
		// Interrupted by shutdown, run again without spending an attempt
		if markErr := s.jobRepo.MarkRetry(outcome, job.ID, job.Attempts, s.now(), err.Error()); markErr != nil {
			log.Error().Err(markErr).Msg("Failed to requeue interrupted job")
			return
		}
		log.Warn().Err(err).Msg("Job interrupted, requeued")
		return
	}
	s.fail(outcome, job, err, log)
}

// execute dispatches to the job's handler, turning a panic into an error
func (s *jobService) execute(ctx context.Context, job *models.NotificationJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Str("job_id", job.ID).Msg("Job panicked - recovered")
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	handler, ok := s.handlers[job.Kind]
	if !ok {
		return fmt.Errorf("no handler for job kind %q", job.Kind)
	}
	return handler(ctx, job)
}

// fail schedules a retry with exponential backoff or gives up
func (s *jobService) fail(ctx context.Context, job *models.NotificationJob, jobErr error, log zerolog.Logger) {
	attempt := job.Attempts + 1
	maxAttempts := job.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = s.maxAttempts
	}

	if attempt >= maxAttempts {
		if err := s.jobRepo.MarkFailed(ctx, job.ID, attempt, jobErr.Error()); err != nil {
			log.Error().Err(err).Msg("Failed to mark job failed")
		}
		log.Error().Err(jobErr).Int("max_attempts", maxAttempts).Msg("Job failed permanently")
		return
	}

	delay := backoff(s.baseBackoff, attempt)
	runAt := s.now().Add(delay)
	if err := s.jobRepo.MarkRetry(ctx, job.ID, attempt, runAt, jobErr.Error()); err != nil {
		log.Error().Err(err).Msg("Failed to schedule job retry")
	}
	log.Warn().Err(jobErr).Dur("retry_in", delay).Msg("Job failed, retry scheduled")
}

// backoff is base * 2^(attempt-1)
func backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base * time.Duration(1<<uint(attempt-1))
}

// sendContactEmail forwards a contact form message to the admin
func (s *jobService) sendContactEmail(ctx context.Context, job *models.NotificationJob) error {
	var p models.ContactEmailPayload
	if err := json.Unmarshal(job.Payload, &p); err != nil {
		return fmt.Errorf("decode contact payload: %w", err)
	}
	return s.notifier.Notify(ctx, contactMessage(p))
}

func contactMessage(p models.ContactEmailPayload) notify.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "You have received a new message from your portfolio contact form.\n\n")
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Email: %s\n", p.Email)
	fmt.Fprintf(&b, "Subject: %s\n\n", p.Subject)
	fmt.Fprintf(&b, "Message:\n%s\n", p.Message)
	return notify.Message{
		Subject: "New Contact Form Message: " + p.Subject,
		Body:    b.String(),
		ReplyTo: p.Email,
	}
}
