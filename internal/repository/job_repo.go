package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/portfolio-api/internal/database"
	"github.com/portfolio-api/internal/models"
)

const jobColumns = `id, kind, payload, status, attempts, max_attempts, last_error, run_at,
	created_at, started_at, completed_at`

// jobRepo is the concrete implementation of JobRepository
type jobRepo struct {
	db *database.DB
}

// NewJobRepo creates a new job repository
func NewJobRepo(db *database.DB) JobRepository {
	return &jobRepo{db: db}
}

func scanJob(s scanner) (*models.NotificationJob, error) {
	var job models.NotificationJob
	var payload []byte
	var lastError sql.NullString
	var startedAt, completedAt sql.NullTime

	err := s.Scan(&job.ID, &job.Kind, &payload, &job.Status, &job.Attempts, &job.MaxAttempts,
		&lastError, &job.RunAt, &job.CreatedAt, &startedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	job.Payload = payload
	job.LastError = lastError.String
	job.StartedAt = timePtr(startedAt)
	job.CompletedAt = timePtr(completedAt)
	return &job, nil
}

// Create inserts a new job
func (r *jobRepo) Create(ctx context.Context, job *models.NotificationJob) error {
	query := `
		INSERT INTO notification_jobs (id, kind, payload, status, attempts, max_attempts, run_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.Kind, []byte(job.Payload), job.Status, job.Attempts, job.MaxAttempts,
		job.RunAt, job.CreatedAt,
	)
	return err
}

// GetByID retrieves a job by ID
func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.NotificationJob, error) {
	job, err := scanJob(r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM notification_jobs WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return job, err
}

// GetDueJobs retrieves pending jobs whose run_at has passed. Workers race
// for them through MarkJobAsProcessing.
func (r *jobRepo) GetDueJobs(ctx context.Context, now time.Time, limit int) ([]*models.NotificationJob, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM notification_jobs
		WHERE status = 'pending' AND run_at <= $1
		ORDER BY run_at
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.NotificationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			continue
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// MarkJobAsProcessing atomically claims a pending job. Only one caller
// sees true for a given job.
func (r *jobRepo) MarkJobAsProcessing(ctx context.Context, jobID string, startedAt time.Time) (bool, error) {
	query := `
		UPDATE notification_jobs SET status = 'processing', started_at = $1
		WHERE id = $2 AND status = 'pending'
	`
	result, err := r.db.ExecContext(ctx, query, startedAt, jobID)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// MarkCompleted finishes a job successfully
func (r *jobRepo) MarkCompleted(ctx context.Context, jobID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notification_jobs SET status = 'completed', attempts = attempts + 1, completed_at = $1, last_error = NULL
		WHERE id = $2
	`, time.Now(), jobID)
	return err
}

// MarkRetry puts a job back in the queue to run again at runAt
func (r *jobRepo) MarkRetry(ctx context.Context, jobID string, attempts int, runAt time.Time, lastErr string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notification_jobs SET status = 'pending', attempts = $1, run_at = $2, last_error = $3
		WHERE id = $4
	`, attempts, runAt, lastErr, jobID)
	return err
}

// MarkFailed gives up on a job
func (r *jobRepo) MarkFailed(ctx context.Context, jobID string, attempts int, lastErr string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notification_jobs SET status = 'failed', attempts = $1, last_error = $2, completed_at = $3
		WHERE id = $4
	`, attempts, lastErr, time.Now(), jobID)
	return err
}

// RequeueStale returns jobs left in processing by a crashed worker to the queue
func (r *jobRepo) RequeueStale(ctx context.Context, startedBefore time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE notification_jobs SET status = 'pending', started_at = NULL
		WHERE status = 'processing' AND started_at < $1
	`, startedBefore)
	if err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}
