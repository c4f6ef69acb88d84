package models

import (
	"encoding/json"
	"time"
)

// JobStatus represents the status of a notification job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// JobKind selects the handler that runs a job
type JobKind string

const (
	JobKindContactEmail JobKind = "contact_email"
)

// NotificationJob is a queued outbound notification
type NotificationJob struct {
	ID          string          `json:"id"`
	Kind        JobKind         `json:"kind"`
	Payload     json.RawMessage `json:"payload"`
	Status      JobStatus       `json:"status"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	LastError   string          `json:"last_error,omitempty"`
	RunAt       time.Time       `json:"run_at"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// ContactEmailPayload is the payload of a contact_email job
type ContactEmailPayload struct {
	MessageID string `json:"message_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}
