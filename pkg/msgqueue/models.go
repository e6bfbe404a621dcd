package msgqueue

import (
	"time"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
)

// JobStatus represents the current state of a send job.
type JobStatus string

const (
	JobStatusPending  JobStatus = "pending"
	JobStatusActive   JobStatus = "active"
	JobStatusSent     JobStatus = "sent"
	JobStatusRetrying JobStatus = "retrying"
	JobStatusFailed   JobStatus = "failed"
)

// Job asks for one active message to be sent later.
type Job struct {
	// Message is the name the variant is registered under.
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
	// Fields are explicit values applied before sending.
	Fields         activemsg.Fields `json:"fields"`
	SkipValidation bool             `json:"skip_validation,omitempty"`

	Queue string `json:"queue"`
	// MaxRetries is the maximum number of retry attempts. Default is 3.
	MaxRetries int `json:"max_retries"`
}

// JobInfo is the full representation of a job stored in the backend.
type JobInfo struct {
	ID             string           `json:"id"`
	Message        string           `json:"message"`
	Params         map[string]any   `json:"params,omitempty"`
	Fields         activemsg.Fields `json:"fields"`
	SkipValidation bool             `json:"skip_validation,omitempty"`
	Queue          string           `json:"queue"`
	Status         JobStatus        `json:"status"`
	Error          string           `json:"error,omitempty"`
	MaxRetries     int              `json:"max_retries"`
	Attempts       int              `json:"attempts"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// NewJobInfo builds the pending record stored for job.
func NewJobInfo(id string, job Job, now time.Time) JobInfo {
	return JobInfo{
		ID:             id,
		Message:        job.Message,
		Params:         job.Params,
		Fields:         job.Fields,
		SkipValidation: job.SkipValidation,
		Queue:          job.Queue,
		Status:         JobStatusPending,
		MaxRetries:     job.MaxRetries,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
