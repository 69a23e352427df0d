package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ServiceType string

const (
	ServiceProofreading ServiceType = "proofreading"
	ServiceEditing      ServiceType = "editing"
	ServiceFormatting   ServiceType = "formatting"
	ServiceConsultation ServiceType = "consultation"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceProofreading, ServiceEditing, ServiceFormatting, ServiceConsultation:
		return true
	}
	return false
}

type Turnaround string

const (
	Turnaround24h   Turnaround = "24h"
	Turnaround48h   Turnaround = "48h"
	Turnaround72h   Turnaround = "72h"
	Turnaround1Week Turnaround = "1week"
)

func (t Turnaround) Valid() bool {
	switch t {
	case Turnaround24h, Turnaround48h, Turnaround72h, Turnaround1Week:
		return true
	}
	return false
}

// Duration is the promised delivery window.
func (t Turnaround) Duration() time.Duration {
	switch t {
	case Turnaround24h:
		return 24 * time.Hour
	case Turnaround48h:
		return 48 * time.Hour
	case Turnaround72h:
		return 72 * time.Hour
	}
	return 7 * 24 * time.Hour
}

type JobStatus string

const (
	JobDraft             JobStatus = "draft"
	JobQuoted            JobStatus = "quoted"
	JobPendingPayment    JobStatus = "pending_payment"
	JobPaid              JobStatus = "paid"
	JobAssigned          JobStatus = "assigned"
	JobInReview          JobStatus = "in_review"
	JobRevisionRequested JobStatus = "revision_requested"
	JobCompleted         JobStatus = "completed"
	JobCancelled         JobStatus = "cancelled"
	JobDisputed          JobStatus = "disputed"
)

var AllJobStatuses = []JobStatus{
	JobDraft,
	JobQuoted,
	JobPendingPayment,
	JobPaid,
	JobAssigned,
	JobInReview,
	JobRevisionRequested,
	JobCompleted,
	JobCancelled,
	JobDisputed,
}

func (s JobStatus) Valid() bool {
	for _, status := range AllJobStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Job struct {
	ID           string      `json:"id"`
	CustomerID   string      `json:"customerId"`
	ReviewerID   *string     `json:"reviewerId,omitempty"`
	ServiceType  ServiceType `json:"serviceType"`
	Turnaround   Turnaround  `json:"turnaround"`
	Status       JobStatus   `json:"status"`
	Title        *string     `json:"title,omitempty"`
	Instructions *string     `json:"instructions,omitempty"`
	WordCount    int         `json:"wordCount"`
	Deadline     *time.Time  `json:"deadline,omitempty"`
	CompletedAt  *time.Time  `json:"completedAt,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (job *Job) AssignedTo(userID string) bool {
	return job.ReviewerID != nil && *job.ReviewerID == userID
}

// JobPatch holds the editable fields of a job. Nil fields are left alone.
type JobPatch struct {
	ServiceType  *ServiceType
	Turnaround   *Turnaround
	WordCount    *int
	Title        *string
	Instructions *string
	Deadline     *time.Time
}

func (p JobPatch) Apply(job *Job) {
	if p.ServiceType != nil {
		job.ServiceType = *p.ServiceType
	}
	if p.Turnaround != nil {
		job.Turnaround = *p.Turnaround
	}
	if p.WordCount != nil {
		job.WordCount = *p.WordCount
	}
	if p.Title != nil {
		job.Title = p.Title
	}
	if p.Instructions != nil {
		job.Instructions = p.Instructions
	}
	if p.Deadline != nil {
		job.Deadline = p.Deadline
	}
}

type JobFile struct {
	ID             string    `json:"id"`
	JobID          string    `json:"jobId"`
	Filename       string    `json:"filename"`
	OriginalName   string    `json:"originalName"`
	MimeType       string    `json:"mimeType"`
	Size           int64     `json:"size"`
	StoragePath    string    `json:"storagePath"`
	IsOriginal     bool      `json:"isOriginal"`
	EstimatedWords int       `json:"estimatedWords"`
	UploadedAt     time.Time `json:"uploadedAt"`
}

// EstimateWordCount approximates the number of words in a document of the
// given size, six bytes per word on average.
func EstimateWordCount(size int64) int {
	if size <= 0 {
		return 0
	}
	return int((size + 3) / 6)
}

type JobStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	InReview  int `json:"inReview"`
	Completed int `json:"completed"`
	// Revenue of completed payments per currency.
	Revenue map[Currency]decimal.Decimal `json:"revenue"`
}
