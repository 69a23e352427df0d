package schemas

import (
	"time"

	"github.com/doccheck/marketplace/internal/models"
)

type CreateJobRequest struct {
	ServiceType  models.ServiceType `json:"serviceType"`
	Turnaround   models.Turnaround  `json:"turnaround"`
	WordCount    int                `json:"wordCount"`
	Title        *string            `json:"title,omitempty"`
	Instructions *string            `json:"instructions,omitempty"`
	Deadline     *time.Time         `json:"deadline,omitempty"`
}

func (req CreateJobRequest) ToJob() *models.Job {
	return &models.Job{
		ServiceType:  req.ServiceType,
		Turnaround:   req.Turnaround,
		WordCount:    req.WordCount,
		Title:        req.Title,
		Instructions: req.Instructions,
		Deadline:     req.Deadline,
	}
}

// UpdateJobRequest is a partial update; absent fields keep their value.
type UpdateJobRequest struct {
	ServiceType  *models.ServiceType `json:"serviceType,omitempty"`
	Turnaround   *models.Turnaround  `json:"turnaround,omitempty"`
	WordCount    *int                `json:"wordCount,omitempty"`
	Title        *string             `json:"title,omitempty"`
	Instructions *string             `json:"instructions,omitempty"`
	Deadline     *time.Time          `json:"deadline,omitempty"`
}

func (req UpdateJobRequest) ToPatch() models.JobPatch {
	return models.JobPatch{
		ServiceType:  req.ServiceType,
		Turnaround:   req.Turnaround,
		WordCount:    req.WordCount,
		Title:        req.Title,
		Instructions: req.Instructions,
		Deadline:     req.Deadline,
	}
}

type AssignRequest struct {
	ReviewerID string `json:"reviewerId"`
}

type TransitionRequest struct {
	Status models.JobStatus `json:"status"`
}
