// Package lifecycle holds the job state machine. Every status change of a
// job must be checked with Transition before it is written.
package lifecycle

import (
	"fmt"
	"net/http"

	"github.com/doccheck/marketplace/internal/models"
)

var transitions = map[models.JobStatus][]models.JobStatus{
	models.JobDraft:             {models.JobQuoted, models.JobCancelled},
	models.JobQuoted:            {models.JobQuoted, models.JobPendingPayment, models.JobCancelled},
	models.JobPendingPayment:    {models.JobPaid, models.JobQuoted, models.JobCancelled},
	models.JobPaid:              {models.JobAssigned, models.JobCancelled},
	models.JobAssigned:          {models.JobAssigned, models.JobInReview, models.JobCancelled},
	models.JobInReview:          {models.JobRevisionRequested, models.JobCompleted, models.JobDisputed, models.JobCancelled},
	models.JobRevisionRequested: {models.JobInReview, models.JobCancelled},
	models.JobDisputed:          {models.JobInReview, models.JobCompleted, models.JobCancelled},
	models.JobCompleted:         {},
	models.JobCancelled:         {},
}

type InvalidTransitionError struct {
	From models.JobStatus
	To   models.JobStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("job cannot move from %q to %q", e.From, e.To)
}

func (e *InvalidTransitionError) GetHTTPCode() int {
	return http.StatusConflict
}

// Transition returns nil when a job in status from may move to status to.
func Transition(from, to models.JobStatus) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return &InvalidTransitionError{From: from, To: to}
}

// Allowed lists the statuses reachable from status in one step.
func Allowed(status models.JobStatus) []models.JobStatus {
	next := transitions[status]
	out := make([]models.JobStatus, len(next))
	copy(out, next)
	return out
}

func IsTerminal(status models.JobStatus) bool {
	next, ok := transitions[status]
	return ok && len(next) == 0
}
