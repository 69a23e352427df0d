// Package access decides whether a caller may perform an operation on a
// job. All role and ownership checks go through Authorize.
package access

import (
	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/models"
)

type Operation string

const (
	CreateJob       Operation = "create job"
	ViewJob         Operation = "view job"
	UpdateJob       Operation = "update job"
	UploadFile      Operation = "upload file"
	CreateQuote     Operation = "create quote"
	CreateOrder     Operation = "create order"
	Pay             Operation = "pay"
	ViewInvoice     Operation = "view invoice"
	CancelJob       Operation = "cancel job"
	RequestRevision Operation = "request revision"
	Dispute         Operation = "dispute"
	AssignReviewer  Operation = "assign reviewer"
	StartReview     Operation = "start review"
	CompleteJob     Operation = "complete job"
	ViewStats       Operation = "view admin stats"
	ListUnassigned  Operation = "list unassigned jobs"
	ListReviewers   Operation = "list reviewers"
)

type Caller struct {
	ID   string
	Role models.Role
}

func CallerOf(user *models.User) Caller {
	return Caller{ID: user.ID, Role: user.Role}
}

// Resource describes the job an operation targets. Zero value for
// operations that are not tied to a job.
type Resource struct {
	OwnerID    string
	ReviewerID string
}

func ResourceOf(job *models.Job) Resource {
	res := Resource{OwnerID: job.CustomerID}
	if job.ReviewerID != nil {
		res.ReviewerID = *job.ReviewerID
	}
	return res
}

var customerOps = map[Operation]bool{
	ViewJob:         true,
	UpdateJob:       true,
	UploadFile:      true,
	CreateQuote:     true,
	CreateOrder:     true,
	Pay:             true,
	ViewInvoice:     true,
	CancelJob:       true,
	RequestRevision: true,
	Dispute:         true,
}

var reviewerOps = map[Operation]bool{
	ViewJob:     true,
	UploadFile:  true,
	StartReview: true,
	CompleteJob: true,
}

func Authorize(caller Caller, op Operation, res Resource) error {
	if caller.Role == models.RoleAdmin {
		return nil
	}

	allowed := false
	switch caller.Role {
	case models.RoleCustomer:
		if op == CreateJob {
			allowed = true
		} else {
			allowed = customerOps[op] && caller.ID != "" && res.OwnerID == caller.ID
		}
	case models.RoleReviewer:
		allowed = reviewerOps[op] && caller.ID != "" && res.ReviewerID == caller.ID
	}

	if !allowed {
		return customerror.NewAuthorizationError(string(caller.Role), string(op))
	}
	return nil
}
