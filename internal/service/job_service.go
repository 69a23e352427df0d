package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/doccheck/marketplace/internal/access"
	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/lifecycle"
	"github.com/doccheck/marketplace/internal/middlewares/logger"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/pricing"
	"github.com/doccheck/marketplace/internal/repository"
	"github.com/doccheck/marketplace/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotifierI interface {
	Notify(ctx context.Context, userID string, kind models.NotificationType, title, message string)
}

type JobService struct {
	jobs       repository.JobStorageRepositoryI
	users      repository.UserStorageRepositoryI
	files      repository.JobFileStorageRepositoryI
	storage    storage.ObjectStorageI
	notifier   NotifierI
	calculator *pricing.Calculator
	now        func() time.Time
}

func NewJobService(
	jobs repository.JobStorageRepositoryI,
	users repository.UserStorageRepositoryI,
	files repository.JobFileStorageRepositoryI,
	objectStorage storage.ObjectStorageI,
	notifier NotifierI,
	calculator *pricing.Calculator,
) *JobService {
	return &JobService{
		jobs:       jobs,
		users:      users,
		files:      files,
		storage:    objectStorage,
		notifier:   notifier,
		calculator: calculator,
		now:        time.Now,
	}
}

// operationFor maps a requested status to the operation a caller needs.
// Statuses set by the quote, order, payment and assignment flows are not
// reachable through a plain transition.
var operationFor = map[models.JobStatus]access.Operation{
	models.JobCancelled:         access.CancelJob,
	models.JobRevisionRequested: access.RequestRevision,
	models.JobDisputed:          access.Dispute,
	models.JobInReview:          access.StartReview,
	models.JobCompleted:         access.CompleteJob,
}

// CreateJob stores a new draft job owned by the caller.
func (service *JobService) CreateJob(ctx context.Context, caller access.Caller, draft *models.Job) (*models.Job, error) {
	if err := access.Authorize(caller, access.CreateJob, access.Resource{OwnerID: caller.ID}); err != nil {
		return nil, err
	}
	if err := service.calculator.Validate(draft.ServiceType, draft.WordCount, draft.Turnaround, models.BaseCurrency); err != nil {
		return nil, err
	}

	now := service.now().UTC()
	job := *draft
	job.ID = uuid.NewString()
	job.CustomerID = caller.ID
	job.ReviewerID = nil
	job.Status = models.JobDraft
	job.CompletedAt = nil
	job.CreatedAt = now
	job.UpdatedAt = now

	if err := service.jobs.Create(ctx, &job); err != nil {
		return nil, err
	}

	logger.Log.Info("job created", zap.String("job_id", job.ID), zap.String("customer_id", caller.ID))
	return &job, nil
}

func (service *JobService) loadJob(ctx context.Context, caller access.Caller, op access.Operation, id string) (*models.Job, error) {
	job, err := service.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = access.Authorize(caller, op, access.ResourceOf(job)); err != nil {
		return nil, err
	}
	return job, nil
}

func (service *JobService) GetJob(ctx context.Context, caller access.Caller, id string) (*models.Job, error) {
	return service.loadJob(ctx, caller, access.ViewJob, id)
}

// ListJobs returns every job for admins, assigned jobs for reviewers and
// owned jobs for customers.
func (service *JobService) ListJobs(ctx context.Context, caller access.Caller) ([]models.Job, error) {
	filter := repository.JobFilter{}
	switch caller.Role {
	case models.RoleAdmin:
	case models.RoleReviewer:
		filter.ReviewerID = caller.ID
	default:
		filter.CustomerID = caller.ID
	}
	return service.jobs.List(ctx, filter)
}

// UpdateJob edits a job that has not been ordered yet. A quoted job keeps
// its status; changing what it is priced from means it must be quoted
// again before it can be ordered.
func (service *JobService) UpdateJob(ctx context.Context, caller access.Caller, id string, patch models.JobPatch) (*models.Job, error) {
	job, err := service.loadJob(ctx, caller, access.UpdateJob, id)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobDraft && job.Status != models.JobQuoted {
		return nil, customerror.NewConflictError(fmt.Sprintf("job %s can no longer be edited", job.ID))
	}

	updated := *job
	patch.Apply(&updated)
	if err = service.calculator.Validate(updated.ServiceType, updated.WordCount, updated.Turnaround, models.BaseCurrency); err != nil {
		return nil, err
	}
	updated.UpdatedAt = service.now().UTC()

	if err = service.jobs.Update(ctx, &updated, job.Status); err != nil {
		return nil, err
	}

	logger.Log.Info("job updated", zap.String("job_id", job.ID), zap.String("by", caller.ID))
	return &updated, nil
}

func (service *JobService) TransitionJob(ctx context.Context, caller access.Caller, id string, to models.JobStatus) (*models.Job, error) {
	op, ok := operationFor[to]
	if !ok {
		return nil, customerror.NewFieldError("status", fmt.Sprintf("status %q cannot be set directly", to))
	}

	job, err := service.loadJob(ctx, caller, op, id)
	if err != nil {
		return nil, err
	}
	// Disputes are resolved by an admin.
	if job.Status == models.JobDisputed && caller.Role != models.RoleAdmin {
		return nil, customerror.NewAuthorizationError(string(caller.Role), "resolve dispute")
	}
	if err = lifecycle.Transition(job.Status, to); err != nil {
		return nil, err
	}

	if err = service.jobs.UpdateStatus(ctx, job.ID, job.Status, to); err != nil {
		return nil, err
	}

	logger.Log.Info("job status changed",
		zap.String("job_id", job.ID),
		zap.String("from", string(job.Status)),
		zap.String("to", string(to)),
		zap.String("by", caller.ID),
	)

	job.Status = to
	job.UpdatedAt = service.now().UTC()
	if to == models.JobCompleted {
		completedAt := job.UpdatedAt
		job.CompletedAt = &completedAt
	}
	service.notifyTransition(ctx, job)

	return job, nil
}

func (service *JobService) notifyTransition(ctx context.Context, job *models.Job) {
	reviewerID := ""
	if job.ReviewerID != nil {
		reviewerID = *job.ReviewerID
	}

	switch job.Status {
	case models.JobCompleted:
		service.notifier.Notify(ctx, job.CustomerID, models.NotificationJobCompleted,
			"Your document is ready", fmt.Sprintf("Job %s has been completed.", job.ID))
	case models.JobRevisionRequested:
		service.notifier.Notify(ctx, reviewerID, models.NotificationRevisionRequested,
			"Revision requested", fmt.Sprintf("The customer asked for a revision of job %s.", job.ID))
	case models.JobDisputed:
		service.notifier.Notify(ctx, reviewerID, models.NotificationJobDisputed,
			"Job disputed", fmt.Sprintf("The customer disputed job %s.", job.ID))
	}
}

// AssignReviewer hands a paid job to a reviewer. Assigned jobs may be
// reassigned.
func (service *JobService) AssignReviewer(ctx context.Context, caller access.Caller, id, reviewerID string) (*models.Job, error) {
	if reviewerID == "" {
		return nil, customerror.NewFieldError("reviewerId", "is required")
	}

	job, err := service.loadJob(ctx, caller, access.AssignReviewer, id)
	if err != nil {
		return nil, err
	}
	if err = lifecycle.Transition(job.Status, models.JobAssigned); err != nil {
		return nil, err
	}

	reviewer, err := service.users.GetUserByID(ctx, reviewerID)
	if err != nil {
		var notFound *customerror.NotFoundError
		if errors.As(err, &notFound) {
			return nil, customerror.NewFieldError("reviewerId", "unknown user")
		}
		return nil, err
	}
	if reviewer.Role != models.RoleReviewer {
		return nil, customerror.NewFieldError("reviewerId", "must be a reviewer")
	}

	if err = service.jobs.Assign(ctx, job.ID, reviewerID, job.Status); err != nil {
		return nil, err
	}

	job.Status = models.JobAssigned
	job.ReviewerID = &reviewerID
	job.UpdatedAt = service.now().UTC()

	service.notifier.Notify(ctx, reviewerID, models.NotificationJobAssigned,
		"New job assigned", fmt.Sprintf("Job %s (%s, %d words) is waiting for you.", job.ID, job.ServiceType, job.WordCount))

	return job, nil
}

// UploadFile stores a document for the job and, for original documents,
// re-estimates the word count from the file size. Reviewers only upload
// revised documents.
func (service *JobService) UploadFile(ctx context.Context, caller access.Caller, jobID string, file *models.JobFile, body []byte) (*models.JobFile, error) {
	job, err := service.loadJob(ctx, caller, access.UploadFile, jobID)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, customerror.NewFieldError("file", "is empty")
	}
	stored := *file
	if caller.Role == models.RoleReviewer {
		stored.IsOriginal = false
	}
	if stored.IsOriginal && job.Status != models.JobDraft && job.Status != models.JobQuoted {
		return nil, customerror.NewConflictError(fmt.Sprintf("job %s can no longer be repriced", job.ID))
	}
	stored.ID = uuid.NewString()
	stored.JobID = job.ID
	stored.Filename = stored.ID + path.Ext(file.OriginalName)
	stored.StoragePath = path.Join("jobs", job.ID, stored.Filename)
	stored.Size = int64(len(body))
	stored.EstimatedWords = models.EstimateWordCount(stored.Size)
	stored.UploadedAt = service.now().UTC()

	if err = service.storage.Put(ctx, stored.StoragePath, stored.MimeType, body); err != nil {
		return nil, err
	}
	if err = service.files.Create(ctx, &stored); err != nil {
		return nil, err
	}

	if stored.IsOriginal {
		err = service.jobs.SetWordCount(ctx, job.ID, stored.EstimatedWords)
		if err != nil {
			return nil, err
		}
	}

	return &stored, nil
}

func (service *JobService) ListFiles(ctx context.Context, caller access.Caller, jobID string) ([]models.JobFile, error) {
	job, err := service.loadJob(ctx, caller, access.ViewJob, jobID)
	if err != nil {
		return nil, err
	}
	return service.files.ListByJobID(ctx, job.ID)
}
