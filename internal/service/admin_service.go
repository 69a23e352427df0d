package service

import (
	"context"

	"github.com/doccheck/marketplace/internal/access"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/repository"
)

type AdminService struct {
	jobs      repository.JobStorageRepositoryI
	reviewers repository.ReviewerStorageRepositoryI
}

func NewAdminService(jobs repository.JobStorageRepositoryI, reviewers repository.ReviewerStorageRepositoryI) *AdminService {
	return &AdminService{jobs: jobs, reviewers: reviewers}
}

func (service *AdminService) Stats(ctx context.Context, caller access.Caller) (models.JobStats, error) {
	if err := access.Authorize(caller, access.ViewStats, access.Resource{}); err != nil {
		return models.JobStats{}, err
	}
	return service.jobs.Stats(ctx)
}

// UnassignedJobs lists paid jobs waiting for a reviewer.
func (service *AdminService) UnassignedJobs(ctx context.Context, caller access.Caller) ([]models.Job, error) {
	if err := access.Authorize(caller, access.ListUnassigned, access.Resource{}); err != nil {
		return nil, err
	}
	return service.jobs.List(ctx, repository.JobFilter{Status: models.JobPaid, Unassigned: true})
}

func (service *AdminService) Reviewers(ctx context.Context, caller access.Caller) ([]models.ReviewerWorkload, error) {
	if err := access.Authorize(caller, access.ListReviewers, access.Resource{}); err != nil {
		return nil, err
	}
	return service.reviewers.GetListWithWorkload(ctx)
}
