package service

import (
	"context"
	"testing"

	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminService_AdminOnly(t *testing.T) {
	ctx := context.Background()
	jobs := new(MockJobRepository)
	reviewers := new(MockReviewerRepository)
	service := NewAdminService(jobs, reviewers)

	for _, caller := range []struct {
		name string
		role models.Role
	}{{"customer", models.RoleCustomer}, {"reviewer", models.RoleReviewer}} {
		t.Run(caller.name, func(t *testing.T) {
			c := customer
			c.Role = caller.role
			var authErr *customerror.AuthorizationError

			_, err := service.Stats(ctx, c)
			assert.ErrorAs(t, err, &authErr)
			_, err = service.UnassignedJobs(ctx, c)
			assert.ErrorAs(t, err, &authErr)
			_, err = service.Reviewers(ctx, c)
			assert.ErrorAs(t, err, &authErr)
		})
	}

	jobs.AssertNotCalled(t, "Stats", mock.Anything)
	reviewers.AssertNotCalled(t, "GetListWithWorkload", mock.Anything)
}

func TestAdminService_Stats(t *testing.T) {
	// Arrange
	ctx := context.Background()
	jobs := new(MockJobRepository)
	service := NewAdminService(jobs, new(MockReviewerRepository))
	jobs.On("Stats", ctx).Return(models.JobStats{
		Total:     5,
		Completed: 2,
		Revenue:   map[models.Currency]decimal.Decimal{models.CurrencyZAR: decimal.RequireFromString("230")},
	}, nil)

	// Act
	stats, err := service.Stats(ctx, admin)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, "230", stats.Revenue[models.CurrencyZAR].String())
}

func TestAdminService_UnassignedJobs(t *testing.T) {
	// Arrange
	ctx := context.Background()
	jobs := new(MockJobRepository)
	service := NewAdminService(jobs, new(MockReviewerRepository))
	jobs.On("List", ctx, repository.JobFilter{Status: models.JobPaid, Unassigned: true}).
		Return([]models.Job{*testJob(models.JobPaid)}, nil)

	// Act
	list, err := service.UnassignedJobs(ctx, admin)

	// Assert
	require.NoError(t, err)
	assert.Len(t, list, 1)
	jobs.AssertExpectations(t)
}

func TestAdminService_Reviewers(t *testing.T) {
	// Arrange
	ctx := context.Background()
	reviewers := new(MockReviewerRepository)
	service := NewAdminService(new(MockJobRepository), reviewers)
	reviewers.On("GetListWithWorkload", ctx).Return([]models.ReviewerWorkload{{ActiveJobs: 2}}, nil)

	// Act
	list, err := service.Reviewers(ctx, admin)

	// Assert
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].ActiveJobs)
}
