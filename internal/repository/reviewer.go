package repository

import (
	"context"

	"github.com/doccheck/marketplace/internal/config/db"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/retry"
)

type ReviewerRepository struct {
	db *db.DB
}

type ReviewerStorageRepositoryI interface {
	GetListWithWorkload(ctx context.Context) ([]models.ReviewerWorkload, error)
}

func NewReviewerRepository(dbObj *db.DB) *ReviewerRepository {
	return &ReviewerRepository{db: dbObj}
}

// GetListWithWorkload lists reviewers with the number of jobs they have in
// review, least busy first.
func (repository *ReviewerRepository) GetListWithWorkload(ctx context.Context) ([]models.ReviewerWorkload, error) {
	query := `SELECT u.id, u.email, u.first_name, u.last_name, u.profile_image_url, u.role, u.preferred_currency, u.created_at,
			COALESCE(p.specializations, '{}'), COALESCE(p.years_experience, 0), COALESCE(p.rating, 5)::float8,
			COALESCE(p.completed_jobs, 0), COALESCE(p.is_available, TRUE), COALESCE(p.max_concurrent_jobs, 5),
			(SELECT count(*) FROM jobs j WHERE j.reviewer_id = u.id AND j.status IN ($2, $3))::int
		FROM users u
		LEFT JOIN reviewer_profiles p ON p.user_id = u.id
		WHERE u.role = $1
		ORDER BY 15, u.id`

	result, err := retry.DoRetryWithResult(ctx, func() ([]models.ReviewerWorkload, error) {
		rows, err := repository.db.Pool.Query(ctx, query, models.RoleReviewer, models.JobAssigned, models.JobInReview)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		reviewers := []models.ReviewerWorkload{}
		for rows.Next() {
			var r models.ReviewerWorkload
			err = rows.Scan(
				&r.User.ID,
				&r.User.Email,
				&r.User.FirstName,
				&r.User.LastName,
				&r.User.ProfileImageURL,
				&r.User.Role,
				&r.User.PreferredCurrency,
				&r.User.CreatedAt,
				&r.Specializations,
				&r.YearsExperience,
				&r.Rating,
				&r.CompletedJobs,
				&r.IsAvailable,
				&r.MaxConcurrentJobs,
				&r.ActiveJobs,
			)
			if err != nil {
				return nil, err
			}
			r.UserID = r.User.ID
			reviewers = append(reviewers, r)
		}

		return reviewers, rows.Err()
	})
	return result, mapError(err, "reviewers", "list")
}
