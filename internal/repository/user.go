package repository

import (
	"context"

	"github.com/doccheck/marketplace/internal/config/db"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/retry"
)

type UserRepository struct {
	db *db.DB
}

type UserStorageRepositoryI interface {
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

func NewUserRepository(dbObj *db.DB) *UserRepository {
	return &UserRepository{db: dbObj}
}

const userColumns = `id, email, first_name, last_name, profile_image_url, role, preferred_currency, created_at`

func scanUser(row scanner) (*models.User, error) {
	user := models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.ProfileImageURL,
		&user.Role,
		&user.PreferredCurrency,
		&user.CreatedAt,
	)
	return &user, err
}

// Upsert stores the profile claims of a signed in user. Role and preferred
// currency of an existing user are never overwritten by the identity provider.
func (repository *UserRepository) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (id, email, first_name, last_name, profile_image_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			profile_image_url = EXCLUDED.profile_image_url,
			updated_at = now()
		RETURNING ` + userColumns

	result, err := retry.DoRetryWithResult(ctx, func() (*models.User, error) {
		row := repository.db.Pool.QueryRow(
			ctx,
			query,
			user.ID,
			user.Email,
			user.FirstName,
			user.LastName,
			user.ProfileImageURL,
		)
		return scanUser(row)
	})
	return result, mapError(err, "user", user.ID)
}

func (repository *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	result, err := retry.DoRetryWithResult(ctx, func() (*models.User, error) {
		row := repository.db.Pool.QueryRow(ctx, query, id)
		return scanUser(row)
	})
	return result, mapError(err, "user", id)
}
