package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/doccheck/marketplace/internal/config/db"
	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/retry"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is implemented by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// inTx runs fn in a transaction. The whole transaction is retried on
// connection errors.
func inTx(ctx context.Context, dbObj *db.DB, fn func(tx pgx.Tx) error) error {
	return retry.DoRetry(ctx, func() (err error) {
		tx, err := dbObj.Pool.Begin(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err != nil {
				_ = tx.Rollback(ctx)
			}
		}()

		if err = fn(tx); err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
}

// mapError converts driver errors into the errors handlers understand.
func mapError(err error, entity, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return customerror.NewNotFoundError(entity, id)
	}

	var custom customerror.CustomError
	if errors.As(err, &custom) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return customerror.NewUniqueViolationError(fmt.Sprintf("%s %s already exists", entity, id))
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return customerror.NewCommonPGError(fmt.Sprintf("%s %s: %s", entity, id, err.Error()))
}
