package repository

import (
	"time"

	"github.com/doccheck/marketplace/internal/config/db"
	"github.com/pashagolub/pgxmock/v3"
)

func NewTestDB(pool db.PgxPoolInterface) *db.DB {
	return &db.DB{
		Pool: pool,
	}
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string {
	return &s
}

// anyArgs matches a statement with n placeholders whatever their values.
func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}
