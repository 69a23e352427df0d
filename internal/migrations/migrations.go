package migrations

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/doccheck/marketplace/internal/middlewares/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var files embed.FS

// DatabaseURL rewrites a postgres DSN to the scheme the pgx/v5 migrate
// driver registers.
func DatabaseURL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

func newMigrate(dsn string) (*migrate.Migrate, error) {
	source, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, DatabaseURL(dsn))
	if err != nil {
		return nil, fmt.Errorf("init migrate: %w", err)
	}
	return m, nil
}

// Up applies every pending migration.
func Up(dsn string) error {
	m, err := newMigrate(dsn)
	if err != nil {
		return err
	}
	defer closeMigrate(m)

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Log.Info("Database schema is up to date", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// Down rolls back the given number of migrations.
func Down(dsn string, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}

	m, err := newMigrate(dsn)
	if err != nil {
		return err
	}
	defer closeMigrate(m)

	if err = m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback migrations: %w", err)
	}
	return nil
}

func closeMigrate(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		logger.Log.Warn("close migrate", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
	}
}
