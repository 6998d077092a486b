package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrate applies all pending up migrations from migrationsPath.
// ErrNoChange is not an error: a fully migrated schema is the normal
// steady state on restart.
func Migrate(user, pass, host, port, name, migrationsPath string) error {
	dsn := fmt.Sprintf("mysql://%s@tcp(%s:%s)/%s?multiStatements=true",
		credentials(user, pass), host, port, name)

	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("init migrator failed: %w", err)
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migrate up failed: %w", err)
	}
	return nil
}
