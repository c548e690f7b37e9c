// Package postgresql_test holds integration tests for the PostgreSQL repositories.
// They run only when TEST_DATABASE_URL points at a disposable database.
package postgresql_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/haulpoint/haulpoint-backend-go/migrations"
)

// ErrNoTestDatabase is returned when TEST_DATABASE_URL is unset.
var ErrNoTestDatabase = errors.New("TEST_DATABASE_URL is not set")

// TestDatabaseSetup wraps a migrated test database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies every migration.
func NewTestDatabase(ctx context.Context) (*TestDatabaseSetup, error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, ErrNoTestDatabase
	}

	db, err := database.NewPostgreSQLDB(dsn, database.WithPoolSize(5, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}
	if err := database.Migrate(ctx, db, migrations.FS); err != nil {
		db.Close()
		return nil, err
	}

	return &TestDatabaseSetup{DB: db}, nil
}

var tables = []string{
	"maintenance_records",
	"inspections",
	"fuel_logs",
	"work_orders",
	"vehicle_assignments",
	"vehicles",
	"driver_tokens",
	"drivers",
	"notifications",
	"service_requests",
	"invoice_items",
	"invoices",
	"customer_invitations",
	"customer_portal_users",
	"customers",
	"activity_logs",
	"refresh_tokens",
	"users",
	"companies",
}

// TruncateAllTables removes every row from the application tables
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	_, err := t.DB.Exec(ctx, "TRUNCATE TABLE "+strings.Join(tables, ", ")+" CASCADE")
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
