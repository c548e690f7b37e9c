// Command seed migrates the database and loads the demo tenant.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/config"
	"github.com/haulpoint/haulpoint-backend-go/internal/fixtures"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/haulpoint/haulpoint-backend-go/migrations"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, migrations.FS); err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	ids, err := fixtures.Seed(ctx, db, time.Now())
	if errors.Is(err, fixtures.ErrAlreadySeeded) {
		slog.Info("Demo tenant already present, nothing to do", "slug", fixtures.DemoCompanySlug)
		return
	}
	if err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Demo tenant created",
		"company_id", ids.CompanyID,
		"customers", len(ids.CustomerIDs),
		"drivers", len(ids.DriverIDs),
		"vehicles", len(ids.VehicleIDs),
		"password", fixtures.DemoPassword,
	)
}
