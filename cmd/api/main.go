package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/config"
	appHTTP "github.com/haulpoint/haulpoint-backend-go/internal/handler/http"
	"github.com/haulpoint/haulpoint-backend-go/internal/handler/http/response"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/cron"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/email"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/jwt"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/oauth"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/ratelimit"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/sse"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/storage"
	"github.com/haulpoint/haulpoint-backend-go/internal/repository/postgresql"
	activityService "github.com/haulpoint/haulpoint-backend-go/internal/service/activity"
	serviceAuth "github.com/haulpoint/haulpoint-backend-go/internal/service/auth"
	serviceCompany "github.com/haulpoint/haulpoint-backend-go/internal/service/company"
	customerService "github.com/haulpoint/haulpoint-backend-go/internal/service/customer"
	dashboardService "github.com/haulpoint/haulpoint-backend-go/internal/service/dashboard"
	driverService "github.com/haulpoint/haulpoint-backend-go/internal/service/driver"
	"github.com/haulpoint/haulpoint-backend-go/internal/service/file"
	fuelLogService "github.com/haulpoint/haulpoint-backend-go/internal/service/fuellog"
	inspectionService "github.com/haulpoint/haulpoint-backend-go/internal/service/inspection"
	invitationService "github.com/haulpoint/haulpoint-backend-go/internal/service/invitation"
	invoiceService "github.com/haulpoint/haulpoint-backend-go/internal/service/invoice"
	maintenanceService "github.com/haulpoint/haulpoint-backend-go/internal/service/maintenance"
	notificationService "github.com/haulpoint/haulpoint-backend-go/internal/service/notification"
	serviceRequestService "github.com/haulpoint/haulpoint-backend-go/internal/service/servicerequest"
	vehicleService "github.com/haulpoint/haulpoint-backend-go/internal/service/vehicle"
	workOrderService "github.com/haulpoint/haulpoint-backend-go/internal/service/workorder"
	"github.com/haulpoint/haulpoint-backend-go/migrations"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	response.SetDebug(cfg.App.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.WithPoolSize(cfg.Database.MaxConns, cfg.Database.MinConns))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, migrations.FS); err != nil {
			return err
		}
	}

	// Repositories
	txManager := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	refreshTokenRepo := postgresql.NewJWTRepository(db)
	customerRepo := postgresql.NewCustomerRepository(db)
	portalUserRepo := postgresql.NewPortalUserRepository(db)
	invitationRepo := postgresql.NewInvitationRepository(db)
	activityRepo := postgresql.NewActivityRepository(db)
	invoiceRepo := postgresql.NewInvoiceRepository(db)
	serviceRequestRepo := postgresql.NewServiceRequestRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	recipientResolver := postgresql.NewRecipientResolver(db)
	driverRepo := postgresql.NewDriverRepository(db)
	driverTokenRepo := postgresql.NewDriverTokenRepository(db)
	vehicleRepo := postgresql.NewVehicleRepository(db)
	workOrderRepo := postgresql.NewWorkOrderRepository(db)
	fuelLogRepo := postgresql.NewFuelLogRepository(db)
	inspectionRepo := postgresql.NewInspectionRepository(db)
	maintenanceRepo := postgresql.NewMaintenanceRepository(db)

	// Infrastructure
	accessTTL, _ := time.ParseDuration(cfg.JWT.AccessExpiration)
	refreshTTL, _ := time.ParseDuration(cfg.JWT.RefreshExpiration)
	customerTTL, _ := time.ParseDuration(cfg.JWT.CustomerSession)
	jwtService := jwt.NewJWTService(jwt.Options{
		Secret:                 cfg.JWT.Secret,
		AccessTokenExpiration:  accessTTL,
		RefreshTokenExpiration: refreshTTL,
		CustomerSessionTTL:     customerTTL,
		SecureCookies:          cfg.App.SecureCookies,
	})
	googleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.Path, cfg.UploadURL())
	if err != nil {
		return fmt.Errorf("initialize local storage: %w", err)
	}
	fileService := file.NewFileService(fileStorage)

	smtpService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("initialize email service: %w", err)
	}
	emailService := email.NewOutbox(smtpService, cfg.SMTP.Workers, cfg.SMTP.QueueSize)
	defer emailService.Stop()

	hub := sse.NewHub()
	notifService := notificationService.NewNotificationService(notificationRepo, recipientResolver, hub, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})
	defer notifService.Stop()

	// Services
	authService := serviceAuth.NewAuthService(txManager, userRepo, jwtService, refreshTokenRepo)
	companyService := serviceCompany.NewCompanyService(companyRepo, fileService)
	custService := customerService.NewCustomerService(customerRepo, portalUserRepo, jwtService)
	invService := invitationService.NewInvitationService(
		txManager,
		invitationRepo,
		customerRepo,
		portalUserRepo,
		companyRepo,
		activityRepo,
		emailService,
		notifService,
		cfg.Invitation,
		cfg.InvitationURL,
	)
	invoiceSvc := invoiceService.NewInvoiceService(invoiceRepo)
	serviceRequestSvc := serviceRequestService.NewServiceRequestService(serviceRequestRepo)
	dashboardSvc := dashboardService.NewDashboardService(customerRepo, invoiceRepo, serviceRequestRepo, notificationRepo, workOrderRepo)
	activitySvc := activityService.NewActivityService(activityRepo)
	driverSvc := driverService.NewDriverService(driverRepo, driverTokenRepo, cfg.Driver)
	vehicleSvc := vehicleService.NewVehicleService(vehicleRepo)
	workOrderSvc := workOrderService.NewWorkOrderService(workOrderRepo)
	fuelLogSvc := fuelLogService.NewFuelLogService(fuelLogRepo, vehicleRepo)
	inspectionSvc := inspectionService.NewInspectionService(inspectionRepo, vehicleRepo)
	maintenanceSvc := maintenanceService.NewMaintenanceService(maintenanceRepo, vehicleRepo)

	acceptLimiter := ratelimit.New(cfg.Invitation.AcceptMaxAttempts, cfg.Invitation.AcceptWindow)
	acceptTokenLimiter := ratelimit.New(cfg.Invitation.AcceptTokenMaxAttempts, cfg.Invitation.AcceptWindow)

	// Handlers
	pages, err := appHTTP.NewPages(cfg.App.SecureCookies)
	if err != nil {
		return fmt.Errorf("parse page templates: %w", err)
	}

	handlers := appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(jwtService, authService, googleService, cfg.App.FrontendURL, cfg.App.SecureCookies),
		Company:    appHTTP.NewCompanyHandler(companyService),
		Invitation: appHTTP.NewInvitationHandler(invService, cfg.Invitation.ExpiringSoonDays),
		AcceptInvite: appHTTP.NewAcceptInviteHandler(
			invService,
			custService,
			jwtService,
			acceptLimiter,
			acceptTokenLimiter,
			pages,
			cfg.App.CustomerLoginPath,
			cfg.App.CustomerDashboardPath,
		),
		Customer: appHTTP.NewCustomerHandler(
			custService,
			dashboardSvc,
			jwtService,
			pages,
			cfg.App.CustomerLoginPath,
			cfg.App.CustomerDashboardPath,
		),
		Invoice:        appHTTP.NewInvoiceHandler(invoiceSvc),
		ServiceRequest: appHTTP.NewServiceRequestHandler(serviceRequestSvc),
		Notification:   appHTTP.NewNotificationHandler(notifService, jwtService),
		Activity:       appHTTP.NewActivityHandler(activitySvc),
		Driver:         appHTTP.NewDriverHandler(driverSvc, vehicleSvc),
		WorkOrder:      appHTTP.NewWorkOrderHandler(workOrderSvc),
		Fleet:          appHTTP.NewFleetHandler(fuelLogSvc, inspectionSvc, maintenanceSvc),
	}

	router := appHTTP.NewRouter(appHTTP.RouterDeps{
		Config:      cfg,
		JWTService:  jwtService,
		Drivers:     driverSvc,
		UploadsRoot: fileStorage.Root(),
		Version:     version,
	}, handlers)

	// Background jobs
	scheduler := cron.NewScheduler()
	housekeeping := cron.NewHousekeepingJobs(
		invService,
		[]cron.TokenPruner{refreshTokenRepo, driverTokenRepo},
		[]cron.LimiterCleaner{acceptLimiter, acceptTokenLimiter, driverSvc.Limiter()},
	)
	housekeeping.RegisterJobs(scheduler, cfg.Invitation.CleanupEnabled, cfg.Invitation.CleanupInterval)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
