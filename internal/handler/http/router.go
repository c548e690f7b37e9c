package http

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/haulpoint/haulpoint-backend-go/internal/config"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/user"
	"github.com/haulpoint/haulpoint-backend-go/internal/handler/http/middleware"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/jwt"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/metrics"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth           AuthHandler
	Company        CompanyHandler
	Invitation     InvitationHandler
	AcceptInvite   AcceptInviteHandler
	Customer       CustomerHandler
	Invoice        InvoiceHandler
	ServiceRequest ServiceRequestHandler
	Notification   NotificationHandler
	Activity       ActivityHandler
	Driver         DriverHandler
	WorkOrder      WorkOrderHandler
	Fleet          FleetHandler
}

// RouterDeps are the authenticators and settings the router needs besides handlers.
type RouterDeps struct {
	Config      *config.Config
	JWTService  jwt.Service
	Drivers     middleware.DriverAuthenticator
	UploadsRoot string
	Version     string
}

func NewRouter(deps RouterDeps, h Handlers) *chi.Mux {
	cfg := deps.Config
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "haulpoint"),
		slog.String("version", deps.Version),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	if cfg.Metrics.Enabled {
		r.Use(metrics.Instrument)
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.Metrics.Enabled {
		r.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler())
	}

	if deps.UploadsRoot != "" {
		prefix := "/" + strings.Trim(cfg.Storage.URLPrefix, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(deps.UploadsRoot))))
	}

	// Server-rendered pages
	r.Get("/accept-invite/{token}", h.AcceptInvite.Show)
	r.Post("/accept-invite/{token}", h.AcceptInvite.Accept)
	r.Get(cfg.App.CustomerLoginPath, h.Customer.LoginPage)
	r.Post(cfg.App.CustomerLoginPath, h.Customer.LoginSubmit)
	r.Post("/customer/logout", h.Customer.LogoutSubmit)
	r.Group(func(r chi.Router) {
		r.Use(middleware.CustomerPageRequired(deps.JWTService, cfg.App.CustomerLoginPath))
		r.Get(cfg.App.CustomerDashboardPath, h.Customer.DashboardPage)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentEncoding("application/json"))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", h.Auth.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/", h.Auth.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", h.Auth.LoginWithGoogle)
				})
			})

			r.With(
				jwtauth.Verifier(deps.JWTService.JWTAuth()),
				middleware.AuthRequired(deps.JWTService.JWTAuth()),
			).Get("/me", h.Auth.Me)
		})

		// token in the query string; EventSource cannot send headers
		r.Get("/notifications/stream", h.Notification.Stream)

		// Staff
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(deps.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(deps.JWTService.JWTAuth()))

			r.Route("/company", func(r chi.Router) {
				r.Get("/", h.Company.GetMine)
				r.Put("/", h.Company.UpdateMine)
				r.Post("/logo", h.Company.UploadLogo)
			})

			r.Get("/notifications", h.Notification.List)
			r.Get("/notifications/unread-count", h.Notification.UnreadCount)
			r.Get("/notifications/sse-token", h.Notification.GetSSEToken)
			r.Post("/notifications/read-all", h.Notification.MarkAllAsRead)
			r.Post("/notifications/{id}/read", h.Notification.MarkAsRead)

			r.Route("/admin", func(r chi.Router) {
				r.Route("/invitations", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionInvitationView))
						r.Get("/", h.Invitation.List)
						r.Get("/statistics", h.Invitation.Statistics)
						r.Get("/{id}", h.Invitation.Get)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionInvitationManage))
						r.Post("/", h.Invitation.Create)
						r.Post("/bulk", h.Invitation.BulkCreate)
						r.Post("/extend", h.Invitation.Extend)
						r.Post("/cleanup", h.Invitation.Cleanup)
						r.Post("/{id}/resend", h.Invitation.Resend)
						r.Post("/{id}/deactivate", h.Invitation.Deactivate)
						r.Post("/{id}/extend", h.Invitation.ExtendOne)
						r.Delete("/{id}", h.Invitation.Delete)
					})
				})

				r.With(middleware.RequirePermission(user.PermissionNotificationSend)).
					Post("/notifications", h.Notification.Send)
				r.With(middleware.RequirePermission(user.PermissionActivityView)).
					Get("/activity", h.Activity.List)
			})
		})

		// Customer portal
		r.Route("/customer", func(r chi.Router) {
			r.Post("/login", h.Customer.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.CustomerRequired(deps.JWTService))

				r.Post("/logout", h.Customer.Logout)
				r.Get("/profile", h.Customer.Profile)
				r.Put("/profile", h.Customer.UpdateProfile)
				r.Put("/profile/password", h.Customer.ChangePassword)
				r.Get("/dashboard", h.Customer.Dashboard)

				r.Route("/invoices", func(r chi.Router) {
					r.Get("/", h.Invoice.List)
					r.Get("/{id}", h.Invoice.Get)
				})

				r.Route("/service-requests", func(r chi.Router) {
					r.Get("/", h.ServiceRequest.List)
					r.Post("/", h.ServiceRequest.Create)
					r.Get("/{id}", h.ServiceRequest.Get)
					r.Post("/{id}/cancel", h.ServiceRequest.Cancel)
				})

				mountNotifications(r, h.Notification)
			})
		})

		// Driver mobile app
		r.Route("/driver", func(r chi.Router) {
			r.Post("/login", h.Driver.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.DriverRequired(deps.Drivers))

				r.Post("/logout", h.Driver.Logout)
				r.Get("/me", h.Driver.Me)
				r.Get("/assignments", h.Driver.Assignments)

				r.Route("/work-orders", func(r chi.Router) {
					r.Get("/", h.WorkOrder.List)
					r.Get("/{id}", h.WorkOrder.Get)
					r.Post("/{id}/start", h.WorkOrder.Start)
					r.Post("/{id}/complete", h.WorkOrder.Complete)
					r.Post("/{id}/cancel", h.WorkOrder.Cancel)
				})

				r.Route("/fuel-logs", func(r chi.Router) {
					r.Get("/", h.Fleet.ListFuelLogs)
					r.Post("/", h.Fleet.CreateFuelLog)
				})

				r.Route("/inspections", func(r chi.Router) {
					r.Get("/", h.Fleet.ListInspections)
					r.Post("/", h.Fleet.CreateInspection)
					r.Get("/{id}", h.Fleet.GetInspection)
				})

				r.Route("/maintenance", func(r chi.Router) {
					r.Get("/", h.Fleet.ListMaintenance)
					r.Post("/", h.Fleet.RequestMaintenance)
				})

				mountNotifications(r, h.Notification)
			})
		})
	})
	return r
}

// mountNotifications adds the caller's own notification feed, including a stream
// authenticated by the surrounding session middleware.
func mountNotifications(r chi.Router, h NotificationHandler) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/unread-count", h.UnreadCount)
		r.Get("/stream", h.Stream)
		r.Post("/read-all", h.MarkAllAsRead)
		r.Post("/{id}/read", h.MarkAsRead)
	})
}
