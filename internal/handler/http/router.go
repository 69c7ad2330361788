package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/estate-ledger-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/authz"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(
	JWTService jwt.Service,
	authorizer *authz.Authorizer,
	organizationMiddleware *middleware.OrganizationMiddleware,
	organizationHandler OrganizationHandler,
	workerHandler WorkerHandler,
	wageHandler WageHandler,
	opts RouterOptions,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.OrganizationHeader},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  slog.LevelDebug,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/organizations", func(r chi.Router) {
				r.Get("/", organizationHandler.ListMine)
				r.Post("/", organizationHandler.Create)
			})
			r.Post("/invitations/accept", organizationHandler.AcceptInvitation)

			// Requires an organization the user belongs to
			r.Group(func(r chi.Router) {
				r.Use(organizationMiddleware.RequireOrganization)

				view := middleware.RequirePermission(authorizer, authz.PermissionWageView)
				manage := middleware.RequirePermission(authorizer, authz.PermissionWageManage)
				pay := middleware.RequirePermission(authorizer, authz.PermissionWagePay)

				r.Route("/workers", func(r chi.Router) {
					r.With(view).Get("/", workerHandler.List)
					r.With(manage).Post("/", workerHandler.Create)
					r.With(manage).Patch("/{id}/active", workerHandler.SetActive)
				})

				r.Route("/wages", func(r chi.Router) {
					r.Route("/entries", func(r chi.Router) {
						r.With(view).Get("/", wageHandler.ListEntries)
						r.With(manage).Post("/", wageHandler.RecordDailyEntry)
						r.With(manage).Put("/{id}", wageHandler.UpdateEntry)
						r.With(manage).Delete("/{id}", wageHandler.DeleteEntry)
					})
					r.With(view).Get("/summary", wageHandler.GetMonthSummary)
					r.With(view).Get("/totals", wageHandler.GetMonthTotals)
					r.With(manage).Put("/bonuses", wageHandler.SetBonus)
					r.With(pay).Post("/payments/toggle", wageHandler.TogglePaid)
				})
			})
		})
	})
	return r
}

// NewRequestLogger builds the JSON logger used for request logs.
func NewRequestLogger(appName, version, env string, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", version),
		slog.String("env", env),
	)
}
