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

	"github.com/cmlabs-hris/estate-ledger-go/internal/config"
	appHTTP "github.com/cmlabs-hris/estate-ledger-go/internal/handler/http"
	"github.com/cmlabs-hris/estate-ledger-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/authz"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/database"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/estate-ledger-go/internal/repository/postgresql"
	organizationService "github.com/cmlabs-hris/estate-ledger-go/internal/service/organization"
	wageService "github.com/cmlabs-hris/estate-ledger-go/internal/service/wage"
	workerService "github.com/cmlabs-hris/estate-ledger-go/internal/service/worker"
)

// ledgerTables carry organization_id and are probed at startup.
var ledgerTables = []string{"wage_entries", "wage_bonuses", "wage_payments"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := appHTTP.NewRequestLogger(cfg.App.Name, cfg.App.Version, cfg.App.Env, cfg.SlogLevel())
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDBWithOptions(cfg.DatabaseURL(), database.PoolOptions{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	probeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	tenantMode, err := database.ProbeTenantColumns(probeCtx, db.Pool, cfg.Tenant.Strict, ledgerTables...)
	cancel()
	if err != nil {
		slog.Error("Tenant column probe failed", "error", err)
		os.Exit(1)
	}

	authzMode, err := authz.ParseMode(cfg.Authz.Mode, cfg.Authz.AllowDisabled)
	if err != nil {
		slog.Error("Invalid authorization mode", "error", err)
		os.Exit(1)
	}
	authorizer, err := authz.NewAuthorizer(authzMode, authz.DefaultPolicy)
	if err != nil {
		slog.Error("Failed to initialize authorizer", "error", err)
		os.Exit(1)
	}

	transactor := postgresql.NewTransactor(db)
	wageEntryRepo := postgresql.NewWageEntryRepository(db, tenantMode)
	wageBonusRepo := postgresql.NewWageBonusRepository(db, tenantMode)
	wagePaymentRepo := postgresql.NewWagePaymentRepository(db, tenantMode)
	workerRepo := postgresql.NewWorkerRepository(db)
	organizationRepo := postgresql.NewOrganizationRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	orgService := organizationService.NewOrganizationService(organizationRepo)
	workerSvc := workerService.NewWorkerService(workerRepo)
	wageSvc := wageService.NewWageService(transactor, wageEntryRepo, wageBonusRepo, wagePaymentRepo, workerRepo)

	router := appHTTP.NewRouter(
		JWTService,
		authorizer,
		middleware.NewOrganizationMiddleware(orgService),
		appHTTP.NewOrganizationHandler(orgService),
		appHTTP.NewWorkerHandler(workerSvc),
		appHTTP.NewWageHandler(wageSvc),
		appHTTP.RouterOptions{Logger: logger, AllowedOrigins: cfg.App.AllowedOrigins},
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "authz_mode", authzMode, "unscoped_tables", tenantMode.UnscopedTables())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("Server error", "error", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
