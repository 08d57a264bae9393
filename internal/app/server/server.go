package server

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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"timesheet/internal/domain/announcement"
	"timesheet/internal/domain/audit"
	"timesheet/internal/domain/auth"
	"timesheet/internal/domain/deduction"
	"timesheet/internal/domain/employee"
	"timesheet/internal/domain/payroll"
	"timesheet/internal/domain/reports"
	"timesheet/internal/domain/worklog"
	"timesheet/internal/platform/config"
	"timesheet/internal/platform/db"
	"timesheet/internal/platform/metrics"
	"timesheet/internal/platform/querier"
	"timesheet/internal/transport/http/api"
	announcementhandler "timesheet/internal/transport/http/handlers/announcement"
	audithandler "timesheet/internal/transport/http/handlers/audit"
	authhandler "timesheet/internal/transport/http/handlers/auth"
	deductionhandler "timesheet/internal/transport/http/handlers/deduction"
	employeehandler "timesheet/internal/transport/http/handlers/employee"
	payrollhandler "timesheet/internal/transport/http/handlers/payroll"
	reportshandler "timesheet/internal/transport/http/handlers/reports"
	workloghandler "timesheet/internal/transport/http/handlers/worklog"
	"timesheet/internal/transport/http/middleware"
)

const version = "v1.0.0"

type App struct {
	Config  config.Config
	DB      *db.Pool
	Router  http.Handler
	Metrics *metrics.Collector
}

// Services is everything the router dispatches to.
type Services struct {
	Auth          authhandler.LoginService
	Employees     *employee.Service
	Worklogs      workloghandler.Service
	Deductions    deductionhandler.Service
	Payroll       payrollhandler.Service
	Announcements announcementhandler.Service
	Reports       reportshandler.Service
	Audit         *audit.Service
}

// NewServices wires the pgx stores to the domain services.
func NewServices(q querier.Querier, cfg config.Config) (Services, error) {
	policy, err := payroll.ParseNegativeNetPolicy(cfg.NegativeNetPolicy)
	if err != nil {
		return Services{}, err
	}

	employees := employee.NewService(employee.NewStore(q))
	worklogs := worklog.NewService(worklog.NewStore(q))
	deductions := deduction.NewService(deduction.NewStore(q))
	pay := payroll.NewService(employees, worklogs, deductions, payroll.Options{
		Policy:      policy,
		CompanyName: cfg.CompanyName,
		Currency:    cfg.Currency,
	})

	return Services{
		Auth:          auth.NewService(auth.NewStore(q), cfg.JWTSecret, cfg.TokenTTL),
		Employees:     employees,
		Worklogs:      worklogs,
		Deductions:    deductions,
		Payroll:       pay,
		Announcements: announcement.NewService(announcement.NewStore(q)),
		Reports:       reports.NewService(reports.NewStore(q), pay),
		Audit:         audit.New(q),
	}, nil
}

func NewLogger(cfg config.Config) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(cfg.Environment != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timesheet"),
		slog.String("version", version),
		slog.String("env", cfg.Environment),
	)
}

// NewRouter builds the HTTP surface. ready backs /readyz.
func NewRouter(cfg config.Config, logger *slog.Logger, svc Services, collector *metrics.Collector, ready func(context.Context) error) *chi.Mux {
	perms := auth.StaticPermissions{}
	loc := cfg.Location()
	var recorder audit.Recorder
	if svc.Audit != nil {
		recorder = svc.Audit
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Total-Count", "Content-Disposition"},
		MaxAge:           300,
	}))
	router.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	router.Use(chimiddleware.CleanPath)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	if cfg.MetricsEnabled && collector != nil {
		router.Use(middleware.Metrics(collector))
	}
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	var authOpts []middleware.AuthOption
	if svc.Employees != nil {
		authOpts = append(authOpts, middleware.WithRoleSource(svc.Employees))
	}
	router.Use(middleware.Auth(cfg.JWTSecret, authOpts...))
	router.Use(middleware.LogContext)
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if ready != nil {
			if err := ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled && collector != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(svc.Auth, svc.Employees, recorder).RegisterRoutes(r)
		workloghandler.NewHandler(svc.Worklogs, perms, recorder, loc).RegisterRoutes(r)
		deductionhandler.NewHandler(svc.Deductions, perms, recorder).RegisterRoutes(r)
		employeehandler.NewHandler(svc.Employees, perms, recorder).RegisterRoutes(r)
		announcementhandler.NewHandler(svc.Announcements, perms, recorder).RegisterRoutes(r)
		reportshandler.NewHandler(svc.Reports, perms, loc).RegisterRoutes(r)
		audithandler.NewHandler(svc.Audit, perms).RegisterRoutes(r)

		payrollHandler := payrollhandler.NewHandler(svc.Payroll, perms, loc)
		if collector != nil {
			payrollHandler.Events = collector
		}
		payrollHandler.RegisterRoutes(r)
	})

	return router
}

// New connects to Postgres, applies migrations and the seed when enabled,
// and assembles the router.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	svc, err := NewServices(pool, cfg)
	if err != nil {
		pool.Close()
		return nil, err
	}
	collector := metrics.New()
	return &App{
		Config:  cfg,
		DB:      pool,
		Router:  NewRouter(cfg, logger, svc, collector, pool.Ping),
		Metrics: collector,
	}, nil
}

func Run() {
	cfg := config.Load()
	logger := NewLogger(cfg)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.DB.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown failed", "err", err)
		}
	}()

	logger.Info("timesheet server listening", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
