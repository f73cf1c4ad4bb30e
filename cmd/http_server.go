package cmd

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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/recruitment-performance/api"
	"github.com/frahmantamala/recruitment-performance/internal"
	"github.com/frahmantamala/recruitment-performance/internal/activity"
	activityPostgres "github.com/frahmantamala/recruitment-performance/internal/activity/postgres"
	"github.com/frahmantamala/recruitment-performance/internal/aging"
	"github.com/frahmantamala/recruitment-performance/internal/auth"
	"github.com/frahmantamala/recruitment-performance/internal/core/events"
	"github.com/frahmantamala/recruitment-performance/internal/dropout"
	dropoutPostgres "github.com/frahmantamala/recruitment-performance/internal/dropout/postgres"
	"github.com/frahmantamala/recruitment-performance/internal/health"
	healthPostgres "github.com/frahmantamala/recruitment-performance/internal/health/postgres"
	"github.com/frahmantamala/recruitment-performance/internal/observability"
	"github.com/frahmantamala/recruitment-performance/internal/org"
	orgPostgres "github.com/frahmantamala/recruitment-performance/internal/org/postgres"
	"github.com/frahmantamala/recruitment-performance/internal/role"
	rolePostgres "github.com/frahmantamala/recruitment-performance/internal/role/postgres"
	"github.com/frahmantamala/recruitment-performance/internal/scoring"
	scoringPostgres "github.com/frahmantamala/recruitment-performance/internal/scoring/postgres"
	"github.com/frahmantamala/recruitment-performance/internal/transport"
	"github.com/frahmantamala/recruitment-performance/internal/transport/middleware"
	"github.com/frahmantamala/recruitment-performance/internal/transport/rest"
	"github.com/frahmantamala/recruitment-performance/internal/user"
	userPostgres "github.com/frahmantamala/recruitment-performance/internal/user/postgres"
	"github.com/frahmantamala/recruitment-performance/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config  *internal.Config
	DB      *sqlx.DB
	Gorm    *gorm.DB
	Router  *chi.Mux
	Logger  *slog.Logger
	Metrics *observability.Metrics
	Bus     *events.EventBus

	Roles    role.Repository
	Policy   *org.Policy
	Users    *user.Service
	Activity *activity.Service
	Scoring  *scoring.Service
	Health   *health.Service
	Aging    *aging.Service
	Dropout  *dropout.Service
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		deps.Bus.Wait()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	base := transport.NewBaseHandler(deps.Logger)
	verifier := auth.NewJWTTokenVerifier(deps.Config.Security)

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(base, auth.NewService(verifier, deps.Users, deps.Logger)),
		User:         user.NewHandler(base, deps.Users),
		Activity:     activity.NewHandler(base, deps.Activity),
		Scoring:      scoring.NewHandler(base, deps.Scoring),
		ClientHealth: health.NewHandler(base, deps.Health),
		Aging:        aging.NewHandler(base, deps.Aging),
		Dropout:      dropout.NewHandler(base, deps.Dropout),
	}

	opts := rest.Options{
		AllowedOrigins: deps.Config.Server.AllowedOrigins,
		OpenAPISpec:    api.Spec,
		Metrics:        deps.Metrics,
		MetricsPath:    deps.Config.Observability.Metrics.Path,
	}
	if deps.Config.Server.ValidateRequests {
		validator, err := middleware.OpenAPIValidator(api.Spec, deps.Logger)
		if err != nil {
			return err
		}
		opts.Validator = validator
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, handlers, opts, deps.Logger)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	var metrics *observability.Metrics
	if config.Observability.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	bus := events.NewEventBus(lg)
	bus.OnPublish(metrics.IncrEventPublished)
	registerEventHandlers(bus, lg)

	roles := rolePostgres.NewRoleRepository(gormDB)
	policy := org.NewPolicy(orgPostgres.NewOrgRepository(gormDB))
	activities := activityPostgres.NewActivityRepository(gormDB)

	return &Dependencies{
		Config:  config,
		DB:      db,
		Gorm:    gormDB,
		Router:  chi.NewRouter(),
		Logger:  lg,
		Metrics: metrics,
		Bus:     bus,

		Roles:    roles,
		Policy:   policy,
		Users:    user.NewService(userPostgres.NewUserRepository(gormDB)),
		Activity: activity.NewService(activities, roles, policy, lg),
		Scoring: scoring.NewService(activities, scoringPostgres.NewPenaltyRepository(gormDB), roles, policy,
			scoring.WeightsFromConfig(config.Scoring), metrics, lg),
		Health:  health.NewService(healthPostgres.NewHealthRepository(db), lg),
		Aging:   aging.NewService(roles, activities, config.Aging, lg),
		Dropout: dropout.NewService(dropoutPostgres.NewDropoutRepository(gormDB), roles, policy, bus, metrics, lg),
	}, nil
}

// registerEventHandlers subscribes the audit log to every dropout event. Notification delivery is out of scope.
func registerEventHandlers(bus *events.EventBus, lg *slog.Logger) {
	for _, eventType := range events.DropoutEventTypes {
		bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			lg.Info("dropout event",
				"event_id", event.EventID(),
				"event_type", event.EventType(),
				"occurred_at", event.OccurredAt(),
				"payload", event.Payload())
			return nil
		})
	}
}

// initDB opens the pgx-backed pool shared by sqlx readers and gorm.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
}
