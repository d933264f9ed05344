package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prasetya/requisition-tracker/internal"
	"github.com/prasetya/requisition-tracker/internal/auth"
	authpostgres "github.com/prasetya/requisition-tracker/internal/auth/postgres"
	"github.com/prasetya/requisition-tracker/internal/category"
	categorypostgres "github.com/prasetya/requisition-tracker/internal/category/postgres"
	"github.com/prasetya/requisition-tracker/internal/inventory"
	inventorypostgres "github.com/prasetya/requisition-tracker/internal/inventory/postgres"
	"github.com/prasetya/requisition-tracker/internal/report"
	reportpostgres "github.com/prasetya/requisition-tracker/internal/report/postgres"
	"github.com/prasetya/requisition-tracker/internal/requisition"
	requisitionpostgres "github.com/prasetya/requisition-tracker/internal/requisition/postgres"
	"github.com/prasetya/requisition-tracker/internal/transport/rest"
	"github.com/prasetya/requisition-tracker/internal/user"
	userpostgres "github.com/prasetya/requisition-tracker/internal/user/postgres"
	"github.com/prasetya/requisition-tracker/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
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
	Config *internal.Config
	DB     *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
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
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
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
		if sqlDB, err := deps.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				deps.Logger.Error("Database close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	db := deps.DB
	lg := deps.Logger

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to unwrap sql.DB: %w", err)
	}
	// Report queries read through sqlx against the same connection pool.
	sqlxDB := sqlx.NewDb(sqlDB, "pgx")

	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authpostgres.NewAuthRepository(db), tokenGen, cfg.Security.BCryptCost, lg)
	authHandler := auth.NewHandler(authService)

	userService := user.NewService(userpostgres.NewUserRepository(db), authService, lg)
	userHandler := user.NewHandler(userService)

	categoryService := category.NewService(categorypostgres.NewCategoryRepository(db), lg)
	categoryHandler := category.NewHandler(categoryService)

	imageStore := inventory.NewDiskStore(cfg.Storage.ImageDir)
	inventoryService := inventory.NewService(inventorypostgres.NewEquipmentRepository(db), imageStore, lg)
	inventoryHandler := inventory.NewHandler(inventoryService)

	requisitionService := requisition.NewService(requisitionpostgres.NewRequisitionRepository(db), lg)
	requisitionHandler := requisition.NewHandler(requisitionService)

	reportService := report.NewService(reportpostgres.NewReportRepository(sqlxDB), lg)
	reportHandler := report.NewHandler(reportService)

	rest.RegisterAllRoutes(deps.Router, sqlDB, rest.Handlers{
		Auth:        authHandler,
		User:        userHandler,
		Category:    categoryHandler,
		Inventory:   inventoryHandler,
		Requisition: requisitionHandler,
		Report:      reportHandler,
	}, cfg.Server.AllowedOrigins, lg)

	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Format, config.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	router := chi.NewRouter()

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: router,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(cfg.Source), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
