package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	_ "github.com/jackc/pgx/v5/stdlib"

	"project-hub/internal/api"
	"project-hub/internal/authz"
	"project-hub/internal/config"
	"project-hub/internal/jwt"
	"project-hub/internal/repository"
	"project-hub/internal/service"
	"project-hub/internal/tracing"
)

const shutdownTimeout = 10 * time.Second

var envFile string

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "project-hub",
		Short:         "Project, task and comment tracker API",
		SilenceUsage: true,
		RunE:         serveCommand,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env.dev", "Optional dotenv file loaded before reading the environment")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newSeedCommand())
	rootCmd.AddCommand(newPromoteCommand())
	return rootCmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the bundled web client",
		RunE:  serveCommand,
	}
}

// loadConfig reads configuration and installs the JSON logger every command shares.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	api.SetupGlobalHandler(cfg.ServiceName, cfg.LogLevel)
	return cfg, nil
}

func connectDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DB.URL())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	slog.Info("Successfully connected to the database.",
		slog.String("host", cfg.DB.Host),
		slog.String("database", cfg.DB.Name),
	)
	return db, nil
}

func wire(cfg *config.Config, db *sqlx.DB) (api.Services, error) {
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return api.Services{}, fmt.Errorf("load authorization policy: %w", err)
	}
	issuer := jwt.NewIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)

	userRepo := repository.NewPostgresUserRepository(db)
	projectRepo := repository.NewPostgresProjectRepository(db)
	taskRepo := repository.NewPostgresTaskRepository(db)
	commentRepo := repository.NewPostgresCommentRepository(db)

	return api.Services{
		Auth:     service.NewAuthService(userRepo, issuer, enforcer),
		Projects: service.NewProjectService(projectRepo, enforcer),
		Tasks:    service.NewTaskService(taskRepo, projectRepo, userRepo, enforcer),
		Comments: service.NewCommentService(commentRepo, taskRepo, enforcer),
	}, nil
}

func serveCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracing.InitTracerProvider(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("initialize OpenTelemetry: %w", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			slog.Error("Error shutting down tracer provider", slog.String("error", err.Error()))
		}
	}()

	db, err := connectDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	services, err := wire(cfg, db)
	if err != nil {
		return err
	}

	app := api.NewApp(services, api.Options{
		ServiceName:       cfg.ServiceName,
		CORSOrigins:       cfg.CORSOrigins,
		AuthRatePerMinute: cfg.AuthRateLimit.PerMinute,
		AuthRateBurst:     cfg.AuthRateLimit.Burst,
	})

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("Listening", slog.String("service", cfg.ServiceName), slog.String("port", cfg.Port))
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return app.ShutdownWithContext(shutdownCtx)
}
