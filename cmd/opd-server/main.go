package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medicore/medicore/internal/config"
	"github.com/medicore/medicore/internal/domain/billing"
	"github.com/medicore/medicore/internal/domain/directory"
	"github.com/medicore/medicore/internal/domain/feedback"
	"github.com/medicore/medicore/internal/domain/records"
	"github.com/medicore/medicore/internal/domain/scheduling"
	"github.com/medicore/medicore/internal/platform/apperr"
	"github.com/medicore/medicore/internal/platform/auth"
	"github.com/medicore/medicore/internal/platform/db"
	"github.com/medicore/medicore/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "opd-server",
		Short: "Outpatient department API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(adminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

// adminCmd bootstraps the first administrator account; everything after that
// goes through POST /api/v1/admin/users.
func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			firstName, _ := cmd.Flags().GetString("first-name")
			lastName, _ := cmd.Flags().GetString("last-name")
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL())
			svc := directory.NewService(
				directory.NewUserRepoPG(pool),
				directory.NewPatientRepoPG(pool),
				directory.NewDoctorRepoPG(pool),
				directory.NewAdminRepoPG(pool),
				directory.NewSpecializationRepoPG(pool),
				directory.NewStatsRepoPG(pool),
				issuer,
				db.PoolTxRunner(pool),
			)

			user, err := svc.AddUser(ctx, &directory.RegisterInput{
				Email:     email,
				Password:  password,
				Role:      auth.RoleAdmin,
				FirstName: firstName,
				LastName:  lastName,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Administrator %s created (%s).\n", user.Email, user.ID)
			return nil
		},
	}
	createCmd.Flags().String("email", "", "Administrator email")
	createCmd.Flags().String("password", "", "Administrator password")
	createCmd.Flags().String("first-name", "Admin", "First name")
	createCmd.Flags().String("last-name", "User", "Last name")
	cmd.AddCommand(createCmd)

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	if cfg.JWTSecret == "" {
		// Development only; Validate rejects an empty secret otherwise.
		// Sessions do not survive a restart with a generated secret.
		cfg.JWTSecret = uuid.NewString() + uuid.NewString()
		logger.Warn().Msg("JWT_SECRET not set, generated a throwaway secret")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL())
	inTx := db.PoolTxRunner(pool)

	// Repositories
	userRepo := directory.NewUserRepoPG(pool)
	patientRepo := directory.NewPatientRepoPG(pool)
	doctorRepo := directory.NewDoctorRepoPG(pool)
	adminRepo := directory.NewAdminRepoPG(pool)
	specRepo := directory.NewSpecializationRepoPG(pool)
	statsRepo := directory.NewStatsRepoPG(pool)
	apptRepo := scheduling.NewAppointmentRepoPG(pool)
	invoiceRepo := billing.NewInvoiceRepoPG(pool)
	recordRepo := records.NewRecordRepoPG(pool)
	feedbackRepo := feedback.NewFeedbackRepoPG(pool)

	// Services
	directorySvc := directory.NewService(userRepo, patientRepo, doctorRepo, adminRepo, specRepo, statsRepo, issuer, inTx)
	schedulingSvc := scheduling.NewService(apptRepo, patientRepo, doctorRepo)
	billingSvc := billing.NewService(invoiceRepo, apptRepo, patientRepo, inTx)
	recordsSvc := records.NewService(recordRepo, patientRepo, doctorRepo)
	feedbackSvc := feedback.NewService(feedbackRepo, patientRepo, doctorRepo)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", db.HealthHandler(pool))

	public := e.Group("/api/v1")
	public.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))

	api := e.Group("/api/v1")
	api.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
	api.Use(auth.Middleware(issuer))

	directory.NewHandler(directorySvc).RegisterRoutes(public, api)
	scheduling.NewHandler(schedulingSvc).RegisterRoutes(api)
	billing.NewHandler(billingSvc).RegisterRoutes(api)
	records.NewHandler(recordsSvc).RegisterRoutes(api)
	feedback.NewHandler(feedbackSvc).RegisterRoutes(api)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
