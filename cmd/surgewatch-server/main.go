package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/surgewatch/surgewatch/internal/config"
	"github.com/surgewatch/surgewatch/internal/domain/hospital"
	"github.com/surgewatch/surgewatch/internal/domain/prediction"
	"github.com/surgewatch/surgewatch/internal/platform/auth"
	"github.com/surgewatch/surgewatch/internal/platform/cache"
	"github.com/surgewatch/surgewatch/internal/platform/db"
	"github.com/surgewatch/surgewatch/internal/platform/middleware"
	"github.com/surgewatch/surgewatch/internal/platform/weather"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "surgewatch-server",
		Short: "Hospital surge prediction API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(cacheCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the surge prediction API server",
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

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

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

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

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

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
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
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create a demo hospital account and festival calendar entries",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			// All seed writes share one pinned connection.
			conn, err := pool.Acquire(ctx)
			if err != nil {
				return err
			}
			defer conn.Release()
			ctx = db.WithConn(ctx, conn)

			issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenExpiry())
			hospSvc := hospital.NewService(hospital.NewRepoPG(pool), issuer)

			email := "demo@surgewatch.local"
			h, err := hospSvc.Register(ctx, &hospital.RegisterRequest{
				Email:            email,
				Password:         "demo12345",
				Name:             "City General Hospital",
				Location:         cfg.WeatherDefaultCity,
				ICUTotalCapacity: 40,
			})
			if err != nil {
				fmt.Printf("demo hospital: %v\n", err)
			} else {
				fmt.Printf("Created demo hospital %s (%s)\n", h.Name, email)
			}

			festivals := prediction.NewFestivalRepoPG(pool)
			year := time.Now().UTC().Year()
			seedFestivals := []struct {
				date string
				name string
			}{
				{fmt.Sprintf("%d-01-14", year), "Sankranti"},
				{fmt.Sprintf("%d-08-15", year), "Independence Day"},
				{fmt.Sprintf("%d-10-20", year), "Diwali"},
				{fmt.Sprintf("%d-12-25", year), "Christmas"},
			}
			for _, f := range seedFestivals {
				day, err := time.Parse("2006-01-02", f.date)
				if err != nil {
					return err
				}
				if err := festivals.Add(ctx, day, f.name); err != nil {
					return fmt.Errorf("seed festival %s: %w", f.name, err)
				}
			}
			fmt.Printf("Seeded %d festival days.\n", len(seedFestivals))
			return nil
		},
	}
}

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the enrichment cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "sweep",
		Short: "Delete expired cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

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

			store, err := newCacheStore(ctx, cfg, pool)
			if err != nil {
				return err
			}

			svc := cache.NewService(store, logger)
			n, err := svc.ClearExpired(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d expired cache entries.\n", n)
			return nil
		},
	})

	return cmd
}

// newCacheStore picks the persistent cache tier: Redis when configured,
// otherwise the cached_data table.
func newCacheStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (cache.Store, error) {
	if cfg.RedisURL != "" {
		store, err := cache.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		if err := store.Ping(ctx); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return store, nil
	}
	return cache.NewPGStore(pool), nil
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Cache: in-process tier over Redis or Postgres
	store, err := newCacheStore(ctx, cfg, pool)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize cache store")
	}
	cacheSvc := cache.NewService(store, logger)
	if cfg.RedisURL != "" {
		logger.Info().Msg("cache backed by redis")
	} else {
		logger.Info().Msg("cache backed by cached_data table")
	}

	// Model artifact. A missing artifact is not fatal: the predictor runs
	// in rule-based fallback mode until one is deployed.
	var model prediction.Model
	if m, err := prediction.LoadModel(cfg.ModelPath); err != nil {
		logger.Warn().Err(err).Str("path", cfg.ModelPath).Msg("model artifact unavailable, fallback mode")
	} else {
		model = m
		logger.Info().Str("version", m.Version()).Msg("model artifact loaded")
	}

	// Wiring
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenExpiry())

	hospRepo := hospital.NewRepoPG(pool)
	hospSvc := hospital.NewService(hospRepo, issuer)
	hospHandler := hospital.NewHandler(hospSvc)

	weatherClient := weather.NewClient(cfg.WeatherAPIBaseURL, cfg.WeatherAPIKey, cfg.WeatherUnits, cfg.WeatherTimeout())
	festivalRepo := prediction.NewFestivalRepoPG(pool)
	enricher := prediction.NewEnricher(cacheSvc, weatherClient, festivalRepo, cfg.WeatherDefaultCity, cfg.CacheTTL(), logger)
	predictor := prediction.NewPredictor(model, cfg.ModelVersion, logger)

	predRepo := prediction.NewRepoPG(pool)
	predSvc := prediction.NewService(predRepo, enricher, predictor, logger)
	predHandler := prediction.NewHandler(predSvc)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health and metrics
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API groups
	apiV1 := e.Group("/api/v1")
	authed := apiV1.Group("", auth.Middleware(issuer))

	hospHandler.RegisterRoutes(apiV1, authed)
	predHandler.RegisterRoutes(authed)

	// Background cache sweeper
	sweepCtx, sweepCancel := context.WithCancel(ctx)
	defer sweepCancel()
	go runCacheSweeper(sweepCtx, cacheSvc, cfg.SweepInterval(), logger)

	// Start server
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	sweepCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}

// runCacheSweeper periodically clears expired cache entries until ctx is
// cancelled.
func runCacheSweeper(ctx context.Context, svc *cache.Service, interval time.Duration, logger zerolog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.ClearExpired(ctx); err != nil {
				logger.Error().Err(err).Msg("cache sweep failed")
			}
		}
	}
}
