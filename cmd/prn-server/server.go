package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/flourish/flourish-prn/internal/config"
	"github.com/flourish/flourish-prn/internal/domain/deathreport"
	"github.com/flourish/flourish-prn/internal/domain/screening"
	"github.com/flourish/flourish-prn/internal/platform/auth"
	"github.com/flourish/flourish-prn/internal/platform/db"
	"github.com/flourish/flourish-prn/internal/platform/events"
	"github.com/flourish/flourish-prn/internal/platform/httpjson"
	"github.com/flourish/flourish-prn/internal/platform/middleware"
)

func runServer() error {
	logger := newLogger(os.Getenv("ENV"))

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, poolConfig(cfg))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Str("schema", cfg.DBSchema).Msg("connected to database")

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		amqp, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to event broker")
		}
		defer amqp.Close()
		publisher = amqp
		logger.Info().Str("queue", cfg.AMQPQueue).Msg("publishing death report events")
	}

	e := newServer(cfg, logger, pool, publisher)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer builds the echo instance with middleware and every route. pool
// may be nil, in which case nothing is audited to the database.
func newServer(cfg *config.Config, logger zerolog.Logger, pool *pgxpool.Pool, publisher events.Publisher) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = httpjson.Serializer{}

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	var authMW echo.MiddlewareFunc
	if cfg.IsDev() {
		logger.Warn().Msg("development auth enabled; every request acts as a data manager")
		authMW = auth.DevAuthMiddleware()
	} else {
		authMW = auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			SigningKey: []byte(cfg.AuthSigningKey),
		})
	}

	var recorder middleware.AuditRecorder
	if pool != nil {
		recorder = middleware.NewPGAuditRecorder(pool)
	}
	apiV1 := e.Group("/api/v1", authMW,
		middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		}),
		middleware.Audit(logger, recorder))

	// Screening and consent version forms
	screeningRepo := screening.NewRepoPG(pool)
	consentRepo := screening.NewConsentVersionRepoPG(pool)
	screeningSvc := screening.NewService(screeningRepo, consentRepo)
	screening.NewHandler(screeningSvc).RegisterRoutes(apiV1)

	// Death report
	lookups := screening.Lookups(screeningRepo)
	sources := make([]deathreport.ScreeningSource, len(lookups))
	for i, l := range lookups {
		sources[i] = l
	}
	resolver := deathreport.NewConsentResolver(screening.NewVersionLookup(consentRepo), sources...)
	formValidator := deathreport.NewValidator(deathreport.Rules{
		StudyOpen: cfg.StudyOpen(),
		Location:  cfg.Location(),
	})
	reportSvc := deathreport.NewService(deathreport.NewRepoPG(pool), formValidator, resolver,
		deathreport.NewLabelFormat(cfg.ShortDateFormat, cfg.Location()))
	if pool != nil {
		reportSvc.SetTx(func(ctx context.Context, fn func(ctx context.Context) error) error {
			return db.WithTx(ctx, pool, fn)
		})
	}
	reportSvc.SetPublisher(publisher)
	deathreport.NewHandler(reportSvc).RegisterRoutes(apiV1)

	return e
}
