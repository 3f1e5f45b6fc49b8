package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/passpay-web/internal/config"
	"github.com/jwalitptl/passpay-web/internal/handler"
	authHandler "github.com/jwalitptl/passpay-web/internal/handler/auth"
	"github.com/jwalitptl/passpay-web/internal/handler/dashboard"
	"github.com/jwalitptl/passpay-web/internal/handler/health"
	"github.com/jwalitptl/passpay-web/internal/handler/manage"
	"github.com/jwalitptl/passpay-web/internal/handler/profile"
	"github.com/jwalitptl/passpay-web/internal/middleware"
	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/router"
	authService "github.com/jwalitptl/passpay-web/internal/service/auth"
	patientService "github.com/jwalitptl/passpay-web/internal/service/patient"
	providerService "github.com/jwalitptl/passpay-web/internal/service/provider"
	userService "github.com/jwalitptl/passpay-web/internal/service/user"
	"github.com/jwalitptl/passpay-web/internal/session"
	"github.com/jwalitptl/passpay-web/internal/view"
	"github.com/jwalitptl/passpay-web/pkg/apiclient"
	"github.com/jwalitptl/passpay-web/pkg/logger"
	"github.com/jwalitptl/passpay-web/pkg/metrics"
	"github.com/jwalitptl/passpay-web/pkg/security"
	"github.com/jwalitptl/passpay-web/pkg/validator"
)

type app struct {
	cfg    *config.Config
	log    *logger.Logger
	router *router.Router
	redis  *goredis.Client
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

func build(ctx context.Context) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	lg := logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})
	log.Logger = *lg.Zerolog()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(cfg.Monitoring.Prefix, reg)

	client := apiclient.New(apiclient.Config{
		BaseURL:         cfg.Backend.BaseURL,
		Timeout:         cfg.Backend.Timeout,
		BreakerFailures: cfg.Backend.BreakerFailures,
		BreakerTimeout:  cfg.Backend.BreakerTimeout,
		Metrics:         m,
		Logger:          lg,
	})
	v := validator.New()

	authSvc := authService.NewService(client, v)
	users := userService.NewService(client, v)
	patients := patientService.NewService(client, v)
	providers := providerService.NewService(client, v)

	a := &app{cfg: cfg, log: lg}
	checks := map[string]health.Check{}

	var storage session.Storage
	switch cfg.Session.Store {
	case "redis":
		rdb, err := session.NewRedisClient(ctx, cfg.Session.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.redis = rdb
		storage = session.NewRedisStorage(rdb)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	default:
		storage = session.NewMemoryStorage(10 * time.Minute)
	}
	if cfg.Session.Secret != "" {
		key, err := security.DeriveKey(cfg.Session.Secret, "passpay-session")
		if err != nil {
			a.Close()
			return nil, err
		}
		enc, err := security.NewAESEncryptor(key)
		if err != nil {
			a.Close()
			return nil, err
		}
		storage = session.Sealed(storage, enc)
	}

	sessions := session.NewManager(session.Options{
		Storage: storage,
		Auth:    authSvc,
		TTL:     cfg.Session.TTL,
		Logger:  lg,
		Metrics: m,
	})

	renderer, err := view.New(cfg.Backend.BaseURL)
	if err != nil {
		a.Close()
		return nil, err
	}

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(cfg.RateLimit.LoginRPS),
		Burst: cfg.RateLimit.LoginBurst,
	})

	mode := gin.ReleaseMode
	if cfg.Server.Mode != "" {
		mode = cfg.Server.Mode
	}
	a.router = router.NewRouter(router.Config{
		Mode:    mode,
		Timeout: cfg.Server.Timeout,
		Cookie: middleware.CookieConfig{
			Name:   cfg.Session.CookieName,
			Path:   "/",
			MaxAge: int(cfg.Session.TTL.Seconds()),
			Secure: cfg.Session.CookieSecure,
		},
		Security: middleware.DefaultSecurityConfig(cfg.Backend.BaseURL).WithHSTS(cfg.Session.CookieSecure),
		Size:     middleware.DefaultSizeLimitConfig(),
		Cache:    middleware.DefaultCacheConfig(),
	}, sessions, renderer.Template(), m, router.Handlers{
		Health:    health.NewHandler(reg, cfg.Monitoring.MetricsPath, checks),
		Auth:      authHandler.NewHandler(limiter.RateLimit()),
		Dashboard: dashboard.NewHandler(),
		Profile:   profile.NewHandler(authSvc, lg),
		Admin: []handler.Handler{
			manage.NewHandler[model.User, model.CreateUserRequest, model.UpdateUserRequest](
				"users", users, manage.Users{Asset: renderer.AssetURL}, lg, m),
			manage.NewHandler[model.Patient, model.CreatePatientRequest, model.UpdatePatientRequest](
				"patients", patients, manage.Patients{Asset: renderer.AssetURL, Accounts: users}, lg, m),
			manage.NewHandler[model.Provider, model.CreateProviderRequest, model.UpdateProviderRequest](
				"providers", providers, manage.Providers{Asset: renderer.AssetURL, Accounts: users}, lg, m),
		},
	})
	return a, nil
}

func serve(ctx context.Context) error {
	a, err := build(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      a.router.Engine(),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	go func() {
		a.log.Info("starting server", "addr", srv.Addr, "backend", a.cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Fatal(err, "failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.log.Info("server exited properly")
	return nil
}
