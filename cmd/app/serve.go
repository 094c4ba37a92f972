package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/net/netutil"
	"gorm.io/gorm"

	"assessly-backend/internal/cache"
	"assessly-backend/internal/config"
	"assessly-backend/internal/controller"
	"assessly-backend/internal/mail"
	"assessly-backend/internal/matching"
	"assessly-backend/internal/metrics"
	"assessly-backend/internal/model"
	"assessly-backend/internal/repository"
	"assessly-backend/internal/scoring"
	"assessly-backend/internal/service"
	"assessly-backend/pkg/middleware"
	"assessly-backend/utilities"
)

const (
	shutdownTimeout = 15 * time.Second
	sweepInterval   = time.Minute
	visitorIdle     = 10 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		printStartUpBanner()
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	gdb, qe, err := openDB(cfg, cfg.DB.Initialize)
	if err != nil {
		return err
	}
	defer closeDB(gdb)

	store, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer store.Close()

	m := metrics.NewManager(metrics.WithProcessCollectors())
	bus := utilities.NewEventBus(log)
	sender := mail.NewSender(cfg.Mail)
	service.NewNotificationService(sender, cfg.Mail.NotifyEmail, log).InitEventListeners(bus)

	tokens := utilities.NewTokenManager(
		cfg.Authentication.AccessSecret,
		cfg.Authentication.RefreshSecret,
		time.Duration(cfg.Authentication.SessionTimeout)*time.Minute,
		time.Duration(cfg.Authentication.RefreshTimeout)*time.Hour,
	)

	// Create repositories.
	codes := repository.NewAccessCodeRepository(qe)
	games := repository.NewGameRepository(qe, codes)
	catalog := repository.NewCatalogRepository(qe, log)
	admins := repository.NewAdminRepository(qe)
	matcher := matching.NewMatcher(catalog, matching.WithObserver(m.ObserveCatalogLookup))

	// Create services.
	credits := service.NewCreditService(repository.NewCreditRepository(qe), store, cfg.Cache.CacheTTL(), log)
	deps := controller.Dependencies{
		AuthService:       service.NewAuthService(admins, tokens),
		SubmissionService: service.NewSubmissionService(codes, games, matcher, scoring.TableFromConfig(cfg.Scoring), bus, m, log),
		GameService:       service.NewGameService(games, matcher, log),
		ExportService:     service.NewExportService(games),
		CodeService:       service.NewCodeService(codes, repository.NewStore[model.Company](qe, "name"), sender, cfg.Mail.GameURL, log),
		CreditService:     credits,
		CatalogService:    service.NewCatalogService(catalog),
		Entities:          service.NewEntities(qe, credits),
		Tokens:            tokens,
		Pager:             controller.NewPager(cfg.Pagination),
		Log:               log,
		APIPath:           cfg.Context.Path,
		Metrics:           m.Handler(),
		Health:            pingDB(gdb),
	}

	stopSweep := make(chan struct{})
	defer close(stopSweep)
	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, visitorIdle)
		go rl.Run(sweepInterval, stopSweep)
		deps.RateLimit = rl.Middleware()
	}

	r := newRouter(cfg, log, m)
	controller.RegisterRoutes(r, deps)

	addr := fmt.Sprintf("%s:%d", cfg.Context.Host, cfg.Context.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	ln = netutil.LimitListener(ln, cfg.Context.MaxConnections)

	srv := &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr, "max_connections", cfg.Context.MaxConnections)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", "error", err)
	}
	// let in-flight notification emails finish
	bus.Wait()
	return nil
}

func newRouter(cfg *config.APIConfig, log *utilities.Logger, m *metrics.Manager) *gin.Engine {
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS configuration.
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.Context.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.Context.AllowedOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))
	r.Use(m.Middleware())

	if cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware(log))
	}
	return r
}

func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	if cfg.Driver == "redis" {
		return cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisDB, "assessly:")
	}
	return cache.NewMemory(time.Minute), nil
}

func pingDB(gdb *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
