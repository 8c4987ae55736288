// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"tree-service-leads/internal/config"
	"tree-service-leads/internal/domain/ports/adapter"
	"tree-service-leads/internal/domain/ports/repository"
	tele "tree-service-leads/internal/infra/adapters/telegram"
	"tree-service-leads/internal/infra/api"
	"tree-service-leads/internal/infra/api/apiv1"
	pg "tree-service-leads/internal/infra/db/postgres"
	pubhttp "tree-service-leads/internal/infra/http"
	"tree-service-leads/internal/infra/logging"
	"tree-service-leads/internal/infra/metrics"
	red "tree-service-leads/internal/infra/redis"
	"tree-service-leads/internal/infra/sched"
	"tree-service-leads/internal/infra/web"
	"tree-service-leads/internal/usecase"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

// repos stays all-nil without a datastore; use cases treat nil as not configured.
type repos struct {
	jobs    repository.JobRepository
	config  repository.AppConfigRepository
	optOuts repository.OptOutRepository
	leads   repository.WarmLeadRepository
	subs    repository.FormSubmissionRepository
	notes   repository.ContactNoteRepository
	lists   repository.ListRepository
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- CLI flags ----
	cfgPath := flag.String("config", config.DefaultConfigPath, "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted phones)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres (optional) ----
	var rp repos
	var workers []func(context.Context) error
	if cfg.Database.URL != "" {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres")
		}
		defer pool.Close()
		if cfg.Database.AutoMigrate {
			if err := pg.AutoMigrate(ctx, pool); err != nil {
				logger.Fatal().Err(err).Msg("migrate")
			}
		} else if err := pg.CheckSchema(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("schema")
		}
		rp = repos{
			jobs:    pg.NewJobRepo(pool),
			config:  pg.NewAppConfigRepo(pool),
			optOuts: pg.NewOptOutRepo(pool),
			leads:   pg.NewWarmLeadRepo(pool),
			subs:    pg.NewFormSubmissionRepo(pool),
			notes:   pg.NewContactNoteRepo(pool),
			lists:   pg.NewListRepo(pool),
		}
		statsWorker := sched.NewPoolStatsWorker(15*time.Second, sched.PgxPoolStats(pool), logger)
		workers = append(workers, statsWorker.Run)
	} else {
		logger.Warn().Msg("database.url is empty; running without a datastore")
	}

	// ---- Redis (optional) ----
	var limiter api.Limiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable; cache and rate limits disabled")
		} else {
			defer redisClient.Close()
			limiter = red.NewRateLimiter(redisClient)
			if rp.config != nil {
				rp.config = pg.NewAppConfigRepoCacheDecorator(rp.config, redisClient, cfg.Redis.TTL, logger)
			}
		}
	}

	// ---- Staff notifications ----
	var notifier adapter.LeadNotifier = tele.NoopNotifier{}
	if cfg.Notify.TelegramToken != "" {
		n, err := tele.NewLeadNotifier(cfg.Notify, cfg.Runtime.Dev, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("telegram notifier disabled")
		} else {
			notifier = n
		}
	}

	// ---- Use cases ----
	jobUC, err := usecase.NewJobUseCase(rp.jobs, rp.config, cfg.Jobs.DailyBatchLimit, cfg.Jobs.ListLimit, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("job use case")
	}
	configUC := usecase.NewConfigUseCase(rp.config, logger)
	listUC := usecase.NewListUseCase(rp.lists, rp.optOuts, rp.leads, logger)
	contactUC := usecase.NewContactUseCase(rp.optOuts, rp.leads, rp.subs, rp.notes, logger)
	submissionUC := usecase.NewSubmissionUseCase(rp.subs, logger)
	statsUC := usecase.NewStatsUseCase(rp.config, jobUC, listUC, logger)
	inboundUC := usecase.NewInboundUseCase(rp.optOuts, rp.leads, notifier, cfg.Inbound.SourceCampaign, cfg.Runtime.Dev, logger)

	// ---- HTTP ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, cfg.Admin.SecureCookie, cfg.Admin.CookieDomain, cfg.Admin.SessionTTL)
	sessions := web.NewSessions(auth, cfg.Admin, logger)
	adminAPI := apiv1.NewServer(apiv1.Deps{
		Jobs:        jobUC,
		Config:      configUC,
		Lists:       listUC,
		Contacts:    contactUC,
		Submissions: submissionUC,
		Stats:       statsUC,
	}, cfg.Jobs.PollInterval, cfg.HTTP.RequestTimeout, logger)

	r := chi.NewRouter()
	r.Use(api.TraceID(logger), api.RequestLog(logger), api.Recover(logger))
	r.Handle("/metrics", promhttp.Handler())
	pubhttp.NewServer(inboundUC, submissionUC, logger).
		Register(r, api.RateLimit(limiter, "public", cfg.Inbound.RateLimit, cfg.Inbound.RateWindow, logger))
	r.Post("/api/v1/session", sessions.Login)
	r.Delete("/api/v1/session", sessions.Logout)
	apiv1.RegisterAPIV1(r, adminAPI, sessions.RequireAdmin)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           r,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTP.WriteTimeout, // zero keeps job watch streams open
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Str("version", version).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	for _, run := range workers {
		go func(run func(context.Context) error) {
			if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("worker stopped")
			}
		}(run)
	}

	// ---- Graceful shutdown ----
	<-ctx.Done()
	logger.Info().Msg("shutdown requested")
	shutdown(server, logger)
}

func shutdown(server *http.Server, logger *zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
