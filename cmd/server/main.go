// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal services.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"caseflow/internal/audit"
	"caseflow/internal/casefile/handler"
	cfmetrics "caseflow/internal/casefile/metrics"
	"caseflow/internal/casefile/service"
	"caseflow/internal/casefile/store"
	jwttoken "caseflow/internal/jwt_token"
	"caseflow/internal/platform/config"
	"caseflow/internal/platform/httpserver"
	"caseflow/internal/platform/logger"
	"caseflow/internal/platform/postgres"
	platformredis "caseflow/internal/platform/redis"
	"caseflow/internal/policy"
	"caseflow/internal/review"
	"caseflow/internal/workflow"
	"caseflow/internal/workflow/local"
	wfmetrics "caseflow/internal/workflow/metrics"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	activePolicy, err := policy.Load(cfg.PolicyPath)
	if err != nil {
		log.Error("failed to load policy", "path", cfg.PolicyPath, "error", err)
		os.Exit(1)
	}

	auditStore, cleanup, err := buildAuditStore(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize audit store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	auditOpts := []audit.Option{audit.WithLogger(log)}
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := audit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("failed to connect kafka audit sink", "error", err)
			os.Exit(1)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := sink.Close(flushCtx); err != nil {
				log.Warn("failed to flush kafka audit sink", "error", err)
			}
		}()
		auditOpts = append(auditOpts, audit.WithSink(sink))
	}
	auditPublisher := audit.NewPublisher(auditStore, auditOpts...)

	cases := store.NewInMemory()

	caseService, err := service.New(cases,
		service.WithLogger(log),
		service.WithAuditPublisher(auditPublisher),
		service.WithMetrics(cfmetrics.New()),
		service.WithTextExtractor(local.NewTextExtractor()),
	)
	if err != nil {
		log.Error("failed to build case service", "error", err)
		os.Exit(1)
	}

	workflowService, err := workflow.New(cases,
		local.NewComparer(),
		local.NewPolicyMatcher(),
		local.NewRecommender(),
		local.NewDocumentGenerator(),
		activePolicy,
		workflow.WithLogger(log),
		workflow.WithAuditPublisher(auditPublisher),
		workflow.WithMetrics(wfmetrics.New()),
		workflow.WithAutoChain(cfg.AutoChain),
	)
	if err != nil {
		log.Error("failed to build workflow service", "error", err)
		os.Exit(1)
	}

	reviewService, err := review.New(cases,
		review.WithLogger(log),
		review.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		log.Error("failed to build review service", "error", err)
		os.Exit(1)
	}

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, "caseflow", "caseflow-api")

	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler.New(caseService, workflowService, reviewService, log, jwtService).Register(router)

	srv := httpserver.New(cfg.Server.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting caseflow", "addr", cfg.Server.Addr, "policy", activePolicy.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		// Let in-flight analysis goroutines finish before the process exits.
		workflowService.Wait()
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("caseflow stopped")
}

// buildAuditStore picks the audit backend: Postgres when configured, then
// Redis, falling back to in-memory.
func buildAuditStore(ctx context.Context, cfg config.Config) (audit.Store, func(), error) {
	if cfg.Postgres.DSN != "" {
		db, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		pgStore := audit.NewPostgresStore(db)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return pgStore, func() { db.Close() }, nil
	}
	if cfg.Redis.URL != "" {
		client, err := platformredis.Open(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return audit.NewRedisStore(client.Client), func() { client.Close() }, nil
	}
	return audit.NewInMemoryStore(), func() {}, nil
}
