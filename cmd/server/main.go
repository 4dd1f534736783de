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

	"personnel/internal/audit"
	authhandler "personnel/internal/auth/handler"
	"personnel/internal/catalog"
	jwttoken "personnel/internal/jwt_token"
	"personnel/internal/platform/config"
	"personnel/internal/platform/httpserver"
	"personnel/internal/platform/logger"
	platformmetrics "personnel/internal/platform/metrics"
	"personnel/internal/platform/postgres"
	platformredis "personnel/internal/platform/redis"
	profilehandler "personnel/internal/profile/handler"
	profilemetrics "personnel/internal/profile/metrics"
	"personnel/internal/profile/service"
	"personnel/internal/profile/store"
	"personnel/internal/profile/validation"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage: PostgreSQL when configured, in-memory otherwise.
	var (
		employees  service.EmployeeStore
		options    validation.OptionCatalog
		auditStore audit.Store
	)
	if cfg.PostgresURL != "" {
		db, err := postgres.Open(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		employees = store.NewPostgres(db)
		options = catalog.NewPostgres(db)
		auditStore = audit.NewPostgresStore(db)
		log.Info("using postgres storage")
	} else {
		employees = store.NewInMemory()
		options = catalog.NewStatic()
		auditStore = audit.NewInMemoryStore()
		log.Warn("POSTGRES_URL not set, using in-memory storage")
	}

	// Optional Redis read-through cache for the option catalog.
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		if src, ok := options.(catalog.Source); ok {
			options = catalog.NewCache(src, redisClient.Client, cfg.Redis.CacheTTL)
			log.Info("catalog cache enabled")
		}
		defer redisClient.Close()
	}

	// Audit pipeline: channel worker persisting to the store, plus Kafka when
	// brokers are configured.
	inbox := make(chan audit.Event, 256)
	worker := audit.NewWorker(auditStore, inbox)
	sinks := audit.Fanout{audit.NewChannelPublisher(inbox)}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub, err := audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer kafkaPub.Close()
		sinks = append(sinks, audit.NewGuarded(kafkaPub, "audit-kafka", log))
		log.Info("audit stream enabled", "topic", cfg.Kafka.Topic)
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	profileService := service.New(
		employees,
		validation.NewProfileValidator(),
		validation.NewSectionValidator(options),
		service.WithLogger(log),
		service.WithAuditPublisher(sinks),
		service.WithMetrics(profilemetrics.New()),
	)

	httpMetrics := platformmetrics.New()

	router := chi.NewRouter()
	profilehandler.New(profileService, log, httpMetrics, jwttoken.NewJWTServiceAdapter(jwtService)).Register(router)
	authhandler.New(jwtService, cfg.AdminKeyHash, cfg.TokenTTL, log).Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting personnel server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		err := worker.Run(groupCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
