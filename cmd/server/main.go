package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	auth_service "yatube-post-service/internal/application/service/auth"
	post_service "yatube-post-service/internal/application/service/post"
	"yatube-post-service/internal/application/validation"
	ports "yatube-post-service/internal/domain/ports/output"
	group_repository "yatube-post-service/internal/domain/ports/output/group"
	post_repository "yatube-post-service/internal/domain/ports/output/post"
	session_store "yatube-post-service/internal/domain/ports/output/session"
	user_repository "yatube-post-service/internal/domain/ports/output/user"
	"yatube-post-service/internal/infrastructure/config"
	delivery_http "yatube-post-service/internal/infrastructure/inbound/http"
	auth_http "yatube-post-service/internal/infrastructure/inbound/http/auth"
	metrics_server "yatube-post-service/internal/infrastructure/inbound/metrics"
	"yatube-post-service/internal/infrastructure/logger"
	prometheus_metrics "yatube-post-service/internal/infrastructure/outbound/metrics/prometheus"
	group_postgres "yatube-post-service/internal/infrastructure/outbound/repository/group/postgres"
	"yatube-post-service/internal/infrastructure/outbound/repository/memory"
	post_postgres "yatube-post-service/internal/infrastructure/outbound/repository/post/postgres"
	"yatube-post-service/internal/infrastructure/outbound/repository/postgres"
	"yatube-post-service/internal/infrastructure/outbound/repository/postgres/migrator"
	user_postgres "yatube-post-service/internal/infrastructure/outbound/repository/user/postgres"
	session_memory "yatube-post-service/internal/infrastructure/outbound/session/memory"
	session_redis "yatube-post-service/internal/infrastructure/outbound/session/redis"
)

type storage struct {
	posts    post_repository.Repository
	groups   group_repository.Repository
	users    user_repository.Repository
	uow      ports.UnitOfWork
	sessions session_store.Store
	close    func()
}

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	ctx := context.Background()

	metrics := prometheus_metrics.NewPrometheusMetricsProvider()

	var (
		store *storage
		err   error
	)
	if cfg.Env == "test" {
		store = newMemoryStorage(log)
	} else {
		store, err = newPostgresStorage(ctx, cfg, log, metrics)
		if err != nil {
			log.Error("Failed to initialise storage", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	defer store.close()

	validate := validation.New()
	postService := post_service.NewPostService(store.posts, store.groups, store.users, store.uow, validate, log, metrics)
	authService := auth_service.NewAuthService(store.users, store.sessions, validate, []byte(cfg.Auth.JWTSecret),
		cfg.Auth.SessionTTL, log, metrics)

	cookie := auth_http.CookieConfig{
		Name:   cfg.Auth.CookieName,
		Secure: cfg.Auth.CookieSecure,
		TTL:    cfg.Auth.SessionTTL,
	}
	router := delivery_http.NewRouter(postService, authService, cookie, log, metrics)
	httpServer := delivery_http.NewServer(router, cfg.HTTPServer.Address, cfg.HTTPServer.Port,
		cfg.HTTPServer.ReadTimeout, cfg.HTTPServer.WriteTimeout, log)

	metricsServer := metrics_server.NewMetricsServer(cfg.Prometheus.Address, cfg.Prometheus.Port, log)

	metrics.SetServiceHealth(true)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	done := make(chan bool, 1)
	metricsDone := make(chan bool, 1)

	go func() {
		if err := httpServer.Run(); err != nil {
			log.Error("HTTP server error", slog.String("error", err.Error()))
		}
		done <- true
	}()

	go func() {
		if err := metricsServer.Run(); err != nil {
			log.Error("Metrics server error", slog.String("error", err.Error()))
		}
		metricsDone <- true
	}()

	<-quit
	log.Info("Shutting down servers...")

	metrics.SetServiceHealth(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown error", slog.String("error", err.Error()))
	}

	<-done
	<-metricsDone

	log.Info("Server exited")
}

func newPostgresStorage(ctx context.Context, cfg *config.Config, log *logger.Logger, metrics ports.MetricsProvider) (*storage, error) {
	m, err := migrator.New(cfg.Database.MigrationsPath, cfg.Database.DSN(), log)
	if err != nil {
		return nil, err
	}
	if err := m.Up(); err != nil {
		_ = m.Close()
		return nil, err
	}
	if err := m.Close(); err != nil {
		log.Warn("Failed to close migrator", slog.String("error", err.Error()))
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	log.Info("Connecting to Redis",
		slog.String("address", cfg.Redis.Address),
		slog.Int("port", cfg.Redis.Port),
		slog.Int("db", cfg.Redis.DB))
	redisClient, err := session_redis.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &storage{
		posts:    post_postgres.NewPostRepository(pool, log, metrics),
		groups:   group_postgres.NewGroupRepository(pool, log, metrics),
		users:    user_postgres.NewUserRepository(pool, log, metrics),
		uow:      postgres.NewPostgresUOW(pool, log, metrics),
		sessions: session_redis.NewSessionStore(redisClient, log),
		close: func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", slog.String("error", err.Error()))
			}
			pool.Close()
		},
	}, nil
}

func newMemoryStorage(log *logger.Logger) *storage {
	log.Warn("Using in-memory storage; data is lost on restart")
	s := memory.NewStorage()
	return &storage{
		posts:    memory.NewPostRepository(s, log),
		groups:   memory.NewGroupRepository(s, log),
		users:    memory.NewUserRepository(s, log),
		uow:      memory.NewUnitOfWork(s, log),
		sessions: session_memory.NewSessionStore(),
		close:    func() {},
	}
}
