package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	auth_service "yatube-post-service/internal/application/service/auth"
	group_service "yatube-post-service/internal/application/service/group"
	"yatube-post-service/internal/application/validation"
	"yatube-post-service/internal/infrastructure/config"
	"yatube-post-service/internal/infrastructure/logger"
	prometheus_metrics "yatube-post-service/internal/infrastructure/outbound/metrics/prometheus"
	group_postgres "yatube-post-service/internal/infrastructure/outbound/repository/group/postgres"
	"yatube-post-service/internal/infrastructure/outbound/repository/postgres/migrator"
	user_postgres "yatube-post-service/internal/infrastructure/outbound/repository/user/postgres"
	session_memory "yatube-post-service/internal/infrastructure/outbound/session/memory"
)

func main() {
	_ = godotenv.Load()

	root := newRootCmd(loadRuntime)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load("./config")
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Env)
	metrics := prometheus_metrics.NewPrometheusMetricsProvider()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	validate := validation.New()
	groups := group_service.NewGroupService(group_postgres.NewGroupRepository(pool, log, metrics), validate, log)
	// The CLI never issues sessions, so the session store is a throwaway.
	users := auth_service.NewAuthService(user_postgres.NewUserRepository(pool, log, metrics), session_memory.NewSessionStore(),
		validate, []byte(cfg.Auth.JWTSecret), cfg.Auth.SessionTTL, log, metrics)

	return &runtime{
		groups: groups,
		users:  users,
		migrator: func() (schemaMigrator, error) {
			return migrator.New(cfg.Database.MigrationsPath, cfg.Database.DSN(), log)
		},
		close: pool.Close,
	}, nil
}
