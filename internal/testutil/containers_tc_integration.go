//go:build integration

package testutil

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/testcontainers/testcontainers-go/wait"
)

var tcLogger = log.New(os.Stdout, "[tc] ", log.LstdFlags)

// lifecycleHooks - пишет в tcLogger старт и остановку контейнера.
func lifecycleHooks(image string) tc.ContainerLifecycleHooks {
	return tc.ContainerLifecycleHooks{
		PostStarts: []tc.ContainerHook{
			func(_ context.Context, c tc.Container) error {
				tcLogger.Printf("started image=%s id=%.12s", image, c.GetContainerID())
				return nil
			},
		},
		PreTerminates: []tc.ContainerHook{
			func(_ context.Context, c tc.Container) error {
				tcLogger.Printf("terminating image=%s id=%.12s", image, c.GetContainerID())
				return nil
			},
		},
	}
}

// PGContainer - база для интеграционных тестов репозиториев и e2e.
type PGContainer struct {
	Pool *pgxpool.Pool
	DSN  string
}

const pgImage = "postgres:16-alpine"

func StartPostgresTC(ctx context.Context) (*PGContainer, func(context.Context) error, error) {
	pg, err := postgres.Run(
		ctx,
		pgImage,
		tc.WithLifecycleHooks(lifecycleHooks(pgImage)),
		tc.WithExposedPorts("5432/tcp"),
		postgres.WithDatabase("admission"),
		postgres.WithUsername("app"),
		postgres.WithPassword("app"),
		tc.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			).WithDeadline(60*time.Second),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run postgres: %w", err)
	}

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, nil, fmt.Errorf("postgres dsn: %w", err)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, nil, fmt.Errorf("parse pool config: %w", err)
	}
	// конкурентные тесты резервирования держат несколько соединений одновременно
	cfg.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, nil, fmt.Errorf("new pool: %w", err)
	}

	stop := func(c context.Context) error {
		pool.Close()
		return pg.Terminate(c)
	}
	return &PGContainer{Pool: pool, DSN: dsn}, stop, nil
}

// RedisEnv - адрес redis для тестов кэша и каталога остатков.
type RedisEnv struct {
	Addr string
}

const redisImage = "redis:7-alpine"

func StartRedisTC(ctx context.Context) (*RedisEnv, func(context.Context) error, error) {
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:          redisImage,
			ExposedPorts:   []string{"6379/tcp"},
			LifecycleHooks: []tc.ContainerLifecycleHooks{lifecycleHooks(redisImage)},
			WaitingFor:     wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("run redis: %w", err)
	}

	addr, err := c.PortEndpoint(ctx, "6379/tcp", "")
	if err != nil {
		_ = tc.TerminateContainer(c)
		return nil, nil, fmt.Errorf("redis endpoint: %w", err)
	}

	stop := func(_ context.Context) error { return tc.TerminateContainer(c) }
	return &RedisEnv{Addr: addr}, stop, nil
}

// KafkaEnv - брокер redpanda; BaseTopic - префикс для уникальных топиков каждого теста.
type KafkaEnv struct {
	Brokers   []string
	BaseTopic string
}

const redpandaImage = "docker.redpanda.com/redpandadata/redpanda:v23.3.8"

func StartKafkaTC(ctx context.Context, baseTopic string) (*KafkaEnv, func(context.Context) error, error) {
	rp, err := redpanda.Run(
		ctx,
		redpandaImage,
		tc.WithLifecycleHooks(lifecycleHooks(redpandaImage)),
		redpanda.WithAutoCreateTopics(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run redpanda: %w", err)
	}

	seed, err := rp.KafkaSeedBroker(ctx)
	if err != nil {
		_ = tc.TerminateContainer(rp)
		return nil, nil, fmt.Errorf("seed broker: %w", err)
	}

	stop := func(_ context.Context) error { return tc.TerminateContainer(rp) }
	return &KafkaEnv{Brokers: []string{seed}, BaseTopic: baseTopic}, stop, nil
}
