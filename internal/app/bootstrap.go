package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Gunvolt24/order_admission/config"
	cachemem "github.com/Gunvolt24/order_admission/internal/cache/memory"
	"github.com/Gunvolt24/order_admission/internal/kafka"
	"github.com/Gunvolt24/order_admission/internal/ports"
	"github.com/Gunvolt24/order_admission/internal/repo/postgres"
	rest "github.com/Gunvolt24/order_admission/internal/transport/http"
	"github.com/Gunvolt24/order_admission/internal/usecase"
	"github.com/Gunvolt24/order_admission/pkg/logger"
	"github.com/Gunvolt24/order_admission/pkg/metrics"
	"github.com/Gunvolt24/order_admission/pkg/telemetry"
	"github.com/Gunvolt24/order_admission/pkg/validate"
)

// App - собранное приложение и его внешние интерфейсы (HTTP, consumer).
type App struct {
	Logger          ports.Logger          // логгер
	HTTPServer      *http.Server          // HTTP-сервер API
	MetricsServer   *http.Server          // отдельный сервер /metrics (может быть nil)
	KafkaConsumer   ports.MessageConsumer // консьюмер запросов на заказ
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-серверов
}

// Cleanup - функция освобождения ресурсов.
type Cleanup func()

// applyGinMode - устанавливает режим Gin по строке;
// неизвестное значение -> debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// Bootstrap - собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	// Стек очистки: выполняется в обратном порядке.
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}
	fail := func(err error) (*App, Cleanup, error) {
		cleanup()
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию no-op.
	if cfg.Tracing.Enabled {
		shutdownTrace, tErr := telemetry.SetupTracing(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			closers = append(closers, func() {
				if terr := shutdownTrace(context.Background()); terr != nil {
					logg.Warnf(ctx, "shutdown tracing: %v", terr)
				}
			})
		}
	}

	// Миграции до открытия пула.
	if cfg.Postgres.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.Postgres.DSN); err != nil {
			return fail(err)
		}
		logg.Infof(ctx, "postgres migrations applied")
	}

	// Пул подключений Postgres.
	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, pool.Close)

	// Каталог остатков выбранного бэкенда.
	pgCatalog := postgres.NewProductCatalog(pool)
	catalog, closeCatalog, err := buildCatalog(ctx, cfg, pgCatalog, logg)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, closeCatalog)
	logg.Infof(ctx, "product catalog backend=%s", cfg.Storage.CatalogBackend)

	// Сторона чтения.
	orderCache := cachemem.NewLRUCacheTTL(cfg.Cache.Capacity, cfg.Cache.TTL)
	orderRepo := postgres.NewOrderRepository(pool)
	orderService := usecase.NewOrderService(orderRepo, orderCache, logg)

	// Прогрев кэша
	if n := cfg.Cache.WarmUpN; n > 0 {
		if err := orderService.WarmUpCache(ctx, n); err != nil {
			logg.Warnf(ctx, "warm-up cache failed: %v", err)
		}
	}

	// Публикация OrderAdmitted.
	admissionOpts := []usecase.AdmissionOption{usecase.WithOrderCache(orderCache)}
	if cfg.Kafka.EventsTopic != "" {
		publisher := kafka.NewEventPublisher(&kafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.EventsTopic,
			WriteTimeout: cfg.Kafka.WriteTimeout,
		}, logg)
		closers = append(closers, func() {
			if err := publisher.Close(); err != nil {
				logg.Warnf(ctx, "kafka publisher close error: %v", err)
			}
		})
		admissionOpts = append(admissionOpts, usecase.WithEventPublisher(publisher))
	}

	// Приём заказов.
	admission := usecase.NewAdmissionService(
		postgres.NewCustomerDirectory(pool),
		catalog,
		orderRepo,
		validate.NewRequestValidator(),
		logg,
		usecase.AdmissionConfig{
			MaxAttempts:         cfg.Reservation.MaxAttempts,
			RetryBackoff:        cfg.Reservation.RetryBackoff,
			CompensationTimeout: cfg.Reservation.CompensationTimeout,
		},
		admissionOpts...,
	)

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	httpHandler := rest.NewHandler(orderService, admission, logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(httpHandler, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	// Конфигурация и создание консьюмера Kafka.
	kafkaCfg := kafka.ConsumerConfig{
		Brokers:         cfg.Kafka.Brokers,
		GroupID:         cfg.Kafka.GroupID,
		Topic:           cfg.Kafka.Topic,
		StartOffset:     cfg.Kafka.StartOffset,
		ProcessTimeout:  cfg.Kafka.ProcessTimeout,
		RetryInitial:    cfg.Kafka.RetryInitial,
		RetryMax:        cfg.Kafka.RetryMax,
		ProcessAttempts: cfg.Kafka.ProcessAttempts,
	}
	consumer := kafka.NewConsumer(&kafkaCfg, admission, logg)
	closers = append(closers, func() {
		if err := consumer.Close(); err != nil {
			logg.Warnf(ctx, "kafka consumer close error: %v", err)
		}
	})

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		MetricsServer:   newMetricsServer(cfg.Metrics.Addr, cfg.HTTP.Addr),
		KafkaConsumer:   consumer,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	return app, cleanup, nil
}

// newMetricsServer - отдельный /metrics, если адрес задан и не совпадает с API.
func newMetricsServer(addr, apiAddr string) *http.Server {
	if addr == "" || addr == apiAddr {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Run - запускает HTTP-серверы и консьюмера; ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 3)

	// Запуск консьюмера.
	go func() {
		a.Logger.Infof(ctx, "kafka consumer starting")
		if err := a.KafkaConsumer.Run(ctx); err != nil {
			errCh <- err
		}
	}()

	// Запуск HTTP-серверов.
	servers := []*http.Server{a.HTTPServer}
	if a.MetricsServer != nil {
		servers = append(servers, a.MetricsServer)
	}
	for _, srv := range servers {
		go func(srv *http.Server) {
			a.Logger.Infof(ctx, "http server starting (addr=%s)", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(srv)
	}

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-серверов.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warnf(ctx, "http server %s shutdown failed: %v", srv.Addr, err)
		} else {
			a.Logger.Infof(ctx, "http server %s stopped gracefully", srv.Addr)
		}
	}

	// Остановка Kafka-консьюмера
	if err := a.KafkaConsumer.Close(); err != nil {
		a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
