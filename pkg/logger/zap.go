package logger

import (
	"context"

	"go.uber.org/zap"

	"github.com/Gunvolt24/order_admission/internal/ports"
	"github.com/Gunvolt24/order_admission/pkg/ctxmeta"
)

// Проверка, что ZapLogger удовлетворяет интерфейсу Logger.
var _ ports.Logger = (*ZapLogger)(nil)

// ZapLogger - ports.Logger поверх zap. Метаданные запроса из контекста
// (request_id, trace_id, span_id) добавляются к записи как поля.
type ZapLogger struct {
	base   *zap.Logger
	sugar  *zap.SugaredLogger
	isProd bool
}

func NewZapLogger(isProd bool) (*ZapLogger, func() error, error) {
	var (
		logger *zap.Logger
		err    error
	)

	if isProd {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, nil, err
	}

	return wrap(logger, isProd), func() error { return logger.Sync() }, nil
}

// NewFromZap - обёртка над готовым *zap.Logger (тесты, observer).
func NewFromZap(logger *zap.Logger) *ZapLogger { return wrap(logger, false) }

func wrap(logger *zap.Logger, isProd bool) *ZapLogger {
	return &ZapLogger{
		base:   logger,
		sugar:  logger.Sugar(),
		isProd: isProd,
	}
}

func (z *ZapLogger) Infof(ctx context.Context, format string, args ...any) {
	z.withContext(ctx).Infof(format, args...)
}
func (z *ZapLogger) Warnf(ctx context.Context, format string, args ...any) {
	z.withContext(ctx).Warnf(format, args...)
}
func (z *ZapLogger) Errorf(ctx context.Context, format string, args ...any) {
	z.withContext(ctx).Errorf(format, args...)
}

func (z *ZapLogger) Base() *zap.Logger           { return z.base }
func (z *ZapLogger) Sugared() *zap.SugaredLogger { return z.sugar }

// withContext - sugar с полями из контекста; без метаданных возвращает базовый.
func (z *ZapLogger) withContext(ctx context.Context) *zap.SugaredLogger {
	if ctx == nil {
		return z.sugar
	}

	fields := make([]any, 0, 6)
	if rid, ok := ctxmeta.RequestIDFromContext(ctx); ok {
		fields = append(fields, "request_id", rid)
	}
	if tid, ok := ctxmeta.TraceIDFromContext(ctx); ok {
		fields = append(fields, "trace_id", tid)
	}
	if sid, ok := ctxmeta.SpanIDFromContext(ctx); ok {
		fields = append(fields, "span_id", sid)
	}
	if len(fields) == 0 {
		return z.sugar
	}
	return z.sugar.With(fields...)
}
