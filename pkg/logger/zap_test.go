package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Gunvolt24/order_admission/pkg/ctxmeta"
)

func observed() (*ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewFromZap(zap.New(core)), logs
}

func TestZapLogger_AttachesRequestAndTraceIDs(t *testing.T) {
	l, logs := observed()

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	ctx = ctxmeta.WithRequestID(ctx, "rid-1")

	l.Warnf(ctx, "reservation conflict attempt=%d", 2)

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
	require.Equal(t, "reservation conflict attempt=2", entries[0].Message)

	fields := entries[0].ContextMap()
	require.Equal(t, "rid-1", fields["request_id"])
	require.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	require.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}

func TestZapLogger_NoMetadata_NoFields(t *testing.T) {
	l, logs := observed()

	l.Infof(context.Background(), "plain")
	l.Errorf(nil, "nil ctx") //nolint:staticcheck // nil ctx допустим

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Empty(t, entries[0].ContextMap())
	require.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}
