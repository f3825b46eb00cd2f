package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewSampler_ClampsRatio(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{-1, "TraceIDRatioBased{0}"},
		{0.25, "TraceIDRatioBased{0.25}"},
		{7, "AlwaysOnSampler"},
	}
	for _, tt := range tests {
		desc := newSampler(tt.ratio).Description()
		require.True(t, strings.HasPrefix(desc, "ParentBased{root:"), desc)
		require.Contains(t, desc, tt.want)
	}
}

func TestSetupTracing_InstallsGlobalProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	// экспортёр не подключается при создании; без спанов Shutdown ничего не отправляет
	shutdown, err := SetupTracing(context.Background(), "order-admission-test", "", 1)
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	require.True(t, ok)
	require.NoError(t, shutdown(context.Background()))
}
