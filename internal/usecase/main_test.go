package usecase_test

import (
	"context"
	"testing"

	"go.uber.org/goleak"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
