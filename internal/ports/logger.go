package ports

import "context"

// Logger - минимальный контракт логгера для внешних слоёв.
// В сообщения автоматически добавляются request_id/trace_id из контекста.
type Logger interface {
	Infof(ctx context.Context, format string, args ...any)
	Warnf(ctx context.Context, format string, args ...any)
	Errorf(ctx context.Context, format string, args ...any)
}
