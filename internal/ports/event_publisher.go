package ports

import (
	"context"

	"github.com/Gunvolt24/order_admission/internal/domain"
)

// EventPublisher - публикация доменных событий о принятых заказах.
type EventPublisher interface {
	PublishOrderAdmitted(ctx context.Context, order *domain.Order) error
	Close() error
}
