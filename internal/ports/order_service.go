package ports

import (
	"context"

	"github.com/Gunvolt24/order_admission/internal/domain"
)

// OrderReadService - сервис чтения заказов.
type OrderReadService interface {
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	OrdersByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.Order, error)
}

// OrderAdmissionService - приём (оформление) заказа.
type OrderAdmissionService interface {
	Admit(ctx context.Context, req *domain.PlaceOrderRequest) (*domain.Order, error)
}
