package ports

import (
	"context"

	"github.com/Gunvolt24/order_admission/internal/domain"
)

// RequestValidator - проверка и нормализация запроса на заказ.
// Возвращает новый запрос (дубликаты товаров объединены), исходный не меняет.
type RequestValidator interface {
	Normalize(ctx context.Context, req *domain.PlaceOrderRequest) (*domain.PlaceOrderRequest, error)
}
