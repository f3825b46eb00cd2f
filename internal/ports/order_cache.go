package ports

import (
	"context"

	"github.com/Gunvolt24/order_admission/internal/domain"
)

// OrderCache - интерфейс кэша заказов.
// Требования к реализации: потокобезопасность; доступ по ключу не хуже O(1); возврат копий сущности.
type OrderCache interface {
	// Get - вернуть заказ по ID; (order, true) при попадании, (nil, false) при промахе/истечении.
	Get(ctx context.Context, orderID string) (*domain.Order, bool)

	// Set - сохранить/обновить заказ в кэше.
	Set(ctx context.Context, order *domain.Order) error

	// WarmUp - массовая загрузка кэша (например, при старте).
	WarmUp(ctx context.Context, orders []*domain.Order) error
}
