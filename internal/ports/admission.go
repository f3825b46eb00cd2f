package ports

import (
	"context"

	"github.com/Gunvolt24/order_admission/internal/domain"
)

// CustomerDirectory - справочник покупателей.
type CustomerDirectory interface {
	// FindByID - вернуть покупателя; (nil, nil), если его нет.
	FindByID(ctx context.Context, customerID string) (*domain.Customer, error)
}

// ProductCatalog - каталог товаров с ценами и остатками.
// Требования к реализации: Reserve атомарен для всего списка (всё или ничего),
// эксклюзивный доступ к остаткам берётся в порядке сортировки ID товаров.
type ProductCatalog interface {
	// FindAllByID - не более одной записи на ID; неизвестные ID пропускаются.
	FindAllByID(ctx context.Context, productIDs []string) ([]domain.Product, error)

	// Reserve - списать остатки. При нехватке возвращает *domain.InsufficientStockError
	// и ничего не списывает; при конкурентном конфликте - domain.ErrReservationConflict.
	Reserve(ctx context.Context, decrements []domain.Decrement) error

	// Release - компенсация: вернуть ранее зарезервированные остатки.
	Release(ctx context.Context, decrements []domain.Decrement) error
}

// OrderStore - запись заказов.
type OrderStore interface {
	// Create - сохранить заказ целиком (заказ + строки) или ничего.
	Create(ctx context.Context, draft *domain.OrderDraft) (*domain.Order, error)
}

// OrderRepository - хранилище заказов с чтением для API и прогрева кэша.
type OrderRepository interface {
	OrderStore
	GetByID(ctx context.Context, orderID string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.Order, error)
	LastN(ctx context.Context, n int) ([]*domain.Order, error)
}
