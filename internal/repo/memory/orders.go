package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Gunvolt24/order_admission/internal/domain"
	"github.com/Gunvolt24/order_admission/internal/ports"
)

// Проверка, что OrderRepository удовлетворяет интерфейсу OrderRepository.
var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository - хранилище заказов в памяти процесса.
// Наружу отдаются только копии.
type OrderRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Order
	ordered []*domain.Order // в порядке создания
	now     func() time.Time
}

// NewOrderRepository - конструктор OrderRepository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		byID: make(map[string]*domain.Order),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Create - сохранить заказ; ID и время создания назначаются здесь.
func (r *OrderRepository) Create(ctx context.Context, draft *domain.OrderDraft) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if draft == nil || draft.CustomerID == "" || len(draft.Lines) == 0 {
		return nil, errors.New("order draft is empty")
	}

	order := &domain.Order{
		ID:         uuid.NewString(),
		CustomerID: draft.CustomerID,
		Lines:      append([]domain.PricedLine(nil), draft.Lines...),
		TotalCents: draft.Total(),
		CreatedAt:  r.now(),
	}

	r.mu.Lock()
	r.byID[order.ID] = order
	r.ordered = append(r.ordered, order)
	r.mu.Unlock()

	return order.Clone(), nil
}

// GetByID - (nil, nil), если заказа нет.
func (r *OrderRepository) GetByID(_ context.Context, orderID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[orderID].Clone(), nil
}

// ListByCustomer - заказы покупателя, новые первыми.
func (r *OrderRepository) ListByCustomer(_ context.Context, customerID string, limit, offset int) ([]*domain.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Order, 0, limit)
	skipped := 0
	for i := len(r.ordered) - 1; i >= 0 && len(out) < limit; i-- {
		o := r.ordered[i]
		if o.CustomerID != customerID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, o.Clone())
	}
	return out, nil
}

// LastN - последние n заказов, новые первыми.
func (r *OrderRepository) LastN(_ context.Context, n int) ([]*domain.Order, error) {
	if n <= 0 {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Order, 0, n)
	for i := len(r.ordered) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.ordered[i].Clone())
	}
	return out, nil
}
