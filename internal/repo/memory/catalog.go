package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Gunvolt24/order_admission/internal/domain"
	"github.com/Gunvolt24/order_admission/internal/ports"
)

// Проверка, что ProductCatalog удовлетворяет интерфейсу ProductCatalog.
var _ ports.ProductCatalog = (*ProductCatalog)(nil)

// productSlot - товар и его собственная блокировка.
// Остаток меняется только под slot.mu.
type productSlot struct {
	mu      sync.Mutex
	product domain.Product
}

// ProductCatalog - каталог в памяти процесса с блокировкой на каждый товар.
//
// Reserve/Release захватывают блокировки товаров строго по возрастанию ID,
// поэтому два заказа с пересекающимися товарами не образуют цикл ожидания.
type ProductCatalog struct {
	mu    sync.RWMutex // защищает только карту slots
	slots map[string]*productSlot
}

// NewProductCatalog - конструктор с начальным набором товаров.
func NewProductCatalog(products ...domain.Product) *ProductCatalog {
	c := &ProductCatalog{slots: make(map[string]*productSlot, len(products))}
	for _, p := range products {
		c.slots[p.ID] = &productSlot{product: p}
	}
	return c
}

// FindAllByID - снимок цен и остатков; неизвестные ID пропускаются, повторы схлопываются.
func (c *ProductCatalog) FindAllByID(_ context.Context, productIDs []string) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(productIDs))
	seen := make(map[string]struct{}, len(productIDs))

	for _, id := range productIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		slot := c.slot(id)
		if slot == nil {
			continue
		}
		slot.mu.Lock()
		out = append(out, slot.product)
		slot.mu.Unlock()
	}
	return out, nil
}

// Reserve - списать остатки атомарно для всего списка.
func (c *ProductCatalog) Reserve(ctx context.Context, decrements []domain.Decrement) error {
	locked, err := c.lockSorted(ctx, decrements)
	if err != nil {
		return err
	}
	defer unlockAll(locked)

	// Повторная проверка под блокировками: с момента чтения остатки могли уйти.
	for _, l := range locked {
		if l.amount > l.slot.product.Quantity {
			return &domain.InsufficientStockError{
				ProductID: l.slot.product.ID,
				Requested: l.amount,
				Available: l.slot.product.Quantity,
			}
		}
	}
	for _, l := range locked {
		l.slot.product.Quantity -= l.amount
	}
	return nil
}

// Release - вернуть ранее списанные остатки.
func (c *ProductCatalog) Release(ctx context.Context, decrements []domain.Decrement) error {
	locked, err := c.lockSorted(ctx, decrements)
	if err != nil {
		return err
	}
	defer unlockAll(locked)

	for _, l := range locked {
		l.slot.product.Quantity += l.amount
	}
	return nil
}

// Upsert - добавить товар или заменить его целиком.
func (c *ProductCatalog) Upsert(p domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if slot, ok := c.slots[p.ID]; ok {
		slot.mu.Lock()
		slot.product = p
		slot.mu.Unlock()
		return
	}
	c.slots[p.ID] = &productSlot{product: p}
}

// SetPrice - изменить текущую цену товара. На принятые заказы не влияет.
func (c *ProductCatalog) SetPrice(productID string, priceCents int64) error {
	slot := c.slot(productID)
	if slot == nil {
		return &domain.ProductNotFoundError{Missing: []string{productID}}
	}
	slot.mu.Lock()
	slot.product.PriceCents = priceCents
	slot.mu.Unlock()
	return nil
}

// Product - текущее состояние товара.
func (c *ProductCatalog) Product(productID string) (domain.Product, bool) {
	slot := c.slot(productID)
	if slot == nil {
		return domain.Product{}, false
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.product, true
}

func (c *ProductCatalog) slot(productID string) *productSlot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.slots[productID]
}

type lockedSlot struct {
	slot   *productSlot
	amount int
}

// lockSorted - захватить блокировки всех товаров списка по возрастанию ID.
// При ошибке ничего не остаётся захваченным.
func (c *ProductCatalog) lockSorted(ctx context.Context, decrements []domain.Decrement) ([]lockedSlot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sorted := domain.SortedDecrements(decrements)
	slots := make([]lockedSlot, 0, len(sorted))
	var missing []string

	for _, d := range sorted {
		if d.Amount < 0 {
			return nil, fmt.Errorf("negative amount for product %s", d.ProductID)
		}
		slot := c.slot(d.ProductID)
		if slot == nil {
			missing = append(missing, d.ProductID)
			continue
		}
		slots = append(slots, lockedSlot{slot: slot, amount: d.Amount})
	}
	if len(missing) > 0 {
		return nil, &domain.ProductNotFoundError{Missing: missing}
	}

	for _, l := range slots {
		l.slot.mu.Lock()
	}
	return slots, nil
}

func unlockAll(locked []lockedSlot) {
	for i := len(locked) - 1; i >= 0; i-- {
		locked[i].slot.mu.Unlock()
	}
}
