package memory

import (
	"context"
	"sync"

	"github.com/Gunvolt24/order_admission/internal/domain"
	"github.com/Gunvolt24/order_admission/internal/ports"
)

// Проверка, что CustomerDirectory удовлетворяет интерфейсу CustomerDirectory.
var _ ports.CustomerDirectory = (*CustomerDirectory)(nil)

// CustomerDirectory - справочник покупателей в памяти процесса.
type CustomerDirectory struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
}

// NewCustomerDirectory - конструктор с начальным набором покупателей.
func NewCustomerDirectory(customers ...domain.Customer) *CustomerDirectory {
	d := &CustomerDirectory{customers: make(map[string]domain.Customer, len(customers))}
	for _, c := range customers {
		d.customers[c.ID] = c
	}
	return d
}

// FindByID - (nil, nil), если покупателя нет.
func (d *CustomerDirectory) FindByID(_ context.Context, customerID string) (*domain.Customer, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.customers[customerID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// Upsert - добавить или заменить покупателя.
func (d *CustomerDirectory) Upsert(c domain.Customer) {
	d.mu.Lock()
	d.customers[c.ID] = c
	d.mu.Unlock()
}
