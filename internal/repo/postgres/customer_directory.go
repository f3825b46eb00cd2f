package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gunvolt24/order_admission/internal/domain"
	"github.com/Gunvolt24/order_admission/internal/ports"
)

// Проверка, что CustomerDirectory удовлетворяет интерфейсу CustomerDirectory.
var _ ports.CustomerDirectory = (*CustomerDirectory)(nil)

// CustomerDirectory - справочник покупателей на Postgres.
type CustomerDirectory struct {
	pool *pgxpool.Pool
}

// NewCustomerDirectory - конструктор CustomerDirectory.
func NewCustomerDirectory(pool *pgxpool.Pool) *CustomerDirectory { return &CustomerDirectory{pool: pool} }

// FindByID - (nil, nil), если покупателя нет.
func (d *CustomerDirectory) FindByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	var c domain.Customer
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, email, created_at FROM customers WHERE id = $1
	`, customerID).Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select customer: %w", err)
	}
	return &c, nil
}
