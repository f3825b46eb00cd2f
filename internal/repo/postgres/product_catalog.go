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

// Проверка, что ProductCatalog удовлетворяет интерфейсу ProductCatalog.
var _ ports.ProductCatalog = (*ProductCatalog)(nil)

// ProductCatalog - каталог товаров на Postgres.
//
// Reserve/Release блокируют строки товаров через SELECT ... ORDER BY id FOR UPDATE
// в одной транзакции: порядок захвата общий для всех заказов, поэтому циклов нет.
type ProductCatalog struct {
	pool *pgxpool.Pool
}

// NewProductCatalog - конструктор ProductCatalog.
func NewProductCatalog(pool *pgxpool.Pool) *ProductCatalog { return &ProductCatalog{pool: pool} }

// FindAllByID - снимок цен и остатков; неизвестные ID пропускаются.
func (c *ProductCatalog) FindAllByID(ctx context.Context, productIDs []string) ([]domain.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	rows, err := c.pool.Query(ctx, `
		SELECT id, name, price_cents, quantity
		FROM products
		WHERE id = ANY($1::text[])
		ORDER BY id
	`, productIDs)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	return scanProducts(rows, len(productIDs))
}

func scanProducts(rows pgx.Rows, capacity int) ([]domain.Product, error) {
	defer rows.Close()

	products := make([]domain.Product, 0, capacity)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Quantity); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("products rows: %w", err)
	}
	return products, nil
}

// All - весь каталог (для загрузки в Redis при старте).
func (c *ProductCatalog) All(ctx context.Context) ([]domain.Product, error) {
	rows, err := c.pool.Query(ctx, `SELECT id, name, price_cents, quantity FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select all products: %w", err)
	}
	return scanProducts(rows, 0)
}

// Reserve - списать остатки атомарно для всего списка.
func (c *ProductCatalog) Reserve(ctx context.Context, decrements []domain.Decrement) error {
	return c.adjust(ctx, "reserve", decrements, -1)
}

// Release - вернуть ранее списанные остатки.
func (c *ProductCatalog) Release(ctx context.Context, decrements []domain.Decrement) error {
	return c.adjust(ctx, "release", decrements, +1)
}

// adjust - изменить остатки на sign*amount под блокировкой строк.
// При sign < 0 достаточность перепроверяется под блокировкой.
func (c *ProductCatalog) adjust(ctx context.Context, op string, decrements []domain.Decrement, sign int) error {
	sorted := domain.SortedDecrements(decrements)
	if len(sorted) == 0 {
		return nil
	}

	ids := make([]string, 0, len(sorted))
	deltas := make([]int32, 0, len(sorted))
	for _, d := range sorted {
		if d.Amount < 0 {
			return fmt.Errorf("%s: negative amount for product %s", op, d.ProductID)
		}
		ids = append(ids, d.ProductID)
		deltas = append(deltas, int32(sign*d.Amount))
	}

	transaction, err := c.pool.Begin(ctx)
	if err != nil {
		return mapReservationError(op+": begin", err)
	}
	defer func() {
		// При уже завершённой транзакции Rollback вернёт ErrTxClosed, игнорируем.
		if rbErr := transaction.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	// 1) блокируем строки в порядке ID
	available, err := lockQuantities(ctx, transaction, ids)
	if err != nil {
		return mapReservationError(op+": lock products", err)
	}

	// 2) перепроверка под блокировкой
	var missing []string
	for _, d := range sorted {
		qty, ok := available[d.ProductID]
		if !ok {
			missing = append(missing, d.ProductID)
			continue
		}
		if sign < 0 && d.Amount > qty {
			return &domain.InsufficientStockError{ProductID: d.ProductID, Requested: d.Amount, Available: qty}
		}
	}
	if len(missing) > 0 {
		return &domain.ProductNotFoundError{Missing: missing}
	}

	// 3) одно обновление на весь список
	if _, err := transaction.Exec(ctx, `
		UPDATE products AS p
		SET quantity = p.quantity + d.delta
		FROM unnest($1::text[], $2::int4[]) AS d(id, delta)
		WHERE p.id = d.id
	`, ids, deltas); err != nil {
		return mapReservationError(op+": update quantities", err)
	}

	if err := transaction.Commit(ctx); err != nil {
		return mapReservationError(op+": commit", err)
	}
	return nil
}

func lockQuantities(ctx context.Context, tx pgx.Tx, ids []string) (map[string]int, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, quantity
		FROM products
		WHERE id = ANY($1::text[])
		ORDER BY id
		FOR UPDATE
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	available := make(map[string]int, len(ids))
	for rows.Next() {
		var (
			id  string
			qty int
		)
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, err
		}
		available[id] = qty
	}
	return available, rows.Err()
}
