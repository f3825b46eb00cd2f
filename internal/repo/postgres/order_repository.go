package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gunvolt24/order_admission/internal/domain"
	"github.com/Gunvolt24/order_admission/internal/ports"
)

// Проверка, что OrderRepository удовлетворяет интерфейсу OrderRepository.
var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository - реализация репозитория заказов на Postgres (pgxpool).
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository - конструктор OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository { return &OrderRepository{pool: pool} }

// Create - транзакционно сохраняет заказ и его строки (всё или ничего).
// ID генерируется здесь, время создания назначает БД.
func (r *OrderRepository) Create(ctx context.Context, draft *domain.OrderDraft) (*domain.Order, error) {
	if draft == nil || draft.CustomerID == "" {
		return nil, errors.New("order draft is empty or customer_id is required")
	}
	if len(draft.Lines) == 0 {
		return nil, errors.New("order draft has no lines")
	}

	order := &domain.Order{
		ID:         uuid.NewString(),
		CustomerID: draft.CustomerID,
		Lines:      append([]domain.PricedLine(nil), draft.Lines...),
		TotalCents: draft.Total(),
	}

	transaction, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		// При уже завершённой транзакции Rollback вернёт ErrTxClosed, игнорируем.
		if rbErr := transaction.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	// 1) orders
	if err := transaction.QueryRow(ctx, `
		INSERT INTO orders (id, customer_id, total_cents)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, order.ID, order.CustomerID, order.TotalCents).Scan(&order.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	// 2) order_lines через COPY
	if err := copyLines(ctx, transaction, order.ID, order.Lines); err != nil {
		return nil, err
	}

	if err := transaction.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	order.CreatedAt = order.CreatedAt.UTC()
	return order, nil
}

// GetByID - получить заказ со строками. Если не нашли, возвращает (nil, nil).
func (r *OrderRepository) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	order := &domain.Order{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, customer_id, total_cents, created_at
		FROM orders WHERE id = $1
	`, orderID).Scan(&order.ID, &order.CustomerID, &order.TotalCents, &order.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}

	if err := r.attachLines(ctx, []*domain.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// ListByCustomer - постраничный список заказов покупателя, новые первыми.
// Два запроса на страницу: базовые заказы + строки всех заказов страницы.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, total_cents, created_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select customer orders: %w", err)
	}

	orders, err := scanOrders(rows, limit)
	if err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// LastN - последние n заказов (для прогрева кэша).
func (r *OrderRepository) LastN(ctx context.Context, n int) ([]*domain.Order, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, total_cents, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, n)
	if err != nil {
		return nil, fmt.Errorf("select last orders: %w", err)
	}

	orders, err := scanOrders(rows, n)
	if err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ------вспомогательные функции------

func scanOrders(rows pgx.Rows, capacity int) ([]*domain.Order, error) {
	defer rows.Close()

	orders := make([]*domain.Order, 0, capacity)
	for rows.Next() {
		order := &domain.Order{}
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.TotalCents, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		order.CreatedAt = order.CreatedAt.UTC()
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders rows: %w", err)
	}
	return orders, nil
}

// attachLines - одним запросом подтянуть строки для всех заказов, сохраняя line_no.
func (r *OrderRepository) attachLines(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT order_id, product_id, quantity, price_cents
		FROM order_lines
		WHERE order_id = ANY($1::text[])
		ORDER BY order_id, line_no
	`, ids)
	if err != nil {
		return fmt.Errorf("select order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			line    domain.PricedLine
		)
		if err := rows.Scan(&orderID, &line.ProductID, &line.Quantity, &line.PriceCents); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		if o := byID[orderID]; o != nil {
			o.Lines = append(o.Lines, line)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("order lines rows: %w", err)
	}
	return nil
}

// copyLines - массовая вставка строк заказа через COPY.
func copyLines(ctx context.Context, tx pgx.Tx, orderID string, lines []domain.PricedLine) error {
	rows := make([][]any, 0, len(lines))
	for i, line := range lines {
		rows = append(rows, []any{orderID, int32(i + 1), line.ProductID, int32(line.Quantity), line.PriceCents})
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"order_lines"},
		[]string{"order_id", "line_no", "product_id", "quantity", "price_cents"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy order lines: %w", err)
	}
	return nil
}
