//go:build integration

package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gunvolt24/order_admission/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeRequest - валидный запрос на заказ; по умолчанию одна строка на 1 шт.
func MakeRequest(customerID string, opts ...func(*domain.PlaceOrderRequest)) domain.PlaceOrderRequest {
	req := domain.PlaceOrderRequest{
		CustomerID: customerID,
		Products:   []domain.LineRequest{{ProductID: "prod-" + UniqSuffix(), Quantity: 1}},
	}
	for _, fn := range opts {
		fn(&req)
	}
	return req
}

// WithLine - заменить строки запроса одной строкой.
func WithLine(productID string, qty int) func(*domain.PlaceOrderRequest) {
	return func(r *domain.PlaceOrderRequest) {
		r.Products = []domain.LineRequest{{ProductID: productID, Quantity: qty}}
	}
}

// AddLine - добавить строку к запросу.
func AddLine(productID string, qty int) func(*domain.PlaceOrderRequest) {
	return func(r *domain.PlaceOrderRequest) {
		r.Products = append(r.Products, domain.LineRequest{ProductID: productID, Quantity: qty})
	}
}

// MakeDraft - черновик заказа для прямых тестов репозитория.
func MakeDraft(customerID string, lines ...domain.PricedLine) *domain.OrderDraft {
	return &domain.OrderDraft{CustomerID: customerID, Lines: lines}
}

// SeedCustomer - вставить покупателя с уникальным ID и вернуть этот ID.
func SeedCustomer(ctx context.Context, pool *pgxpool.Pool) (string, error) {
	id := "cust-" + UniqSuffix()
	_, err := pool.Exec(ctx, `INSERT INTO customers (id, name, email) VALUES ($1, $2, $3)`,
		id, "Test Customer", id+"@example.com")
	if err != nil {
		return "", fmt.Errorf("seed customer: %w", err)
	}
	return id, nil
}

// SeedProduct - вставить товар с уникальным ID и вернуть этот ID.
func SeedProduct(ctx context.Context, pool *pgxpool.Pool, priceCents int64, qty int) (string, error) {
	id := "prod-" + UniqSuffix()
	_, err := pool.Exec(ctx, `INSERT INTO products (id, name, price_cents, quantity) VALUES ($1, $2, $3, $4)`,
		id, "Item "+id, priceCents, qty)
	if err != nil {
		return "", fmt.Errorf("seed product: %w", err)
	}
	return id, nil
}

// ProductQuantity - текущий остаток товара.
func ProductQuantity(ctx context.Context, pool *pgxpool.Pool, productID string) (int, error) {
	var qty int
	err := pool.QueryRow(ctx, `SELECT quantity FROM products WHERE id = $1`, productID).Scan(&qty)
	return qty, err
}
