package validate

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/Gunvolt24/order_admission/internal/domain"
	"github.com/Gunvolt24/order_admission/internal/ports"
)

// Проверка, что RequestValidator удовлетворяет интерфейсу RequestValidator.
var _ ports.RequestValidator = (*RequestValidator)(nil)

// RequestValidator - проверка формата запроса на заказ и объединение дубликатов.
type RequestValidator struct{}

// NewRequestValidator - конструктор RequestValidator.
// При любой проблеме возвращает *domain.InvalidRequestError.
func NewRequestValidator() *RequestValidator { return &RequestValidator{} }

// Normalize - проверяет запрос и возвращает его каноническую копию:
// строки с одинаковым товаром суммируются в первую по порядку.
func (v *RequestValidator) Normalize(_ context.Context, req *domain.PlaceOrderRequest) (*domain.PlaceOrderRequest, error) {
	if req == nil {
		return nil, invalid("request", "is required")
	}
	if strings.TrimSpace(req.CustomerID) == "" {
		return nil, invalid("customer_id", "is required")
	}
	if len(req.Products) == 0 {
		return nil, invalid("products", "must not be empty")
	}

	out := &domain.PlaceOrderRequest{
		CustomerID: req.CustomerID,
		Products:   make([]domain.LineRequest, 0, len(req.Products)),
	}
	index := make(map[string]int, len(req.Products))

	for i, line := range req.Products {
		field := "products[" + strconv.Itoa(i) + "]"
		if strings.TrimSpace(line.ProductID) == "" {
			return nil, invalid(field+".id", "is required")
		}
		if line.Quantity <= 0 {
			return nil, invalid(field+".quantity", "must be positive")
		}

		pos, seen := index[line.ProductID]
		if !seen {
			index[line.ProductID] = len(out.Products)
			out.Products = append(out.Products, line)
			continue
		}
		if out.Products[pos].Quantity > math.MaxInt-line.Quantity {
			return nil, invalid(field+".quantity", "overflows when merged")
		}
		out.Products[pos].Quantity += line.Quantity
	}
	return out, nil
}

func invalid(field, reason string) error {
	return &domain.InvalidRequestError{Field: field, Reason: reason}
}
