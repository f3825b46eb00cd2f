package usecase

import "github.com/Gunvolt24/order_admission/internal/domain"

// priceLines - проверка наличия и достаточности остатков по снимку каталога и
// фиксация цен. Внешнее состояние не читает и не меняет.
//
// Строки проверяются в порядке запроса; первая нехватка и есть ответ.
func priceLines(req *domain.PlaceOrderRequest, products []domain.Product) (*domain.OrderDraft, error) {
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var missing []string
	for _, id := range req.ProductIDs() {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.ProductNotFoundError{Missing: missing}
	}

	draft := &domain.OrderDraft{
		CustomerID: req.CustomerID,
		Lines:      make([]domain.PricedLine, 0, len(req.Products)),
	}
	for _, line := range req.Products {
		product := byID[line.ProductID]
		if line.Quantity > product.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: product.Quantity,
			}
		}
		draft.Lines = append(draft.Lines, domain.PricedLine{
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			PriceCents: product.PriceCents,
		})
	}
	return draft, nil
}
