package domain

import (
	"sort"
	"time"
)

// LineRequest - запрошенная строка заказа: товар и количество.
type LineRequest struct {
	ProductID string `json:"id"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrderRequest - запрос на оформление заказа (формат HTTP и Kafka).
type PlaceOrderRequest struct {
	CustomerID string        `json:"customer_id"`
	Products   []LineRequest `json:"products"`
}

// PricedLine - строка заказа с ценой, зафиксированной в момент приёма.
// После создания не пересчитывается.
type PricedLine struct {
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

// OrderDraft - заказ, прошедший проверки и резервирование, но ещё не сохранённый.
type OrderDraft struct {
	CustomerID string       `json:"customer_id"`
	Lines      []PricedLine `json:"lines"`
}

// Order - сохранённый заказ. ID и CreatedAt назначает хранилище.
type Order struct {
	ID         string       `json:"id"`
	CustomerID string       `json:"customer_id"`
	Lines      []PricedLine `json:"lines"`
	TotalCents int64        `json:"total_cents"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Decrement - изменение остатка одного товара.
type Decrement struct {
	ProductID string `json:"product_id"`
	Amount    int    `json:"amount"`
}

// Total - сумма заказа в минимальных единицах валюты.
func (d *OrderDraft) Total() int64 {
	var total int64
	for _, line := range d.Lines {
		total += int64(line.Quantity) * line.PriceCents
	}
	return total
}

// Decrements - список списаний остатков для резервирования под черновик.
func (d *OrderDraft) Decrements() []Decrement {
	out := make([]Decrement, 0, len(d.Lines))
	for _, line := range d.Lines {
		out = append(out, Decrement{ProductID: line.ProductID, Amount: line.Quantity})
	}
	return out
}

// SortedDecrements - суммирует списания по товару и сортирует по ID.
// Порядок результата задаёт глобальный порядок захвата блокировок остатков.
func SortedDecrements(decrements []Decrement) []Decrement {
	byID := make(map[string]int, len(decrements))
	out := make([]Decrement, 0, len(decrements))
	for _, d := range decrements {
		if i, ok := byID[d.ProductID]; ok {
			out[i].Amount += d.Amount
			continue
		}
		byID[d.ProductID] = len(out)
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// ProductIDs - ID товаров в порядке строк запроса, без повторов.
func (r *PlaceOrderRequest) ProductIDs() []string {
	seen := make(map[string]struct{}, len(r.Products))
	ids := make([]string, 0, len(r.Products))
	for _, line := range r.Products {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}

// Clone - глубокая копия заказа.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	cloned := *o
	if o.Lines != nil {
		cloned.Lines = append([]PricedLine(nil), o.Lines...)
	}
	return &cloned
}
