package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/order_admission/internal/domain"
)

func TestStructuredErrors_MatchSentinels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		sentinel error
		business bool
	}{
		{"invalid", &domain.InvalidRequestError{Field: "customer_id", Reason: "is required"}, domain.ErrInvalidRequest, true},
		{"customer", &domain.CustomerNotFoundError{CustomerID: "c-1"}, domain.ErrCustomerNotFound, true},
		{"product", &domain.ProductNotFoundError{Missing: []string{"p-1", "p-2"}}, domain.ErrProductNotFound, true},
		{"stock", &domain.InsufficientStockError{ProductID: "p-1", Requested: 3, Available: 1}, domain.ErrInsufficientStock, true},
		{"persistence", &domain.PersistenceFailedError{CustomerID: "c-1", Compensated: true, Err: errors.New("db down")}, domain.ErrPersistenceFailed, false},
		{"conflict", fmt.Errorf("reserve: %w", domain.ErrReservationConflict), domain.ErrReservationConflict, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wrapped := fmt.Errorf("admit: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Equal(t, tt.business, domain.IsBusinessError(wrapped))
		})
	}
}

func TestInsufficientStockError_CarriesDetails(t *testing.T) {
	err := fmt.Errorf("reserve: %w", &domain.InsufficientStockError{ProductID: "p-9", Requested: 5, Available: 2})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "p-9", stockErr.ProductID)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)
	assert.Contains(t, err.Error(), "product=p-9 requested=5 available=2")
}

func TestPersistenceFailedError_UnwrapsCause(t *testing.T) {
	err := &domain.PersistenceFailedError{CustomerID: "c-1", Err: context.DeadlineExceeded}

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, domain.ErrPersistenceFailed)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestOrderDraft_TotalAndDecrements(t *testing.T) {
	draft := domain.OrderDraft{
		CustomerID: "c-1",
		Lines: []domain.PricedLine{
			{ProductID: "p-1", Quantity: 2, PriceCents: 10},
			{ProductID: "p-2", Quantity: 3, PriceCents: 20},
		},
	}

	assert.Equal(t, int64(80), draft.Total())
	assert.Equal(t, []domain.Decrement{{ProductID: "p-1", Amount: 2}, {ProductID: "p-2", Amount: 3}}, draft.Decrements())
}

func TestOrder_CloneIsDeep(t *testing.T) {
	o := &domain.Order{ID: "o-1", Lines: []domain.PricedLine{{ProductID: "p-1", Quantity: 1, PriceCents: 10}}}
	c := o.Clone()
	c.Lines[0].PriceCents = 999

	assert.Equal(t, int64(10), o.Lines[0].PriceCents)
	assert.Nil(t, (*domain.Order)(nil).Clone())
}

func TestSortedDecrements_MergesAndSorts(t *testing.T) {
	in := []domain.Decrement{
		{ProductID: "p-3", Amount: 1},
		{ProductID: "p-1", Amount: 2},
		{ProductID: "p-3", Amount: 4},
	}

	got := domain.SortedDecrements(in)

	assert.Equal(t, []domain.Decrement{{ProductID: "p-1", Amount: 2}, {ProductID: "p-3", Amount: 5}}, got)
	assert.Equal(t, "p-3", in[0].ProductID, "input must stay untouched")
}

func TestPlaceOrderRequest_ProductIDsDistinctInRequestOrder(t *testing.T) {
	req := domain.PlaceOrderRequest{Products: []domain.LineRequest{
		{ProductID: "b", Quantity: 1},
		{ProductID: "a", Quantity: 1},
		{ProductID: "b", Quantity: 2},
	}}

	assert.Equal(t, []string{"b", "a"}, req.ProductIDs())
}
