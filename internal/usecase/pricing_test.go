package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/order_admission/internal/domain"
)

func TestPriceLines(t *testing.T) {
	catalog := []domain.Product{
		{ID: "P1", PriceCents: 10, Quantity: 5},
		{ID: "P2", PriceCents: 20, Quantity: 3},
	}

	tests := []struct {
		name      string
		lines     []domain.LineRequest
		wantErr   error
		wantLines []domain.PricedLine
	}{
		{
			name:  "ok",
			lines: []domain.LineRequest{{ProductID: "P2", Quantity: 3}, {ProductID: "P1", Quantity: 1}},
			wantLines: []domain.PricedLine{
				{ProductID: "P2", Quantity: 3, PriceCents: 20},
				{ProductID: "P1", Quantity: 1, PriceCents: 10},
			},
		},
		{
			name:    "missing wins over insufficient",
			lines:   []domain.LineRequest{{ProductID: "P1", Quantity: 99}, {ProductID: "X", Quantity: 1}},
			wantErr: domain.ErrProductNotFound,
		},
		{
			name:    "insufficient",
			lines:   []domain.LineRequest{{ProductID: "P1", Quantity: 1}, {ProductID: "P2", Quantity: 4}},
			wantErr: domain.ErrInsufficientStock,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			draft, err := priceLines(&domain.PlaceOrderRequest{CustomerID: "C", Products: tt.lines}, catalog)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, draft)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "C", draft.CustomerID)
			assert.Equal(t, tt.wantLines, draft.Lines)
		})
	}
}

func TestPriceLines_ReportsEveryMissingID(t *testing.T) {
	_, err := priceLines(&domain.PlaceOrderRequest{
		CustomerID: "C",
		Products:   []domain.LineRequest{{ProductID: "X", Quantity: 1}, {ProductID: "P1", Quantity: 1}, {ProductID: "Y", Quantity: 1}},
	}, []domain.Product{{ID: "P1", Quantity: 1}})

	var notFound *domain.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []string{"X", "Y"}, notFound.Missing)
}

func TestWithJitterEqual_Bounds(t *testing.T) {
	assert.Equal(t, int64(0), int64(withJitterEqual(0)))
	for i := 0; i < 100; i++ {
		d := withJitterEqual(100)
		assert.GreaterOrEqual(t, int64(d), int64(50))
		assert.LessOrEqual(t, int64(d), int64(100))
	}
}

func TestAdmissionResult_Labels(t *testing.T) {
	assert.Equal(t, "admitted", admissionResult(nil))
	assert.Equal(t, "persistence_failed", admissionResult(&domain.PersistenceFailedError{Err: errors.New("x")}))
	assert.Equal(t, "reservation_conflict", admissionResult(domain.ErrReservationConflict))
	assert.Equal(t, "customer_not_found", admissionResult(&domain.CustomerNotFoundError{}))
	assert.Equal(t, "error", admissionResult(errors.New("boom")))
}
