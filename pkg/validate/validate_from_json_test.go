package validate

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/Gunvolt24/order_admission/internal/domain"
)

func TestValidateRequestFromJSON_OK(t *testing.T) {
	ctx := context.Background()
	validator := NewRequestValidator()

	req, err := ValidateRequestFromJSON(ctx, validator, []byte(minimalValidRequestJSON("c-1", "p-1", 2)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.CustomerID != "c-1" || len(req.Products) != 1 || req.Products[0].Quantity != 2 {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestValidateRequestFromJSON_UnknownField(t *testing.T) {
	ctx := context.Background()
	validator := NewRequestValidator()

	raw := `{"unknown":"x",` + minimalValidRequestJSON("c-1", "p-1", 1)[1:]
	_, err := ValidateRequestFromJSON(ctx, validator, []byte(raw))
	if err == nil || !strings.Contains(err.Error(), "invalid json") {
		t.Fatalf("expected invalid json error, got: %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("decode errors must be invalid requests, got: %v", err)
	}
}

func TestValidateRequestFromJSON_TrailingData(t *testing.T) {
	ctx := context.Background()
	validator := NewRequestValidator()

	raw := minimalValidRequestJSON("c-1", "p-1", 1) + "{}"
	_, err := ValidateRequestFromJSON(ctx, validator, []byte(raw))
	if err == nil || !strings.Contains(err.Error(), "trailing data") {
		t.Fatalf("expected trailing data error, got: %v", err)
	}
}

func TestValidateRequestFromJSON_DomainError(t *testing.T) {
	ctx := context.Background()
	validator := NewRequestValidator()

	// Не валиден: нулевое количество
	_, err := ValidateRequestFromJSON(ctx, validator, []byte(minimalValidRequestJSON("c-1", "p-1", 0)))
	if err == nil || !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected invalid request error, got %v", err)
	}
}

// ---- helpers ----

func minimalValidRequestJSON(customerID, productID string, quantity int) string {
	return `{
  "customer_id": "` + customerID + `",
  "products": [
    {"id": "` + productID + `", "quantity": ` + strconv.Itoa(quantity) + `}
  ]
}`
}

