package validate_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Gunvolt24/order_admission/internal/domain"
	"github.com/Gunvolt24/order_admission/pkg/validate"
)

func validRequest() *domain.PlaceOrderRequest {
	return &domain.PlaceOrderRequest{
		CustomerID: "c-1",
		Products: []domain.LineRequest{
			{ProductID: "p-1", Quantity: 2},
			{ProductID: "p-2", Quantity: 3},
		},
	}
}

func TestRequestValidator_Normalize(t *testing.T) {
	v := validate.NewRequestValidator()
	ctx := context.Background()

	t.Run("valid request", func(t *testing.T) {
		req := validRequest()
		got, err := v.Normalize(ctx, req)
		if err != nil {
			t.Fatalf("expected valid request, got: %v", err)
		}
		if len(got.Products) != 2 || got.Products[0].ProductID != "p-1" || got.Products[1].Quantity != 3 {
			t.Fatalf("unexpected normalized request: %+v", got)
		}
	})

	type testCase struct {
		name    string
		makeReq func() *domain.PlaceOrderRequest
		msg     string
	}

	cases := []testCase{
		{
			name:    "nil request",
			makeReq: func() *domain.PlaceOrderRequest { return nil },
			msg:     "request",
		},
		{
			name: "empty customer",
			makeReq: func() *domain.PlaceOrderRequest {
				r := validRequest()
				r.CustomerID = "  "
				return r
			},
			msg: "customer_id",
		},
		{
			name: "no products",
			makeReq: func() *domain.PlaceOrderRequest {
				r := validRequest()
				r.Products = nil
				return r
			},
			msg: "products must not be empty",
		},
		{
			name: "empty product id",
			makeReq: func() *domain.PlaceOrderRequest {
				r := validRequest()
				r.Products[1].ProductID = ""
				return r
			},
			msg: "products[1].id",
		},
		{
			name: "zero quantity",
			makeReq: func() *domain.PlaceOrderRequest {
				r := validRequest()
				r.Products[0].Quantity = 0
				return r
			},
			msg: "products[0].quantity must be positive",
		},
		{
			name: "negative quantity",
			makeReq: func() *domain.PlaceOrderRequest {
				r := validRequest()
				r.Products[1].Quantity = -1
				return r
			},
			msg: "products[1].quantity",
		},
		{
			name: "merged quantity overflow",
			makeReq: func() *domain.PlaceOrderRequest {
				r := validRequest()
				r.Products = []domain.LineRequest{
					{ProductID: "p-1", Quantity: math.MaxInt},
					{ProductID: "p-1", Quantity: 1},
				}
				return r
			},
			msg: "overflows",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Normalize(ctx, tc.makeReq())
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("expected message to contain %q, got %q", tc.msg, err.Error())
			}
		})
	}
}

func TestRequestValidator_MergesDuplicates(t *testing.T) {
	v := validate.NewRequestValidator()

	req := &domain.PlaceOrderRequest{
		CustomerID: "c-1",
		Products: []domain.LineRequest{
			{ProductID: "p-2", Quantity: 1},
			{ProductID: "p-1", Quantity: 2},
			{ProductID: "p-2", Quantity: 4},
		},
	}

	got, err := v.Normalize(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.LineRequest{{ProductID: "p-2", Quantity: 5}, {ProductID: "p-1", Quantity: 2}}
	if len(got.Products) != len(want) {
		t.Fatalf("want %d lines, got %d", len(want), len(got.Products))
	}
	for i := range want {
		if got.Products[i] != want[i] {
			t.Fatalf("line %d: want %+v, got %+v", i, want[i], got.Products[i])
		}
	}
	// исходный запрос не меняется
	if len(req.Products) != 3 || req.Products[0].Quantity != 1 {
		t.Fatalf("input mutated: %+v", req.Products)
	}
}
