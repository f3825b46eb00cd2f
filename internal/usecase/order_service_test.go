package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/Gunvolt24/order_admission/internal/domain"
	"github.com/Gunvolt24/order_admission/internal/ports/mocks"
	"github.com/Gunvolt24/order_admission/internal/usecase"
)

const orderID = "order-1"

func TestGetOrder_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockOrderRepository(ctrl)
	cache := mocks.NewMockOrderCache(ctrl)

	o := &domain.Order{ID: orderID}

	cache.EXPECT().Get(gomock.Any(), orderID).Return(o, true)

	svc := usecase.NewOrderService(repo, cache, noopLogger{})

	got, err := svc.GetOrder(context.Background(), orderID)
	if err != nil || got == nil || got.ID != orderID {
		t.Fatalf("expected hit, got err=%v, order=%+v", err, got)
	}
}

func TestGetOrder_CacheMiss_FetchAndCache(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockOrderRepository(ctrl)
	cache := mocks.NewMockOrderCache(ctrl)

	o := &domain.Order{ID: orderID}

	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), orderID).Return(nil, false),
		repo.EXPECT().GetByID(gomock.Any(), orderID).Return(o, nil),
		cache.EXPECT().Set(gomock.Any(), o),
	)

	svc := usecase.NewOrderService(repo, cache, noopLogger{})

	got, err := svc.GetOrder(context.Background(), orderID)
	if err != nil || got == nil || got.ID != orderID {
		t.Fatalf("expected miss, got err=%v, order=%+v", err, got)
	}
}

func TestGetOrder_CacheMiss_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockOrderRepository(ctrl)
	cache := mocks.NewMockOrderCache(ctrl)

	cache.EXPECT().Get(gomock.Any(), orderID).Return(nil, false)
	repoErr := errors.New("DB down")
	repo.EXPECT().GetByID(gomock.Any(), orderID).Return(nil, repoErr)

	svc := usecase.NewOrderService(repo, cache, noopLogger{})
	got, err := svc.GetOrder(context.Background(), orderID)
	if err == nil || !errors.Is(err, repoErr) {
		t.Fatalf("expected repo error, got order=%v, err=%+v", got, err)
	}
}

func TestGetOrder_CacheMiss_NotFound_NoCache(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockOrderRepository(ctrl)
	cache := mocks.NewMockOrderCache(ctrl)

	cache.EXPECT().Get(gomock.Any(), orderID).Return(nil, false)
	repo.EXPECT().GetByID(gomock.Any(), orderID).Return(nil, nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any()).Times(0)

	svc := usecase.NewOrderService(repo, cache, noopLogger{})
	got, err := svc.GetOrder(context.Background(), orderID)
	if err != nil || got != nil {
		t.Fatalf("expected not found, got order=%v, err=%+v", got, err)
	}
}

func TestGetOrder_CacheMiss_CacheSetWarnOnly(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockOrderRepository(ctrl)
	cache := mocks.NewMockOrderCache(ctrl)

	o := &domain.Order{ID: orderID}

	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), orderID).Return(nil, false),
		repo.EXPECT().GetByID(gomock.Any(), orderID).Return(o, nil),
		cache.EXPECT().Set(gomock.Any(), o).Return(errors.New("cache set failed")),
	)

	svc := usecase.NewOrderService(repo, cache, noopLogger{})
	got, err := svc.GetOrder(context.Background(), orderID)
	if err != nil || got == nil || got.ID != orderID {
		t.Fatalf("expected miss, got err=%v, order=%+v", err, got)
	}
}

func TestOrdersByCustomer_Proxy(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockOrderRepository(ctrl)
	cache := mocks.NewMockOrderCache(ctrl)

	want := []*domain.Order{{ID: "o-1"}, {ID: "o-2"}}
	repo.EXPECT().ListByCustomer(gomock.Any(), "c-1", 10, 5).Return(want, nil)

	svc := usecase.NewOrderService(repo, cache, noopLogger{})
	got, err := svc.OrdersByCustomer(context.Background(), "c-1", 10, 5)
	if err != nil || len(got) != 2 {
		t.Fatalf("unexpected result: %v %v", got, err)
	}
}

func TestWarmUpCache_SkipWhenLessThanZero(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockOrderRepository(ctrl)
	cache := mocks.NewMockOrderCache(ctrl)

	svc := usecase.NewOrderService(repo, cache, noopLogger{})
	if err := svc.WarmUpCache(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWarmUpCache_LoadsLastN(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockOrderRepository(ctrl)
	cache := mocks.NewMockOrderCache(ctrl)

	list := []*domain.Order{{ID: "o-1"}}
	gomock.InOrder(
		repo.EXPECT().LastN(gomock.Any(), 100).Return(list, nil),
		cache.EXPECT().WarmUp(gomock.Any(), list).Return(nil),
	)

	svc := usecase.NewOrderService(repo, cache, noopLogger{})
	if err := svc.WarmUpCache(context.Background(), 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWarmUpCache_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockOrderRepository(ctrl)
	cache := mocks.NewMockOrderCache(ctrl)

	repo.EXPECT().LastN(gomock.Any(), 10).Return(nil, errors.New("db down"))
	cache.EXPECT().WarmUp(gomock.Any(), gomock.Any()).Times(0)

	svc := usecase.NewOrderService(repo, cache, noopLogger{})
	if err := svc.WarmUpCache(context.Background(), 10); err == nil {
		t.Fatalf("expected error")
	}
}
