package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/order_admission/internal/domain"
	"github.com/Gunvolt24/order_admission/internal/ports"
	"github.com/Gunvolt24/order_admission/pkg/metrics"
	"github.com/Gunvolt24/order_admission/pkg/validate"
)

// Проверка, что AdmissionService удовлетворяет интерфейсу OrderAdmissionService.
var _ ports.OrderAdmissionService = (*AdmissionService)(nil)

const tracerName = "github.com/Gunvolt24/order_admission/internal/usecase"

// AdmissionConfig - параметры резервирования и компенсации.
type AdmissionConfig struct {
	// MaxAttempts - сколько раз пробовать Reserve и Release при конкурентном конфликте.
	MaxAttempts int
	// RetryBackoff - базовая пауза между попытками (удваивается, с equal-jitter).
	RetryBackoff time.Duration
	// CompensationTimeout - лимит на возврат резерва; отмена запроса на него не влияет.
	CompensationTimeout time.Duration
}

func (c AdmissionConfig) withDefaults() AdmissionConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 10 * time.Millisecond
	}
	if c.CompensationTimeout <= 0 {
		c.CompensationTimeout = 5 * time.Second
	}
	return c
}

// AdmissionOption - необязательные зависимости AdmissionService.
type AdmissionOption func(*AdmissionService)

// WithOrderCache - класть принятые заказы в кэш чтения.
func WithOrderCache(cache ports.OrderCache) AdmissionOption {
	return func(s *AdmissionService) { s.cache = cache }
}

// WithEventPublisher - публиковать событие OrderAdmitted после сохранения.
func WithEventPublisher(events ports.EventPublisher) AdmissionOption {
	return func(s *AdmissionService) { s.events = events }
}

// AdmissionService - приём заказа: проверка -> резерв остатков -> сохранение.
// Сохранение, упавшее после резерва, компенсируется возвратом остатков.
type AdmissionService struct {
	customers ports.CustomerDirectory
	catalog   ports.ProductCatalog
	orders    ports.OrderStore
	validator ports.RequestValidator
	log       ports.Logger
	cache     ports.OrderCache
	events    ports.EventPublisher
	cfg       AdmissionConfig
	tracer    trace.Tracer
}

// NewAdmissionService - DI-конструктор.
func NewAdmissionService(
	customers ports.CustomerDirectory,
	catalog ports.ProductCatalog,
	orders ports.OrderStore,
	validator ports.RequestValidator,
	log ports.Logger,
	cfg AdmissionConfig,
	opts ...AdmissionOption,
) *AdmissionService {
	s := &AdmissionService{
		customers: customers,
		catalog:   catalog,
		orders:    orders,
		validator: validator,
		log:       log,
		cfg:       cfg.withDefaults(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Admit - принять заказ. Ошибки бизнес-правил (domain.IsBusinessError) терминальны;
// domain.ErrReservationConflict означает исчерпание попыток и допускает повтор запроса.
func (s *AdmissionService) Admit(ctx context.Context, req *domain.PlaceOrderRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "AdmissionService.Admit")
	defer span.End()

	start := time.Now()
	order, err := s.admit(ctx, span, req)

	result := admissionResult(err)
	metrics.OrderAdmissions.WithLabelValues(result).Inc()
	metrics.OrderAdmissionDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.String("admission.result", result))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
	}
	return order, err
}

// AdmitFromMessage - принять заказ из сырого JSON (Kafka).
// Формат тот же, что у HTTP; неизвестные поля и хвостовые данные отклоняются.
func (s *AdmissionService) AdmitFromMessage(ctx context.Context, raw []byte) error {
	req, err := validate.DecodeRequest(raw)
	if err != nil {
		s.log.Warnf(ctx, "decode order request failed err=%v", err)
		return err
	}
	_, err = s.Admit(ctx, req)
	return err
}

func (s *AdmissionService) admit(ctx context.Context, span trace.Span, req *domain.PlaceOrderRequest) (*domain.Order, error) {
	normalized, err := s.validator.Normalize(ctx, req)
	if err != nil {
		s.log.Warnf(ctx, "order request rejected err=%v", err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("customer.id", normalized.CustomerID),
		attribute.Int("order.lines", len(normalized.Products)),
	)

	// Покупатель проверяется до любого обращения к каталогу.
	customer, err := s.customers.FindByID(ctx, normalized.CustomerID)
	if err != nil {
		s.log.Errorf(ctx, "customers.FindByID failed customer=%s err=%v", normalized.CustomerID, err)
		return nil, fmt.Errorf("find customer: %w", err)
	}
	if customer == nil {
		s.log.Warnf(ctx, "customer not found customer=%s", normalized.CustomerID)
		return nil, &domain.CustomerNotFoundError{CustomerID: normalized.CustomerID}
	}

	products, err := s.catalog.FindAllByID(ctx, normalized.ProductIDs())
	if err != nil {
		s.log.Errorf(ctx, "catalog.FindAllByID failed customer=%s err=%v", normalized.CustomerID, err)
		return nil, fmt.Errorf("find products: %w", err)
	}

	draft, err := priceLines(normalized, products)
	if err != nil {
		s.log.Warnf(ctx, "order request rejected customer=%s err=%v", normalized.CustomerID, err)
		return nil, err
	}

	decrements := draft.Decrements()
	if err := s.reserve(ctx, decrements); err != nil {
		return nil, err
	}

	// С этого места резерв зафиксирован: любая неудача ниже обязана его вернуть.
	order, err := s.orders.Create(ctx, draft)
	if err == nil && order == nil {
		err = errors.New("order store returned no order")
	}
	if err != nil {
		s.log.Errorf(ctx, "orders.Create failed customer=%s err=%v", draft.CustomerID, err)
		return nil, s.compensate(ctx, draft.CustomerID, decrements, err)
	}

	span.SetAttributes(attribute.String("order.id", order.ID))
	s.log.Infof(ctx, "order admitted id=%s customer=%s lines=%d total=%d",
		order.ID, order.CustomerID, len(order.Lines), order.TotalCents)

	s.afterAdmit(ctx, order)
	return order, nil
}

// reserve - Reserve с ограниченным числом повторов на domain.ErrReservationConflict.
// Нехватка остатка и прочие ошибки возвращаются сразу.
func (s *AdmissionService) reserve(ctx context.Context, decrements []domain.Decrement) error {
	attempts, err := s.retryOnConflict(ctx, "reservation", func(ctx context.Context) error {
		return s.catalog.Reserve(ctx, decrements)
	})
	switch {
	case err == nil:
		return nil
	case domain.IsBusinessError(err):
		s.log.Warnf(ctx, "reservation rejected attempt=%d err=%v", attempts, err)
		return err
	case errors.Is(err, domain.ErrReservationConflict):
		return fmt.Errorf("reserve stock after %d attempts: %w", attempts, err)
	default:
		s.log.Errorf(ctx, "catalog.Reserve failed attempt=%d err=%v", attempts, err)
		return fmt.Errorf("reserve stock: %w", err)
	}
}

// compensate - вернуть резерв после неудачного сохранения.
// Выполняется на контексте без отмены: отменённый запрос не должен оставить резерв.
// Конфликт при возврате повторяется так же, как при резервировании; RECONCILE пишется
// только после иной ошибки или исчерпания попыток.
func (s *AdmissionService) compensate(ctx context.Context, customerID string, decrements []domain.Decrement, cause error) error {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.CompensationTimeout)
	defer cancel()

	attempts, err := s.retryOnConflict(releaseCtx, "release", func(ctx context.Context) error {
		return s.catalog.Release(ctx, decrements)
	})
	if err != nil {
		metrics.Compensations.WithLabelValues("failed").Inc()
		s.log.Errorf(ctx, "RECONCILE stock release failed customer=%s decrements=%s attempts=%d cause=%v err=%v",
			customerID, formatDecrements(decrements), attempts, cause, err)
		return &domain.PersistenceFailedError{CustomerID: customerID, Compensated: false, Err: cause}
	}

	metrics.Compensations.WithLabelValues("released").Inc()
	s.log.Warnf(ctx, "stock released after failed persistence customer=%s decrements=%s attempts=%d",
		customerID, formatDecrements(decrements), attempts)
	return &domain.PersistenceFailedError{CustomerID: customerID, Compensated: true, Err: cause}
}

// retryOnConflict - вызывать op, пока он возвращает domain.ErrReservationConflict,
// но не больше MaxAttempts раз, с экспоненциальной задержкой и джиттером.
// Возвращает число сделанных попыток и последнюю ошибку.
func (s *AdmissionService) retryOnConflict(ctx context.Context, name string, op func(context.Context) error) (int, error) {
	backoff := s.cfg.RetryBackoff

	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil || !errors.Is(err, domain.ErrReservationConflict) {
			return attempt, err
		}

		metrics.ReservationConflicts.Inc()
		if attempt >= s.cfg.MaxAttempts {
			s.log.Warnf(ctx, "%s conflict: attempts exhausted attempts=%d", name, attempt)
			return attempt, err
		}

		sleep := withJitterEqual(backoff)
		s.log.Warnf(ctx, "%s conflict attempt=%d (will retry in %s)", name, attempt, sleep)
		select {
		case <-ctx.Done():
			return attempt, ctx.Err()
		case <-time.After(sleep):
		}
		backoff *= 2
	}
}

// afterAdmit - кэш и событие. Обе операции необязательные: их ошибки только логируются.
func (s *AdmissionService) afterAdmit(ctx context.Context, order *domain.Order) {
	if s.cache != nil {
		if err := s.cache.Set(ctx, order); err != nil {
			s.log.Warnf(ctx, "cache.Set failed order=%s err=%v", order.ID, err)
		}
	}
	if s.events == nil {
		return
	}
	// Заказ уже сохранён; публикуем, даже если клиент успел отключиться.
	if err := s.events.PublishOrderAdmitted(context.WithoutCancel(ctx), order); err != nil {
		metrics.OrderEventsPublished.WithLabelValues("failed").Inc()
		s.log.Warnf(ctx, "publish OrderAdmitted failed order=%s err=%v", order.ID, err)
		return
	}
	metrics.OrderEventsPublished.WithLabelValues("ok").Inc()
}

// admissionResult - метка результата для метрик и трейсинга.
func admissionResult(err error) string {
	switch {
	case err == nil:
		return "admitted"
	case errors.Is(err, domain.ErrPersistenceFailed):
		return "persistence_failed"
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid"
	case errors.Is(err, domain.ErrCustomerNotFound):
		return "customer_not_found"
	case errors.Is(err, domain.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrReservationConflict):
		return "reservation_conflict"
	default:
		return "error"
	}
}

func formatDecrements(decrements []domain.Decrement) string {
	parts := make([]string, 0, len(decrements))
	for _, d := range decrements {
		parts = append(parts, fmt.Sprintf("%s:%d", d.ProductID, d.Amount))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// withJitterEqual - половина задержки фиксирована, вторая половина случайна.
func withJitterEqual(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + rand.N(d-half+1)
}
