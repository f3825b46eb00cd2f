package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Базовые (sentinel) ошибки приёма заказа. Структурные ошибки ниже
// сопоставляются с ними через errors.Is.
var (
	ErrInvalidRequest      = errors.New("invalid order request")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrReservationConflict = errors.New("reservation conflict")
	ErrPersistenceFailed   = errors.New("order persistence failed")
)

// InvalidRequestError - запрос не прошёл проверку формата.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidRequest, e.Field, e.Reason)
}

func (e *InvalidRequestError) Is(target error) bool { return target == ErrInvalidRequest }

// CustomerNotFoundError - покупатель с указанным ID не найден.
type CustomerNotFoundError struct {
	CustomerID string
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("%s: id=%s", ErrCustomerNotFound, e.CustomerID)
}

func (e *CustomerNotFoundError) Is(target error) bool { return target == ErrCustomerNotFound }

// ProductNotFoundError - часть запрошенных товаров отсутствует в каталоге.
type ProductNotFoundError struct {
	Missing []string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("%s: ids=%s", ErrProductNotFound, strings.Join(e.Missing, ","))
}

func (e *ProductNotFoundError) Is(target error) bool { return target == ErrProductNotFound }

// InsufficientStockError - остатка товара не хватает на запрошенное количество.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: product=%s requested=%d available=%d",
		ErrInsufficientStock, e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// PersistenceFailedError - хранилище заказов не приняло запись после резервирования.
// Compensated=false означает, что резерв вернуть не удалось и нужна ручная сверка.
type PersistenceFailedError struct {
	CustomerID  string
	Compensated bool
	Err         error
}

func (e *PersistenceFailedError) Error() string {
	return fmt.Sprintf("%s: customer=%s compensated=%t: %v", ErrPersistenceFailed, e.CustomerID, e.Compensated, e.Err)
}

func (e *PersistenceFailedError) Is(target error) bool { return target == ErrPersistenceFailed }

func (e *PersistenceFailedError) Unwrap() error { return e.Err }

// IsBusinessError - ошибка бизнес-правил: повтор того же запроса бесполезен,
// вызывающий должен исправить вход.
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrInsufficientStock)
}
