package rest

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/order_admission/internal/domain"
	"github.com/Gunvolt24/order_admission/pkg/validate"
)

// placeOrder - POST /orders.
//
//	201 - заказ принят
//	400 - невалидный запрос
//	404 - нет покупателя или товаров (missing - список ID)
//	409 - не хватает остатка
//	503 - конфликт резерва, повторите позже
//	500 - заказ не сохранён
func (h *Handler) placeOrder(c *gin.Context) {
	ctx := c.Request.Context()

	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body: " + err.Error()})
		return
	}
	req, err := validate.DecodeRequest(raw)
	if err != nil {
		h.writeAdmissionError(c, err)
		return
	}

	order, err := h.admission.Admit(ctx, req)
	if err != nil {
		h.writeAdmissionError(c, err)
		return
	}

	c.Header("Location", "/order/"+order.ID)
	c.JSON(http.StatusCreated, order)
}

// writeAdmissionError - отображение ошибок приёма заказа в HTTP-ответ.
func (h *Handler) writeAdmissionError(c *gin.Context, err error) {
	var (
		invalidErr  *domain.InvalidRequestError
		customerErr *domain.CustomerNotFoundError
		productErr  *domain.ProductNotFoundError
		stockErr    *domain.InsufficientStockError
	)

	switch {
	case errors.As(err, &invalidErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": invalidErr.Field})
	case errors.As(err, &customerErr):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "customer_id": customerErr.CustomerID})
	case errors.As(err, &productErr):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "missing": productErr.Missing})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":      err.Error(),
			"product_id": stockErr.ProductID,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		})
	case errors.Is(err, domain.ErrReservationConflict):
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stock is busy, retry later"})
	case errors.Is(err, domain.ErrPersistenceFailed):
		h.log.Errorf(c.Request.Context(), "admission persistence failed err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "order could not be persisted"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
	default:
		h.log.Errorf(c.Request.Context(), "admission failed err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
