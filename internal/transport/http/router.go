package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Gunvolt24/order_admission/internal/domain"
	"github.com/Gunvolt24/order_admission/internal/ports"
	"github.com/Gunvolt24/order_admission/pkg/httpx"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	maxBodyBytes     = 1 << 20
)

// Handler - HTTP-адаптер над сервисами чтения и приёма заказов.
type Handler struct {
	orders         ports.OrderReadService
	admission      ports.OrderAdmissionService
	log            ports.Logger
	handlerTimeout time.Duration
}

// NewHandler - конструктор. handlerTimeout <= 0 отключает таймаут обработчика.
func NewHandler(
	orders ports.OrderReadService,
	admission ports.OrderAdmissionService,
	log ports.Logger,
	handlerTimeout time.Duration,
) *Handler {
	return &Handler{orders: orders, admission: admission, log: log, handlerTimeout: handlerTimeout}
}

// NewRouter - gin-роутер со всеми маршрутами сервиса.
// otelServiceName != "" включает otelgin-трейсинг входящих запросов.
func NewRouter(h *Handler, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))
	r.Use(h.timeout())

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/orders", h.placeOrder)
	r.GET("/order/:id", h.getOrderByID)
	r.GET("/customer/:id/orders", h.listOrdersByCustomer)

	return r
}

// timeout - ограничение времени обработки запроса через контекст.
func (h *Handler) timeout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.handlerTimeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.handlerTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (h *Handler) getOrderByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty id"})
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.log.Errorf(c.Request.Context(), "GetOrder failed id=%s err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) listOrdersByCustomer(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty customer id"})
		return
	}

	limit, offset, err := httpx.ParseLimitOffset(c, defaultListLimit, maxListLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, err := h.orders.OrdersByCustomer(c.Request.Context(), id, limit, offset)
	if err != nil {
		h.log.Errorf(c.Request.Context(), "OrdersByCustomer failed id=%s err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	c.JSON(http.StatusOK, orders)
}
