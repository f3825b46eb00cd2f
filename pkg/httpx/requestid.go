package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Gunvolt24/order_admission/pkg/ctxmeta"
)

// HeaderRequestID - заголовок запроса и ответа с ID запроса.
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLen - длиннее клиентский ID не принимаем (он попадает в логи).
const maxRequestIDLen = 128

// RequestIDMiddleware:
// - принимает X-Request-ID клиента, если он печатный ASCII разумной длины, иначе генерирует UUID
// - кладёт request_id в контекст (его подхватывает логгер)
// - возвращает его в ответном заголовке X-Request-ID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)

		ctx := ctxmeta.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
