package httpx

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/order_admission/internal/ports"
)

// служебные маршруты не логируем
var skipLogPaths = map[string]struct{}{
	"/metrics": {},
	"/ping":    {},
}

// RequestLogger - middleware access-лога. request_id/trace_id логгер берёт из контекста.
// 5xx пишутся как error, 4xx как warn, остальное info.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if _, skip := skipLogPaths[path]; skip {
			return
		}
		if path == "" {
			path = c.Request.URL.Path
		}

		ctx := c.Request.Context()
		status := c.Writer.Status()
		const format = "request method=%s path=%s status=%d ip=%s duration=%s size=%d errors=%q"
		args := []any{
			c.Request.Method,
			path,
			status,
			c.ClientIP(),
			time.Since(start),
			c.Writer.Size(),
			c.Errors.String(),
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Errorf(ctx, format, args...)
		case status >= http.StatusBadRequest:
			log.Warnf(ctx, format, args...)
		default:
			log.Infof(ctx, format, args...)
		}
	}
}
