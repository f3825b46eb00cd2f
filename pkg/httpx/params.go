package httpx

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ClampInt - ограничение значения v в диапазоне [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseLimitOffset - читает limit/offset из query.
// Отсутствующий параметр берёт дефолт; limit зажимается в [1, maxLimit].
// Нечисловое значение или отрицательный offset - ошибка (клиенту 400).
func ParseLimitOffset(c *gin.Context, defaultLimit, maxLimit int) (limit, offset int, err error) {
	limit = ClampInt(defaultLimit, 1, maxLimit)

	if raw, ok := c.GetQuery("limit"); ok {
		v, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, 0, fmt.Errorf("limit: %q is not an integer", raw)
		}
		limit = ClampInt(v, 1, maxLimit)
	}

	if raw, ok := c.GetQuery("offset"); ok {
		v, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, 0, fmt.Errorf("offset: %q is not an integer", raw)
		}
		if v < 0 {
			return 0, 0, fmt.Errorf("offset: must be >= 0, got %d", v)
		}
		offset = v
	}
	return limit, offset, nil
}
