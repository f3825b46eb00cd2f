package httpx_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/order_admission/pkg/httpx"
)

// recLogger - запоминает уровень и текст каждой записи.
type recLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recLogger) add(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, level+" "+fmt.Sprintf(format, args...))
}

func (l *recLogger) Infof(_ context.Context, f string, a ...any)  { l.add("INFO", f, a...) }
func (l *recLogger) Warnf(_ context.Context, f string, a ...any)  { l.add("WARN", f, a...) }
func (l *recLogger) Errorf(_ context.Context, f string, a ...any) { l.add("ERROR", f, a...) }

func TestRequestLogger_LevelByStatus_SkipsServicePaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := &recLogger{}

	r := gin.New()
	r.Use(httpx.RequestLogger(log))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/orders", func(c *gin.Context) { c.Status(http.StatusConflict) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	for _, rq := range []struct{ method, path string }{
		{http.MethodGet, "/ping"},
		{http.MethodGet, "/ok"},
		{http.MethodPost, "/orders"},
		{http.MethodGet, "/boom"},
	} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(rq.method, rq.path, http.NoBody))
	}

	require.Len(t, log.entries, 3)
	require.Contains(t, log.entries[0], "INFO request method=GET path=/ok status=200")
	require.Contains(t, log.entries[1], "WARN request method=POST path=/orders status=409")
	require.Contains(t, log.entries[2], "ERROR request method=GET path=/boom status=503")
}
