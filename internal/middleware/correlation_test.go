package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/prescription-api/pkg/logger"
)

func newCorrelationEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CorrelationID())
	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"correlation_id": logger.CorrelationID(c.Request.Context()),
		})
	})
	return engine
}

func TestCorrelationIDFromHeader(t *testing.T) {
	engine := newCorrelationEngine()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderXCorrelationID, "abc-123")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(HeaderXCorrelationID))
	assert.Contains(t, w.Body.String(), "abc-123")
}

func TestCorrelationIDRequestIDFallback(t *testing.T) {
	engine := newCorrelationEngine()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderXRequestID, "req-9")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "req-9", w.Header().Get(HeaderXCorrelationID))
}

func TestCorrelationIDHeaderPrecedence(t *testing.T) {
	engine := newCorrelationEngine()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderXCorrelationID, "primary")
	req.Header.Set(HeaderXRequestID, "fallback")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "primary", w.Header().Get(HeaderXCorrelationID))
}

func TestCorrelationIDGenerated(t *testing.T) {
	engine := newCorrelationEngine()

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		cid := w.Header().Get(HeaderXCorrelationID)
		_, err := uuid.Parse(cid)
		require.NoError(t, err, "generated id %q is not a valid UUID", cid)
		assert.False(t, seen[cid], "id %q repeated", cid)
		seen[cid] = true
	}
}

func TestCorrelationIDConcurrentIsolation(t *testing.T) {
	engine := newCorrelationEngine()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			cid := fmt.Sprintf("concurrent-%d", n)
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set(HeaderXCorrelationID, cid)

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, cid, w.Header().Get(HeaderXCorrelationID))
			assert.Contains(t, w.Body.String(), cid)
		}(i)
	}
	wg.Wait()
}
