package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// completionEntry returns the single request completion entry
func completionEntry(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := recorded.FilterMessage("Request completed").All()
	require.Len(t, entries, 1)
	return entries[0]
}

func TestGinMiddleware(t *testing.T) {
	newRouter := func(level zapcore.Level) (*gin.Engine, *observer.ObservedLogs) {
		core, recorded := observer.New(level)
		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		return router, recorded
	}

	t.Run("logs completed requests with request fields", func(t *testing.T) {
		router, recorded := newRouter(zapcore.InfoLevel)
		router.POST("/sync", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/sync?dry_run=true", nil)
		req.Header.Set("User-Agent", "sync-cli/1.0")
		router.ServeHTTP(w, req)

		entry := completionEntry(t, recorded)
		assert.Equal(t, zapcore.InfoLevel, entry.Level)

		fields := entry.ContextMap()
		assert.Equal(t, "POST", fields["method"])
		assert.Equal(t, "/sync", fields["path"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
		assert.Equal(t, "dry_run=true", fields["query"])
		assert.Equal(t, "sync-cli/1.0", fields["user_agent"])
		assert.Contains(t, fields, "latency")
		assert.Contains(t, fields, "client_ip")
	})

	t.Run("carries the request ID set upstream", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set("request_id", "req-42")
			c.Next()
		})
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/listings", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/listings", nil)
		router.ServeHTTP(w, req)

		entry := completionEntry(t, recorded)
		assert.Equal(t, "req-42", entry.ContextMap()["request_id"])
	})

	t.Run("logs client errors as warnings", func(t *testing.T) {
		router, recorded := newRouter(zapcore.WarnLevel)
		router.GET("/listings", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/listings", nil)
		router.ServeHTTP(w, req)

		entry := completionEntry(t, recorded)
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
	})

	t.Run("logs server errors as errors", func(t *testing.T) {
		router, recorded := newRouter(zapcore.ErrorLevel)
		router.GET("/sync", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/sync", nil)
		router.ServeHTTP(w, req)

		entry := completionEntry(t, recorded)
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	})
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) { panic("offer cache corrupted") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/panic", nil)

	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := recorded.FilterMessage("Panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "offer cache corrupted", entries[0].ContextMap()["error"])
	assert.Equal(t, "/panic", entries[0].ContextMap()["path"])
}

func TestGetGinLogger(t *testing.T) {
	t.Run("returns the request-scoped logger", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/sync/logs", func(c *gin.Context) {
			GetGinLogger(c).Info("page served")
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/sync/logs", nil)
		router.ServeHTTP(w, req)

		entries := recorded.FilterMessage("page served").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "/sync/logs", entries[0].ContextMap()["path"])
	})

	t.Run("falls back to a no-op logger", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		log := GetGinLogger(c)
		require.NotNil(t, log)
		assert.NotPanics(t, func() { log.Info("dropped") })
	})
}
