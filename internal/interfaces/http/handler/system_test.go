package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDB struct{ err error }

func (s stubDB) Ping() error { return s.err }

type stubCache struct{ err error }

func (s stubCache) Ping(context.Context) error { return s.err }

func newSystemRouter(db DatabasePinger, cache CachePinger) *gin.Engine {
	engine := gin.New()
	NewSystemHandler(db, cache, "1.2.3").RegisterRoutes(engine)
	return engine
}

func TestSystemHandler_Healthz(t *testing.T) {
	engine := newSystemRouter(stubDB{}, nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
}

func TestSystemHandler_Readyz(t *testing.T) {
	t.Run("all dependencies healthy", func(t *testing.T) {
		engine := newSystemRouter(stubDB{}, stubCache{})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		checks := body["checks"].(map[string]interface{})
		assert.Equal(t, "ok", checks["database"])
		assert.Equal(t, "ok", checks["cache"])
	})

	t.Run("database down degrades readiness", func(t *testing.T) {
		engine := newSystemRouter(stubDB{err: errors.New("connection refused")}, stubCache{})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "degraded", body["status"])
	})

	t.Run("cache is optional", func(t *testing.T) {
		engine := newSystemRouter(stubDB{}, nil)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		checks := body["checks"].(map[string]interface{})
		_, hasCache := checks["cache"]
		assert.False(t, hasCache)
	})
}
