package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/health", "", nil)

	require.NoError(t, NewHealthHandler(nil).Liveness(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all healthy", func(t *testing.T) {
		c, rec := newTestContext(http.MethodGet, "/health/ready", "", nil)

		require.NoError(t, NewHealthHandler(map[string]Pinger{"postgres": ok, "redis": nil}).Readiness(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var body readinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		assert.Contains(t, body.Dependencies, "postgres")
		assert.NotContains(t, body.Dependencies, "redis")
	})

	t.Run("degraded", func(t *testing.T) {
		c, rec := newTestContext(http.MethodGet, "/health/ready", "", nil)

		require.NoError(t, NewHealthHandler(map[string]Pinger{"postgres": ok, "redis": down}).Readiness(c))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body readinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "degraded", body.Status)
		assert.Equal(t, dependencyStatus{Status: "unhealthy", Error: "connection refused"}, body.Dependencies["redis"])
	})
}
