package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success carries a zero code and the payload", func(t *testing.T) {
		rr := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(rr)

		Success(ctx, gin.H{"status": "ok"})

		assert.Equal(t, http.StatusOK, rr.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, float64(0), body["code"])
		assert.Equal(t, "success", body["message"])
		assert.Equal(t, "ok", body["data"].(map[string]any)["status"])
	})

	t.Run("error carries the code and omits data", func(t *testing.T) {
		rr := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(rr)

		Error(ctx, http.StatusNotFound, 40410, "group not found")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, float64(40410), body["code"])
		assert.Equal(t, "group not found", body["message"])
		assert.NotContains(t, body, "data")
	})
}
