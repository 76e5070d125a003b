package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/infrastructure/http/v1/dto"
)

func setupErrorRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/test", handler)
	return router
}

func TestErrorHandler_AppError(t *testing.T) {
	router := setupErrorRouter(func(c *gin.Context) {
		_ = c.Error(apperror.NewNotFound("product", "4d0faa48"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeNotFound, body.Code)
	assert.Equal(t, "product not found", body.Message)
	assert.Equal(t, "product", body.Details["entity"])
}

func TestErrorHandler_UnknownError(t *testing.T) {
	router := setupErrorRouter(func(c *gin.Context) {
		_ = c.Error(errors.New("pool exhausted"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeInternal, body.Code)
	// The raw cause never leaks to the client.
	assert.NotContains(t, w.Body.String(), "pool exhausted")
}
