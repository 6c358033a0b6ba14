package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"designshop/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NewError(domain.ErrUnauthenticated, "x"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.NewError(domain.ErrForbidden, "x"), http.StatusForbidden, "FORBIDDEN"},
		{domain.NewError(domain.ErrNotFound, "x"), http.StatusNotFound, "NOT_FOUND"},
		{domain.NewError(domain.ErrInvalidTransition, "x"), http.StatusBadRequest, "INVALID_STATE_TRANSITION"},
		{domain.NewError(domain.ErrValidation, "x"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{domain.NewError(domain.ErrConflict, "x"), http.StatusBadRequest, "CONFLICT"},
		{fmt.Errorf("wrapped: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		status, code := Classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestFromError_HidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/boom", func(c *gin.Context) {
		FromError(c, errors.New("pq: connection refused"))
	})
	r.GET("/ship", func(c *gin.Context) {
		FromError(c, domain.NewError(domain.ErrInvalidTransition, "Order is not ready for shipment"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ship", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Order is not ready for shipment", body.Error.Message)
}
