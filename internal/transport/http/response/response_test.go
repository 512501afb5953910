package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"bookhub/internal/domain"
)

func TestFromErrMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrValidation, http.StatusBadRequest},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrSelfApproval, http.StatusForbidden},
		{domain.ErrAlreadyModerator, http.StatusConflict},
		{domain.ErrConflict, http.StatusConflict},
		{domain.ErrUpstream, http.StatusBadGateway},
		{fmt.Errorf("wrap: %w", domain.ErrNotFound), http.StatusNotFound},
		{errors.New("db on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		FromErr(c, tc.err)
		assert.Equal(t, tc.want, w.Code, "err %v", tc.err)
		assert.Contains(t, w.Body.String(), `"error"`)
	}
}

func TestInternalErrorsAreOpaque(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	FromErr(c, errors.New("dsn user:pass@tcp(10.0.0.1)/db"))
	assert.NotContains(t, w.Body.String(), "dsn")
	assert.Contains(t, w.Body.String(), "internal error")
}
