package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookhub/internal/domain"
)

// OK 按原样输出 payload，不包 envelope
func OK(c *gin.Context, v any) { c.JSON(http.StatusOK, v) }

func Created(c *gin.Context, location string, v any) {
	if location != "" {
		c.Header("Location", location)
	}
	c.JSON(http.StatusCreated, v)
}

func Err(c *gin.Context, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	c.JSON(status, gin.H{"error": msg})
}

func Abort(c *gin.Context, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// FromErr 领域哨兵错误 → HTTP 状态码；未知错误一律 500 且不外泄细节
func FromErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		Err(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		Err(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		Err(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrSelfApproval),
		errors.Is(err, domain.ErrForbidden):
		Err(c, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrAlreadyModerator),
		errors.Is(err, domain.ErrConflict):
		Err(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		Err(c, http.StatusBadGateway, err.Error())
	default:
		Err(c, http.StatusInternalServerError, "internal error")
	}
}
