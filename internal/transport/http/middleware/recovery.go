package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "bookhub/internal/transport/http/response"
)

// Recovery 未捕获 panic 一律转成笼统 500，不向外泄内部细节
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
				)
				if !c.Writer.Written() {
					resp.Abort(c, http.StatusInternalServerError, "internal error")
				}
			}
		}()
		c.Next()
	}
}
