// Package handler gin 处理器。只做绑定、鉴权上下文和状态码映射，
// 业务规则都在 service 层。
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookhub/internal/domain"
	"bookhub/internal/service"
	"bookhub/internal/transport/http/middleware"
	resp "bookhub/internal/transport/http/response"
)

// currentUser 从 JWT 中间件写入的 uid 加载完整用户；失败直接写响应
func currentUser(c *gin.Context, users *service.UserService) (*domain.User, bool) {
	uid := c.GetString(middleware.KeyUserID)
	if uid == "" {
		resp.Err(c, http.StatusUnauthorized, "missing token")
		return nil, false
	}
	u, err := users.Get(c.Request.Context(), uid)
	if err != nil {
		// token 合法但用户已不存在（比如刚自删），视同未认证
		resp.Err(c, http.StatusUnauthorized, "unknown user")
		return nil, false
	}
	return u, true
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
