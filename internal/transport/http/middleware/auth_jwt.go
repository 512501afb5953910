package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bookhub/internal/core/auth"
	"bookhub/internal/core/cache"
	resp "bookhub/internal/transport/http/response"
)

const (
	KeyUserID = "userId"
	KeyClaims = "claims"
)

// AuthJWT 解析 Bearer token；requireRole 非空时要求该角色。
// revoked 非 nil 时会校验吊销标记（自删账号场景）。
func AuthJWT(j *auth.JWTer, requireRole string, revoked *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, http.StatusUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, "invalid token")
			return
		}
		if revoked != nil && revoked.UserRevoked(c.Request.Context(), claims.UID) {
			resp.Abort(c, http.StatusUnauthorized, "token revoked")
			return
		}
		if requireRole != "" && !claims.HasRole(requireRole) {
			resp.Abort(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyClaims, claims)
		c.Next()
	}
}

// RequireAnyRole 放在 AuthJWT 之后，满足任一角色即可
func RequireAnyRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(KeyClaims)
		if !ok {
			resp.Abort(c, http.StatusUnauthorized, "missing token")
			return
		}
		claims := v.(*auth.Claims)
		for _, r := range roles {
			if claims.HasRole(r) {
				c.Next()
				return
			}
		}
		resp.Abort(c, http.StatusForbidden, "forbidden")
	}
}
