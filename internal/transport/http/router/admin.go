package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bookhub/internal/core/auth"
	"bookhub/internal/core/cache"
	"bookhub/internal/core/config"
	"bookhub/internal/domain"
	"bookhub/internal/transport/http/handler"
	"bookhub/internal/transport/http/middleware"
)

// AdminDeps 审核面的装配件
type AdminDeps struct {
	Cfg   *config.Config
	Log   *zap.Logger
	JWT   *auth.JWTer
	Cache *cache.Cache
	Admin *handler.AdminHandler
}

// NewAdmin 审核面全部路由都要求版主或管理员
func NewAdmin(d AdminDeps) *gin.Engine {
	if d.Cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		ginzap.Ginzap(d.Log, time.RFC3339, true),
		ginzap.RecoveryWithZap(d.Log, true),
		middleware.Metrics(),
		middleware.RateLimit(20, 40),
		middleware.MaxBodyBytes(1<<20),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/admin/v1",
		middleware.AuthJWT(d.JWT, "", d.Cache),
		middleware.RequireAnyRole(string(domain.RoleModerator), string(domain.RoleAdmin)),
	)
	{
		v1.GET("/books/pending", d.Admin.PendingBooks)
		v1.GET("/reviews/pending", d.Admin.PendingReviews)

		v1.POST("/books/:id/approve", d.Admin.ApproveBook)
		v1.POST("/books/:id/reject", d.Admin.RejectBook)
		v1.DELETE("/books/:id", d.Admin.DeleteBook)

		v1.POST("/reviews/:id/approve", d.Admin.ApproveReview)
		v1.POST("/reviews/:id/reject", d.Admin.RejectReview)
		v1.DELETE("/reviews/:id", d.Admin.DeleteReview)

		v1.GET("/users", d.Admin.Users)
		v1.DELETE("/users/:id", d.Admin.DeleteUser)
		v1.POST("/users/:id/promote", d.Admin.Promote)
	}

	return r
}
