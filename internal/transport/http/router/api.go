// Package router 组装两个 gin 引擎：公开 API 面和审核面。
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bookhub/internal/core/auth"
	"bookhub/internal/core/cache"
	"bookhub/internal/core/config"
	"bookhub/internal/transport/http/handler"
	"bookhub/internal/transport/http/middleware"
)

// APIDeps 公开面的装配件
type APIDeps struct {
	Cfg     *config.Config
	Log     *zap.Logger
	JWT     *auth.JWTer
	Cache   *cache.Cache
	Auth    *handler.AuthHandler
	Books   *handler.BookHandler
	Reviews *handler.ReviewHandler
	Me      *handler.MeHandler
}

func NewAPI(d APIDeps) *gin.Engine {
	if d.Cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Recovery(d.Log),
		middleware.Metrics(),
		middleware.AccessLog(d.Log),
		middleware.RateLimitPerIP(50, 100),
		middleware.ConcurrencyLimit(512),
		middleware.MaxBodyBytes(1<<20),
		middleware.Timeout(15*time.Second),
		cors.New(cors.Config{
			AllowOrigins:  []string{"*"},
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-ID"},
			ExposeHeaders: []string{"Location", "X-Request-ID"},
			MaxAge:        12 * time.Hour,
		}),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/login", d.Auth.Login)
		v1.POST("/register", d.Auth.Register)

		v1.GET("/search", d.Books.Search)

		v1.GET("/books", d.Books.List)
		v1.GET("/books/:id", d.Books.Get)
		v1.GET("/books/:id/reviews", d.Reviews.ListForBook)
		v1.GET("/books/:id/users/:userId/reviews", d.Reviews.ListForBookUser)
		v1.GET("/books/:id/editorial-reviews", d.Books.EditorialReviews)

		v1.GET("/reviews", d.Reviews.List)
		v1.GET("/reviews/:id", d.Reviews.Get)
		v1.GET("/users/:userId/reviews", d.Reviews.ListForUser)
	}

	authed := v1.Group("", middleware.AuthJWT(d.JWT, "", d.Cache))
	{
		authed.POST("/books", d.Books.Submit)
		authed.PUT("/books/:id", d.Books.Update)
		authed.DELETE("/books/:id", d.Books.Delete)

		authed.POST("/books/:id/reviews", d.Reviews.Create)
		authed.PUT("/books/:id/reviews/:reviewId", d.Reviews.Update)
		authed.DELETE("/books/:id/reviews/:reviewId", d.Reviews.Delete)
		authed.POST("/reviews/:id/vote", d.Reviews.Vote)

		authed.GET("/me", d.Me.Me)
		authed.GET("/me/notifications", d.Me.Notifications)
		authed.POST("/me/notifications/:id/read", d.Me.MarkNotificationRead)
		authed.POST("/me/provider/connect", d.Me.ConnectProvider)
		authed.DELETE("/me/provider", d.Me.DisconnectProvider)
	}

	return r
}
