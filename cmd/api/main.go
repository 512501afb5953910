package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookhub/internal/core/auth"
	"bookhub/internal/core/cache"
	"bookhub/internal/core/config"
	"bookhub/internal/core/database"
	"bookhub/internal/core/logger"
	"bookhub/internal/core/server"
	"bookhub/internal/gateway/bookreviews"
	"bookhub/internal/gateway/catalog"
	"bookhub/internal/gateway/oauth"
	"bookhub/internal/repo"
	"bookhub/internal/service"
	"bookhub/internal/transport/http/handler"
	"bookhub/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	store := repo.NewStore(db)
	if cfg.DB.AutoMigrate {
		if err := store.AutoMigrate(); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// redis：目录搜索缓存 + 会话吊销标记
	ca := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// JWT
	tokenTTL := time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    tokenTTL,
	}

	// 外部网关
	catalogGW := catalog.NewClient(cfg.Catalog, log, ca)
	reviewsGW := bookreviews.NewClient(cfg.ReviewsAPI, log)
	oauthGW := oauth.NewClient(cfg.OAuth)

	// 业务层
	userSvc := service.NewUserService(store, oauthGW, log)
	bookSvc := service.NewBookService(store, reviewsGW)
	reviewSvc := service.NewReviewService(store)
	ingestSvc := service.NewIngestService(store, catalogGW, cfg.Catalog.ImageUploadDir, log)

	r := router.NewAPI(router.APIDeps{
		Cfg:     cfg,
		Log:     log,
		JWT:     jwter,
		Cache:   ca,
		Auth:    handler.NewAuthHandler(userSvc, jwter),
		Books:   handler.NewBookHandler(bookSvc, ingestSvc, userSvc, catalogGW, jwter, log),
		Reviews: handler.NewReviewHandler(reviewSvc, userSvc),
		Me:      handler.NewMeHandler(userSvc),
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start FAILED", zap.Error(err))
		}
	}()
	log.Info("api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
