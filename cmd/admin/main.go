package main

import (
	"context"
	"errors"
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

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	store := repo.NewStore(db)

	// 审核面共用同一套吊销标记，自删账号对两个面同时生效
	ca := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	tokenTTL := time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    tokenTTL,
	}

	userSvc := service.NewUserService(store, oauth.NewClient(cfg.OAuth), log)
	modSvc := service.NewModerationService(store, ca, tokenTTL, log)

	r := router.NewAdmin(router.AdminDeps{
		Cfg:   cfg,
		Log:   log,
		JWT:   jwter,
		Cache: ca,
		Admin: handler.NewAdminHandler(modSvc, userSvc),
	})

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 15*time.Second, 15*time.Second, 60*time.Second)

	log.Info("admin api starting", zap.String("addr", addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("admin api start FAILED", zap.Error(err))
		}
	}()
	log.Info("admin api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("admin api stopped gracefully")
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
