// Package catalog 封装外部图书元数据 API：搜索、详情、封面下载。
// 传输层故障在这里消化成 error/空结果，调用方降级处理，绝不抛 500。
package catalog

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"bookhub/internal/core/cache"
	"bookhub/internal/core/config"
)

type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	log        *zap.Logger

	// 搜索结果短缓存（可为 nil，直连）
	cache    *cache.Cache
	cacheTTL time.Duration
}

func NewClient(cfg config.Catalog, l *zap.Logger, ca *cache.Cache) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec*2),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		log:        l,
		cache:      ca,
		cacheTTL:   time.Duration(cfg.CacheTTLSec) * time.Second,
	}
}
