// Package bookreviews 封装外部书评检索 API。
// 约定：任何失败（超时、限流、坏响应）都折叠成空列表，只记日志。
package bookreviews

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"bookhub/internal/core/config"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *zap.Logger
}

func NewClient(cfg config.ReviewsAPI, l *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		log:        l,
	}
}

// Review 供应商书评条目（已过滤掉摘录）
type Review struct {
	Byline          string `json:"byline"`
	Summary         string `json:"summary"`
	PublicationDate string `json:"publication_date,omitempty"`
	URL             string `json:"url,omitempty"`
}

type rawResponse struct {
	Status  string      `json:"status"`
	Results []rawReview `json:"results"`
}

type rawReview struct {
	Byline        string `json:"byline"`
	Summary       string `json:"summary"`
	PublicationDT string `json:"publication_dt"`
	URL           string `json:"url"`
}

// BookReviews ISBN 优先（更精确），查不到或报错再退回标题检索；
// 两者都没有就给空列表。"查无书评"永远不是错误。
func (c *Client) BookReviews(ctx context.Context, isbn, title string) []Review {
	if isbn != "" {
		reviews, err := c.search(ctx, url.Values{"isbn": {isbn}})
		if err != nil {
			c.log.Error("isbn review search failed", zap.Error(err), zap.String("isbn", isbn))
		} else if len(reviews) > 0 {
			return reviews
		}
	}
	if title != "" {
		reviews, err := c.search(ctx, url.Values{"title": {title}})
		if err != nil {
			c.log.Error("title review search failed", zap.Error(err), zap.String("title", title))
			return []Review{}
		}
		return reviews
	}
	return []Review{}
}

func (c *Client) search(ctx context.Context, params url.Values) ([]Review, error) {
	params.Set("api-key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reviews.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("review request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.log.Warn("review api rate limit reached",
			zap.String("retry_after", resp.Header.Get("Retry-After")))
		return []Review{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("review request: status %d", resp.StatusCode)
	}

	var raw rawResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if raw.Status != "OK" {
		c.log.Warn("review api returned non-OK status", zap.String("status", raw.Status))
		return []Review{}, nil
	}

	out := make([]Review, 0, len(raw.Results))
	for _, r := range raw.Results {
		if IsExcerpt(r.Summary, r.URL) {
			continue
		}
		byline := r.Byline
		if byline == "" {
			byline = "Unknown Reviewer"
		}
		summary := r.Summary
		if summary == "" {
			summary = "No summary available"
		}
		out = append(out, Review{
			Byline:          byline,
			Summary:         summary,
			PublicationDate: r.PublicationDT,
			URL:             r.URL,
		})
	}
	return out, nil
}
