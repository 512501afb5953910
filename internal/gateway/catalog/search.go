package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"bookhub/internal/core/cache"
)

// Kind 检索限定词
type Kind string

const (
	KindAny    Kind = ""
	KindISBN   Kind = "isbn"
	KindAuthor Kind = "author"
	KindTitle  Kind = "title"
)

const maxPageSize = 40

var ErrEmptyQuery = errors.New("search query cannot be empty")

// Filters 客户端侧过滤；Pages 形如 "100-400"
type Filters struct {
	Pages string
}

var pageRangeRe = regexp.MustCompile(`^(\d+)-(\d+)$`)

func (f *Filters) pageRange() (min, max int, ok bool) {
	if f == nil {
		return 0, 0, false
	}
	m := pageRangeRe.FindStringSubmatch(f.Pages)
	if m == nil {
		return 0, 0, false
	}
	min, _ = strconv.Atoi(m[1])
	max, _ = strconv.Atoi(m[2])
	return min, max, true
}

// Search 供应商分页检索。pageSize 压到 [1,40]；内部多取一倍原始结果
// 以抵消过滤损耗，过滤后截断回 pageSize。HasNextPage 按过滤前的
// totalItems 计算。
func (c *Client) Search(ctx context.Context, query string, kind Kind, page, pageSize int, f *Filters) (*SearchResult, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}

	if c.cache == nil {
		return c.search(ctx, query, kind, page, pageSize, f)
	}
	key := fmt.Sprintf("catalog:search:%s:%s:%d:%d:%s", kind, query, page, pageSize, f.cacheKey())
	return cache.GetOrLoadJSON[SearchResult](c.cache, ctx, key, c.cacheTTL,
		func(ctx context.Context) (*SearchResult, error) {
			return c.search(ctx, query, kind, page, pageSize, f)
		})
}

func (f *Filters) cacheKey() string {
	if f == nil {
		return ""
	}
	return f.Pages
}

func (c *Client) search(ctx context.Context, query string, kind Kind, page, pageSize int, f *Filters) (*SearchResult, error) {
	switch kind {
	case KindAny:
	case KindISBN:
		query = "isbn:" + query
	case KindAuthor:
		query = `inauthor:"` + query + `"`
	case KindTitle:
		query = `intitle:"` + query + `"`
	default:
		// 未知限定词不挡请求，降级为普通检索
		c.log.Warn("invalid search kind, falling back to plain query", zap.String("kind", string(kind)))
	}

	startIndex := (page - 1) * pageSize

	params := url.Values{}
	params.Set("q", query)
	params.Set("startIndex", strconv.Itoa(startIndex))
	params.Set("maxResults", strconv.Itoa(pageSize*2))
	params.Set("printType", "books")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	var raw rawSearchResponse
	if err := c.getJSON(ctx, c.baseURL+"/volumes?"+params.Encode(), &raw); err != nil {
		c.log.Error("catalog search failed", zap.Error(err), zap.String("query", query))
		return nil, err
	}

	out := &SearchResult{
		Items:    make([]Volume, 0, len(raw.Items)),
		Page:     page,
		PageSize: pageSize,
	}
	for i := range raw.Items {
		out.Items = append(out.Items, normalize(&raw.Items[i]))
	}
	out.TotalItems = raw.TotalItems

	if min, max, ok := f.pageRange(); ok {
		kept := out.Items[:0]
		for _, v := range out.Items {
			if v.PageCount >= min && v.PageCount <= max {
				kept = append(kept, v)
			}
		}
		out.Items = kept
		out.TotalItems = len(kept)
	}
	if len(out.Items) > pageSize {
		out.Items = out.Items[:pageSize]
	}

	// 分页判断用供应商过滤前的总数
	out.HasNextPage = startIndex+pageSize < raw.TotalItems
	return out, nil
}

// GetVolume 详情。供应商查无此条、超时或 5xx 都折叠成 (nil, nil)，
// 调用方按"条目不存在"处理，传输层故障不往上抛。
func (c *Client) GetVolume(ctx context.Context, externalID string) (*Volume, error) {
	params := url.Values{}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	u := c.baseURL + "/volumes/" + url.PathEscape(externalID)
	if enc := params.Encode(); enc != "" {
		u += "?" + enc
	}

	var raw rawItem
	if err := c.getJSON(ctx, u, &raw); err != nil {
		if !errors.Is(err, errNotFound) {
			c.log.Error("catalog volume fetch failed", zap.Error(err), zap.String("external_id", externalID))
		}
		return nil, nil
	}
	if raw.ID == "" {
		return nil, nil
	}
	v := normalize(&raw)
	return &v, nil
}

var errNotFound = errors.New("catalog: not found")

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog request: status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
