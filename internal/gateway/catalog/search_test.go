package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookhub/internal/core/config"
)

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewClient(config.Catalog{
		BaseURL:    ts.URL,
		TimeoutSec: 2,
		RatePerSec: 1000,
	}, zap.NewNop(), nil)
}

func writeSearchResponse(w http.ResponseWriter, total int, items ...rawItem) {
	_ = json.NewEncoder(w).Encode(rawSearchResponse{TotalItems: total, Items: items})
}

func itemWithPages(id string, pages int) rawItem {
	return rawItem{ID: id, VolumeInfo: rawVolumeInfo{Title: "t-" + id, PageCount: pages}}
}

func TestSearchEmptyQuery(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := c.Search(context.Background(), "", KindAny, 1, 10, nil)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearchQualifiers(t *testing.T) {
	cases := []struct {
		kind Kind
		want string
	}{
		{KindAny, "golang"},
		{KindISBN, "isbn:golang"},
		{KindAuthor, `inauthor:"golang"`},
		{KindTitle, `intitle:"golang"`},
		{Kind("banana"), "golang"}, // 未知限定词降级为普通检索
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			var gotQ string
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotQ = r.URL.Query().Get("q")
				writeSearchResponse(w, 0)
			})
			_, err := c.Search(context.Background(), "golang", tc.kind, 1, 10, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, gotQ)
		})
	}
}

func TestSearchClampsPageSizeAndOverfetches(t *testing.T) {
	var gotMax string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMax = r.URL.Query().Get("maxResults")
		writeSearchResponse(w, 0)
	})
	out, err := c.Search(context.Background(), "go", KindAny, 1, 100, nil)
	require.NoError(t, err)
	// 100 压到 40，原始请求按 2 倍取
	assert.Equal(t, "80", gotMax)
	assert.Equal(t, 40, out.PageSize)
}

func TestSearchPageCountFilter(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeSearchResponse(w, 120,
			itemWithPages("a", 50),
			itemWithPages("b", 150),
			itemWithPages("c", 250),
			itemWithPages("d", 500),
		)
	})
	out, err := c.Search(context.Background(), "go", KindAny, 1, 10, &Filters{Pages: "100-300"})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "b", out.Items[0].ExternalID)
	assert.Equal(t, "c", out.Items[1].ExternalID)
	// 过滤后总数按过滤集合重算
	assert.Equal(t, 2, out.TotalItems)
	// 翻页判断仍看供应商过滤前的总数
	assert.True(t, out.HasNextPage)
}

func TestSearchMalformedPageFilterIgnored(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeSearchResponse(w, 1, itemWithPages("a", 50))
	})
	out, err := c.Search(context.Background(), "go", KindAny, 1, 10, &Filters{Pages: "lots"})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, 1, out.TotalItems)
}

func TestSearchHasNextPage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeSearchResponse(w, 10, itemWithPages("a", 100))
	})
	out, err := c.Search(context.Background(), "go", KindAny, 1, 10, nil)
	require.NoError(t, err)
	assert.False(t, out.HasNextPage)
}

func TestSearchTruncatesToPageSize(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeSearchResponse(w, 4,
			itemWithPages("a", 10), itemWithPages("b", 20),
			itemWithPages("c", 30), itemWithPages("d", 40),
		)
	})
	out, err := c.Search(context.Background(), "go", KindAny, 1, 2, nil)
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.True(t, out.HasNextPage)
}

func TestGetVolumeAbsent(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	v, err := c.GetVolume(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestGetVolume(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes/abc123", r.URL.Path)
		_ = json.NewEncoder(w).Encode(rawItem{
			ID: "abc123",
			VolumeInfo: rawVolumeInfo{
				Title:   "The Go Programming Language",
				Authors: []string{"Alan Donovan", "Brian Kernighan"},
				IndustryIdentifiers: []rawIdentifier{
					{Type: "ISBN_10", Identifier: "0134190440"},
					{Type: "ISBN_13", Identifier: "9780134190440"},
				},
			},
		})
	})
	v, err := c.GetVolume(context.Background(), "abc123")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "The Go Programming Language", v.Title)
	assert.Equal(t, "Alan Donovan", v.FirstAuthor())
	assert.Equal(t, "9780134190440", v.ISBN13())
}

// 供应商超时/5xx 与查无此条同义，传输层故障不出网关
func TestGetVolumeTransportFailureFoldsToAbsent(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusBadGateway, http.StatusTooManyRequests} {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		v, err := c.GetVolume(context.Background(), "abc123")
		require.NoError(t, err, "status %d", status)
		assert.Nil(t, v, "status %d", status)
	}
}

func TestGetVolumeMalformedBodyFoldsToAbsent(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})
	v, err := c.GetVolume(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Nil(t, v)
}
