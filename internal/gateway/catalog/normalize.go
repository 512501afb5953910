package catalog

import (
	"strings"

	"golang.org/x/net/html"
)

func normalize(it *rawItem) Volume {
	vi := &it.VolumeInfo
	title := vi.Title
	if title == "" {
		title = "Unknown Title"
	}
	ids := make([]Identifier, 0, len(vi.IndustryIdentifiers))
	for _, id := range vi.IndustryIdentifiers {
		ids = append(ids, Identifier{Type: id.Type, Identifier: id.Identifier})
	}
	return Volume{
		ExternalID:    it.ID,
		Title:         title,
		Authors:       vi.Authors,
		Description:   StripHTML(vi.Description),
		PageCount:     vi.PageCount,
		Categories:    vi.Categories,
		Thumbnail:     vi.ImageLinks.Thumbnail,
		Publisher:     vi.Publisher,
		PublishedDate: vi.PublishedDate,
		AverageRating: vi.AverageRating,
		RatingsCount:  vi.RatingsCount,
		Identifiers:   ids,
	}
}

// StripHTML 去标签并解码 HTML 实体，输出纯文本
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			// Text() 已解码实体
			b.Write(z.Text())
		}
	}
	return strings.TrimSpace(b.String())
}
