package bookreviews

import "strings"

// 供应商会把章节摘录混在书评结果里，按固定词表剔除
var excerptIndicators = []string{
	"an excerpt from",
	"excerpt:",
	"excerpt of",
	"/excerpt",
	"read an excerpt",
	"chapter one",
	"first chapter",
}

// IsExcerpt 摘要或链接命中任一标记即视为摘录（大小写不敏感的子串匹配）
func IsExcerpt(summary, url string) bool {
	summary = strings.ToLower(summary)
	url = strings.ToLower(url)
	for _, ind := range excerptIndicators {
		if strings.Contains(summary, ind) || strings.Contains(url, ind) {
			return true
		}
	}
	return false
}
