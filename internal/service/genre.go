package service

import "strings"

// 供应商的分类文案五花八门，按关键词包含归一到站内的展示体裁。
// 顺序敏感："nonfiction"、"science fiction" 必须排在 "fiction" 前面。
var genreRules = []struct {
	keyword string
	genre   string
}{
	{"nonfiction", "Non-Fiction"},
	{"non-fiction", "Non-Fiction"},
	{"science fiction", "Science Fiction"},
	{"young adult", "Young Adult"},
	{"children", "Children's"},
	{"classic", "Classic Literature"},
	{"mystery", "Mystery"},
	{"fantasy", "Fantasy"},
	{"biography", "Biography"},
	{"romance", "Romance"},
	{"thriller", "Thriller"},
	{"fiction", "Fiction"},
}

const genreOther = "Other"

func mapGenre(categories []string) string {
	for _, c := range categories {
		lc := strings.ToLower(c)
		for _, rule := range genreRules {
			if strings.Contains(lc, rule.keyword) {
				return rule.genre
			}
		}
	}
	return genreOther
}
