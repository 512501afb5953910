package catalog

// 供应商原始响应结构

type rawSearchResponse struct {
	TotalItems int       `json:"totalItems"`
	Items      []rawItem `json:"items"`
}

type rawItem struct {
	ID         string        `json:"id"`
	VolumeInfo rawVolumeInfo `json:"volumeInfo"`
}

type rawVolumeInfo struct {
	Title               string          `json:"title"`
	Authors             []string        `json:"authors"`
	Description         string          `json:"description"`
	PageCount           int             `json:"pageCount"`
	Categories          []string        `json:"categories"`
	ImageLinks          rawImageLinks   `json:"imageLinks"`
	Publisher           string          `json:"publisher"`
	PublishedDate       string          `json:"publishedDate"`
	AverageRating       float64         `json:"averageRating"`
	RatingsCount        int             `json:"ratingsCount"`
	IndustryIdentifiers []rawIdentifier `json:"industryIdentifiers"`
}

type rawImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

type rawIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// Identifier 行业标识（如 ISBN_13）
type Identifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// Volume 归一化后的图书条目；Description 已去 HTML、解实体
type Volume struct {
	ExternalID    string       `json:"external_id"`
	Title         string       `json:"title"`
	Authors       []string     `json:"authors"`
	Description   string       `json:"description"`
	PageCount     int          `json:"page_count"`
	Categories    []string     `json:"categories"`
	Thumbnail     string       `json:"thumbnail,omitempty"`
	Publisher     string       `json:"publisher,omitempty"`
	PublishedDate string       `json:"published_date,omitempty"`
	AverageRating float64      `json:"average_rating,omitempty"`
	RatingsCount  int          `json:"ratings_count,omitempty"`
	Identifiers   []Identifier `json:"identifiers,omitempty"`
}

// ISBN13 返回第一个 ISBN_13 标识，没有则空串
func (v *Volume) ISBN13() string {
	for _, id := range v.Identifiers {
		if id.Type == "ISBN_13" {
			return id.Identifier
		}
	}
	return ""
}

// FirstAuthor 没有作者时空串
func (v *Volume) FirstAuthor() string {
	if len(v.Authors) > 0 {
		return v.Authors[0]
	}
	return ""
}

type SearchResult struct {
	Items       []Volume `json:"items"`
	TotalItems  int      `json:"total_items"`
	Page        int      `json:"page"`
	PageSize    int      `json:"page_size"`
	HasNextPage bool     `json:"has_next_page"`
}
