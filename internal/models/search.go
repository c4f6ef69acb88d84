package models

// SearchType selects which collections a search covers
type SearchType string

const (
	SearchAll      SearchType = "all"
	SearchArticles SearchType = "articles"
	SearchProjects SearchType = "projects"
)

// ValidSearchTypes defines allowed search types
var ValidSearchTypes = map[string]bool{
	string(SearchAll):      true,
	string(SearchArticles): true,
	string(SearchProjects): true,
}

// ArticleHit is a ranked article search result
type ArticleHit struct {
	*Article
	Tier    int    `json:"tier"`
	Snippet string `json:"snippet,omitempty"`
}

// ProjectHit is a ranked project search result
type ProjectHit struct {
	*Project
	Tier int `json:"tier"`
}

// SearchResult is the search endpoint payload
type SearchResult struct {
	Query    string        `json:"query"`
	Type     SearchType    `json:"type"`
	Articles []*ArticleHit `json:"articles"`
	Projects []*ProjectHit `json:"projects"`
	Total    int           `json:"total"`
}
