package domain

// Candidate is a hypothesized real-world product identity matching the
// user's input, extracted from one search result. Candidates are ephemeral:
// ranked within a single pipeline run and never persisted.
type Candidate struct {
	ProductName string  `json:"productName"`
	Brand       string  `json:"brand,omitempty"`
	Source      string  `json:"source"` // display host, e.g. "sephora.fr"
	SourceURL   string  `json:"sourceUrl,omitempty"`
	Snippet     string  `json:"snippet,omitempty"`
	ExactMatch  bool    `json:"exactMatch"`
	Trusted     bool    `json:"trusted"`
	Popularity  float64 `json:"popularity"` // 0-1, search-volume/rank proxy
}

// LookupResult is the outcome of one candidate lookup. A transport failure
// is a data outcome (Found=false, Degraded=true), never an error: the rest
// of the pipeline must still be able to proceed to fuzzy correction or
// refusal with zero lookup signal.
type LookupResult struct {
	Found        bool        `json:"found"`
	Degraded     bool        `json:"degraded"`
	Candidates   []Candidate `json:"candidates"`
	SearchScore  float64     `json:"searchScore"` // 0-100 sub-score, not the final confidence
	TotalResults int64       `json:"totalResults"`
	Query        string      `json:"query"`
}

// SearchItem is one ranked result from the external search capability
type SearchItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"displayLink"`
}

// SearchResponse is the wire-level result of a search query
type SearchResponse struct {
	Items        []SearchItem `json:"items"`
	TotalResults int64        `json:"totalResults"`
}
