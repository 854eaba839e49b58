package models

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Success bool          `json:"success"`
	Results []*ScoredUnit `json:"results"`
	Count   int           `json:"count"`
	// ExpandedKeywords are the association-table terms the query expanded to.
	ExpandedKeywords []string `json:"expandedKeywords"`
	PriorityKeywords []string `json:"priorityKeywords,omitempty"`
	Query            string   `json:"query,omitempty"`
	QueryTime        int64    `json:"queryTimeMs"`
}

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
