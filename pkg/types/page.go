package types

// ResultPage is one page of remote results. HasMore is taken from the remote
// and is never derived from the item count.
type ResultPage struct {
	Items      []Product `json:"items"`
	PageNumber int       `json:"page"`
	HasMore    bool      `json:"hasMore"`
	TotalCount int       `json:"totalCount,omitempty"`
	Message    string    `json:"message,omitempty"`
}

// QuerySpec is what a fetch is built from: the applied filters and the sort
// key sent to the remote.
type QuerySpec struct {
	Filters FilterState `json:"filters"`
	Sort    SortKey     `json:"sort"`
}
