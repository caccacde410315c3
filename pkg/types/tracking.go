package types

import (
	"net/http"
)

// SearchEvent describes one settled fetch of a browse session.
type SearchEvent struct {
	SessionId       string      `json:"-"`
	Page            PageKind    `json:"page"`
	Query           string      `json:"query,omitempty"`
	Category        string      `json:"category,omitempty"`
	Sort            SortKey     `json:"sort"`
	Filters         FilterState `json:"filters"`
	NumberOfResults int         `json:"noi"`
	PageNumber      int         `json:"pg"`
	LoadMore        bool        `json:"more,omitempty"`
	Fallback        bool        `json:"fallback,omitempty"`
}

type Tracking interface {
	TrackSession(sessionId string, r *http.Request)
	TrackSearch(event SearchEvent)
	Close() error
}
