package dto

import (
	"errors"
	"strings"
)

// ErrEmptyQuery is returned when a search request carries no query text.
var ErrEmptyQuery = errors.New("query field is required and cannot be empty")

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query string `json:"query"`
}

// Validate performs validation on SearchRequest.
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	return nil
}
