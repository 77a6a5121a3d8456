// Package search provides a client for the Google Custom Search JSON API.
package search

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when the API key or search engine ID is missing
var ErrNotConfigured = errors.New("google custom search is not configured")

// APIError represents a non-2xx response from the search API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("custom search API error: %s (status: %d)", e.Message, e.StatusCode)
}

// response mirrors the subset of the Custom Search response we consume
type response struct {
	Items []item `json:"items"`
}

type item struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}
