package model

import "fmt"

// ValidationError reports a rule violated by user-supplied input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Criteria validation errors, returned by SearchCriteria.Validate
var (
	ErrKeywordRequired      = &ValidationError{Field: "keyword", Message: "keyword is required"}
	ErrMaxResultsRange      = &ValidationError{Field: "max_results", Message: fmt.Sprintf("max results must be between %d and %d", MinMaxResults, MaxMaxResults)}
	ErrMinViewCountNegative = &ValidationError{Field: "min_view_count", Message: "minimum view count must be 0 or greater"}
	ErrMaxViewCountNegative = &ValidationError{Field: "max_view_count", Message: "maximum view count must be 0 or greater"}
	ErrViewCountRange       = &ValidationError{Field: "view_count", Message: "minimum view count must not exceed maximum view count"}
	ErrPublishedRange       = &ValidationError{Field: "published", Message: "published after must not be later than published before"}
	ErrInvalidOrder         = &ValidationError{Field: "order", Message: "order must be one of date, rating, relevance, title, videoCount, viewCount"}
)

// Identifier validation errors
var (
	ErrInvalidVideoID   = &ValidationError{Field: "video_id", Message: "video id must be 11 characters of A-Z, a-z, 0-9, '_' or '-'"}
	ErrInvalidChannelID = &ValidationError{Field: "channel_id", Message: "channel id must be 24 characters starting with UC"}
)
