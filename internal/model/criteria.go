package model

import (
	"strings"
	"time"
)

// VideoType selects which kind of video a search keeps
type VideoType string

const (
	VideoTypeAll    VideoType = "all"
	VideoTypeShort  VideoType = "short"
	VideoTypeNormal VideoType = "normal"
)

// ParseVideoType converts a persisted or user-supplied code into a VideoType.
// An empty code maps to VideoTypeAll.
func ParseVideoType(s string) (VideoType, error) {
	switch VideoType(strings.ToLower(strings.TrimSpace(s))) {
	case "", VideoTypeAll:
		return VideoTypeAll, nil
	case VideoTypeShort:
		return VideoTypeShort, nil
	case VideoTypeNormal:
		return VideoTypeNormal, nil
	default:
		return "", &ValidationError{Field: "video_type", Message: "video type must be one of all, short, normal"}
	}
}

// Search orders accepted by the provider
const (
	OrderDate       = "date"
	OrderRating     = "rating"
	OrderRelevance  = "relevance"
	OrderTitle      = "title"
	OrderVideoCount = "videoCount"
	OrderViewCount  = "viewCount"
)

// ValidOrders lists every accepted Order value
var ValidOrders = []string{OrderDate, OrderRating, OrderRelevance, OrderTitle, OrderVideoCount, OrderViewCount}

// Criteria limits and defaults
const (
	MinMaxResults     = 1
	MaxMaxResults     = 500
	DefaultMaxResults = 50
	DefaultOrder      = OrderViewCount
	DefaultRegionCode = "JP"
	DefaultLanguage   = "ja"
)

// SearchCriteria holds the parameters of one search.
// It is validated explicitly with Validate before use, never on construction.
type SearchCriteria struct {
	Keyword         string
	MinViewCount    *int64
	MaxViewCount    *int64
	VideoType       VideoType
	PublishedAfter  *time.Time
	PublishedBefore *time.Time
	MaxResults      int
	Order           string
	RegionCode      string
	Language        string
}

// NewSearchCriteria returns criteria for keyword with every other field at its default
func NewSearchCriteria(keyword string) *SearchCriteria {
	return &SearchCriteria{
		Keyword:    keyword,
		VideoType:  VideoTypeAll,
		MaxResults: DefaultMaxResults,
		Order:      DefaultOrder,
		RegionCode: DefaultRegionCode,
		Language:   DefaultLanguage,
	}
}

// Validate checks the criteria and returns the first violated rule.
// Precedence: keyword, max results, min view count, view range, date range,
// order, max view count.
func (c *SearchCriteria) Validate() error {
	if strings.TrimSpace(c.Keyword) == "" {
		return ErrKeywordRequired
	}
	if c.MaxResults < MinMaxResults || c.MaxResults > MaxMaxResults {
		return ErrMaxResultsRange
	}
	if c.MinViewCount != nil && *c.MinViewCount < 0 {
		return ErrMinViewCountNegative
	}
	if c.MinViewCount != nil && c.MaxViewCount != nil && *c.MinViewCount > *c.MaxViewCount {
		return ErrViewCountRange
	}
	if c.PublishedAfter != nil && c.PublishedBefore != nil && c.PublishedAfter.After(*c.PublishedBefore) {
		return ErrPublishedRange
	}
	if !IsValidOrder(c.Order) {
		return ErrInvalidOrder
	}
	if c.MaxViewCount != nil && *c.MaxViewCount < 0 {
		return ErrMaxViewCountNegative
	}
	return nil
}

// ViewRange returns the view count bounds of the criteria
func (c *SearchCriteria) ViewRange() ViewCountRange {
	return ViewCountRange{Min: c.MinViewCount, Max: c.MaxViewCount}
}

// Clone returns a deep copy so a running search never observes later edits
func (c *SearchCriteria) Clone() *SearchCriteria {
	if c == nil {
		return nil
	}
	out := *c
	out.MinViewCount = cloneInt64(c.MinViewCount)
	out.MaxViewCount = cloneInt64(c.MaxViewCount)
	out.PublishedAfter = cloneTime(c.PublishedAfter)
	out.PublishedBefore = cloneTime(c.PublishedBefore)
	return &out
}

// IsValidOrder reports whether order is one of ValidOrders
func IsValidOrder(order string) bool {
	for _, o := range ValidOrders {
		if o == order {
			return true
		}
	}
	return false
}

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 {
	return &v
}

// TimePtr returns a pointer to t
func TimePtr(t time.Time) *time.Time {
	return &t
}

// DateLayout is the calendar date format accepted for published bounds
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date as midnight UTC
func ParseDate(field, s string) (*time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: "date must be formatted as YYYY-MM-DD"}
	}
	return &t, nil
}

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
