package model

import (
	"fmt"
	"time"
)

// CriteriaColumns is the scalar-column snapshot of a SearchCriteria shared by
// search_history and search_presets rows. Timestamps are RFC 3339 text.
type CriteriaColumns struct {
	Keyword         string    `gorm:"size:200;not null"`
	MinViewCount    *int64
	MaxViewCount    *int64
	VideoType       VideoType `gorm:"size:20"`
	PublishedAfter  *string   `gorm:"size:40"`
	PublishedBefore *string   `gorm:"size:40"`
	MaxResults      int
	SortOrder       string    `gorm:"size:20"`
	RegionCode      string    `gorm:"size:10"`
	Language        string    `gorm:"size:10"`
}

// FromCriteria snapshots c into columns
func FromCriteria(c *SearchCriteria) CriteriaColumns {
	return CriteriaColumns{
		Keyword:         c.Keyword,
		MinViewCount:    cloneInt64(c.MinViewCount),
		MaxViewCount:    cloneInt64(c.MaxViewCount),
		VideoType:       c.VideoType,
		PublishedAfter:  formatTimestamp(c.PublishedAfter),
		PublishedBefore: formatTimestamp(c.PublishedBefore),
		MaxResults:      c.MaxResults,
		SortOrder:       c.Order,
		RegionCode:      c.RegionCode,
		Language:        c.Language,
	}
}

// ToCriteria rebuilds the criteria stored in the columns
func (cc CriteriaColumns) ToCriteria() (*SearchCriteria, error) {
	videoType, err := ParseVideoType(string(cc.VideoType))
	if err != nil {
		return nil, err
	}
	after, err := parseTimestamp(cc.PublishedAfter)
	if err != nil {
		return nil, fmt.Errorf("failed to parse published_after: %w", err)
	}
	before, err := parseTimestamp(cc.PublishedBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to parse published_before: %w", err)
	}

	return &SearchCriteria{
		Keyword:         cc.Keyword,
		MinViewCount:    cloneInt64(cc.MinViewCount),
		MaxViewCount:    cloneInt64(cc.MaxViewCount),
		VideoType:       videoType,
		PublishedAfter:  after,
		PublishedBefore: before,
		MaxResults:      cc.MaxResults,
		Order:           cc.SortOrder,
		RegionCode:      cc.RegionCode,
		Language:        cc.Language,
	}, nil
}

// SearchHistory records one executed search. Rows are append-only.
type SearchHistory struct {
	ID              uint `gorm:"primaryKey"`
	CriteriaColumns `gorm:"embedded"`
	ResultCount     int       `gorm:"not null"`
	ExecutedAt      time.Time `gorm:"not null;index:idx_search_history_executed_at,sort:desc"`
}

// TableName returns the table name for SearchHistory
func (SearchHistory) TableName() string {
	return "search_history"
}

// Criteria returns the criteria the search ran with
func (h *SearchHistory) Criteria() (*SearchCriteria, error) {
	return h.CriteriaColumns.ToCriteria()
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}

func parseTimestamp(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
