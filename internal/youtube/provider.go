package youtube

import (
	"context"
	"time"

	ytv3 "google.golang.org/api/youtube/v3"
)

// MaxPageSize is the largest page or batch the Data API accepts per call
const MaxPageSize = 50

// PublishedTimeFormat is the timestamp layout the search endpoint expects
const PublishedTimeFormat = "2006-01-02T15:04:05Z"

// Provider defines the remote video search API the pipeline consumes
type Provider interface {
	// DiscoverIDs returns one page of video ids matching the query
	DiscoverIDs(ctx context.Context, q *DiscoveryQuery) (*DiscoveryPage, error)

	// FetchDetails returns the raw items for up to MaxPageSize ids
	FetchDetails(ctx context.Context, ids []string) ([]*ytv3.Video, error)
}

// DiscoveryQuery is one search.list request
type DiscoveryQuery struct {
	Keyword         string
	Order           string
	RegionCode      string
	Language        string
	PublishedAfter  *time.Time
	PublishedBefore *time.Time
	PageSize        int64
	PageToken       string
}

// DiscoveryPage is one search.list response
type DiscoveryPage struct {
	IDs           []string
	NextPageToken string
}

// FormatPublishedTime renders t in the layout the search endpoint expects, in UTC
func FormatPublishedTime(t time.Time) string {
	return t.UTC().Format(PublishedTimeFormat)
}
