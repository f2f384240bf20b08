package youtube

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tomomira/youtube-video-analyzer/internal/config"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	ytv3 "google.golang.org/api/youtube/v3"
)

var (
	searchParts = []string{"id"}
	videoParts  = []string{"snippet", "statistics", "contentDetails"}
)

// Client implements Provider on top of the YouTube Data API v3
type Client struct {
	service *ytv3.Service
	limiter *rate.Limiter
	timeout time.Duration
	log     zerolog.Logger
}

// NewClient creates a YouTube Data API client.
// Extra options are appended after the API key, so tests can point the client
// at a local endpoint.
func NewClient(ctx context.Context, cfg *config.YouTubeConfig, logger zerolog.Logger, opts ...option.ClientOption) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing YouTube API key: set YOUTUBE_API_KEY")
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	service, err := ytv3.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Client{
		service: service,
		limiter: rate.NewLimiter(limit, 1),
		timeout: cfg.Timeout,
		log:     logger.With().Str("component", "youtube").Logger(),
	}, nil
}

// DiscoverIDs calls search.list and returns the video ids of one page
func (c *Client) DiscoverIDs(ctx context.Context, q *DiscoveryQuery) (*DiscoveryPage, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	call := c.service.Search.List(searchParts).
		Q(q.Keyword).
		Type("video").
		MaxResults(q.PageSize).
		Order(q.Order).
		RegionCode(q.RegionCode).
		RelevanceLanguage(q.Language).
		Context(ctx)

	if q.PublishedAfter != nil {
		call = call.PublishedAfter(FormatPublishedTime(*q.PublishedAfter))
	}
	if q.PublishedBefore != nil {
		call = call.PublishedBefore(FormatPublishedTime(*q.PublishedBefore))
	}
	if q.PageToken != "" {
		call = call.PageToken(q.PageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("search.list failed: %w", err)
	}

	page := &DiscoveryPage{
		IDs:           make([]string, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			page.IDs = append(page.IDs, item.Id.VideoId)
		}
	}

	c.log.Debug().
		Str("keyword", q.Keyword).
		Int("ids", len(page.IDs)).
		Bool("hasNext", page.NextPageToken != "").
		Msg("Discovery page fetched")

	return page, nil
}

// FetchDetails calls videos.list for a batch of ids
func (c *Client) FetchDetails(ctx context.Context, ids []string) ([]*ytv3.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxPageSize {
		return nil, fmt.Errorf("too many ids in one batch: %d > %d", len(ids), MaxPageSize)
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	resp, err := c.service.Videos.List(videoParts).
		Id(strings.Join(ids, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("videos.list failed: %w", err)
	}

	c.log.Debug().
		Int("requested", len(ids)).
		Int("returned", len(resp.Items)).
		Msg("Detail batch fetched")

	return resp.Items, nil
}

// callContext bounds a single API call by the configured timeout
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
