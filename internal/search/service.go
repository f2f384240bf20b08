package search

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/tomomira/youtube-video-analyzer/internal/config"
	"github.com/tomomira/youtube-video-analyzer/internal/model"
	"github.com/tomomira/youtube-video-analyzer/internal/youtube"
	ytv3 "google.golang.org/api/youtube/v3"
)

// Default pipeline bounds
const (
	DefaultPageSize  = youtube.MaxPageSize
	DefaultBatchSize = youtube.MaxPageSize
	DefaultMaxPages  = 10
)

// Provider operations named in ProviderError
const (
	OpDiscover = "discover"
	OpFetch    = "fetch_details"
)

// ProviderError reports a failed provider call. No partial results accompany it.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Options bounds the pipeline's provider usage
type Options struct {
	PageSize  int
	BatchSize int
	MaxPages  int
}

// OptionsFromConfig maps the YouTube config section onto pipeline options
func OptionsFromConfig(cfg *config.YouTubeConfig) Options {
	return Options{
		PageSize:  cfg.PageSize,
		BatchSize: cfg.BatchSize,
		MaxPages:  cfg.MaxPages,
	}
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 || o.PageSize > youtube.MaxPageSize {
		o.PageSize = DefaultPageSize
	}
	if o.BatchSize <= 0 || o.BatchSize > youtube.MaxPageSize {
		o.BatchSize = DefaultBatchSize
	}
	if o.MaxPages <= 0 {
		o.MaxPages = DefaultMaxPages
	}
	return o
}

// Service runs the search pipeline against a Provider
type Service struct {
	provider youtube.Provider
	opts     Options
	log      zerolog.Logger
}

// NewService creates a search service
func NewService(provider youtube.Provider, opts Options, logger zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		opts:     opts.withDefaults(),
		log:      logger.With().Str("component", "search").Logger(),
	}
}

// Search validates criteria, then discovers ids, fetches details, parses,
// filters and truncates to criteria.MaxResults.
// Provider calls run one at a time; the first failure aborts the search.
func (s *Service) Search(ctx context.Context, criteria *model.SearchCriteria) ([]*model.VideoInfo, error) {
	if criteria == nil {
		return nil, model.ErrKeywordRequired
	}
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	c := criteria.Clone()

	start := time.Now()
	s.log.Info().
		Str("keyword", c.Keyword).
		Int("maxResults", c.MaxResults).
		Msg("Search started")

	ids, err := s.discover(ctx, c)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		s.log.Info().Str("keyword", c.Keyword).Msg("Search returned no ids")
		return []*model.VideoInfo{}, nil
	}

	raw, err := s.fetchDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	videos := s.parseAll(raw)
	parsed := len(videos)
	videos = ApplyCriteria(videos, c)
	if len(videos) > c.MaxResults {
		videos = videos[:c.MaxResults]
	}

	s.log.Info().
		Str("keyword", c.Keyword).
		Int("ids", len(ids)).
		Int("fetched", len(raw)).
		Int("parsed", parsed).
		Int("count", len(videos)).
		Dur("duration", time.Since(start)).
		Msg("Search completed")

	return videos, nil
}

// discover pages through search.list until enough ids are collected,
// the cursor runs out or MaxPages is reached
func (s *Service) discover(ctx context.Context, c *model.SearchCriteria) ([]string, error) {
	pageSize := c.MaxResults
	if pageSize > s.opts.PageSize {
		pageSize = s.opts.PageSize
	}

	q := &youtube.DiscoveryQuery{
		Keyword:         c.Keyword,
		Order:           c.Order,
		RegionCode:      c.RegionCode,
		Language:        c.Language,
		PublishedAfter:  c.PublishedAfter,
		PublishedBefore: c.PublishedBefore,
		PageSize:        int64(pageSize),
	}

	var ids []string
	for page := 0; page < s.opts.MaxPages; page++ {
		resp, err := s.provider.DiscoverIDs(ctx, q)
		if err != nil {
			return nil, &ProviderError{Op: OpDiscover, Err: err}
		}
		ids = append(ids, resp.IDs...)

		if resp.NextPageToken == "" || len(ids) >= c.MaxResults {
			break
		}
		q.PageToken = resp.NextPageToken
	}

	if len(ids) > c.MaxResults {
		ids = ids[:c.MaxResults]
	}
	return ids, nil
}

// fetchDetails requests ids in batches and concatenates the results in batch order
func (s *Service) fetchDetails(ctx context.Context, ids []string) ([]*ytv3.Video, error) {
	raw := make([]*ytv3.Video, 0, len(ids))
	for start := 0; start < len(ids); start += s.opts.BatchSize {
		end := start + s.opts.BatchSize
		if end > len(ids) {
			end = len(ids)
		}
		items, err := s.provider.FetchDetails(ctx, ids[start:end])
		if err != nil {
			return nil, &ProviderError{Op: OpFetch, Err: err}
		}
		raw = append(raw, items...)
	}
	return raw, nil
}

// parseAll normalizes raw items, dropping any that fail to parse
func (s *Service) parseAll(raw []*ytv3.Video) []*model.VideoInfo {
	videos := make([]*model.VideoInfo, 0, len(raw))
	for _, item := range raw {
		v, err := youtube.ParseVideo(item)
		if err != nil {
			s.log.Warn().Err(err).Msg("Dropping unparsable video item")
			continue
		}
		videos = append(videos, v)
	}
	return videos
}

// GetVideoByID fetches a single video. It returns (nil, nil) when the provider has no such video.
func (s *Service) GetVideoByID(ctx context.Context, id string) (*model.VideoInfo, error) {
	videoID, err := model.ParseVideoID(id)
	if err != nil {
		return nil, err
	}

	items, err := s.provider.FetchDetails(ctx, []string{videoID.String()})
	if err != nil {
		return nil, &ProviderError{Op: OpFetch, Err: err}
	}
	if len(items) == 0 {
		return nil, nil
	}

	v, err := youtube.ParseVideo(items[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse video %s: %w", id, err)
	}
	return v, nil
}
