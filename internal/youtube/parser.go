package youtube

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/tomomira/youtube-video-analyzer/internal/model"
	ytv3 "google.golang.org/api/youtube/v3"
)

var (
	// ErrMissingField is returned when a raw item lacks a required field
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidDuration is returned for a malformed ISO-8601 duration
	ErrInvalidDuration = errors.New("invalid ISO-8601 duration")
)

// Weeks, days and time components. Years and months have no fixed length and are rejected.
var isoDurationRegex = regexp.MustCompile(`^P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// ParseISODuration converts an ISO-8601 duration such as PT1H2M3S into whole seconds
func ParseISODuration(s string) (int64, error) {
	m := isoDurationRegex.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "PT" || s[len(s)-1] == 'T' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	units := []float64{7 * 24 * 3600, 24 * 3600, 3600, 60, 1}
	var total float64
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		v, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
		}
		total += v * unit
	}
	return int64(math.Floor(total)), nil
}

// ParseVideo normalizes one videos.list item.
// Statistics default to zero when absent; id, snippet and duration are required.
func ParseVideo(item *ytv3.Video) (*model.VideoInfo, error) {
	if item == nil {
		return nil, fmt.Errorf("%w: item", ErrMissingField)
	}
	if item.Id == "" {
		return nil, fmt.Errorf("%w: id", ErrMissingField)
	}
	if item.Snippet == nil {
		return nil, fmt.Errorf("%w: snippet (video %s)", ErrMissingField, item.Id)
	}
	if item.ContentDetails == nil || item.ContentDetails.Duration == "" {
		return nil, fmt.Errorf("%w: contentDetails.duration (video %s)", ErrMissingField, item.Id)
	}
	if item.Snippet.PublishedAt == "" {
		return nil, fmt.Errorf("%w: snippet.publishedAt (video %s)", ErrMissingField, item.Id)
	}

	seconds, err := ParseISODuration(item.ContentDetails.Duration)
	if err != nil {
		return nil, fmt.Errorf("video %s: %w", item.Id, err)
	}

	publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
	if err != nil {
		return nil, fmt.Errorf("video %s: failed to parse publishedAt: %w", item.Id, err)
	}

	video := &model.VideoInfo{
		ID:              item.Id,
		Title:           item.Snippet.Title,
		URL:             model.WatchURL(item.Id),
		ChannelName:     item.Snippet.ChannelTitle,
		ChannelID:       item.Snippet.ChannelId,
		PublishedAt:     publishedAt.UTC(),
		DurationSeconds: seconds,
		IsShort:         model.IsShortDuration(seconds),
		Description:     item.Snippet.Description,
		Tags:            append([]string{}, item.Snippet.Tags...),
		ThumbnailURL:    bestThumbnail(item.Snippet.Thumbnails),
	}

	if stats := item.Statistics; stats != nil {
		video.ViewCount = stats.ViewCount
		video.LikeCount = stats.LikeCount
		video.CommentCount = stats.CommentCount
	}

	return video, nil
}

// bestThumbnail returns the URL of the highest resolution thumbnail available
func bestThumbnail(t *ytv3.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*ytv3.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}
