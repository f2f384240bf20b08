package search

import (
	"sort"

	"github.com/tomomira/youtube-video-analyzer/internal/model"
)

// FilterByViewCount keeps videos whose view count lies within the bounds that are set.
// Bounds are inclusive; a nil bound is open.
func FilterByViewCount(videos []*model.VideoInfo, min, max *int64) []*model.VideoInfo {
	r := model.ViewCountRange{Min: min, Max: max}
	return filter(videos, func(v *model.VideoInfo) bool {
		return r.Contains(v.ViewCount)
	})
}

// FilterShorts keeps only shorts when shortsOnly is true, only normal videos otherwise
func FilterShorts(videos []*model.VideoInfo, shortsOnly bool) []*model.VideoInfo {
	return filter(videos, func(v *model.VideoInfo) bool {
		return v.IsShort == shortsOnly
	})
}

// FilterByVideoType applies a VideoType selection; VideoTypeAll keeps everything
func FilterByVideoType(videos []*model.VideoInfo, t model.VideoType) []*model.VideoInfo {
	switch t {
	case model.VideoTypeShort:
		return FilterShorts(videos, true)
	case model.VideoTypeNormal:
		return FilterShorts(videos, false)
	default:
		return filter(videos, func(*model.VideoInfo) bool { return true })
	}
}

// ApplyCriteria runs the view-count and video-type filters of c
func ApplyCriteria(videos []*model.VideoInfo, c *model.SearchCriteria) []*model.VideoInfo {
	return FilterByVideoType(FilterByViewCount(videos, c.MinViewCount, c.MaxViewCount), c.VideoType)
}

// SortByViewCount returns a copy sorted by view count. Equal counts keep their input order.
func SortByViewCount(videos []*model.VideoInfo, descending bool) []*model.VideoInfo {
	return stableSorted(videos, func(a, b *model.VideoInfo) bool {
		if descending {
			return a.ViewCount > b.ViewCount
		}
		return a.ViewCount < b.ViewCount
	})
}

// SortByPublishedAt returns a copy sorted by publish time. Equal times keep their input order.
func SortByPublishedAt(videos []*model.VideoInfo, descending bool) []*model.VideoInfo {
	return stableSorted(videos, func(a, b *model.VideoInfo) bool {
		if descending {
			return a.PublishedAt.After(b.PublishedAt)
		}
		return a.PublishedAt.Before(b.PublishedAt)
	})
}

// SortByLikeCount returns a copy sorted by like count. Equal counts keep their input order.
func SortByLikeCount(videos []*model.VideoInfo, descending bool) []*model.VideoInfo {
	return stableSorted(videos, func(a, b *model.VideoInfo) bool {
		if descending {
			return a.LikeCount > b.LikeCount
		}
		return a.LikeCount < b.LikeCount
	})
}

// SortByDuration returns a copy sorted by duration. Equal durations keep their input order.
func SortByDuration(videos []*model.VideoInfo, descending bool) []*model.VideoInfo {
	return stableSorted(videos, func(a, b *model.VideoInfo) bool {
		if descending {
			return a.DurationSeconds > b.DurationSeconds
		}
		return a.DurationSeconds < b.DurationSeconds
	})
}

// Sort keys accepted by SortBy
const (
	SortKeyViews     = "views"
	SortKeyLikes     = "likes"
	SortKeyPublished = "published"
	SortKeyDuration  = "duration"
)

// SortBy dispatches to the sort helper named by key; ok is false for an unknown key
func SortBy(videos []*model.VideoInfo, key string, descending bool) ([]*model.VideoInfo, bool) {
	switch key {
	case SortKeyViews:
		return SortByViewCount(videos, descending), true
	case SortKeyLikes:
		return SortByLikeCount(videos, descending), true
	case SortKeyPublished:
		return SortByPublishedAt(videos, descending), true
	case SortKeyDuration:
		return SortByDuration(videos, descending), true
	default:
		return nil, false
	}
}

func filter(videos []*model.VideoInfo, keep func(*model.VideoInfo) bool) []*model.VideoInfo {
	out := make([]*model.VideoInfo, 0, len(videos))
	for _, v := range videos {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func stableSorted(videos []*model.VideoInfo, less func(a, b *model.VideoInfo) bool) []*model.VideoInfo {
	out := make([]*model.VideoInfo, len(videos))
	copy(out, videos)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}
