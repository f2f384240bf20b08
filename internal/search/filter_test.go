package search

import (
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/tomomira/youtube-video-analyzer/internal/model"
)

func makeVideos(views []uint64, durations []int64) []*model.VideoInfo {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	videos := make([]*model.VideoInfo, len(views))
	for i, v := range views {
		d := int64(120)
		if i < len(durations) {
			d = durations[i]
		}
		videos[i] = &model.VideoInfo{
			ID:              videoID(i),
			ViewCount:       v,
			LikeCount:       v / 10,
			DurationSeconds: d,
			IsShort:         model.IsShortDuration(d),
			PublishedAt:     base.Add(time.Duration(v%7) * 24 * time.Hour),
		}
	}
	return videos
}

func ids(videos []*model.VideoInfo) []string {
	out := make([]string, len(videos))
	for i, v := range videos {
		out[i] = v.ID
	}
	return out
}

func TestFilterByViewCount(t *testing.T) {
	videos := makeVideos([]uint64{10, 100, 1000, 10000}, nil)

	tests := []struct {
		name     string
		min, max *int64
		want     []string
	}{
		{"open", nil, nil, ids(videos)},
		{"min inclusive", model.Int64Ptr(100), nil, []string{videoID(1), videoID(2), videoID(3)}},
		{"max inclusive", nil, model.Int64Ptr(100), []string{videoID(0), videoID(1)}},
		{"both", model.Int64Ptr(100), model.Int64Ptr(1000), []string{videoID(1), videoID(2)}},
		{"none", model.Int64Ptr(20000), nil, []string{}},
		{"negative min ignored", model.Int64Ptr(-1), model.Int64Ptr(100), []string{videoID(0), videoID(1)}},
		{"negative max ignored", model.Int64Ptr(100), model.Int64Ptr(-1), []string{videoID(1), videoID(2), videoID(3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterByViewCount(videos, tt.min, tt.max))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterByViewCount() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterShorts(t *testing.T) {
	videos := makeVideos([]uint64{1, 2, 3, 4}, []int64{30, 60, 61, 600})

	if got := ids(FilterShorts(videos, true)); !reflect.DeepEqual(got, []string{videoID(0), videoID(1)}) {
		t.Errorf("FilterShorts(true) = %v", got)
	}
	if got := ids(FilterShorts(videos, false)); !reflect.DeepEqual(got, []string{videoID(2), videoID(3)}) {
		t.Errorf("FilterShorts(false) = %v", got)
	}
	if got := FilterByVideoType(videos, model.VideoTypeAll); len(got) != 4 {
		t.Errorf("FilterByVideoType(all) kept %d, want 4", len(got))
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	videos := makeVideos([]uint64{3, 1, 2}, nil)
	before := ids(videos)

	sorted := SortByViewCount(videos, false)

	if !reflect.DeepEqual(ids(videos), before) {
		t.Errorf("input reordered: %v", ids(videos))
	}
	if got := ids(sorted); !reflect.DeepEqual(got, []string{videoID(1), videoID(2), videoID(0)}) {
		t.Errorf("SortByViewCount(asc) = %v", got)
	}
}

func TestSortBy(t *testing.T) {
	videos := makeVideos([]uint64{5, 50, 20}, []int64{300, 10, 90})

	tests := []struct {
		key        string
		descending bool
		want       []string
	}{
		{SortKeyViews, true, []string{videoID(1), videoID(2), videoID(0)}},
		{SortKeyLikes, false, []string{videoID(0), videoID(2), videoID(1)}},
		{SortKeyDuration, true, []string{videoID(0), videoID(2), videoID(1)}},
	}

	for _, tt := range tests {
		got, ok := SortBy(videos, tt.key, tt.descending)
		if !ok {
			t.Fatalf("SortBy(%q) not recognized", tt.key)
		}
		if !reflect.DeepEqual(ids(got), tt.want) {
			t.Errorf("SortBy(%q, %v) = %v, want %v", tt.key, tt.descending, ids(got), tt.want)
		}
	}

	if _, ok := SortBy(videos, "title", true); ok {
		t.Error("SortBy(title) should be rejected")
	}
}

func TestSortByPublishedAtStable(t *testing.T) {
	same := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	videos := []*model.VideoInfo{
		{ID: "a", PublishedAt: same},
		{ID: "b", PublishedAt: same.Add(time.Hour)},
		{ID: "c", PublishedAt: same},
	}

	if got := ids(SortByPublishedAt(videos, true)); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Errorf("SortByPublishedAt(desc) = %v", got)
	}
	if got := ids(SortByPublishedAt(videos, false)); !reflect.DeepEqual(got, []string{"a", "c", "b"}) {
		t.Errorf("SortByPublishedAt(asc) = %v", got)
	}
}

// Property: filtering an already filtered sequence by the same predicate changes nothing
func TestProperty_FilterIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("view count filter is idempotent", prop.ForAll(
		func(views []uint64, min, max int64) bool {
			videos := makeVideos(views, nil)
			once := FilterByViewCount(videos, &min, &max)
			twice := FilterByViewCount(once, &min, &max)
			return reflect.DeepEqual(ids(once), ids(twice))
		},
		gen.SliceOf(gen.UInt64Range(0, 10000)),
		gen.Int64Range(0, 5000),
		gen.Int64Range(5000, 10000),
	))

	properties.Property("shorts filter is idempotent", prop.ForAll(
		func(durations []int64, shortsOnly bool) bool {
			videos := makeVideos(make([]uint64, len(durations)), durations)
			once := FilterShorts(videos, shortsOnly)
			twice := FilterShorts(once, shortsOnly)
			return reflect.DeepEqual(ids(once), ids(twice))
		},
		gen.SliceOf(gen.Int64Range(0, 200)),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// Property: items with equal sort keys keep their original relative order
func TestProperty_SortStable(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("view count sort is stable", prop.ForAll(
		func(views []uint64, descending bool) bool {
			videos := makeVideos(views, nil)
			position := make(map[string]int, len(videos))
			for i, v := range videos {
				position[v.ID] = i
			}

			sorted := SortByViewCount(videos, descending)
			for i := 1; i < len(sorted); i++ {
				prev, cur := sorted[i-1], sorted[i]
				if prev.ViewCount == cur.ViewCount && position[prev.ID] > position[cur.ID] {
					return false
				}
				if descending && prev.ViewCount < cur.ViewCount {
					return false
				}
				if !descending && prev.ViewCount > cur.ViewCount {
					return false
				}
			}
			return len(sorted) == len(videos)
		},
		// a small key space forces ties
		gen.SliceOf(gen.UInt64Range(0, 5)),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
