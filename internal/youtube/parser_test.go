package youtube

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	ytv3 "google.golang.org/api/youtube/v3"
)

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"PT0S", 0, false},
		{"P0D", 0, false},
		{"PT59S", 59, false},
		{"PT1M", 60, false},
		{"PT1M1S", 61, false},
		{"PT2M5S", 125, false},
		{"PT1H1M5S", 3665, false},
		{"PT10H", 36000, false},
		{"P1DT2H", 93600, false},
		{"P1W", 604800, false},
		{"PT1.9S", 1, false},
		{"", 0, true},
		{"P", 0, true},
		{"PT", 0, true},
		{"P1DT", 0, true},
		{"1H2M", 0, true},
		{"PT1X", 0, true},
		{"P1Y", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseISODuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseISODuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidDuration) {
				t.Errorf("expected ErrInvalidDuration, got %v", err)
			}
			if got != tt.expected {
				t.Errorf("ParseISODuration(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

// Property: formatting h/m/s as an ISO duration and parsing it back yields the total seconds
func TestProperty_ISODurationRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("PT{h}H{m}M{s}S parses to h*3600+m*60+s", prop.ForAll(
		func(h, m, s int64) bool {
			got, err := ParseISODuration(fmt.Sprintf("PT%dH%dM%dS", h, m, s))
			return err == nil && got == h*3600+m*60+s
		},
		gen.Int64Range(0, 100),
		gen.Int64Range(0, 59),
		gen.Int64Range(0, 59),
	))

	properties.TestingRun(t)
}

func rawVideo(id, duration string) *ytv3.Video {
	return &ytv3.Video{
		Id: id,
		Snippet: &ytv3.VideoSnippet{
			Title:        "Title " + id,
			ChannelTitle: "Channel",
			ChannelId:    "UC_x5XG1OV2P6uZZ5FSM9Ttw",
			PublishedAt:  "2024-05-01T12:30:00Z",
			Description:  "desc",
			Tags:         []string{"go", "tutorial"},
			Thumbnails: &ytv3.ThumbnailDetails{
				Default: &ytv3.Thumbnail{Url: "https://i.ytimg.com/default.jpg"},
				High:    &ytv3.Thumbnail{Url: "https://i.ytimg.com/high.jpg"},
			},
		},
		Statistics: &ytv3.VideoStatistics{
			ViewCount:    1000,
			LikeCount:    50,
			CommentCount: 5,
		},
		ContentDetails: &ytv3.VideoContentDetails{Duration: duration},
	}
}

func TestParseVideo(t *testing.T) {
	v, err := ParseVideo(rawVideo("dQw4w9WgXcQ", "PT3M32S"))
	if err != nil {
		t.Fatalf("ParseVideo() error = %v", err)
	}

	if v.ID != "dQw4w9WgXcQ" {
		t.Errorf("ID = %q", v.ID)
	}
	if v.URL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("URL = %q", v.URL)
	}
	if v.DurationSeconds != 212 || v.IsShort {
		t.Errorf("duration = %d short = %v, want 212 false", v.DurationSeconds, v.IsShort)
	}
	if v.ViewCount != 1000 || v.LikeCount != 50 || v.CommentCount != 5 {
		t.Errorf("counts = %d/%d/%d", v.ViewCount, v.LikeCount, v.CommentCount)
	}
	if !v.PublishedAt.Equal(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)) {
		t.Errorf("PublishedAt = %v", v.PublishedAt)
	}
	if v.ThumbnailURL != "https://i.ytimg.com/high.jpg" {
		t.Errorf("ThumbnailURL = %q, want the high thumbnail", v.ThumbnailURL)
	}
	if len(v.Tags) != 2 || v.Tags[0] != "go" {
		t.Errorf("Tags = %v", v.Tags)
	}
}

func TestParseVideo_ShortBoundary(t *testing.T) {
	tests := []struct {
		duration string
		short    bool
	}{
		{"PT60S", true},
		{"PT1M", true},
		{"PT61S", false},
		{"PT1M1S", false},
	}

	for _, tt := range tests {
		v, err := ParseVideo(rawVideo("abcdefghijk", tt.duration))
		if err != nil {
			t.Fatalf("ParseVideo(%s) error = %v", tt.duration, err)
		}
		if v.IsShort != tt.short {
			t.Errorf("ParseVideo(%s).IsShort = %v, want %v", tt.duration, v.IsShort, tt.short)
		}
	}
}

func TestParseVideo_MissingStatistics(t *testing.T) {
	raw := rawVideo("abcdefghijk", "PT10S")
	raw.Statistics = nil

	v, err := ParseVideo(raw)
	if err != nil {
		t.Fatalf("ParseVideo() error = %v", err)
	}
	if v.ViewCount != 0 || v.LikeCount != 0 || v.CommentCount != 0 {
		t.Errorf("counts should default to 0, got %d/%d/%d", v.ViewCount, v.LikeCount, v.CommentCount)
	}
}

func TestParseVideo_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(v *ytv3.Video)
		want   error
	}{
		{"missing id", func(v *ytv3.Video) { v.Id = "" }, ErrMissingField},
		{"missing snippet", func(v *ytv3.Video) { v.Snippet = nil }, ErrMissingField},
		{"missing content details", func(v *ytv3.Video) { v.ContentDetails = nil }, ErrMissingField},
		{"missing published at", func(v *ytv3.Video) { v.Snippet.PublishedAt = "" }, ErrMissingField},
		{"malformed duration", func(v *ytv3.Video) { v.ContentDetails.Duration = "ten minutes" }, ErrInvalidDuration},
		{"malformed published at", func(v *ytv3.Video) { v.Snippet.PublishedAt = "yesterday" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawVideo("abcdefghijk", "PT10S")
			tt.modify(raw)
			_, err := ParseVideo(raw)
			if err == nil {
				t.Fatal("ParseVideo() expected error, got nil")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("ParseVideo() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBestThumbnail(t *testing.T) {
	tests := []struct {
		name     string
		details  *ytv3.ThumbnailDetails
		expected string
	}{
		{"nil", nil, ""},
		{"empty", &ytv3.ThumbnailDetails{}, ""},
		{"default only", &ytv3.ThumbnailDetails{Default: &ytv3.Thumbnail{Url: "d"}}, "d"},
		{"maxres wins", &ytv3.ThumbnailDetails{
			Default: &ytv3.Thumbnail{Url: "d"},
			High:    &ytv3.Thumbnail{Url: "h"},
			Maxres:  &ytv3.Thumbnail{Url: "m"},
		}, "m"},
		{"standard over high", &ytv3.ThumbnailDetails{
			High:     &ytv3.Thumbnail{Url: "h"},
			Standard: &ytv3.Thumbnail{Url: "s"},
		}, "s"},
	}

	for _, tt := range tests {
		if got := bestThumbnail(tt.details); got != tt.expected {
			t.Errorf("%s: bestThumbnail() = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestFormatPublishedTime(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	got := FormatPublishedTime(time.Date(2024, 1, 1, 9, 0, 0, 0, jst))
	if got != "2024-01-01T00:00:00Z" {
		t.Errorf("FormatPublishedTime() = %q, want %q", got, "2024-01-01T00:00:00Z")
	}
}
