package bot

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/tomomira/youtube-video-analyzer/internal/model"
)

func TestParseSearchArgs(t *testing.T) {
	c, err := ParseSearchArgs(nil, "golang tutorial min=1,000 max=50000 type=normal limit=20 order=date after=2024-01-01 before=2024-06-30 region=us lang=en")
	if err != nil {
		t.Fatalf("ParseSearchArgs returned error: %v", err)
	}

	if c.Keyword != "golang tutorial" {
		t.Errorf("Keyword = %q, want %q", c.Keyword, "golang tutorial")
	}
	if c.MinViewCount == nil || *c.MinViewCount != 1000 {
		t.Errorf("MinViewCount = %v, want 1000", c.MinViewCount)
	}
	if c.MaxViewCount == nil || *c.MaxViewCount != 50000 {
		t.Errorf("MaxViewCount = %v, want 50000", c.MaxViewCount)
	}
	if c.VideoType != model.VideoTypeNormal {
		t.Errorf("VideoType = %q, want normal", c.VideoType)
	}
	if c.MaxResults != 20 {
		t.Errorf("MaxResults = %d, want 20", c.MaxResults)
	}
	if c.Order != model.OrderDate {
		t.Errorf("Order = %q, want date", c.Order)
	}
	if c.PublishedAfter == nil || !c.PublishedAfter.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("PublishedAfter = %v", c.PublishedAfter)
	}
	if c.PublishedBefore == nil || !c.PublishedBefore.Equal(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("PublishedBefore = %v", c.PublishedBefore)
	}
	if c.RegionCode != "US" || c.Language != "en" {
		t.Errorf("RegionCode/Language = %q/%q, want US/en", c.RegionCode, c.Language)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("parsed criteria should be valid, got %v", err)
	}
}

func TestParseSearchArgs_Defaults(t *testing.T) {
	c, err := ParseSearchArgs(nil, "lofi")
	if err != nil {
		t.Fatalf("ParseSearchArgs returned error: %v", err)
	}
	want := model.NewSearchCriteria("lofi")
	if c.MaxResults != want.MaxResults || c.Order != want.Order || c.VideoType != want.VideoType {
		t.Errorf("defaults not applied: %+v", c)
	}
}

func TestParseSearchArgs_Base(t *testing.T) {
	base := model.NewSearchCriteria("")
	base.RegionCode = "US"
	base.Language = "en"

	c, err := ParseSearchArgs(base, "lofi lang=de")
	if err != nil {
		t.Fatalf("ParseSearchArgs returned error: %v", err)
	}
	if c.RegionCode != "US" || c.Language != "de" || c.Keyword != "lofi" {
		t.Errorf("base not applied: %+v", c)
	}
	if base.Language != "en" || base.Keyword != "" {
		t.Errorf("base must not be modified: %+v", base)
	}
}

func TestParseSearchArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{"bad min", "go min=lots"},
		{"bad type", "go type=long"},
		{"bad limit", "go limit=ten"},
		{"bad date", "go after=2024/01/01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSearchArgs(nil, tt.args)
			var ve *model.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("ParseSearchArgs(%q) error = %v, want ValidationError", tt.args, err)
			}
		})
	}
}

func TestParseSearchArgs_UnknownKeyIsKeyword(t *testing.T) {
	c, err := ParseSearchArgs(nil, "a=b golang")
	if err != nil {
		t.Fatalf("ParseSearchArgs returned error: %v", err)
	}
	if c.Keyword != "a=b golang" {
		t.Errorf("Keyword = %q, want %q", c.Keyword, "a=b golang")
	}
}

func TestParseFilterArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     string
		wantErr  bool
		wantType model.VideoType
	}{
		{name: "empty", args: "", wantType: model.VideoTypeAll},
		{name: "type only", args: "type=short", wantType: model.VideoTypeShort},
		{name: "range", args: "min=10 max=100", wantType: model.VideoTypeAll},
		{name: "inverted range", args: "min=100 max=10", wantErr: true},
		{name: "negative", args: "min=-1", wantErr: true},
		{name: "bare word", args: "short", wantErr: true},
		{name: "search-only key", args: "limit=5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilterArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFilterArgs(%q) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if err == nil && f.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", f.Type, tt.wantType)
			}
		})
	}
}

func TestParseSortArgs(t *testing.T) {
	tests := []struct {
		args     string
		wantKey  string
		wantDesc bool
		wantErr  bool
	}{
		{"views", "views", true, false},
		{"likes asc", "likes", false, false},
		{"Published DESC", "published", true, false},
		{"duration sideways", "", false, true},
		{"title", "", false, true},
		{"", "", false, true},
	}

	for _, tt := range tests {
		key, desc, err := ParseSortArgs(tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSortArgs(%q) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			continue
		}
		if key != tt.wantKey || desc != tt.wantDesc {
			t.Errorf("ParseSortArgs(%q) = %q, %v; want %q, %v", tt.args, key, desc, tt.wantKey, tt.wantDesc)
		}
	}
}

// Plain words always end up in the keyword, in order
func TestProperty_KeywordWordsPreserved(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	wordGen := gen.RegexMatch(`[a-z]{1,8}`)

	properties.Property("keyword is the words joined by spaces", prop.ForAll(
		func(words []string, limit int) bool {
			args := strings.Join(words, " ") + " limit=" + strconv.Itoa(limit)
			c, err := ParseSearchArgs(nil, args)
			if err != nil {
				return false
			}
			return c.Keyword == strings.Join(words, " ") && c.MaxResults == limit
		},
		gen.SliceOfN(3, wordGen),
		gen.IntRange(1, 500),
	))

	properties.TestingRun(t)
}
