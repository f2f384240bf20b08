package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/tomomira/youtube-video-analyzer/internal/model"
)

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"Go 1.22!", `Go 1\.22\!`},
		{"a_b*c", `a\_b\*c`},
		{"[link](url)", `\[link\]\(url\)`},
		{`back\slash`, `back\\slash`},
	}

	for _, tt := range tests {
		if got := EscapeMarkdown(tt.input); got != tt.want {
			t.Errorf("EscapeMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
	}

	for _, tt := range tests {
		if got := FormatCount(tt.n); got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func testVideo(title string, views uint64) *model.VideoInfo {
	return &model.VideoInfo{
		ID:              "dQw4w9WgXcQ",
		Title:           title,
		URL:             model.WatchURL("dQw4w9WgXcQ"),
		ChannelName:     "Channel",
		ViewCount:       views,
		PublishedAt:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		DurationSeconds: 125,
	}
}

func TestFormatResults(t *testing.T) {
	videos := []*model.VideoInfo{testVideo("first", 10), testVideo("second", 20), testVideo("third", 30)}

	msg := FormatResults("Results for: go", videos, 2)
	if !strings.Contains(msg, "first") || !strings.Contains(msg, "second") {
		t.Errorf("preview should list the first two videos:\n%s", msg)
	}
	if strings.Contains(msg, "third") {
		t.Errorf("preview should stop at two videos:\n%s", msg)
	}
	if !strings.Contains(msg, "Showing 2 of 3") {
		t.Errorf("truncated preview should say so:\n%s", msg)
	}

	empty := FormatResults("Results for: go", nil, 2)
	if !strings.Contains(empty, "No videos matched") {
		t.Errorf("empty result message = %q", empty)
	}
}

func TestFormatVideoLine(t *testing.T) {
	line := FormatVideoLine(1, testVideo(strings.Repeat("x", 100), 1234567))

	if !strings.Contains(line, "1,234,567") {
		t.Errorf("line should show grouped views: %s", line)
	}
	if !strings.Contains(line, "02:05") {
		t.Errorf("line should show formatted duration: %s", line)
	}
	if strings.Contains(line, strings.Repeat("x", 61)) {
		t.Errorf("long titles should be truncated: %s", line)
	}
	if FormatVideoLine(1, nil) != "" {
		t.Error("nil video should format as empty")
	}
}

func TestFormatHistoryAndPresets(t *testing.T) {
	cc := model.FromCriteria(&model.SearchCriteria{
		Keyword:      "lofi",
		MinViewCount: model.Int64Ptr(100),
		VideoType:    model.VideoTypeShort,
		MaxResults:   20,
		Order:        model.OrderDate,
	})

	history := FormatHistory([]*model.SearchHistory{{ID: 7, CriteriaColumns: cc, ResultCount: 3, ExecutedAt: time.Now()}})
	for _, want := range []string{`\#7`, "lofi", "min\\=100", "type\\=short", "3 results"} {
		if !strings.Contains(history, want) {
			t.Errorf("history message missing %q:\n%s", want, history)
		}
	}

	presets := FormatPresets([]*model.SearchPreset{{Name: "daily", CriteriaColumns: cc}})
	if !strings.Contains(presets, "daily") {
		t.Errorf("preset message missing name:\n%s", presets)
	}

	if !strings.Contains(FormatHistory(nil), "No search history") {
		t.Error("empty history message")
	}
	if !strings.Contains(FormatPresets(nil), "No saved presets") {
		t.Error("empty preset message")
	}
}

// Escaped text never leaves a MarkdownV2 special character unescaped
func TestProperty_EscapeMarkdownComplete(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	special := "_*[]()~`>#+-=|{}.!"

	properties.Property("every special character is preceded by a backslash", prop.ForAll(
		func(s string) bool {
			escaped := EscapeMarkdown(s)
			runes := []rune(escaped)
			for i := 0; i < len(runes); i++ {
				if runes[i] == '\\' {
					i++ // skip the escaped character
					continue
				}
				if strings.ContainsRune(special, runes[i]) {
					return false
				}
			}
			return true
		},
		gen.RegexMatch(`[a-z0-9 _*\[\]()~`+"`"+`>#+\-=|{}.!\\]{0,30}`),
	))

	properties.TestingRun(t)
}
