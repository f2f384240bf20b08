package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tomomira/youtube-video-analyzer/internal/model"
)

const maxTitleRunes = 60

// EscapeMarkdown escapes special characters for Telegram MarkdownV2 format
func EscapeMarkdown(text string) string {
	// Characters that need to be escaped in MarkdownV2:
	// \ _ * [ ] ( ) ~ ` > # + - = | { } . !
	specialChars := []string{"\\", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}
	result := text
	for _, char := range specialChars {
		result = strings.ReplaceAll(result, char, "\\"+char)
	}
	return result
}

// FormatVideoLine formats one result as a numbered MarkdownV2 entry
func FormatVideoLine(index int, v *model.VideoInfo) string {
	if v == nil {
		return ""
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d\\. *%s*", index, EscapeMarkdown(truncate(v.Title, maxTitleRunes))))
	parts = append(parts, fmt.Sprintf("   📺 %s", EscapeMarkdown(v.ChannelName)))
	parts = append(parts, fmt.Sprintf("   👁 %s  👍 %s  ⏱ %s  %s",
		EscapeMarkdown(FormatCount(v.ViewCount)),
		EscapeMarkdown(FormatCount(v.LikeCount)),
		EscapeMarkdown(v.DurationFormatted()),
		EscapeMarkdown(v.TypeLabel()),
	))
	parts = append(parts, fmt.Sprintf("   📅 %s  🔗 %s",
		EscapeMarkdown(v.PublishedAt.Format(model.DateLayout)),
		EscapeMarkdown(v.URL),
	))

	return strings.Join(parts, "\n")
}

// FormatResults formats the first preview results under a heading
func FormatResults(title string, videos []*model.VideoInfo, preview int) string {
	if len(videos) == 0 {
		return fmt.Sprintf("🔍 *%s*\n\nNo videos matched\\.", EscapeMarkdown(title))
	}

	shown := videos
	if preview > 0 && len(shown) > preview {
		shown = shown[:preview]
	}

	lines := []string{fmt.Sprintf("🔍 *%s* \\(%d videos\\)\n", EscapeMarkdown(title), len(videos))}
	for i, v := range shown {
		lines = append(lines, FormatVideoLine(i+1, v))
	}
	if len(shown) < len(videos) {
		lines = append(lines, fmt.Sprintf("\n_Showing %d of %d\\. Use /export for the full list\\._", len(shown), len(videos)))
	}
	return strings.Join(lines, "\n")
}

// FormatPresets formats the preset list
func FormatPresets(presets []*model.SearchPreset) string {
	if len(presets) == 0 {
		return "📭 No saved presets\\.\nUse /preset save <name> <search args> to create one\\."
	}

	lines := []string{"📋 *Saved Presets:*\n"}
	for i, p := range presets {
		lines = append(lines, fmt.Sprintf("%d\\. *%s* \\- %s",
			i+1, EscapeMarkdown(p.Name), EscapeMarkdown(describeColumns(p.CriteriaColumns))))
	}
	return strings.Join(lines, "\n")
}

// FormatHistory formats history records, newest first
func FormatHistory(records []*model.SearchHistory) string {
	if len(records) == 0 {
		return "📭 No search history\\."
	}

	lines := []string{"🕘 *Search History:*\n"}
	for _, h := range records {
		lines = append(lines, fmt.Sprintf("\\#%d %s \\- %s \\(%d results\\)",
			h.ID,
			EscapeMarkdown(h.ExecutedAt.Local().Format("2006-01-02 15:04")),
			EscapeMarkdown(describeColumns(h.CriteriaColumns)),
			h.ResultCount,
		))
	}
	return strings.Join(lines, "\n")
}

// FormatCount groups digits with commas
func FormatCount(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// describeColumns summarizes stored criteria on one line
func describeColumns(cc model.CriteriaColumns) string {
	parts := []string{fmt.Sprintf("%q", cc.Keyword)}
	if cc.MinViewCount != nil {
		parts = append(parts, fmt.Sprintf("min=%d", *cc.MinViewCount))
	}
	if cc.MaxViewCount != nil {
		parts = append(parts, fmt.Sprintf("max=%d", *cc.MaxViewCount))
	}
	if cc.VideoType != "" && cc.VideoType != model.VideoTypeAll {
		parts = append(parts, "type="+string(cc.VideoType))
	}
	parts = append(parts, fmt.Sprintf("limit=%d", cc.MaxResults), "order="+cc.SortOrder)
	return strings.Join(parts, " ")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// formatUptime formats a duration into a human-readable string
func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
