package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/tomomira/youtube-video-analyzer/internal/model"
)

const maxTitleWidth = 48

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	numberStyle = cellStyle.Align(lipgloss.Right)

	shortStyle = cellStyle.Foreground(lipgloss.Color("205"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32"))

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

// Column indexes of the video table
const (
	videoColNo = iota
	videoColTitle
	videoColChannel
	videoColViews
	videoColLikes
	videoColDuration
	videoColPublished
	videoColType
	videoColURL
)

func renderVideos(w io.Writer, title string, videos []*model.VideoInfo) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s (%d videos)", title, len(videos))))
	if len(videos) == 0 {
		fmt.Fprintln(w, noDataStyle.Render("No videos matched."))
		return
	}

	rows := make([][]string, 0, len(videos))
	for i, v := range videos {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			truncate(v.Title, maxTitleWidth),
			truncate(v.ChannelName, 24),
			formatCount(v.ViewCount),
			formatCount(v.LikeCount),
			v.DurationFormatted(),
			v.PublishedAt.Format(model.DateLayout),
			v.TypeLabel(),
			v.URL,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("#", "Title", "Channel", "Views", "Likes", "Duration", "Published", "Type", "URL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			switch col {
			case videoColNo, videoColViews, videoColLikes, videoColDuration:
				return numberStyle
			case videoColType:
				if row >= 0 && row < len(videos) && videos[row].IsShort {
					return shortStyle
				}
			}
			return cellStyle
		})

	fmt.Fprintln(w, t.Render())
}

func renderPresets(w io.Writer, presets []*model.SearchPreset) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Presets (%d)", len(presets))))
	if len(presets) == 0 {
		fmt.Fprintln(w, noDataStyle.Render("No saved presets."))
		return
	}

	rows := make([][]string, 0, len(presets))
	for _, p := range presets {
		rows = append(rows, []string{
			p.Name,
			describeCriteria(p.CriteriaColumns),
			p.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	fmt.Fprintln(w, simpleTable([]string{"Name", "Criteria", "Updated"}, rows))
}

func renderHistory(w io.Writer, records []*model.SearchHistory) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Search history (%d)", len(records))))
	if len(records) == 0 {
		fmt.Fprintln(w, noDataStyle.Render("No search history."))
		return
	}

	rows := make([][]string, 0, len(records))
	for _, h := range records {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(h.ID), 10),
			h.ExecutedAt.Local().Format("2006-01-02 15:04:05"),
			describeCriteria(h.CriteriaColumns),
			strconv.Itoa(h.ResultCount),
		})
	}
	fmt.Fprintln(w, simpleTable([]string{"ID", "Executed", "Criteria", "Results"}, rows))
}

func renderSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

func renderMeta(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf(format, args...)))
}

func simpleTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}

func describeCriteria(cc model.CriteriaColumns) string {
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
	if cc.PublishedAfter != nil {
		parts = append(parts, "after="+shortDate(*cc.PublishedAfter))
	}
	if cc.PublishedBefore != nil {
		parts = append(parts, "before="+shortDate(*cc.PublishedBefore))
	}
	parts = append(parts, fmt.Sprintf("limit=%d", cc.MaxResults), "order="+cc.SortOrder)
	return strings.Join(parts, " ")
}

// shortDate trims a stored RFC 3339 timestamp to its date
func shortDate(ts string) string {
	if len(ts) >= len(model.DateLayout) {
		return ts[:len(model.DateLayout)]
	}
	return ts
}

func formatCount(n uint64) string {
	s := strconv.FormatUint(n, 10)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
