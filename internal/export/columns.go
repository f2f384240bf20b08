package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomomira/youtube-video-analyzer/internal/model"
)

// ErrNoVideos is returned when an export is requested for an empty result set
var ErrNoVideos = errors.New("no videos to export")

// Error reports a failed export write with its underlying cause
type Error struct {
	Op     string
	Target string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("export %s to %s failed: %v", e.Op, e.Target, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Column is one exported field
type Column struct {
	Header string
	Width  float64
}

// Column positions, zero-based
const (
	ColNo = iota
	ColTitle
	ColURL
	ColChannelName
	ColChannelID
	ColViews
	ColLikes
	ColComments
	ColPublished
	ColDuration
	ColType
	ColDescription
	ColTags
	ColThumbnail
)

// Columns is the shared column set of every export target
var Columns = []Column{
	{Header: "No", Width: 6},
	{Header: "Title", Width: 50},
	{Header: "URL", Width: 45},
	{Header: "Channel Name", Width: 25},
	{Header: "Channel ID", Width: 28},
	{Header: "Views", Width: 14},
	{Header: "Likes", Width: 12},
	{Header: "Comments", Width: 12},
	{Header: "Published", Width: 12},
	{Header: "Duration", Width: 10},
	{Header: "Type", Width: 8},
	{Header: "Description", Width: 60},
	{Header: "Tags", Width: 40},
	{Header: "Thumbnail URL", Width: 50},
}

// DateLayout formats the published column
const DateLayout = "2006-01-02"

// Headers returns the header row
func Headers() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = c.Header
	}
	return out
}

// Row returns the cell values of one video; index is 1-based
func Row(index int, v *model.VideoInfo) []interface{} {
	return []interface{}{
		index,
		v.Title,
		v.URL,
		v.ChannelName,
		v.ChannelID,
		v.ViewCount,
		v.LikeCount,
		v.CommentCount,
		v.PublishedAt.Format(DateLayout),
		v.DurationFormatted(),
		v.TypeLabel(),
		v.Description,
		strings.Join(v.Tags, ", "),
		v.ThumbnailURL,
	}
}
