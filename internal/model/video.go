package model

import (
	"fmt"
	"time"
)

// ShortMaxSeconds is the longest duration still classified as a short video
const ShortMaxSeconds = 60

// VideoInfo is one normalized search result.
// It is built once while parsing a provider item and treated as read-only afterwards.
type VideoInfo struct {
	ID              string    `json:"video_id"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	ChannelName     string    `json:"channel_name"`
	ChannelID       string    `json:"channel_id"`
	ViewCount       uint64    `json:"view_count"`
	LikeCount       uint64    `json:"like_count"`
	CommentCount    uint64    `json:"comment_count"`
	PublishedAt     time.Time `json:"published_at"`
	DurationSeconds int64     `json:"duration_seconds"`
	IsShort         bool      `json:"is_short"`
	Description     string    `json:"description"`
	Tags            []string  `json:"tags"`
	ThumbnailURL    string    `json:"thumbnail_url"`
}

// IsShortDuration reports whether a video of the given length counts as a short
func IsShortDuration(seconds int64) bool {
	return seconds <= ShortMaxSeconds
}

// WatchURL returns the public watch page of a video id
func WatchURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}

// DurationFormatted returns the duration as HH:MM:SS, or MM:SS under one hour
func (v *VideoInfo) DurationFormatted() string {
	return FormatDuration(v.DurationSeconds)
}

// TypeLabel returns the display label of the short/normal classification
func (v *VideoInfo) TypeLabel() string {
	if v.IsShort {
		return "Short"
	}
	return "Normal"
}

// FormatDuration formats seconds as HH:MM:SS when at least one hour, MM:SS otherwise
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}
