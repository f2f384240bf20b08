package model

import (
	"fmt"
	"strings"
)

const (
	videoIDLength   = 11
	channelIDLength = 24
	channelIDPrefix = "UC"
)

// VideoID is a validated YouTube video identifier
type VideoID string

// ParseVideoID validates s as a video id: exactly 11 characters of
// letters, digits, '_' or '-'
func ParseVideoID(s string) (VideoID, error) {
	if len(s) != videoIDLength {
		return "", ErrInvalidVideoID
	}
	for _, r := range s {
		if !isVideoIDRune(r) {
			return "", ErrInvalidVideoID
		}
	}
	return VideoID(s), nil
}

// URL returns the watch page of the video
func (id VideoID) URL() string {
	return WatchURL(string(id))
}

func (id VideoID) String() string {
	return string(id)
}

func isVideoIDRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	default:
		return false
	}
}

// ChannelID is a validated YouTube channel identifier
type ChannelID string

// ParseChannelID validates s as a channel id: 24 characters starting with "UC"
func ParseChannelID(s string) (ChannelID, error) {
	if len(s) != channelIDLength || !strings.HasPrefix(s, channelIDPrefix) {
		return "", ErrInvalidChannelID
	}
	return ChannelID(s), nil
}

// URL returns the channel page
func (id ChannelID) URL() string {
	return fmt.Sprintf("https://www.youtube.com/channel/%s", string(id))
}

func (id ChannelID) String() string {
	return string(id)
}
