package domain

import (
	"fmt"
	"strings"
)

// ContentType partitions a catalog
type ContentType string

const (
	ContentLive   ContentType = "live"
	ContentVOD    ContentType = "vod"
	ContentSeries ContentType = "series"
	ContentRadio  ContentType = "radio"
)

// ContentTypes lists every content type in display order
var ContentTypes = []ContentType{ContentLive, ContentVOD, ContentSeries, ContentRadio}

// ParseContentType accepts the canonical names plus a few common aliases
func ParseContentType(s string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "live", "tv":
		return ContentLive, nil
	case "vod", "movie", "movies":
		return ContentVOD, nil
	case "series", "shows":
		return ContentSeries, nil
	case "radio":
		return ContentRadio, nil
	}
	return "", fmt.Errorf("unknown content type %q", s)
}

func (t ContentType) String() string { return string(t) }

// Label returns the heading shown for the content type
func (t ContentType) Label() string {
	switch t {
	case ContentVOD:
		return "Movies"
	case ContentSeries:
		return "Series"
	case ContentRadio:
		return "Radio"
	default:
		return "Live TV"
	}
}

// IsLive reports whether items of this type are endless streams
func (t ContentType) IsLive() bool {
	return t == ContentLive || t == ContentRadio
}
