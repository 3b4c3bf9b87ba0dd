package domain

import (
	"strconv"
	"strings"
)

// SourceKind identifies which catalog an item came from
type SourceKind string

const (
	SourceXtream SourceKind = "xtream"
	SourceM3U    SourceKind = "m3u"
)

// CatalogItem is implemented by *Channel and *M3UChannel only.
// UI and favorites code work against this instead of either concrete type.
type CatalogItem interface {
	DisplayName() string
	ArtworkURL() string
	IdentityKey() string
	Source() SourceKind
	catalogItem()
}

// Channel is one entry of an Xtream catalog (live stream, movie or series).
// Numeric identities use 0 for "absent"; Rating uses nil for null.
type Channel struct {
	Num                int      `json:"num,omitempty"`
	Name               string   `json:"name,omitempty"`
	Title              string   `json:"title,omitempty"`
	StreamType         string   `json:"stream_type,omitempty"`
	StreamID           int      `json:"stream_id,omitempty"`
	SeriesID           int      `json:"series_id,omitempty"`
	StreamIcon         string   `json:"stream_icon,omitempty"`
	Cover              string   `json:"cover,omitempty"`
	CategoryID         string   `json:"category_id,omitempty"`
	ContainerExtension string   `json:"container_extension,omitempty"`
	Rating             *float64 `json:"rating"`
	Rating5Based       float64  `json:"rating_5based,omitempty"`
	Plot               string   `json:"plot,omitempty"`
	Cast               string   `json:"cast,omitempty"`
	Director           string   `json:"director,omitempty"`
	Genre              string   `json:"genre,omitempty"`
	ReleaseDate        string   `json:"releaseDate,omitempty"`
	EPGChannelID       string   `json:"epg_channel_id,omitempty"`
	Added              string   `json:"added,omitempty"`
	TVArchive          int      `json:"tv_archive,omitempty"`
	DirectSource       string   `json:"direct_source,omitempty"`
}

func (c *Channel) catalogItem() {}

// DisplayName prefers the live-style name and falls back to the VOD/series title
func (c *Channel) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Title
}

func (c *Channel) ArtworkURL() string {
	if c.StreamIcon != "" {
		return c.StreamIcon
	}
	return c.Cover
}

// IdentityKey is the stream id, or the series id for series entries
func (c *Channel) IdentityKey() string {
	if c.StreamID != 0 {
		return strconv.Itoa(c.StreamID)
	}
	if c.SeriesID != 0 {
		return strconv.Itoa(c.SeriesID)
	}
	return ""
}

func (c *Channel) Source() SourceKind { return SourceXtream }

// IsRadio reports whether the provider tagged the stream as audio only
func (c *Channel) IsRadio() bool {
	return c.StreamType == "radio" || c.StreamType == "radio_streams"
}

// Category groups Xtream channels
type Category struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	ParentID     int    `json:"parent_id,omitempty"`
}

// Name returns the display name, falling back to the id
func (c Category) Name() string {
	if c.CategoryName != "" {
		return c.CategoryName
	}
	return c.CategoryID
}

// DefaultGroup is assigned to M3U entries without a group-title
const DefaultGroup = "Uncategorized"

// M3UChannel is one entry parsed from an M3U playlist.
// ID is generated per parse and is not stable across reloads.
type M3UChannel struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Group    string            `json:"group"`
	URL      string            `json:"url"`
	Logo     string            `json:"logo,omitempty"`
	TvgID    string            `json:"tvg_id,omitempty"`
	TvgName  string            `json:"tvg_name,omitempty"`
	Duration int               `json:"duration,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
}

func (c *M3UChannel) catalogItem() {}

func (c *M3UChannel) DisplayName() string { return c.Name }

func (c *M3UChannel) ArtworkURL() string { return c.Logo }

func (c *M3UChannel) IdentityKey() string { return c.ID }

func (c *M3UChannel) Source() SourceKind { return SourceM3U }

// IsRadio reports whether the group marks the entry as radio
func (c *M3UChannel) IsRadio() bool {
	return strings.Contains(strings.ToLower(c.Group), "radio")
}

// Episode is a playable episode of an Xtream series
type Episode struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	Season             int     `json:"season"`
	EpisodeNum         int     `json:"episode_num"`
	ContainerExtension string  `json:"container_extension,omitempty"`
	Plot               string  `json:"plot,omitempty"`
	Duration           string  `json:"duration,omitempty"`
	Rating             float64 `json:"rating,omitempty"`
}

// SeriesInfo is the detail view of an Xtream series
type SeriesInfo struct {
	Name     string
	Plot     string
	Cover    string
	Genre    string
	Episodes []Episode
}
