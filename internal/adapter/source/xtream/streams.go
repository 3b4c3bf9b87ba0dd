package xtream

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/kanal/internal/domain"
)

// Stream formats for live playback
const (
	FormatTS   = "ts"
	FormatHLS  = "m3u8"
	defaultExt = "mp4"
)

func (c *Client) streamPath(creds domain.Credentials, prefix, id, ext string) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	if prefix != "" {
		b.WriteString("/" + prefix)
	}
	b.WriteString("/" + url.PathEscape(creds.Username))
	b.WriteString("/" + url.PathEscape(creds.Password))
	b.WriteString("/" + id)
	if ext != "" {
		b.WriteString("." + ext)
	}
	return b.String()
}

// LiveURL builds a live or radio stream URL. The ts format uses the bare
// stream path, m3u8 appends the HLS extension.
func (c *Client) LiveURL(creds domain.Credentials, streamID int, format string) string {
	ext := ""
	if format == FormatHLS {
		ext = FormatHLS
	}
	return c.streamPath(creds, "", strconv.Itoa(streamID), ext)
}

// MovieURL builds a VOD URL; the extension defaults to mp4
func (c *Client) MovieURL(creds domain.Credentials, streamID int, ext string) string {
	if ext == "" {
		ext = defaultExt
	}
	return c.streamPath(creds, "movie", strconv.Itoa(streamID), ext)
}

// EpisodeURL builds a series episode URL; the extension defaults to mp4
func (c *Client) EpisodeURL(creds domain.Credentials, episodeID, ext string) string {
	if ext == "" {
		ext = defaultExt
	}
	return c.streamPath(creds, "series", episodeID, ext)
}
