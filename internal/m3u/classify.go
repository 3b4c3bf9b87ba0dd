package m3u

import (
	"regexp"
	"strings"

	"github.com/mmcdole/kanal/internal/domain"
)

var (
	vodExtensions = []string{".mp4", ".mkv", ".avi", ".mov", ".flv", ".wmv"}
	episodeRegex  = regexp.MustCompile(`(?i)\bS\d+E\d+\b`)
)

// IsVOD reports whether the URL points at an on-demand movie
func IsVOD(ch *domain.M3UChannel) bool {
	url := strings.ToLower(ch.URL)
	if strings.Contains(url, "/movie/") {
		return true
	}
	for _, ext := range vodExtensions {
		if strings.HasSuffix(url, ext) {
			return true
		}
	}
	return false
}

// IsSeries reports whether the URL or name looks like a series episode
func IsSeries(ch *domain.M3UChannel) bool {
	if strings.Contains(strings.ToLower(ch.URL), "/series/") {
		return true
	}
	return episodeRegex.MatchString(ch.Name)
}

// Classify returns live, vod or series. VOD wins over series; live is whatever is left.
// Radio is orthogonal and checked through the group, see Matches.
func Classify(ch *domain.M3UChannel) domain.ContentType {
	switch {
	case IsVOD(ch):
		return domain.ContentVOD
	case IsSeries(ch):
		return domain.ContentSeries
	default:
		return domain.ContentLive
	}
}

// Matches reports whether ch belongs to the requested content type and,
// when category is non-empty, to exactly that group.
func Matches(ch *domain.M3UChannel, requested domain.ContentType, category string) bool {
	if category != "" && ch.Group != category {
		return false
	}
	if requested == domain.ContentRadio {
		return ch.IsRadio()
	}
	return Classify(ch) == requested
}

// Filter returns the channels matching the type and optional category, in order
func Filter(channels []domain.M3UChannel, requested domain.ContentType, category string) []domain.M3UChannel {
	out := make([]domain.M3UChannel, 0)
	for i := range channels {
		if Matches(&channels[i], requested, category) {
			out = append(out, channels[i])
		}
	}
	return out
}
