// Package m3u parses extended M3U playlists and classifies their entries
// into live, VOD, series and radio content.
package m3u

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mmcdole/kanal/internal/domain"
)

// maxLineSize bounds a single playlist line; some providers emit very long URLs
const maxLineSize = 1024 * 1024

var (
	extinfRegex = regexp.MustCompile(`^#EXTINF:\s*(-?\d+)(.*)$`)

	// Attributes are looked up independently so their order does not matter
	tvgIDRegex    = regexp.MustCompile(`tvg-id="([^"]*)"`)
	tvgNameRegex  = regexp.MustCompile(`tvg-name="([^"]*)"`)
	tvgLogoRegex  = regexp.MustCompile(`tvg-logo="([^"]*)"`)
	groupRegex    = regexp.MustCompile(`group-title="([^"]*)"`)
	vlcOptPrefix  = "#EXTVLCOPT:"
	vlcOptHeaders = map[string]string{
		"http-user-agent": "User-Agent",
		"http-referrer":   "Referer",
		"http-referer":    "Referer",
		"http-origin":     "Origin",
	}
)

// IDFunc generates identities for parsed entries
type IDFunc func() string

// Parser turns playlist text into channel records.
// The zero value is ready to use and assigns random UUIDs.
type Parser struct {
	NewID IDFunc
}

// Parse reads a whole playlist. It only fails when the reader does.
func (p Parser) Parse(r io.Reader) ([]domain.M3UChannel, error) {
	newID := p.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	channels := []domain.M3UChannel{}
	var pending *domain.M3UChannel

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue

		case strings.HasPrefix(line, "#EXTINF:"):
			// A second EXTINF without a URL in between replaces the first
			if ch, ok := parseExtinf(line); ok {
				pending = &ch
			}

		case strings.HasPrefix(line, vlcOptPrefix):
			if pending != nil {
				applyVLCOpt(pending, strings.TrimPrefix(line, vlcOptPrefix))
			}

		case strings.HasPrefix(line, "#"):
			continue

		default:
			// A nameless entry still consumes its URL
			if pending == nil || pending.Name == "" {
				pending = nil
				continue
			}
			pending.URL = line
			pending.ID = newID()
			channels = append(channels, *pending)
			pending = nil
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	return channels, nil
}

// Parse parses with a default Parser
func Parse(r io.Reader) ([]domain.M3UChannel, error) {
	return Parser{}.Parse(r)
}

// ParseString parses in-memory playlist text
func ParseString(s string) []domain.M3UChannel {
	// strings.Reader never fails, only an over-long line can
	channels, err := Parse(strings.NewReader(s))
	if err != nil {
		return []domain.M3UChannel{}
	}
	return channels
}

// parseExtinf extracts the name and attributes of an EXTINF line. The name
// is the text after the last comma and may be empty; lines without a comma
// are rejected.
func parseExtinf(line string) (domain.M3UChannel, bool) {
	m := extinfRegex.FindStringSubmatch(line)
	if m == nil {
		return domain.M3UChannel{}, false
	}
	duration, _ := strconv.Atoi(m[1])

	idx := strings.LastIndex(m[2], ",")
	if idx < 0 {
		return domain.M3UChannel{}, false
	}
	attrs := m[2][:idx]

	ch := domain.M3UChannel{
		Name:     strings.TrimSpace(m[2][idx+1:]),
		Group:    domain.DefaultGroup,
		Duration: duration,
		TvgID:    attr(tvgIDRegex, attrs),
		TvgName:  attr(tvgNameRegex, attrs),
		Logo:     attr(tvgLogoRegex, attrs),
	}
	if g := attr(groupRegex, attrs); g != "" {
		ch.Group = g
	}
	return ch, true
}

func attr(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

func applyVLCOpt(ch *domain.M3UChannel, opt string) {
	key, value, ok := strings.Cut(opt, "=")
	if !ok {
		return
	}
	header, known := vlcOptHeaders[strings.ToLower(strings.TrimSpace(key))]
	if !known || value == "" {
		return
	}
	if ch.Headers == nil {
		ch.Headers = make(map[string]string)
	}
	ch.Headers[header] = strings.TrimSpace(value)
}
