package xtream

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/mmcdole/kanal/internal/domain"
)

var baseURLFallback = regexp.MustCompile(`^(https?://[^/:]+(?::\d+)?)`)

// NormalizeBaseURL reduces whatever the user pasted to scheme://host[:port].
// Paths such as /player_api.php, queries and fragments are dropped and http is
// assumed when no scheme is given.
func NormalizeBaseURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty", domain.ErrInvalidBaseURL)
	}
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		s = "http://" + s
	}

	if u, err := url.Parse(s); err == nil && u.Hostname() != "" {
		host := u.Hostname()
		if port := u.Port(); port != "" {
			host = net.JoinHostPort(host, port)
		} else if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
		return u.Scheme + "://" + host, nil
	}

	if m := baseURLFallback.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidBaseURL, raw)
}
