// Package m3u downloads M3U playlists over HTTP and hands them to the parser.
package m3u

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/mmcdole/kanal/internal/domain"
	parser "github.com/mmcdole/kanal/internal/m3u"
	"github.com/mmcdole/kanal/internal/redact"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "kanal/1.0"
)

// Fetcher downloads and parses playlists.
// Concurrent fetches of the same URL share one request.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	referrer   string
	parser     parser.Parser
	group      singleflight.Group
	logger     *slog.Logger
}

// Option configures a Fetcher
type Option func(*Fetcher)

func WithHTTPClient(hc *http.Client) Option {
	return func(f *Fetcher) { f.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.httpClient.Timeout = d
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

func WithReferrer(ref string) Option {
	return func(f *Fetcher) { f.referrer = ref }
}

// WithParser replaces the parser, mostly to make ids deterministic in tests
func WithParser(p parser.Parser) Option {
	return func(f *Fetcher) { f.parser = p }
}

func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  defaultUserAgent,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads url and parses it. Transport failures wrap ErrServerOffline
// or ErrTimeout, unreadable bodies wrap ErrParse.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]domain.M3UChannel, error) {
	v, err, shared := f.group.Do(url, func() (any, error) {
		return f.fetch(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		f.logger.Debug("m3u fetch coalesced", "url", redact.URL(url))
	}
	// Callers of a shared fetch get their own slice header
	channels := v.([]domain.M3UChannel)
	return append([]domain.M3UChannel(nil), channels...), nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) ([]domain.M3UChannel, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building playlist request: %w", domain.ErrInvalidBaseURL)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Encoding", "gzip, br")
	if f.referrer != "" {
		req.Header.Set("Referer", f.referrer)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Error("m3u fetch failed", "url", redact.URL(url), "error", redact.Error(err))
		return nil, fmt.Errorf("fetching playlist: %w", transportError(err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("fetching playlist: status %d: %w", resp.StatusCode, domain.ErrAuthFailed)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("fetching playlist: status %d: %w", resp.StatusCode, domain.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("fetching playlist: status %d: %w", resp.StatusCode, domain.ErrUnknown)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}

	channels, err := f.parser.ParseCompressed(body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("reading playlist: %w", transportError(ctx.Err()))
		}
		return nil, err
	}

	f.logger.Info("m3u playlist fetched", "url", redact.URL(url), "channels", len(channels), "duration", time.Since(start))
	return channels, nil
}

// decodeBody undoes Content-Encoding. Setting Accept-Encoding ourselves turns
// off the transport's transparent gzip, so gzip bodies reach the sniffer.
func decodeBody(resp *http.Response) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "br":
		return brotli.NewReader(resp.Body), nil
	case "gzip", "x-gzip", "", "identity":
		// gzip is sniffed by the parser along with bzip2 and xz
		return resp.Body, nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q: %w", resp.Header.Get("Content-Encoding"), domain.ErrParse)
	}
}

func transportError(err error) error {
	if isTimeout(err) {
		return domain.ErrTimeout
	}
	return domain.ErrServerOffline
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
