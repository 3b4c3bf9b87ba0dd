// Package xtream is a client for the Xtream-Codes player API.
// Requests never return Go errors; every outcome is a tagged Result.
package xtream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mmcdole/kanal/internal/domain"
	"github.com/mmcdole/kanal/internal/redact"
)

const (
	defaultTimeout   = 20 * time.Second
	defaultUserAgent = "kanal/1.0"
	maxRetries       = 2
	baseRetryDelay   = 500 * time.Millisecond
	maxErrorBody     = 512
)

// API actions
const (
	ActionLiveCategories   = "get_live_categories"
	ActionVODCategories    = "get_vod_categories"
	ActionSeriesCategories = "get_series_categories"
	ActionLiveStreams      = "get_live_streams"
	ActionVODStreams       = "get_vod_streams"
	ActionSeries           = "get_series"
	ActionSeriesInfo       = "get_series_info"
)

// Client talks to one Xtream panel
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	retries    int
	retryDelay time.Duration
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client, including its timeout
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRetry sets how often 5xx responses are retried and the initial backoff
func WithRetry(retries int, delay time.Duration) Option {
	return func(c *Client) {
		c.retries = retries
		c.retryDelay = delay
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient normalizes baseURL and fails before any request if it cannot
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:    normalized,
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  defaultUserAgent,
		retries:    maxRetries,
		retryDelay: baseRetryDelay,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger.Debug("xtream client created", "baseURL", normalized, "from", redact.URL(baseURL))
	return c, nil
}

// BaseURL returns the normalized panel URL
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) apiURL(creds domain.Credentials, action string, extra url.Values) string {
	q := url.Values{}
	q.Set("username", creds.Username)
	q.Set("password", creds.Password)
	if action != "" {
		q.Set("action", action)
	}
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return c.baseURL + "/player_api.php?" + q.Encode()
}

// doRequest performs a GET with retry on 5xx and classifies failures.
// The body is only returned with KindOK.
func (c *Client) doRequest(ctx context.Context, reqURL, action string) ([]byte, Kind, bool, int) {
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1))
			c.logger.Debug("retrying xtream request", "action", action, "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, classifyTransportError(ctx.Err()), true, 0
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			c.logger.Error("failed to build xtream request", "action", action, "error", redact.Error(err))
			return nil, KindUnknown, false, 0
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			kind := classifyTransportError(err)
			c.logger.Error("xtream request failed", "action", action, "kind", kind, "error", redact.Error(err))
			return nil, kind, true, 0
		}

		if resp.StatusCode >= 500 && attempt < c.retries {
			io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
			resp.Body.Close()
			c.logger.Warn("xtream server error, will retry", "action", action, "status", resp.StatusCode, "attempt", attempt)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			kind := classifyTransportError(err)
			c.logger.Error("failed to read xtream response", "action", action, "error", redact.Error(err))
			return nil, kind, true, resp.StatusCode
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			c.logger.Warn("xtream credentials rejected", "action", action, "status", resp.StatusCode)
			return nil, KindUnauthorized, false, resp.StatusCode
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			c.logger.Error("xtream request error", "action", action, "status", resp.StatusCode, "body", truncate(body, maxErrorBody))
			return nil, KindUnknown, resp.StatusCode >= 500, resp.StatusCode
		}

		c.logger.Debug("xtream request completed", "action", action, "status", resp.StatusCode, "bytes", len(body))
		return body, KindOK, false, resp.StatusCode
	}
}

func classifyTransportError(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindUnknown
	}
	return KindCannotConnect
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

// fetch issues the request and decodes the body into T.
// A JSON null decodes to the zero value of T.
func fetch[T any](ctx context.Context, c *Client, creds domain.Credentials, action string, extra url.Values) Result[T] {
	body, kind, temporary, status := c.doRequest(ctx, c.apiURL(creds, action, extra), action)
	if kind != KindOK {
		return failed[T](kind, temporary, status)
	}
	var data T
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error("failed to decode xtream response", "action", action, "error", err)
		return failed[T](KindBadData, false, status)
	}
	return ok(data)
}

func categoryQuery(categoryID string) url.Values {
	if categoryID == "" {
		return nil
	}
	return url.Values{"category_id": {categoryID}}
}

// fetchList is fetch for array responses; a null body becomes an empty slice
func fetchList[T any](ctx context.Context, c *Client, creds domain.Credentials, action string, extra url.Values) Result[[]T] {
	res := fetch[[]T](ctx, c, creds, action, extra)
	if res.OK() && res.Data == nil {
		res.Data = []T{}
	}
	return res
}

// Authenticate checks the credentials. A response without user_info is bad data,
// and an explicit auth=0 means the panel rejected the login.
func (c *Client) Authenticate(ctx context.Context, creds domain.Credentials) Result[AuthInfo] {
	res := fetch[AuthInfo](ctx, c, creds, "", nil)
	if !res.OK() {
		return res
	}
	if res.Data.UserInfo == nil {
		return failed[AuthInfo](KindBadData, false, res.Status)
	}
	if res.Data.UserInfo.Rejected() {
		return failed[AuthInfo](KindUnauthorized, false, res.Status)
	}
	return res
}

func (c *Client) LiveCategories(ctx context.Context, creds domain.Credentials) Result[[]CategoryDTO] {
	return fetchList[CategoryDTO](ctx, c, creds, ActionLiveCategories, nil)
}

func (c *Client) VODCategories(ctx context.Context, creds domain.Credentials) Result[[]CategoryDTO] {
	return fetchList[CategoryDTO](ctx, c, creds, ActionVODCategories, nil)
}

func (c *Client) SeriesCategories(ctx context.Context, creds domain.Credentials) Result[[]CategoryDTO] {
	return fetchList[CategoryDTO](ctx, c, creds, ActionSeriesCategories, nil)
}

// LiveStreams lists live streams, optionally scoped to one category
func (c *Client) LiveStreams(ctx context.Context, creds domain.Credentials, categoryID string) Result[[]StreamDTO] {
	return fetchList[StreamDTO](ctx, c, creds, ActionLiveStreams, categoryQuery(categoryID))
}

// VODStreams lists movies, optionally scoped to one category
func (c *Client) VODStreams(ctx context.Context, creds domain.Credentials, categoryID string) Result[[]StreamDTO] {
	return fetchList[StreamDTO](ctx, c, creds, ActionVODStreams, categoryQuery(categoryID))
}

// Series lists series, optionally scoped to one category
func (c *Client) Series(ctx context.Context, creds domain.Credentials, categoryID string) Result[[]StreamDTO] {
	return fetchList[StreamDTO](ctx, c, creds, ActionSeries, categoryQuery(categoryID))
}

// SeriesInfo fetches the seasons and episodes of one series
func (c *Client) SeriesInfo(ctx context.Context, creds domain.Credentials, seriesID int) Result[SeriesInfoDTO] {
	res := fetch[SeriesInfoDTO](ctx, c, creds, ActionSeriesInfo, url.Values{"series_id": {strconv.Itoa(seriesID)}})
	if res.OK() && res.Data.Episodes == nil {
		res.Data.Episodes = EpisodeMap{}
	}
	return res
}

// Categories dispatches to the category action of a content type.
// Radio shares the live actions.
func (c *Client) Categories(ctx context.Context, creds domain.Credentials, t domain.ContentType) Result[[]CategoryDTO] {
	switch t {
	case domain.ContentLive, domain.ContentRadio:
		return c.LiveCategories(ctx, creds)
	case domain.ContentVOD:
		return c.VODCategories(ctx, creds)
	case domain.ContentSeries:
		return c.SeriesCategories(ctx, creds)
	}
	c.logger.Error("unsupported content type", "type", t)
	return failed[[]CategoryDTO](KindUnknown, false, 0)
}

// Streams dispatches to the stream action of a content type
func (c *Client) Streams(ctx context.Context, creds domain.Credentials, t domain.ContentType, categoryID string) Result[[]StreamDTO] {
	switch t {
	case domain.ContentLive, domain.ContentRadio:
		return c.LiveStreams(ctx, creds, categoryID)
	case domain.ContentVOD:
		return c.VODStreams(ctx, creds, categoryID)
	case domain.ContentSeries:
		return c.Series(ctx, creds, categoryID)
	}
	c.logger.Error("unsupported content type", "type", t)
	return failed[[]StreamDTO](KindUnknown, false, 0)
}

func (c *Client) String() string {
	return fmt.Sprintf("xtream(%s)", c.baseURL)
}
