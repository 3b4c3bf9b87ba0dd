package xtream

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/kanal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreds = domain.Credentials{Username: "user", Password: "pa ss"}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithLogger(testLogger()), WithRetry(2, time.Millisecond)}, opts...)
	c, err := NewClient(server.URL+"/player_api.php?stale=1", opts...)
	require.NoError(t, err)
	return c
}

func TestClient_RequestShape(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Write([]byte(`[]`))
	}, WithUserAgent("test-agent"))

	res := c.LiveStreams(context.Background(), testCreds, "12")

	require.True(t, res.OK())
	require.NotNil(t, got)
	assert.Equal(t, "/player_api.php", got.URL.Path)
	assert.Equal(t, "user", got.URL.Query().Get("username"))
	assert.Equal(t, "pa ss", got.URL.Query().Get("password"))
	assert.Equal(t, ActionLiveStreams, got.URL.Query().Get("action"))
	assert.Equal(t, "12", got.URL.Query().Get("category_id"))
	assert.Empty(t, got.URL.Query().Get("stale"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "test-agent", got.Header.Get("User-Agent"))
}

func TestClient_Dispatch(t *testing.T) {
	tests := []struct {
		contentType    domain.ContentType
		categoryAction string
		streamAction   string
	}{
		{domain.ContentLive, ActionLiveCategories, ActionLiveStreams},
		{domain.ContentRadio, ActionLiveCategories, ActionLiveStreams},
		{domain.ContentVOD, ActionVODCategories, ActionVODStreams},
		{domain.ContentSeries, ActionSeriesCategories, ActionSeries},
	}

	for _, tt := range tests {
		t.Run(string(tt.contentType), func(t *testing.T) {
			var actions []string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				actions = append(actions, r.URL.Query().Get("action"))
				assert.Empty(t, r.URL.Query().Get("category_id"))
				w.Write([]byte(`[]`))
			})

			c.Categories(context.Background(), testCreds, tt.contentType)
			c.Streams(context.Background(), testCreds, tt.contentType, "")

			assert.Equal(t, []string{tt.categoryAction, tt.streamAction}, actions)
		})
	}
}

func TestClient_DecodesHeterogeneousStreams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"num": 1, "name": "One", "stream_type": "live", "stream_id": 101, "category_id": 3},
			{"num": "2", "name": "Two", "stream_type": "radio_streams", "stream_id": "102", "category_id": "3", "rating": ""}
		]`))
	})

	res := c.LiveStreams(context.Background(), testCreds, "")

	require.True(t, res.OK())
	require.Len(t, res.Data, 2)
	assert.Equal(t, 101, res.Data[0].StreamID.Int())
	assert.Equal(t, "3", res.Data[0].CategoryID.String())
	assert.Equal(t, 2, res.Data[1].Num.Int())
	assert.False(t, res.Data[1].Rating.Valid)
}

func TestClient_NullBodyIsEmptyList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})

	res := c.VODCategories(context.Background(), testCreds)

	require.True(t, res.OK())
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
}

func TestClient_FailureKinds(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		kind      Kind
		temporary bool
		err       error
	}{
		{
			name:    "html instead of json",
			handler: func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`<html>`)) },
			kind:    KindBadData,
			err:     domain.ErrBadData,
		},
		{
			name:    "object instead of list",
			handler: func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"user_info": {}}`)) },
			kind:    KindBadData,
			err:     domain.ErrBadData,
		},
		{
			name:    "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusUnauthorized) },
			kind:    KindUnauthorized,
			err:     domain.ErrAuthFailed,
		},
		{
			name:    "forbidden",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusForbidden) },
			kind:    KindUnauthorized,
			err:     domain.ErrAuthFailed,
		},
		{
			name:    "not found",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
			kind:    KindUnknown,
			err:     domain.ErrUnknown,
		},
		{
			name:      "server error after retries",
			handler:   func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
			kind:      KindUnknown,
			temporary: true,
			err:       domain.ErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)

			res := c.SeriesCategories(context.Background(), testCreds)

			assert.Equal(t, tt.kind, res.Kind)
			assert.Equal(t, tt.temporary, res.Temporary)
			assert.ErrorIs(t, res.Err(), tt.err)
			assert.Nil(t, res.Data)
		})
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"category_id": "1", "category_name": "News"}]`))
	})

	res := c.LiveCategories(context.Background(), testCreds)

	require.True(t, res.OK())
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, res.Data, 1)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithTimeout(50*time.Millisecond))
	defer close(release)

	res := c.LiveCategories(context.Background(), testCreds)

	assert.Equal(t, KindTimeout, res.Kind)
	assert.True(t, res.Temporary)
	assert.ErrorIs(t, res.Err(), domain.ErrTimeout)
}

func TestClient_CannotConnect(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(addr, WithLogger(testLogger()))
	require.NoError(t, err)

	res := c.LiveCategories(context.Background(), testCreds)

	assert.Equal(t, KindCannotConnect, res.Kind)
	assert.ErrorIs(t, res.Err(), domain.ErrServerOffline)
}

func TestClient_FailedRequestLogsNoPassword(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c, err := NewClient(addr+"/player_api.php?username=u&password=hunter2secret", WithLogger(logger))
	require.NoError(t, err)

	res := c.LiveCategories(context.Background(), domain.Credentials{Username: "u", Password: "hunter2secret"})

	require.Equal(t, KindCannotConnect, res.Kind)
	assert.Contains(t, buf.String(), "xtream request failed")
	assert.Contains(t, buf.String(), "password=xxxxx")
	assert.NotContains(t, buf.String(), "hunter2secret")
}

func TestClient_Authenticate(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind Kind
	}{
		{"active account", `{"user_info": {"username": "user", "auth": 1, "status": "Active"}, "server_info": {"port": "80"}}`, KindOK},
		{"missing user_info", `{"server_info": {}}`, KindBadData},
		{"auth zero", `{"user_info": {"auth": 0}}`, KindUnauthorized},
		{"auth zero as string", `{"user_info": {"auth": "0"}}`, KindUnauthorized},
		{"no auth field", `{"user_info": {"username": "user", "status": "Active"}}`, KindOK},
		{"null auth", `{"user_info": {"username": "user", "auth": null}}`, KindOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Empty(t, r.URL.Query().Get("action"))
				w.Write([]byte(tt.body))
			})

			res := c.Authenticate(context.Background(), testCreds)

			assert.Equal(t, tt.kind, res.Kind)
		})
	}
}

func TestClient_SeriesInfo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ActionSeriesInfo, r.URL.Query().Get("action"))
		assert.Equal(t, "77", r.URL.Query().Get("series_id"))
		w.Write([]byte(`{"info": {"name": "Show"}, "episodes": null}`))
	})

	res := c.SeriesInfo(context.Background(), testCreds, 77)

	require.True(t, res.OK())
	assert.Equal(t, "Show", res.Data.Info.Name.String())
	assert.NotNil(t, res.Data.Episodes)
}

func TestClient_SeriesInfoWithEmptyInfo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"info": [], "episodes": {"1": [{"id": "5", "episode_num": 1, "info": []}]}}`))
	})

	res := c.SeriesInfo(context.Background(), testCreds, 77)

	require.True(t, res.OK(), "kind %s", res.Kind)
	require.Len(t, res.Data.Episodes["1"], 1)
	assert.Equal(t, "5", res.Data.Episodes["1"][0].ID.String())
}

func TestClient_StreamURLs(t *testing.T) {
	c, err := NewClient("panel.example:8080/player_api.php")
	require.NoError(t, err)
	creds := domain.Credentials{Username: "u", Password: "p/w"}

	assert.Equal(t, "http://panel.example:8080/u/p%2Fw/5", c.LiveURL(creds, 5, FormatTS))
	assert.Equal(t, "http://panel.example:8080/u/p%2Fw/5.m3u8", c.LiveURL(creds, 5, FormatHLS))
	assert.Equal(t, "http://panel.example:8080/movie/u/p%2Fw/9.mp4", c.MovieURL(creds, 9, ""))
	assert.Equal(t, "http://panel.example:8080/movie/u/p%2Fw/9.mkv", c.MovieURL(creds, 9, "mkv"))
	assert.Equal(t, "http://panel.example:8080/series/u/p%2Fw/301.avi", c.EpisodeURL(creds, "301", "avi"))
}
