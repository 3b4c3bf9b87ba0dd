package catalog

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/mmcdole/kanal/internal/adapter/source/xtream"
	"github.com/mmcdole/kanal/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeAuth struct {
	creds domain.Credentials
}

func (a fakeAuth) Method() domain.PlaylistType { return domain.PlaylistXtream }
func (a fakeAuth) Credentials() domain.Credentials { return a.creds }
func (a fakeAuth) M3UURL() string { return "" }
func (a fakeAuth) HasCredentials() bool { return a.creds.Complete() }

var loggedIn = fakeAuth{creds: domain.Credentials{ServerURL: "http://panel.example", Username: "u", Password: "p"}}

type fakeClient struct {
	mu              sync.Mutex
	categories      xtream.Result[[]xtream.CategoryDTO]
	streams         xtream.Result[[]xtream.StreamDTO]
	categoryCalls   int
	streamCalls     int
	lastStreamQuery string
}

func (c *fakeClient) Categories(ctx context.Context, creds domain.Credentials, t domain.ContentType) xtream.Result[[]xtream.CategoryDTO] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categoryCalls++
	return c.categories
}

func (c *fakeClient) Streams(ctx context.Context, creds domain.Credentials, t domain.ContentType, categoryID string) xtream.Result[[]xtream.StreamDTO] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.streamCalls++
	c.lastStreamQuery = categoryID
	return c.streams
}

func okResult[T any](data T) xtream.Result[T] {
	return xtream.Result[T]{Kind: xtream.KindOK, Data: data, Status: 200}
}

func failedResult[T any](kind xtream.Kind) xtream.Result[T] {
	return xtream.Result[T]{Kind: kind}
}
