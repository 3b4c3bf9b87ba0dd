package session

import (
	"context"

	"github.com/mmcdole/kanal/internal/adapter/source/xtream"
	"github.com/mmcdole/kanal/internal/domain"
)

// Categories forwards to the client of the current login
func (s *Session) Categories(ctx context.Context, creds domain.Credentials, t domain.ContentType) xtream.Result[[]xtream.CategoryDTO] {
	client, err := s.Client()
	if err != nil {
		return xtream.Result[[]xtream.CategoryDTO]{Kind: xtream.KindUnauthorized}
	}
	return client.Categories(ctx, creds, t)
}

// Streams forwards to the client of the current login
func (s *Session) Streams(ctx context.Context, creds domain.Credentials, t domain.ContentType, categoryID string) xtream.Result[[]xtream.StreamDTO] {
	client, err := s.Client()
	if err != nil {
		return xtream.Result[[]xtream.StreamDTO]{Kind: xtream.KindUnauthorized}
	}
	return client.Streams(ctx, creds, t, categoryID)
}

// SeriesInfo forwards to the client of the current login
func (s *Session) SeriesInfo(ctx context.Context, seriesID int) xtream.Result[xtream.SeriesInfoDTO] {
	client, err := s.Client()
	if err != nil {
		return xtream.Result[xtream.SeriesInfoDTO]{Kind: xtream.KindUnauthorized}
	}
	return client.SeriesInfo(ctx, s.Credentials(), seriesID)
}
