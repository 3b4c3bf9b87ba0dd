// Package catalog holds the in-memory channel catalogs of the active playlist:
// one store for Xtream panels and one for M3U playlists.
package catalog

import (
	"iter"
	"strings"

	"github.com/mmcdole/kanal/internal/adapter/source/xtream"
	"github.com/mmcdole/kanal/internal/domain"
)

// DefaultBatchSize is how many records are normalized between yields
const DefaultBatchSize = 1000

// Normalize converts a wire record into a Channel. Identities become ints
// (0 when missing or non-numeric), the category becomes a string and falls
// back to fallbackCategory, and a null or empty rating stays nil.
func Normalize(dto xtream.StreamDTO, fallbackCategory string) domain.Channel {
	category := strings.TrimSpace(dto.CategoryID.String())
	if category == "" {
		category = fallbackCategory
	}
	return domain.Channel{
		Num:                dto.Num.Int(),
		Name:               dto.Name.String(),
		Title:              dto.Title.String(),
		StreamType:         dto.StreamType.String(),
		StreamID:           dto.StreamID.Int(),
		SeriesID:           dto.SeriesID.Int(),
		StreamIcon:         dto.StreamIcon.String(),
		Cover:              dto.Cover.String(),
		CategoryID:         category,
		ContainerExtension: dto.ContainerExtension.String(),
		Rating:             dto.Rating.Ptr(),
		Rating5Based:       dto.Rating5Based.Float(),
		Plot:               dto.Plot.String(),
		Cast:               dto.Cast.String(),
		Director:           dto.Director.String(),
		Genre:              dto.Genre.String(),
		ReleaseDate:        dto.ReleaseDate.String(),
		EPGChannelID:       dto.EPGChannelID.String(),
		Added:              dto.Added.String(),
		TVArchive:          dto.TVArchive.Int(),
		DirectSource:       dto.DirectSource.String(),
	}
}

// Batches lazily normalizes records in order, size at a time. Every range
// over the sequence starts from the first record again.
func Batches(records []xtream.StreamDTO, size int, fallbackCategory string) iter.Seq[[]domain.Channel] {
	if size <= 0 {
		size = DefaultBatchSize
	}
	return func(yield func([]domain.Channel) bool) {
		for start := 0; start < len(records); start += size {
			end := min(start+size, len(records))
			batch := make([]domain.Channel, 0, end-start)
			for _, dto := range records[start:end] {
				batch = append(batch, Normalize(dto, fallbackCategory))
			}
			if !yield(batch) {
				return
			}
		}
	}
}

// FilterByType narrows channels to what a content type shows. Live drops radio
// streams. Radio keeps only radio streams, but panels that never tag radio
// get the whole list back instead of nothing.
func FilterByType(channels []domain.Channel, t domain.ContentType) []domain.Channel {
	switch t {
	case domain.ContentLive:
		out := make([]domain.Channel, 0, len(channels))
		for i := range channels {
			if !channels[i].IsRadio() {
				out = append(out, channels[i])
			}
		}
		return out
	case domain.ContentRadio:
		out := make([]domain.Channel, 0)
		for i := range channels {
			if channels[i].IsRadio() {
				out = append(out, channels[i])
			}
		}
		if len(out) == 0 {
			return channels
		}
		return out
	}
	return channels
}
