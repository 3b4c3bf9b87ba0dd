package catalog

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/mmcdole/kanal/internal/adapter/source/xtream"
	"github.com/mmcdole/kanal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func decodeStreams(t *testing.T, raw string) []xtream.StreamDTO {
	t.Helper()
	var dtos []xtream.StreamDTO
	require.NoError(t, json.Unmarshal([]byte(raw), &dtos))
	return dtos
}

func TestNormalize_WireVariants(t *testing.T) {
	dtos := decodeStreams(t, `[
		{"num": "3", "name": "BBC One", "stream_type": "live", "stream_id": "101", "category_id": 7, "rating": ""},
		{"name": "Heat", "stream_id": 55.0, "category_id": "", "rating": "8.2", "container_extension": "mkv"},
		{"title": "The Wire", "series_id": "abc", "category_id": null, "rating": null, "cover": "http://img/w.jpg"},
		{"name": "Zero", "stream_id": 9, "rating": 0}
	]`)

	got := make([]domain.Channel, 0, len(dtos))
	for _, dto := range dtos {
		got = append(got, Normalize(dto, "fallback"))
	}

	assert.Equal(t, domain.Channel{Num: 3, Name: "BBC One", StreamType: "live", StreamID: 101, CategoryID: "7"}, got[0])
	assert.Equal(t, domain.Channel{Name: "Heat", StreamID: 55, CategoryID: "fallback", Rating: ptr(8.2), ContainerExtension: "mkv"}, got[1])
	assert.Equal(t, domain.Channel{Title: "The Wire", CategoryID: "fallback", Cover: "http://img/w.jpg"}, got[2])
	assert.Equal(t, "", got[2].IdentityKey())
	require.NotNil(t, got[3].Rating)
	assert.Equal(t, 0.0, *got[3].Rating)
}

func TestNormalize_Idempotent(t *testing.T) {
	channels := []domain.Channel{
		{
			Num: 1, Name: "News 24", StreamType: "live", StreamID: 42, StreamIcon: "http://img/n.png",
			CategoryID: "12", EPGChannelID: "news.uk", Added: "1700000000", TVArchive: 1,
		},
		{
			Name: "Heat", StreamType: "movie", StreamID: 7, CategoryID: "3", ContainerExtension: "mkv",
			Rating: ptr(7.5), Rating5Based: 3.75, Plot: "Cops, robbers", Genre: "Crime", ReleaseDate: "1995-12-15",
		},
		{
			Title: "The Wire", SeriesID: 900, Cover: "http://img/w.jpg", CategoryID: "8",
			Rating: ptr(0), Cast: "Dominic West", Director: "David Simon", DirectSource: "http://direct",
		},
		{Name: "Bare"},
	}

	for _, want := range channels {
		raw, err := json.Marshal(want)
		require.NoError(t, err)

		var dto xtream.StreamDTO
		require.NoError(t, json.Unmarshal(raw, &dto))

		assert.Equal(t, want, Normalize(dto, ""))
	}
}

func TestBatches(t *testing.T) {
	records := make([]xtream.StreamDTO, 2500)
	for i := range records {
		records[i].StreamID = xtream.FlexInt(i + 1)
	}

	seq := Batches(records, DefaultBatchSize, "")

	var sizes []int
	var ids []int
	for batch := range seq {
		sizes = append(sizes, len(batch))
		for _, ch := range batch {
			ids = append(ids, ch.StreamID)
		}
	}
	assert.Equal(t, []int{1000, 1000, 500}, sizes)
	assert.True(t, slices.IsSorted(ids))
	assert.Len(t, ids, 2500)

	// restartable
	second := 0
	for batch := range seq {
		second += len(batch)
	}
	assert.Equal(t, 2500, second)
}

func TestBatches_StopsEarlyAndHandlesEmpty(t *testing.T) {
	records := make([]xtream.StreamDTO, 10)

	calls := 0
	for range Batches(records, 3, "") {
		calls++
		if calls == 2 {
			break
		}
	}
	assert.Equal(t, 2, calls)

	for range Batches(nil, 3, "") {
		t.Fatal("empty input yields no batches")
	}
}

func TestFilterByType(t *testing.T) {
	mixed := []domain.Channel{
		{Name: "News", StreamType: "live"},
		{Name: "Jazz FM", StreamType: "radio_streams"},
		{Name: "Talk", StreamType: "radio"},
	}
	untagged := []domain.Channel{{Name: "A", StreamType: "live"}, {Name: "B"}}

	tests := []struct {
		name     string
		channels []domain.Channel
		t        domain.ContentType
		want     []string
	}{
		{"live drops radio", mixed, domain.ContentLive, []string{"News"}},
		{"radio keeps radio", mixed, domain.ContentRadio, []string{"Jazz FM", "Talk"}},
		{"radio falls back to everything", untagged, domain.ContentRadio, []string{"A", "B"}},
		{"vod passes through", mixed, domain.ContentVOD, []string{"News", "Jazz FM", "Talk"}},
		{"series passes through", mixed, domain.ContentSeries, []string{"News", "Jazz FM", "Talk"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var names []string
			for _, ch := range FilterByType(tt.channels, tt.t) {
				names = append(names, ch.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}
