package xtream

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamDTO_LenientDecoding(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		streamID   int
		categoryID string
		rating     *float64
	}{
		{
			name:       "numbers as numbers",
			payload:    `{"stream_id": 42, "category_id": 7, "rating": 7.5}`,
			streamID:   42,
			categoryID: "7",
			rating:     ptr(7.5),
		},
		{
			name:       "numbers as strings",
			payload:    `{"stream_id": "42", "category_id": "7", "rating": "7.5"}`,
			streamID:   42,
			categoryID: "7",
			rating:     ptr(7.5),
		},
		{
			name:       "empty rating is null",
			payload:    `{"stream_id": "", "category_id": null, "rating": ""}`,
			streamID:   0,
			categoryID: "",
			rating:     nil,
		},
		{
			name:       "zero rating stays zero",
			payload:    `{"stream_id": 1, "rating": 0}`,
			streamID:   1,
			rating:     ptr(0),
		},
		{
			name:     "garbage values do not fail",
			payload:  `{"stream_id": "abc", "rating": "N/A", "num": true}`,
			streamID: 0,
			rating:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dto StreamDTO
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &dto))
			assert.Equal(t, tt.streamID, dto.StreamID.Int())
			assert.Equal(t, tt.categoryID, dto.CategoryID.String())
			assert.Equal(t, tt.rating, dto.Rating.Ptr())
		})
	}
}

func TestEpisodeMap_AcceptsObjectAndArray(t *testing.T) {
	keyed := `{"episodes": {"2": [{"id": "21", "episode_num": 1}], "1": [{"id": "11", "episode_num": "1"}]}}`
	listed := `{"episodes": [[{"id": "11", "episode_num": 1, "season": 1}], [{"id": "21", "episode_num": 1, "season": 2}]]}`

	for name, payload := range map[string]string{"object": keyed, "array": listed} {
		t.Run(name, func(t *testing.T) {
			var dto SeriesInfoDTO
			require.NoError(t, json.Unmarshal([]byte(payload), &dto))
			assert.Equal(t, []string{"1", "2"}, dto.Episodes.Seasons())
			assert.Equal(t, "11", dto.Episodes["1"][0].ID.String())
			assert.Equal(t, "21", dto.Episodes["2"][0].ID.String())
		})
	}
}

func TestSeriesInfoDTO_EmptyInfoBlocks(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty arrays", `{"info": [], "episodes": {"1": [{"id": "11", "episode_num": 1, "info": []}]}}`},
		{"nulls", `{"info": null, "episodes": {"1": [{"id": "11", "episode_num": 1, "info": null}]}}`},
		{"empty strings", `{"info": "", "episodes": {"1": [{"id": "11", "episode_num": 1, "info": ""}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dto SeriesInfoDTO
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &dto))

			info := MapSeriesInfo(dto)
			assert.Empty(t, info.Name)
			require.Len(t, info.Episodes, 1)
			assert.Equal(t, "11", info.Episodes[0].ID)
			assert.Empty(t, info.Episodes[0].Plot)
		})
	}
}

func TestSeriesInfoDTO_MixedInfoBlocks(t *testing.T) {
	var dto SeriesInfoDTO
	require.NoError(t, json.Unmarshal([]byte(`{
		"info": {"name": "Show"},
		"episodes": {"1": [
			{"id": "11", "episode_num": 1, "info": {"duration": "00:30:00", "rating": "7.5"}},
			{"id": "12", "episode_num": 2, "info": []}
		]}
	}`), &dto))

	info := MapSeriesInfo(dto)
	assert.Equal(t, "Show", info.Name)
	require.Len(t, info.Episodes, 2)
	assert.Equal(t, "00:30:00", info.Episodes[0].Duration)
	assert.Equal(t, 7.5, info.Episodes[0].Rating)
	assert.Empty(t, info.Episodes[1].Duration)
}

func TestMapCategories(t *testing.T) {
	var dtos []CategoryDTO
	require.NoError(t, json.Unmarshal([]byte(`[
		{"category_id": 5, "category_name": "News", "parent_id": 0},
		{"category_id": "6", "category_name": ""},
		{"category_id": null, "category_name": "Broken"}
	]`), &dtos))

	categories := MapCategories(dtos)

	require.Len(t, categories, 2)
	assert.Equal(t, "5", categories[0].CategoryID)
	assert.Equal(t, "News", categories[0].CategoryName)
	assert.Equal(t, "6", categories[1].CategoryID)
	assert.Equal(t, "6", categories[1].CategoryName)
}

func TestMapSeriesInfo_OrdersEpisodes(t *testing.T) {
	var dto SeriesInfoDTO
	require.NoError(t, json.Unmarshal([]byte(`{
		"info": {"name": "Show", "plot": "p"},
		"episodes": {
			"10": [{"id": "1001", "episode_num": 1}],
			"2": [{"id": "202", "episode_num": 2, "info": {"duration": "00:42:00"}}, {"id": "201", "episode_num": 1}]
		}
	}`), &dto))

	info := MapSeriesInfo(dto)

	assert.Equal(t, "Show", info.Name)
	require.Len(t, info.Episodes, 3)
	assert.Equal(t, "201", info.Episodes[0].ID)
	assert.Equal(t, "202", info.Episodes[1].ID)
	assert.Equal(t, "00:42:00", info.Episodes[1].Duration)
	assert.Equal(t, 2, info.Episodes[1].Season)
	assert.Equal(t, "1001", info.Episodes[2].ID)
	assert.Equal(t, 10, info.Episodes[2].Season)
}

func ptr(v float64) *float64 { return &v }
