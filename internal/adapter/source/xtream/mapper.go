package xtream

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mmcdole/kanal/internal/domain"
)

// MapCategories converts category DTOs. Ids are kept as strings and a
// missing name falls back to the id. Entries without an id are dropped.
func MapCategories(dtos []CategoryDTO) []domain.Category {
	categories := make([]domain.Category, 0, len(dtos))
	for _, dto := range dtos {
		id := strings.TrimSpace(dto.CategoryID.String())
		if id == "" {
			continue
		}
		name := dto.CategoryName.String()
		if name == "" {
			name = id
		}
		categories = append(categories, domain.Category{
			CategoryID:   id,
			CategoryName: name,
			ParentID:     dto.ParentID.Int(),
		})
	}
	return categories
}

// MapSeriesInfo flattens the season map into episodes ordered by season and episode
func MapSeriesInfo(dto SeriesInfoDTO) domain.SeriesInfo {
	info := domain.SeriesInfo{
		Name:  dto.Info.Name.String(),
		Plot:  dto.Info.Plot.String(),
		Cover: dto.Info.Cover.String(),
		Genre: dto.Info.Genre.String(),
	}

	for _, key := range dto.Episodes.Seasons() {
		keySeason, _ := strconv.Atoi(key)
		for _, ep := range dto.Episodes[key] {
			season := ep.Season.Int()
			if season == 0 {
				season = keySeason
			}
			info.Episodes = append(info.Episodes, domain.Episode{
				ID:                 ep.ID.String(),
				Title:              ep.Title.String(),
				Season:             season,
				EpisodeNum:         ep.EpisodeNum.Int(),
				ContainerExtension: ep.ContainerExtension.String(),
				Plot:               ep.Info.Plot.String(),
				Duration:           ep.Info.Duration.String(),
				Rating:             ep.Info.Rating.Float(),
			})
		}
	}

	sort.SliceStable(info.Episodes, func(i, j int) bool {
		a, b := info.Episodes[i], info.Episodes[j]
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		return a.EpisodeNum < b.EpisodeNum
	})
	return info
}
