package favorites

import (
	"testing"

	"github.com/mmcdole/kanal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle_TwiceRestoresOriginalSet(t *testing.T) {
	r := New()
	r.Toggle(&domain.Channel{StreamID: 1, Name: "BBC"})
	before := r.Snapshot()

	item := &domain.M3UChannel{ID: "abc", Name: "Jazz"}
	assert.True(t, r.Toggle(item))
	assert.True(t, r.IsFavorite(domain.SourceM3U, "abc"))
	assert.False(t, r.Toggle(item))

	assert.Equal(t, before, r.Snapshot())
}

func TestToggle_KindsAreSeparate(t *testing.T) {
	r := New()
	r.Toggle(&domain.Channel{StreamID: 7})
	r.Toggle(&domain.Channel{SeriesID: 9})
	r.Toggle(&domain.M3UChannel{ID: "7"})

	assert.True(t, r.IsFavorite(domain.SourceXtream, "7"))
	assert.True(t, r.IsFavorite(domain.SourceXtream, "9"))
	assert.True(t, r.IsFavorite(domain.SourceM3U, "7"))
	assert.Equal(t, []domain.FavoriteRef{
		{Kind: domain.SourceXtream, Key: "7"},
		{Kind: domain.SourceXtream, Key: "9"},
	}, r.Refs(domain.SourceXtream))
	assert.Len(t, r.Refs(domain.SourceM3U), 1)
}

func TestToggle_ItemWithoutIdentityIsIgnored(t *testing.T) {
	r := New()
	calls := 0
	r.OnChange(func() { calls++ })

	assert.False(t, r.Toggle(&domain.Channel{Name: "no ids"}))

	assert.Empty(t, r.Snapshot())
	assert.Zero(t, calls)
}

func TestResolve_SkipsOrphans(t *testing.T) {
	r := New()
	r.Toggle(&domain.M3UChannel{ID: "a"})
	r.Toggle(&domain.M3UChannel{ID: "gone"})
	r.Toggle(&domain.M3UChannel{ID: "b"})

	catalog := map[string]*domain.M3UChannel{
		"a": {ID: "a", Name: "Alpha"},
		"b": {ID: "b", Name: "Beta"},
	}
	items := r.Resolve(domain.SourceM3U, func(key string) (domain.CatalogItem, bool) {
		ch, ok := catalog[key]
		return ch, ok
	})

	require.Len(t, items, 2)
	assert.Equal(t, "Alpha", items[0].DisplayName())
	assert.Equal(t, "Beta", items[1].DisplayName())
	// orphans are kept
	assert.True(t, r.IsFavorite(domain.SourceM3U, "gone"))
}

func TestM3UFavoritesSurviveNewIDs(t *testing.T) {
	r := New()
	first := &domain.M3UChannel{ID: "id-1", Name: "Jazz", URL: "http://cdn/jazz"}
	require.True(t, r.Toggle(first))

	reparsed := &domain.M3UChannel{ID: "id-2", Name: "Jazz", URL: "http://cdn/jazz"}
	assert.False(t, r.IsFavorite(domain.SourceM3U, "id-2"))
	assert.True(t, r.Contains(reparsed))
	assert.False(t, r.Contains(&domain.M3UChannel{ID: "id-3", URL: "http://cdn/other"}))

	byKey := map[string]domain.CatalogItem{"id-2": reparsed, "http://cdn/jazz": reparsed}
	items := r.Resolve(domain.SourceM3U, func(key string) (domain.CatalogItem, bool) {
		it, ok := byKey[key]
		return it, ok
	})
	require.Len(t, items, 1)
	assert.Same(t, reparsed, items[0])

	// toggling the re-parsed entry removes the old reference
	assert.False(t, r.Toggle(reparsed))
	assert.Empty(t, r.Snapshot())
}

func TestContains_XtreamMatchesByKey(t *testing.T) {
	r := New()
	r.Toggle(&domain.Channel{StreamID: 5})

	assert.True(t, r.Contains(&domain.Channel{StreamID: 5, Name: "renamed"}))
	assert.False(t, r.Contains(&domain.M3UChannel{ID: "5"}))
}

func TestOnChange_FiresOnEveryToggle(t *testing.T) {
	r := New()
	calls := 0
	r.OnChange(func() { calls++ })

	item := &domain.Channel{StreamID: 3}
	r.Toggle(item)
	r.Toggle(item)

	assert.Equal(t, 2, calls)
}

func TestRestore_DropsDuplicatesAndEmptyKeys(t *testing.T) {
	r := New()
	calls := 0
	r.OnChange(func() { calls++ })

	r.Restore([]domain.FavoriteRef{
		{Kind: domain.SourceXtream, Key: "1"},
		{Kind: domain.SourceXtream, Key: "1"},
		{Kind: domain.SourceM3U, Key: ""},
		{Kind: domain.SourceM3U, Key: "x"},
	})

	assert.Equal(t, []domain.FavoriteRef{
		{Kind: domain.SourceXtream, Key: "1"},
		{Kind: domain.SourceM3U, Key: "x"},
	}, r.Snapshot())
	assert.Zero(t, calls)
}
