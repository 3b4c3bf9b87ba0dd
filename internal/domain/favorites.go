package domain

// FavoriteRef is a weak reference into one of the catalogs.
// It may no longer resolve after the catalog is reloaded.
// M3U ids change on every parse, so M3U references also keep the stream URL
// as a fallback key.
type FavoriteRef struct {
	Kind SourceKind `json:"kind"`
	Key  string     `json:"key"`
	URL  string     `json:"url,omitempty"`
}

// Matches reports whether ref points at item, by key or by URL
func (ref FavoriteRef) Matches(item CatalogItem) bool {
	if ref.Kind != item.Source() {
		return false
	}
	if ref.Key != "" && ref.Key == item.IdentityKey() {
		return true
	}
	return ref.URL != "" && ref.URL == favoriteURL(item)
}

// NewFavoriteRef builds the reference stored for item
func NewFavoriteRef(item CatalogItem) FavoriteRef {
	return FavoriteRef{Kind: item.Source(), Key: item.IdentityKey(), URL: favoriteURL(item)}
}

func favoriteURL(item CatalogItem) string {
	if ch, ok := item.(*M3UChannel); ok {
		return ch.URL
	}
	return ""
}

// Resolver looks up a favorite key in a live catalog
type Resolver func(key string) (CatalogItem, bool)
