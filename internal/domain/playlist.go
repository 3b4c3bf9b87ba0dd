package domain

import "time"

// PlaylistType identifies how a saved playlist connects
type PlaylistType string

const (
	PlaylistXtream PlaylistType = "xtream"
	PlaylistM3U    PlaylistType = "m3u"
)

// Playlist is a saved connection profile
type Playlist struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      PlaylistType `json:"type"`
	ServerURL string       `json:"server_url,omitempty"`
	Username  string       `json:"username,omitempty"`
	Password  string       `json:"password,omitempty" masq:"secret"`
	M3UURL    string       `json:"m3u_url,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// Credentials returns the Xtream login of the playlist
func (p Playlist) Credentials() Credentials {
	return Credentials{ServerURL: p.ServerURL, Username: p.Username, Password: p.Password}
}
