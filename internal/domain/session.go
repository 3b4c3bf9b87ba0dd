package domain

// Credentials identify an Xtream account
type Credentials struct {
	ServerURL string `json:"server_url,omitempty"`
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty" masq:"secret"`
}

// Complete reports whether all three fields are set
func (c Credentials) Complete() bool {
	return c.ServerURL != "" && c.Username != "" && c.Password != ""
}

// AuthSession is the read-only view of the current login that catalog stores depend on
type AuthSession interface {
	Method() PlaylistType
	Credentials() Credentials
	M3UURL() string
	HasCredentials() bool
}

// SessionState is the persisted form of the current login
type SessionState struct {
	Method      PlaylistType `json:"method,omitempty"`
	Credentials Credentials  `json:"credentials"`
	M3UURL      string       `json:"m3u_url,omitempty"`
}
