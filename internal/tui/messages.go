package tui

import "github.com/mmcdole/kanal/internal/domain"

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ContentLoadedMsg signals that a load of a content type finished
type ContentLoadedMsg struct {
	Type domain.ContentType
	Err  error
}

// EpisodesLoadedMsg carries a series' episodes
type EpisodesLoadedMsg struct {
	Series   domain.CatalogItem
	Episodes []domain.Episode
}

// PlaybackStartedMsg signals that the player was launched
type PlaybackStartedMsg struct {
	Title string
}

// LoggedOutMsg signals that the session was cleared
type LoggedOutMsg struct{}

// LoadProgressMsg reports how many channels have been normalized so far
type LoadProgressMsg struct {
	Loaded int
	Total  int
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}
