package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/kanal/internal/domain"
)

const loadTimeout = 2 * time.Minute

// LoadContentCmd loads a content type into the library
func LoadContentCmd(lib Library, t domain.ContentType, reload bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		var err error
		if reload {
			err = lib.Reload(ctx, t)
		} else {
			err = lib.Load(ctx, t)
		}
		return ContentLoadedMsg{Type: t, Err: err}
	}
}

// LoadEpisodesCmd fetches the episodes of a series
func LoadEpisodesCmd(lib Library, series *domain.Channel) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		episodes, err := lib.Episodes(ctx, series.SeriesID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading episodes"}
		}
		return EpisodesLoadedMsg{Series: series, Episodes: episodes}
	}
}

// PlayCmd launches a channel, movie or playlist entry
func PlayCmd(p Player, item domain.CatalogItem) tea.Cmd {
	return func() tea.Msg {
		if err := p.Play(item); err != nil {
			return ErrMsg{Err: err, Context: "starting playback"}
		}
		return PlaybackStartedMsg{Title: item.DisplayName()}
	}
}

// PlayEpisodeCmd launches a series episode
func PlayEpisodeCmd(p Player, ep domain.Episode) tea.Cmd {
	return func() tea.Msg {
		if err := p.PlayEpisode(ep); err != nil {
			return ErrMsg{Err: err, Context: "starting playback"}
		}
		return PlaybackStartedMsg{Title: ep.Title}
	}
}

// LogoutCmd clears the session
func LogoutCmd(logout func()) tea.Cmd {
	return func() tea.Msg {
		if logout != nil {
			logout()
		}
		return LoggedOutMsg{}
	}
}

// ListenProgressCmd waits for the next progress event
func ListenProgressCmd(o *ProgressObserver) tea.Cmd {
	if o == nil {
		return nil
	}
	return func() tea.Msg {
		return <-o.Events()
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
