package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderArgs(t *testing.T) {
	req := StreamRequest{
		URL:       "http://example.com/live/u/p/1.ts",
		Title:     "News",
		UserAgent: "kanal/1.0",
		Headers: map[string]string{
			"Referer": "http://portal.example.com/",
			"X-Token": "abc",
			"Origin":  "http://portal.example.com",
		},
	}

	tests := []struct {
		player string
		want   []string
	}{
		{
			player: "mpv",
			want: []string{
				"--user-agent=kanal/1.0",
				"--referrer=http://portal.example.com/",
				"--http-header-fields-append=Origin: http://portal.example.com",
				"--http-header-fields-append=X-Token: abc",
				"--force-media-title=News",
			},
		},
		{
			player: "vlc",
			want: []string{
				"--http-user-agent=kanal/1.0",
				"--http-referrer=http://portal.example.com/",
				"--meta-title=News",
			},
		},
		{player: "ffplay", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.player, func(t *testing.T) {
			assert.Equal(t, tt.want, headerArgs(tt.player, req))
		})
	}
}

func TestHeaderArgs_ExplicitValuesWin(t *testing.T) {
	req := StreamRequest{
		UserAgent: "configured",
		Referrer:  "http://configured/",
		Headers: map[string]string{
			"User-Agent": "from-playlist",
			"Referer":    "http://from-playlist/",
		},
	}

	assert.Equal(t, []string{
		"--user-agent=configured",
		"--referrer=http://configured/",
	}, headerArgs("mpv", req))
}

func TestConfiguredArgs(t *testing.T) {
	l := NewLauncher("/usr/local/bin/MPV.exe", []string{"--fs"}, NullLogger())

	args := l.configuredArgs(StreamRequest{URL: "http://h/1.ts", UserAgent: "ua"})

	assert.Equal(t, []string{"--fs", "--user-agent=ua", "http://h/1.ts"}, args)
	assert.Equal(t, []string{"--fs"}, l.args, "configured args must not be mutated")
}

func TestLaunch_RequiresURL(t *testing.T) {
	l := NewLauncher("mpv", nil, NullLogger())
	assert.Error(t, l.Launch(StreamRequest{}))
}
