package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmcdole/kanal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom_Defaults(t *testing.T) {
	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.Stream, cfg.Stream)
	assert.Equal(t, def.UI, cfg.UI)
	assert.Equal(t, domain.ContentLive, cfg.ContentType())
}

func TestLoadConfigFrom_File(t *testing.T) {
	dir := t.TempDir()
	body := `
player:
  command: vlc
  args: ["--fullscreen"]
stream:
  format: m3u8
  user_agent: VLC/3.0
  timeout: 5s
ui:
  default_content: series
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))

	cfg, err := LoadConfigFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "vlc", cfg.Player.Command)
	assert.Equal(t, []string{"--fullscreen"}, cfg.Player.Args)
	assert.Equal(t, StreamFormatHLS, cfg.Stream.Format)
	assert.Equal(t, "VLC/3.0", cfg.Stream.UserAgent)
	assert.Equal(t, 5*time.Second, cfg.Stream.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Stream.M3UTimeout)
	assert.Equal(t, domain.ContentSeries, cfg.ContentType())
}

func TestLoadConfigFrom_EnvOverride(t *testing.T) {
	t.Setenv("KANAL_STREAM_FORMAT", "m3u8")
	t.Setenv("KANAL_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, StreamFormatHLS, cfg.Stream.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"format", "stream:\n  format: mkv\n"},
		{"content", "ui:\n  default_content: podcasts\n"},
		{"yaml", "stream: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tt.body), 0644))

			_, err := LoadConfigFrom(dir)
			assert.Error(t, err)
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Player.Command = "mpv"
	cfg.Stream.Referrer = "http://portal/"
	cfg.UI.DefaultContent = "vod"

	require.NoError(t, SaveConfig(cfg, dir))

	loaded, err := LoadConfigFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "mpv", loaded.Player.Command)
	assert.Equal(t, "http://portal/", loaded.Stream.Referrer)
	assert.Equal(t, domain.ContentVOD, loaded.ContentType())
}
