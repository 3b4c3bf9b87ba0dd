package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mmcdole/kanal/internal/domain"
	"github.com/spf13/viper"
)

const appName = "kanal"

// Stream formats for Xtream live channels
const (
	StreamFormatTS  = "ts"
	StreamFormatHLS = "m3u8"
)

// Config holds all application configuration
type Config struct {
	Player  PlayerConfig  `mapstructure:"player"`
	Stream  StreamConfig  `mapstructure:"stream"`
	UI      UIConfig      `mapstructure:"ui"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PlayerConfig holds media player configuration
type PlayerConfig struct {
	Command string   `mapstructure:"command"` // empty = auto-detect
	Args    []string `mapstructure:"args"`
}

// StreamConfig controls how streams and playlists are requested
type StreamConfig struct {
	Format     string        `mapstructure:"format"` // "ts" or "m3u8"
	UserAgent  string        `mapstructure:"user_agent"`
	Referrer   string        `mapstructure:"referrer"`
	Timeout    time.Duration `mapstructure:"timeout"`     // Xtream API
	M3UTimeout time.Duration `mapstructure:"m3u_timeout"` // playlist download
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme          string `mapstructure:"theme"`
	DefaultContent string `mapstructure:"default_content"`
}

// StorageConfig holds where the snapshot database lives. An empty
// data_dir keeps everything in memory.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Player: PlayerConfig{
			Command: "",
			Args:    []string{},
		},
		Stream: StreamConfig{
			Format:     StreamFormatTS,
			Timeout:    20 * time.Second,
			M3UTimeout: 30 * time.Second,
		},
		UI: UIConfig{
			Theme:          "default",
			DefaultContent: string(domain.ContentLive),
		},
		Storage: StorageConfig{
			DataDir: defaultDataPath(),
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), appName+".log"),
			Level: "INFO",
		},
	}
}

func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName)
	}
}

// ConfigDir returns the directory config.yaml is read from and written to
func ConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(ConfigDir(), ".")
}

// LoadConfigFrom reads config.yaml from the first dir that has one.
// KANAL_* variables override file values, e.g. KANAL_STREAM_FORMAT.
func LoadConfigFrom(dirs ...string) (*Config, error) {
	v := newViper()
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setValues(v, DefaultConfig(), v.SetDefault)
	return v
}

// setValues walks every key so defaults and env overrides are known to viper
func setValues(v *viper.Viper, cfg *Config, set func(string, any)) {
	set("player.command", cfg.Player.Command)
	set("player.args", cfg.Player.Args)

	set("stream.format", cfg.Stream.Format)
	set("stream.user_agent", cfg.Stream.UserAgent)
	set("stream.referrer", cfg.Stream.Referrer)
	set("stream.timeout", cfg.Stream.Timeout.String())
	set("stream.m3u_timeout", cfg.Stream.M3UTimeout.String())

	set("ui.theme", cfg.UI.Theme)
	set("ui.default_content", cfg.UI.DefaultContent)

	set("storage.data_dir", cfg.Storage.DataDir)

	set("logging.file", cfg.Logging.File)
	set("logging.level", cfg.Logging.Level)
}

// Validate rejects values the rest of the app cannot work with
func (c *Config) Validate() error {
	switch c.Stream.Format {
	case StreamFormatTS, StreamFormatHLS:
	default:
		return fmt.Errorf("invalid stream.format %q: want %q or %q", c.Stream.Format, StreamFormatTS, StreamFormatHLS)
	}
	if _, err := domain.ParseContentType(c.UI.DefaultContent); err != nil {
		return fmt.Errorf("invalid ui.default_content: %w", err)
	}
	return nil
}

// ContentType returns the content type the UI opens with
func (c *Config) ContentType() domain.ContentType {
	t, err := domain.ParseContentType(c.UI.DefaultContent)
	if err != nil {
		return domain.ContentLive
	}
	return t
}

// SaveConfig writes cfg to dir/config.yaml
func SaveConfig(cfg *Config, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	setValues(v, cfg, v.Set)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
