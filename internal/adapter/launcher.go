package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// StreamRequest is what the player needs to open a stream
type StreamRequest struct {
	URL       string
	Title     string
	UserAgent string
	Referrer  string
	Headers   map[string]string
}

// Launcher launches stream URLs in an external player
type Launcher struct {
	command string   // configured player command, empty for auto-detect
	args    []string // additional arguments for the player
	logger  *slog.Logger
}

// launchPath defines a single way to launch a player
type launchPath struct {
	path      string   // Command path: "mpv", "vlc", or "open-a:AppName"
	openFlags []string // For "open-a:" paths only
}

// playerConfig describes how a player takes request headers
type playerConfig struct {
	userAgentFlag string // e.g. "--user-agent="
	referrerFlag  string
	headerFlag    string // one "Name: value" per flag, empty if unsupported
	titleFlag     string
	platforms     map[string][]launchPath
}

var players = map[string]playerConfig{
	"mpv": {
		userAgentFlag: "--user-agent=",
		referrerFlag:  "--referrer=",
		headerFlag:    "--http-header-fields-append=",
		titleFlag:     "--force-media-title=",
		platforms: map[string][]launchPath{
			"darwin":  {{path: "mpv"}},
			"linux":   {{path: "mpv"}},
			"windows": {{path: "mpv"}},
		},
	},
	"vlc": {
		userAgentFlag: "--http-user-agent=",
		referrerFlag:  "--http-referrer=",
		titleFlag:     "--meta-title=",
		platforms: map[string][]launchPath{
			"darwin": {
				{path: "vlc"},
				{path: "open-a:VLC"},
			},
			"linux":   {{path: "vlc"}},
			"windows": {{path: "vlc"}},
		},
	},
	"iina": {
		userAgentFlag: "--mpv-user-agent=",
		referrerFlag:  "--mpv-referrer=",
		platforms: map[string][]launchPath{
			"darwin": {
				{path: "open-a:IINA", openFlags: []string{"-n"}},
			},
		},
	},
	"celluloid": {
		userAgentFlag: "--mpv-user-agent=",
		referrerFlag:  "--mpv-referrer=",
		platforms: map[string][]launchPath{
			"linux": {{path: "celluloid"}},
		},
	},
}

// candidatePlayers defines the preferred player order for each platform
var candidatePlayers = map[string][]string{
	"darwin":  {"iina", "mpv", "vlc"},
	"linux":   {"mpv", "vlc", "celluloid"},
	"windows": {"mpv", "vlc"},
}

// NewLauncher creates a new Launcher
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		logger:  logger,
	}
}

func playerName(command string) string {
	base := filepath.Base(command)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToLower(base)
}

// headerArgs turns the request's headers into flags the player understands.
// Unknown players get no header flags.
func headerArgs(player string, req StreamRequest) []string {
	cfg, ok := players[player]
	if !ok {
		return nil
	}

	var args []string
	userAgent := req.UserAgent
	referrer := req.Referrer
	var extra []string
	for name, value := range req.Headers {
		switch strings.ToLower(name) {
		case "user-agent":
			if userAgent == "" {
				userAgent = value
			}
		case "referer", "referrer":
			if referrer == "" {
				referrer = value
			}
		default:
			extra = append(extra, name+": "+value)
		}
	}

	if userAgent != "" && cfg.userAgentFlag != "" {
		args = append(args, cfg.userAgentFlag+userAgent)
	}
	if referrer != "" && cfg.referrerFlag != "" {
		args = append(args, cfg.referrerFlag+referrer)
	}
	if cfg.headerFlag != "" {
		// map order is random
		slices.Sort(extra)
		for _, h := range extra {
			args = append(args, cfg.headerFlag+h)
		}
	}
	if req.Title != "" && cfg.titleFlag != "" {
		args = append(args, cfg.titleFlag+req.Title)
	}
	return args
}

// tryOpenWithApp attempts to open URL with a specific macOS app using "open -a"
func tryOpenWithApp(appName string, url string, playerArgs []string, openFlags []string) error {
	cmdArgs := make([]string, len(openFlags))
	copy(cmdArgs, openFlags)

	cmdArgs = append(cmdArgs, "-a", appName)
	if len(playerArgs) > 0 {
		cmdArgs = append(cmdArgs, "--args")
		cmdArgs = append(cmdArgs, playerArgs...)
	}
	cmdArgs = append(cmdArgs, url)

	cmd := exec.Command("open", cmdArgs...)
	// Run() waits and reports a missing app
	return cmd.Run()
}

// tryLaunchWithCommand attempts to launch URL with a CLI command
func tryLaunchWithCommand(command string, url string, args []string) error {
	if _, err := exec.LookPath(command); err != nil {
		return err
	}

	cmdArgs := append(append([]string{}, args...), url)
	cmd := exec.Command(command, cmdArgs...)
	return cmd.Start()
}

// detectAndLaunch tries candidate players in order.
// Returns the player name that succeeded.
func detectAndLaunch(req StreamRequest, logger *slog.Logger) (string, error) {
	candidates, ok := candidatePlayers[runtime.GOOS]
	if !ok {
		candidates = candidatePlayers["linux"]
	}

	for _, name := range candidates {
		player, exists := players[name]
		if !exists {
			continue
		}

		launchPaths, ok := player.platforms[runtime.GOOS]
		if !ok {
			logger.Debug("player not available on this platform", "player", name, "platform", runtime.GOOS)
			continue
		}

		args := headerArgs(name, req)
		for _, lp := range launchPaths {
			var err error
			if strings.HasPrefix(lp.path, "open-a:") {
				err = tryOpenWithApp(strings.TrimPrefix(lp.path, "open-a:"), req.URL, args, lp.openFlags)
			} else {
				err = tryLaunchWithCommand(lp.path, req.URL, args)
			}

			if err == nil {
				logger.Info("launched with detected player", "player", name, "path", lp.path)
				return name, nil
			}
			logger.Debug("launch path not available", "player", name, "path", lp.path, "error", err)
		}
	}

	return "", fmt.Errorf("no candidate players found")
}

// Launch opens a stream in the configured player, a detected player, or the
// system default, in that order
func (l *Launcher) Launch(req StreamRequest) error {
	if req.URL == "" {
		return fmt.Errorf("no stream url")
	}

	if l.command != "" {
		l.logger.Info("using configured player", "command", l.command)
		return l.launchConfigured(req)
	}

	if _, err := detectAndLaunch(req, l.logger); err == nil {
		return nil
	}

	l.logger.Info("no candidate players found, using system default")
	return l.launchDefault(req.URL)
}

// configuredArgs builds the argument list for the configured player, URL last
func (l *Launcher) configuredArgs(req StreamRequest) []string {
	args := append([]string{}, l.args...)
	args = append(args, headerArgs(playerName(l.command), req)...)
	return append(args, req.URL)
}

func (l *Launcher) launchConfigured(req StreamRequest) error {
	args := l.configuredArgs(req)
	l.logger.Info("launching player", "command", l.command, "title", req.Title)

	// On macOS, GUI apps outside PATH go through 'open -a'
	if runtime.GOOS == "darwin" {
		if _, err := exec.LookPath(l.command); err != nil {
			var openFlags []string
			if cfg, ok := players[playerName(l.command)]; ok {
				for _, lp := range cfg.platforms["darwin"] {
					if strings.HasPrefix(lp.path, "open-a:") {
						openFlags = lp.openFlags
						break
					}
				}
			}
			return tryOpenWithApp(l.command, req.URL, args[:len(args)-1], openFlags)
		}
	}

	return exec.Command(l.command, args...).Start()
}

// launchDefault opens the URL using the system default handler
func (l *Launcher) launchDefault(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	l.logger.Info("launching with system default", "os", runtime.GOOS)
	return cmd.Start()
}
