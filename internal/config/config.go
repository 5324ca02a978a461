package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Colors holds color values for every UI style.
// Values can be xterm-256 codes (0-255) or hex colors (#rrggbb).
type Colors struct {
	Title       string `toml:"title"`
	Header      string `toml:"header"`
	SelectedBG  string `toml:"selected_bg"`
	SelectedFG  string `toml:"selected_fg"`
	TabActive   string `toml:"tab_active"`
	TabInactive string `toml:"tab_inactive"`
	Planning    string `toml:"planning"`
	Development string `toml:"development"`
	Testing     string `toml:"testing"`
	Review      string `toml:"review"`
	Deployment  string `toml:"deployment"`
	Todo        string `toml:"todo"`
	InProgress  string `toml:"in_progress"`
	Completed   string `toml:"completed"`
	Blocked     string `toml:"blocked"`
	Online      string `toml:"online"`
	Busy        string `toml:"busy"`
	Offline     string `toml:"offline"`
	Success     string `toml:"success"`
	Error       string `toml:"error"`
	Help        string `toml:"help"`
	Dim         string `toml:"dim"`
	Border      string `toml:"border"`
	Separator   string `toml:"separator"`
	Logo        string `toml:"logo"`
}

// AI holds settings for the workflow advisor.
type AI struct {
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	MaxTokens      int64  `toml:"max_tokens"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the per-request timeout. Zero or negative disables it.
func (a AI) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type Storage struct {
	DataDir string `toml:"data_dir"`
}

type Log struct {
	Level string `toml:"level"`
}

// SlogLevel parses Level, falling back to info for unknown values.
func (l Log) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

type Telemetry struct {
	Enabled bool `toml:"enabled"`
	// Stdout sends exported spans and metrics to stderr instead of the log file.
	Stdout bool `toml:"stdout"`
}

// Config is the top-level configuration.
type Config struct {
	Colors    Colors    `toml:"colors"`
	AI        AI        `toml:"ai"`
	Storage   Storage   `toml:"storage"`
	Log       Log       `toml:"log"`
	Telemetry Telemetry `toml:"telemetry"`
}

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		Colors: Colors{
			Title:       "#cba6f7", // Mauve
			Header:      "#89b4fa", // Blue
			SelectedBG:  "#313244", // Surface 0
			SelectedFG:  "#cdd6f4", // Text
			TabActive:   "#b4befe", // Lavender
			TabInactive: "#7f849c", // Overlay 1
			Planning:    "#89b4fa", // Blue
			Development: "#cba6f7", // Mauve
			Testing:     "#fab387", // Peach
			Review:      "#f9e2af", // Yellow
			Deployment:  "#a6e3a1", // Green
			Todo:        "#a6adc8", // Subtext 0
			InProgress:  "#89b4fa", // Blue
			Completed:   "#a6e3a1", // Green
			Blocked:     "#f38ba8", // Red
			Online:      "#a6e3a1", // Green
			Busy:        "#f9e2af", // Yellow
			Offline:     "#6c7086", // Overlay 0
			Success:     "#94e2d5", // Teal
			Error:       "#f38ba8", // Red
			Help:        "#7f849c", // Overlay 1
			Dim:         "#7f849c", // Overlay 1
			Border:      "#585b70", // Surface 2
			Separator:   "#585b70", // Surface 2
			Logo:        "#cba6f7", // Mauve
		},
		AI: AI{
			Model:          "claude-haiku-4-5",
			MaxTokens:      2048,
			TimeoutSeconds: 60,
		},
		Storage: Storage{
			DataDir: defaultDataDir(),
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Path returns the config file path. FLOWVIEW_CONFIG wins; otherwise the
// file lives under XDG_CONFIG_HOME.
func Path() string {
	if p := os.Getenv("FLOWVIEW_CONFIG"); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "flowview", "flowview.toml")
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "flowview")
}

// Load reads the config file and returns a Config. Omitted fields keep
// their default values. If the file does not exist, defaults are returned
// with no error. Environment overrides are applied last.
func Load() (Config, error) {
	cfg := Default()
	path := Path()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("FLOWVIEW_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("FLOWVIEW_OTEL"); v != "" {
		cfg.Telemetry.Enabled = v == "true" || v == "1"
	}
}

// DBPath is the SQLite database inside the data directory.
func (c Config) DBPath() string {
	return filepath.Join(c.Storage.DataDir, "flowview.db")
}

// LogPath is the log file inside the data directory.
func (c Config) LogPath() string {
	return filepath.Join(c.Storage.DataDir, "flowview.log")
}

func (c Config) EnsureDataDir() error {
	return os.MkdirAll(c.Storage.DataDir, 0o755)
}

const defaultFileContent = `# flowview configuration
# Uncomment and modify values to customize. All values are optional.
# Colors can be hex (#rrggbb) or xterm-256 codes (0-255).
# Defaults use the Catppuccin Mocha palette.

[colors]
# title        = "#cba6f7"  # Mauve
# header       = "#89b4fa"  # Blue
# selected_bg  = "#313244"  # Surface 0
# selected_fg  = "#cdd6f4"  # Text
# tab_active   = "#b4befe"  # Lavender
# tab_inactive = "#7f849c"  # Overlay 1
# planning     = "#89b4fa"  # Blue
# development  = "#cba6f7"  # Mauve
# testing      = "#fab387"  # Peach
# review       = "#f9e2af"  # Yellow
# deployment   = "#a6e3a1"  # Green
# todo         = "#a6adc8"  # Subtext 0
# in_progress  = "#89b4fa"  # Blue
# completed    = "#a6e3a1"  # Green
# blocked      = "#f38ba8"  # Red
# online       = "#a6e3a1"  # Green
# busy         = "#f9e2af"  # Yellow
# offline      = "#6c7086"  # Overlay 0
# success      = "#94e2d5"  # Teal
# error        = "#f38ba8"  # Red
# help         = "#7f849c"  # Overlay 1
# dim          = "#7f849c"  # Overlay 1
# border       = "#585b70"  # Surface 2
# separator    = "#585b70"  # Surface 2
# logo         = "#cba6f7"  # Mauve

[ai]
# api_key         = ""                  # ANTHROPIC_API_KEY takes precedence
# model           = "claude-haiku-4-5"
# max_tokens      = 2048
# timeout_seconds = 60                  # 0 disables the timeout

[storage]
# data_dir = "~/.local/share/flowview"  # FLOWVIEW_DATA_DIR takes precedence

[log]
# level = "info"  # debug, info, warn, error

[telemetry]
# enabled = false  # FLOWVIEW_OTEL=true also enables it
# stdout  = false  # export to stderr instead of the log file
`

// WriteDefault writes the default config file with all values commented out.
// It no-ops if the file already exists. Parent directories are created as needed.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // file already exists
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(defaultFileContent), 0o644)
}
