package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/spf13/viper"
)

// Bear keeps its database inside the app group container.
const bearContainer = "Library/Group Containers/9K33E3U3T4.net.shinyfrog.bear/Application Data/database.sqlite"

// Config is the cofiguration for the application
type Config struct {
	DatabasePath string `mapstructure:"database_path"` // Location of the Bear database.
	Icon         string `mapstructure:"icon"`          // Icon reported with every result
	URLScheme    string `mapstructure:"url_scheme"`    // Scheme of the open-note deep links
	Snippets     bool   `mapstructure:"snippets"`      // Whether to read note bodies and build snippets
	OpenCommand  string `mapstructure:"open_command"`  // Command that opens deep links
	LogLevel     string `mapstructure:"log_level"`     // debug, info, warn or error
}

// ConfigDir is where the config file and TUI log live.
func ConfigDir() string {
	homedir, _ := os.UserHomeDir()
	return path.Join(homedir, "/.config/bear_search")
}

// DefaultConfigPath returns the config file read when none is given.
func DefaultConfigPath() string {
	return path.Join(ConfigDir(), "config.yaml")
}

// NewConfig returns a new Config object by reading from the config file
// at configPath. A missing file leaves every setting at its default.
// Settings can be overridden with BEAR_SEARCH_* environment variables.
func NewConfig(configPath string) (*Config, error) {
	homedir := os.Getenv("HOME")

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("bear_search")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database_path", path.Join(homedir, bearContainer))
	v.SetDefault("icon", "Bear-Icon.png")
	v.SetDefault("url_scheme", "bear")
	v.SetDefault("snippets", true)
	v.SetDefault("open_command", "open")
	v.SetDefault("log_level", "warn")

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to parse the config file: %w", err)
	}

	return config, nil
}

// Level returns the configured log level, warn when it cannot be parsed.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}
