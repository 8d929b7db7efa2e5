// Package config loads slotbook's TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/timegrid"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config is the whole configuration file.
type Config struct {
	// Endpoint is the save URL. Empty means discover a local `slotbook serve`.
	Endpoint       string                            `toml:"endpoint"`
	TimeoutSeconds int                               `toml:"timeout_seconds"`
	Window         WindowConfig                      `toml:"window"`
	Blocked        map[string][]models.BlockedPeriod `toml:"blocked"`
	Server         ServerConfig                      `toml:"server"`
	Log            LogConfig                         `toml:"log"`
}

// WindowConfig is the visible part of every day column.
type WindowConfig struct {
	StartHour     int     `toml:"start_hour"`
	EndHour       int     `toml:"end_hour"`
	Snap          int     `toml:"snap"`
	TopPadding    float64 `toml:"top_padding"`
	BottomPadding float64 `toml:"bottom_padding"`
}

// ServerConfig configures the reference save endpoint.
type ServerConfig struct {
	Port         int    `toml:"port"`
	Database     string `toml:"database"`
	MetricsPath  string `toml:"metrics_path"`
	ReadTimeout  int    `toml:"read_timeout"`
	WriteTimeout int    `toml:"write_timeout"`
}

type LogConfig struct {
	Debug bool `toml:"debug"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		TimeoutSeconds: int(constants.DefaultSubmitTimeout / time.Second),
		Window: WindowConfig{
			StartHour:     constants.DefaultStartHour,
			EndHour:       constants.DefaultEndHour,
			Snap:          constants.DefaultSnapMinutes,
			TopPadding:    constants.DefaultTopPadding,
			BottomPadding: constants.DefaultBottomPadding,
		},
		Blocked: map[string][]models.BlockedPeriod{},
		Server: ServerConfig{
			Port:         constants.DefaultServerPort,
			Database:     constants.DefaultDatabasePath,
			MetricsPath:  constants.DefaultMetricsPath,
			ReadTimeout:  int(constants.DefaultReadTimeout / time.Second),
			WriteTimeout: int(constants.DefaultWriteTimeout / time.Second),
		},
	}
}

// Load reads the file at path over the defaults. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()

	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(expanded); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(expanded, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", expanded, err)
	}
	if cfg.Blocked == nil {
		cfg.Blocked = map[string][]models.BlockedPeriod{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the window and every blocked period.
func (c *Config) Validate() error {
	if err := c.GridWindow().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: timeout_seconds must be positive, got %d", ErrInvalidConfig, c.TimeoutSeconds)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d is outside valid range (1-65535)", ErrInvalidConfig, c.Server.Port)
	}
	if !strings.HasPrefix(c.Server.MetricsPath, "/") {
		return fmt.Errorf("%w: metrics_path must start with /", ErrInvalidConfig)
	}
	if _, err := c.BlockedIntervals(); err != nil {
		return err
	}
	return nil
}

// GridWindow converts the window section for the geometry helpers.
func (c *Config) GridWindow() timegrid.Window {
	return timegrid.Window{
		StartHour:     c.Window.StartHour,
		EndHour:       c.Window.EndHour,
		Snap:          c.Window.Snap,
		TopPadding:    c.Window.TopPadding,
		BottomPadding: c.Window.BottomPadding,
	}
}

// BlockedIntervals parses the blocked table into minute intervals per date.
func (c *Config) BlockedIntervals() (map[string][]timegrid.Interval, error) {
	out := make(map[string][]timegrid.Interval, len(c.Blocked))

	dates := make([]string, 0, len(c.Blocked))
	for date := range c.Blocked {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		if _, err := time.Parse(constants.DateFormat, date); err != nil {
			return nil, fmt.Errorf("%w: blocked date %q is not YYYY-MM-DD", ErrInvalidConfig, date)
		}
		intervals, err := timegrid.ParseBlocked(c.Blocked[date])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, date, err)
		}
		out[date] = intervals
	}
	return out, nil
}

// SubmitTimeout is the HTTP timeout of the submission client.
func (c *Config) SubmitTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

func (s ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Dir returns the directory holding the config file, used for logs and the
// server lockfile.
func Dir(path string) (string, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", err
	}
	return filepath.Dir(expanded), nil
}
