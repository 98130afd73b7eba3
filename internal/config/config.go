// Package config resolves feather's settings: built-in defaults, then an
// optional YAML file, then FEATHER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Dir is the per-user directory holding the database, log and config file.
const Dir = ".feather"

// CalDAVConfig holds the CalDAV push target.
type CalDAVConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Calendar string `yaml:"calendar"`
}

// Configured reports whether credentials are present.
func (c CalDAVConfig) Configured() bool {
	return c.Username != "" && c.Password != ""
}

// Config holds all runtime settings.
type Config struct {
	DBPath    string       `yaml:"db"`
	UID       string       `yaml:"uid"`
	WeekStart int          `yaml:"week_start"` // 0 = Sunday .. 6 = Saturday
	Weeks     int          `yaml:"weeks"`
	LogFile   string       `yaml:"log_file"`
	UndoLimit int          `yaml:"undo_limit"`
	Timezone  string       `yaml:"timezone"`
	CalDAV    CalDAVConfig `yaml:"caldav"`
}

// DefaultConfig returns the settings used when nothing is configured.
// Paths live under home/.feather.
func DefaultConfig(home string) Config {
	return Config{
		DBPath:    filepath.Join(home, Dir, "feather.db"),
		UID:       "local",
		WeekStart: 0,
		Weeks:     5,
		LogFile:   filepath.Join(home, Dir, "feather.log"),
		UndoLimit: 100,
	}
}

// Load builds the configuration. The YAML file is FEATHER_CONFIG when set,
// otherwise home/.feather/config.yaml; a missing default file is not an error.
func Load(home string) (Config, error) {
	cfg := DefaultConfig(home)

	path := os.Getenv("FEATHER_CONFIG")
	explicit := path != ""
	if !explicit {
		path = filepath.Join(home, Dir, "config.yaml")
	}
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.DBPath, "FEATHER_DB")
	setString(&c.UID, "FEATHER_UID")
	setString(&c.LogFile, "FEATHER_LOG_FILE")
	setString(&c.Timezone, "FEATHER_TIMEZONE")
	setString(&c.CalDAV.URL, "FEATHER_CALDAV_URL")
	setString(&c.CalDAV.Username, "FEATHER_CALDAV_USER")
	setString(&c.CalDAV.Password, "FEATHER_CALDAV_PASSWORD")
	setString(&c.CalDAV.Calendar, "FEATHER_CALDAV_CALENDAR")

	if v := os.Getenv("FEATHER_WEEK_START"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 6 {
			c.WeekStart = n
		}
	}
	if v := os.Getenv("FEATHER_WEEKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Weeks = n
		}
	}
	if v := os.Getenv("FEATHER_UNDO_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.UndoLimit = n
		}
	}
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// Validate rejects values the rest of the program cannot work with.
func (c Config) Validate() error {
	if c.UID == "" {
		return errors.New("config: uid must not be empty")
	}
	if c.WeekStart < 0 || c.WeekStart > 6 {
		return fmt.Errorf("config: week_start %d out of range 0..6", c.WeekStart)
	}
	if c.Weeks < 1 {
		return fmt.Errorf("config: weeks must be positive, got %d", c.Weeks)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the configured time zone, or time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DayStart returns WeekStart as a weekday.
func (c Config) DayStart() time.Weekday {
	return time.Weekday(c.WeekStart)
}
