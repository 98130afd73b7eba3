package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	home := t.TempDir()

	cfg, err := Load(home)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(home), cfg)
	assert.Equal(t, filepath.Join(home, ".feather", "feather.db"), cfg.DBPath)
	assert.Equal(t, time.Sunday, cfg.DayStart())
}

func TestLoad_FileThenEnv(t *testing.T) {
	t.Setenv("FEATHER_CONFIG", writeConfig(t, `
uid: alice
week_start: 1
weeks: 8
caldav:
  url: https://dav.example.com
  username: alice
  calendar: /cal/alice/plans/
`))
	t.Setenv("FEATHER_WEEKS", "3")
	t.Setenv("FEATHER_CALDAV_PASSWORD", "s3cret")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.UID)
	assert.Equal(t, time.Monday, cfg.DayStart())
	assert.Equal(t, 3, cfg.Weeks, "env wins over file")
	assert.Equal(t, "https://dav.example.com", cfg.CalDAV.URL)
	assert.True(t, cfg.CalDAV.Configured())
	assert.Equal(t, 100, cfg.UndoLimit, "untouched default")
}

func TestLoad_InvalidEnvIgnored(t *testing.T) {
	t.Setenv("FEATHER_WEEK_START", "9")
	t.Setenv("FEATHER_UNDO_LIMIT", "many")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.WeekStart)
	assert.Equal(t, 100, cfg.UndoLimit)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("explicit file missing", func(t *testing.T) {
		t.Setenv("FEATHER_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})
	t.Run("malformed yaml", func(t *testing.T) {
		t.Setenv("FEATHER_CONFIG", writeConfig(t, "weeks: [oops"))
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})
	t.Run("week start out of range in file", func(t *testing.T) {
		t.Setenv("FEATHER_CONFIG", writeConfig(t, "week_start: 7"))
		_, err := Load(t.TempDir())
		assert.ErrorContains(t, err, "week_start")
	})
	t.Run("unknown timezone", func(t *testing.T) {
		t.Setenv("FEATHER_TIMEZONE", "Mars/Olympus")
		_, err := Load(t.TempDir())
		assert.ErrorContains(t, err, "timezone")
	})
}
