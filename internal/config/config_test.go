package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Environment: "development"},
		Logger:   LoggerConfig{Level: "info"},
		Database: DatabaseConfig{Path: "/some/path/parabens.db"},
		Scheduler: SchedulerConfig{
			Enabled:  true,
			SendHour: 8,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_LogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logger.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}

	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidate_SchedulerBounds(t *testing.T) {
	tests := []struct {
		name   string
		hour   int
		minute int
		valid  bool
	}{
		{"midnight", 0, 0, true},
		{"morning", 8, 30, true},
		{"last minute", 23, 59, true},
		{"hour too high", 24, 0, false},
		{"negative hour", -1, 0, false},
		{"minute too high", 9, 60, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Scheduler.SendHour = tt.hour
			cfg.Scheduler.SendMinute = tt.minute
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_EmptyDatabasePath(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Path = ""
	assert.Error(t, cfg.Validate())
}

func TestExpandPath(t *testing.T) {
	t.Run("empty uses default", func(t *testing.T) {
		got, err := expandPath("", "/default/db")
		require.NoError(t, err)
		assert.Equal(t, "/default/db", got)
	})

	t.Run("tilde expansion", func(t *testing.T) {
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := expandPath("~/data/app.db", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "data", "app.db"), got)
	})

	t.Run("absolute path unchanged", func(t *testing.T) {
		got, err := expandPath("/var/lib/app.db", "/default")
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/app.db", got)
	})
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("PARABENS_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "PARABENS_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "PARABENS_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "PARABENS_TEST_MISSING", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"TRUE", true},
		{"false", false},
		{"0", false},
		{"anything", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, getBoolConfigValue(tt.value, "UNSET_KEY", false), "value %q", tt.value)
	}

	// Empty falls back to default.
	assert.True(t, getBoolConfigValue("", "UNSET_KEY", true))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nPARABENS_ENVFILE_A=hello\nPARABENS_ENVFILE_B=\"quoted\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("PARABENS_ENVFILE_A")
		os.Unsetenv("PARABENS_ENVFILE_B")
	})

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "hello", os.Getenv("PARABENS_ENVFILE_A"))
	assert.Equal(t, "quoted", os.Getenv("PARABENS_ENVFILE_B"))
}
