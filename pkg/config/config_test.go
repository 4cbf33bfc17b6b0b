package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/levelbind/pkg/log"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "levelbind.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		want    func(t *testing.T, cfg *Config)
		wantErr string
	}{
		{
			name: "file_values",
			file: "engine: pebble\nlog:\n  level: debug\n  format: json\n",
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, EnginePebble, cfg.Engine)
				assert.Equal(t, "debug", cfg.Log.Level)
				assert.Equal(t, "json", cfg.Log.Format)
				assert.Empty(t, cfg.LibraryPath)
			},
		},
		{
			name: "env_overrides_file",
			file: "engine: pebble\n",
			env: map[string]string{
				"LEVELBIND_ENGINE":      "libleveldb",
				"LEVELBIND_LIBRARYPATH": "/opt/lib/libleveldb.so",
				"LEVELBIND_LOG_LEVEL":   "warn",
			},
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, EngineLibLevelDB, cfg.Engine)
				assert.Equal(t, "/opt/lib/libleveldb.so", cfg.LibraryPath)
				assert.Equal(t, "warn", cfg.Log.Level)
				assert.Equal(t, "console", cfg.Log.Format)
			},
		},
		{
			name:    "unknown_engine",
			file:    "engine: rocksdb\n",
			wantErr: `unknown engine "rocksdb"`,
		},
		{
			name:    "bad_log_format",
			file:    "log:\n  format: xml\n",
			wantErr: "log.format",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadConfig(writeConfig(t, tc.file))
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.want(t, cfg)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLogOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "error"
	cfg.Log.Format = "json"

	opts := cfg.LogOptions()
	assert.Equal(t, zerolog.ErrorLevel, opts.LogLevel)
	assert.Equal(t, log.JSONLogger, opts.Type)
}
