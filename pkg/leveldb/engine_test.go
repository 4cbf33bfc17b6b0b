package leveldb

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/levelbind/pkg/config"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		engine  string
		wantErr bool
	}{
		{name: "goleveldb", engine: config.EngineGoLevelDB},
		{name: "pebble", engine: config.EnginePebble},
		{name: "unknown", engine: "rocksdb", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Engine = tc.engine
			cfg.Log.Level = "error"

			lib, err := Load(cfg)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer lib.Close() //nolint:errcheck

			assert.Equal(t, tc.engine, lib.Engine())
			major, _ := lib.Version()
			assert.Positive(t, major)

			d := connect(t, lib)
			require.NoError(t, d.Put("k", "v", nil))
		})
	}
}

func TestOpenEngineMissingLibrary(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Engine = config.EngineLibLevelDB
	cfg.LibraryPath = filepath.Join(t.TempDir(), "libleveldb-missing.so")

	_, err := OpenEngine(cfg)
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LEVELBIND_ENGINE", config.EnginePebble)
	t.Setenv("LEVELBIND_LOG_LEVEL", "error")
	t.Cleanup(func() {
		assert.NoError(t, Shutdown())
	})

	lib, err := Default()
	require.NoError(t, err)
	assert.Equal(t, config.EnginePebble, lib.Engine())

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, lib, again)

	d, err := Connect("db", CreateIfMissing(true))
	require.NoError(t, err)
	require.NoError(t, d.Put("a", "1", nil))

	assert.Error(t, Destroy("db"))
	_, err = d.Close(true)
	require.NoError(t, err)
	require.NoError(t, Destroy("db"))

	_, err = os.Stat("db")
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, Shutdown())
	next, err := Default()
	require.NoError(t, err)
	assert.NotSame(t, lib, next)
}

func TestLoadDuringCleanup(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Log.Level = "error"
	cfg.Log.Format = "json"

	lib, err := Load(cfg)
	require.NoError(t, err)
	defer lib.Close() //nolint:errcheck
	d := connect(t, lib)

	for i := 0; i < 200; i++ {
		_, err := d.NewSnapshot()
		require.NoError(t, err)
		runtime.GC()

		again, err := Load(cfg)
		require.NoError(t, err)
		require.NoError(t, again.Close())
	}
	runtime.KeepAlive(d)
}
