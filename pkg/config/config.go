package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/eigerco/levelbind/pkg/log"
)

// Engine identifiers accepted by the engine key.
const (
	EngineGoLevelDB  = "goleveldb"
	EnginePebble     = "pebble"
	EngineLibLevelDB = "libleveldb"
)

// Config selects the storage engine and the logging setup of a Library.
type Config struct {
	// Engine is one of EngineGoLevelDB, EnginePebble or EngineLibLevelDB.
	Engine string
	// LibraryPath locates the libleveldb shared object. Empty means the
	// platform default name, resolved by the dynamic loader.
	LibraryPath string

	Log struct {
		Level  string
		Format string
	}
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	cfg := &Config{
		Engine: EngineGoLevelDB,
	}
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	return cfg
}

// LoadConfig loads configuration from the specified file and environment
// variables. With an empty configFile it looks for levelbind.yaml in the
// working directory and in $HOME/.levelbind; a missing file is not an error.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	config := DefaultConfig()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("levelbind")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.levelbind")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// LEVELBIND_ENGINE, LEVELBIND_LIBRARYPATH, LEVELBIND_LOG_LEVEL, ...
	v.SetEnvPrefix("LEVELBIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.IsSet("engine") {
		config.Engine = v.GetString("engine")
	}
	if v.IsSet("libraryPath") {
		config.LibraryPath = v.GetString("libraryPath")
	}
	if v.IsSet("log.level") {
		config.Log.Level = v.GetString("log.level")
	}
	if v.IsSet("log.format") {
		config.Log.Format = v.GetString("log.format")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	switch c.Engine {
	case EngineGoLevelDB, EnginePebble, EngineLibLevelDB:
	default:
		return fmt.Errorf("unknown engine %q", c.Engine)
	}
	if _, err := log.ParseLogLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := log.ParseLoggerType(c.Log.Format); err != nil {
		return fmt.Errorf("log.format: %w", err)
	}
	return nil
}

// LogOptions converts the log section for log.Init. The config must be valid.
func (c *Config) LogOptions() log.Options {
	level, _ := log.ParseLogLevel(c.Log.Level)
	typ, _ := log.ParseLoggerType(c.Log.Format)
	return log.Options{LogLevel: level, Type: typ}
}
