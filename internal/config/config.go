package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/redjax/notetabs/internal/notes"
	"github.com/redjax/notetabs/internal/utils"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// NOTETABS_STORAGE_BACKEND=sqlite.
const EnvPrefix = "NOTETABS_"

// Config holds the application configuration
type Config struct {
	DataDir        string        `koanf:"data.dir"`
	StorageBackend string        `koanf:"storage.backend"`
	StoragePath    string        `koanf:"storage.path"`
	Debounce       time.Duration `koanf:"autosave.debounce"`
	LogFile        string        `koanf:"log.file"`
	LogLevel       string        `koanf:"log.level"`
}

func DefaultConfig() *Config {
	dataDir, err := utils.GetAppDataDir()
	if err != nil {
		dataDir = ".notetabs"
	}

	return &Config{
		DataDir:        dataDir,
		StorageBackend: "file",
		Debounce:       notes.DefaultDebounce,
		LogLevel:       "info",
	}
}

// ResolvedStoragePath returns the storage location, deriving it from the data
// directory and backend when not set explicitly.
func (c *Config) ResolvedStoragePath() string {
	if c.StoragePath != "" {
		return c.StoragePath
	}

	switch strings.ToLower(c.StorageBackend) {
	case "sqlite":
		return filepath.Join(c.DataDir, "notetabs.db")
	default:
		return filepath.Join(c.DataDir, "notetabs.json")
	}
}

// ResolvedLogFile returns the log file path.
func (c *Config) ResolvedLogFile() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "notetabs.log")
}

// Load layers defaults, the config file (if any), NOTETABS_ environment
// variables and command-line flags, in increasing order of precedence.
func Load(flagSet *pflag.FlagSet, configFile string) (*Config, error) {
	k := koanf.New(".")

	if configFile != "" {
		parser, err := parserForFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("unsupported config file format: %w", err)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Load from environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	// Load from CLI args (highest precedence)
	if flagSet != nil {
		if err := k.Load(posflag.ProviderWithFlag(flagSet, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, f.Value.String()
		}), nil); err != nil {
			return nil, fmt.Errorf("error loading flags: %w", err)
		}
	}

	// Values absent from every layer keep their defaults.
	cfg := DefaultConfig()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return cfg, nil
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"data-dir":  "data.dir",
	"backend":   "storage.backend",
	"storage":   "storage.path",
	"debounce":  "autosave.debounce",
	"log-file":  "log.file",
	"log-level": "log.level",
}

func parserForFile(path string) (koanf.Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yml", ".yaml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".env":
		return dotenv.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}
