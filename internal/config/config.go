package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/evanschultz/tableau/internal/app"
)

type StorageBackend string

const (
	StorageBackendMemory StorageBackend = "memory"
	StorageBackendSQLite StorageBackend = "sqlite"
)

var validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}

var validPriorities = []string{"low", "medium", "high"}

type Config struct {
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
	Seed    SeedConfig    `toml:"seed"`
	Keys    KeyConfig     `toml:"keys"`
}

type StorageConfig struct {
	Backend StorageBackend `toml:"backend"` // memory | sqlite (in-memory, per session)
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type SeedConfig struct {
	Enabled bool             `toml:"enabled"`
	Tasks   []SeedTaskConfig `toml:"tasks"`
}

type SeedTaskConfig struct {
	Title     string `toml:"title"`
	Priority  string `toml:"priority"`
	Completed bool   `toml:"completed"`
}

type KeyConfig struct {
	Toggle string `toml:"toggle"`
	Copy   string `toml:"copy"`
	Add    string `toml:"add"`
	Search string `toml:"search"`
}

func defaultSeedTasks() []SeedTaskConfig {
	seeds := app.DefaultSeedTasks()
	out := make([]SeedTaskConfig, 0, len(seeds))
	for _, seed := range seeds {
		out = append(out, SeedTaskConfig{
			Title:     seed.Title,
			Priority:  string(seed.Priority),
			Completed: seed.Completed,
		})
	}
	return out
}

func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend: StorageBackendMemory,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".tableau/log",
			},
		},
		Seed: SeedConfig{
			Enabled: true,
			Tasks:   defaultSeedTasks(),
		},
		Keys: KeyConfig{
			Toggle: "space",
			Copy:   "y",
			Add:    "a",
			Search: "/",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch StorageBackend(strings.TrimSpace(strings.ToLower(string(c.Storage.Backend)))) {
	case StorageBackendMemory, StorageBackendSQLite:
	default:
		return fmt.Errorf("invalid storage.backend: %q", c.Storage.Backend)
	}

	level := strings.TrimSpace(strings.ToLower(c.Logging.Level))
	if !slices.Contains(validLogLevels, level) {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	for idx, seed := range c.Seed.Tasks {
		if strings.TrimSpace(seed.Title) == "" {
			return fmt.Errorf("seed.tasks[%d].title is required", idx)
		}
		priority := strings.TrimSpace(strings.ToLower(seed.Priority))
		if priority != "" && !slices.Contains(validPriorities, priority) {
			return fmt.Errorf("seed.tasks[%d].priority is invalid: %q", idx, seed.Priority)
		}
	}

	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// WriteDefault writes the default config to path unless a file already exists.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config: %w", err)
	}
	if err := EnsureConfigDir(path); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}
	encoded, err := toml.Marshal(Default())
	if err != nil {
		return false, fmt.Errorf("encode toml: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
