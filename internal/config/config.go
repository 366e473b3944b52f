package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"projectfeed/internal/domain"
	"projectfeed/internal/eventbus"
)

// ErrNotFound is returned when a config file does not exist
var ErrNotFound = errors.New("config file not found")

// Config represents the application configuration
type Config struct {
	Version     int                    `toml:"version"`
	CatalogPath string                 `toml:"catalog_path"`
	PerPage     int                    `toml:"per_page"`
	Params      domain.DiscoveryParams `toml:"params"`
	UISettings  UISettings             `toml:"ui"`
	Log         LogSettings            `toml:"log"`
	Cache       CacheSettings          `toml:"cache"`
	Metrics     MetricsSettings        `toml:"metrics"`
	Build       BuildSettings          `toml:"build"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowBlurb      bool   `toml:"show_blurb"`
	ToolbarColor   string `toml:"toolbar_color"` // hex, darkened for the status strip
	AutosaveParams bool   `toml:"autosave_params"`
	Language       string `toml:"language"` // empty means $LANG
}

// LogSettings controls the log file
type LogSettings struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`
	Pretty bool   `toml:"pretty"`
}

// CacheSettings selects the page cache backend
type CacheSettings struct {
	Kind      string        `toml:"kind"` // memory, redis or none
	Size      int           `toml:"size"`
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
}

// MetricsSettings controls the Prometheus endpoint
type MetricsSettings struct {
	Addr string `toml:"addr"` // empty disables the endpoint
}

// BuildSettings identifies the running build for upgrade prompts
type BuildSettings struct {
	Current string `toml:"current"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns $XDG_CONFIG_HOME/projectfeed/config.toml or a fallback
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "projectfeed", "config.toml")
}

// NewConfigService creates a config service bound to path ("" means DefaultPath)
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service that publishes load/save events
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// Path returns the file the service reads and writes
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration file, returning defaults if it does not exist
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, ErrNotFound) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:   cs.filePath,
			Params: cfg.Params,
		})
	}
	return cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Missing keys keep
// their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// InitialParams returns the feed params the discovery screen opens with
func (c *Config) InitialParams() domain.DiscoveryParams {
	p := c.Params
	p.PerPage = c.PerPage
	return p.FirstPage()
}

func (c *Config) normalize() {
	if c.PerPage <= 0 {
		c.PerPage = domain.DefaultPerPage
	}
	if c.Params.Sort == "" {
		c.Params.Sort = domain.SortMagic
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Size <= 0 {
		c.Cache.Size = 64
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 5 * time.Minute
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	cfg := &Config{
		Version: 1,
		PerPage: domain.DefaultPerPage,
		Params:  domain.DiscoveryParams{Sort: domain.SortMagic},
		UISettings: UISettings{
			ShowBlurb:      true,
			ToolbarColor:   "#2ecc71",
			AutosaveParams: true,
		},
		Log: LogSettings{
			Level: "info",
			File:  "projectfeed.log",
		},
		Cache: CacheSettings{
			Kind: "memory",
			Size: 64,
			TTL:  5 * time.Minute,
		},
		Build: BuildSettings{Current: "0.0.0"},
	}
	return cfg
}
