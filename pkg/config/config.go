package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/rubiojr/blockpress/pkg/blocks"
	"github.com/rubiojr/blockpress/pkg/core"
)

//go:embed config.toml.sample
var configTemplate string

// EnvPrefix prefixes every environment override, e.g. BLOCKPRESS_SERVER_PORT.
const EnvPrefix = "BLOCKPRESS_"

type Config struct {
	StorageDir       string       `toml:"storage_dir" env:"STORAGE_DIR"`
	DefaultTarget    string       `toml:"default_target" env:"DEFAULT_TARGET"`
	VideoPlaceholder string       `toml:"video_placeholder" env:"VIDEO_PLACEHOLDER"`
	RenderersDir     string       `toml:"renderers_dir" env:"RENDERERS_DIR"`
	Timezone         string       `toml:"timezone" env:"TIMEZONE"`
	Server           ServerConfig `toml:"server" envPrefix:"SERVER_"`
	// Email and Web override the built-in canvas defaults of each target.
	Email core.CanvasSettings `toml:"email,omitempty"`
	Web   core.CanvasSettings `toml:"web,omitempty"`
}

type ServerConfig struct {
	Host            string   `toml:"host" env:"HOST"`
	Port            string   `toml:"port" env:"PORT"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// Addr is the listen address of the preview server.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

const DefaultVideoPlaceholder = "https://via.placeholder.com/640x360.png?text=Play+Video"

func GetDefaultConfig() (*Config, error) {
	storageDir, err := GetDefaultStorageDir()
	if err != nil {
		return nil, fmt.Errorf("getting default storage directory: %w", err)
	}
	c := &Config{StorageDir: storageDir, VideoPlaceholder: DefaultVideoPlaceholder}
	c.fillDefaults()
	return c, nil
}

func (c *Config) fillDefaults() {
	if c.DefaultTarget == "" {
		c.DefaultTarget = string(blocks.Email)
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ShutdownTimeout.Duration == 0 {
		c.Server.ShutdownTimeout = Duration{10 * time.Second}
	}
}

// LoadConfig reads configPath, falling back to defaults when the file does
// not exist, then applies environment overrides.
func LoadConfig(configPath string) (*Config, error) {
	config, err := readConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}

	config.StorageDir = ExpandHome(config.StorageDir)
	config.RenderersDir = ExpandHome(config.RenderersDir)
	if config.StorageDir == "" {
		storageDir, err := GetDefaultStorageDir()
		if err != nil {
			return nil, fmt.Errorf("getting default storage directory: %w", err)
		}
		config.StorageDir = storageDir
	}
	config.fillDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func readConfig(configPath string) (*Config, error) {
	var config Config
	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return &config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &config, nil
}

var dotenvOnce sync.Once

// ApplyEnv overrides fields from BLOCKPRESS_* environment variables. A .env
// file in the working directory is loaded first, once per process.
func (c *Config) ApplyEnv() error {
	dotenvOnce.Do(func() {
		// a missing .env file is fine
		_ = godotenv.Load()
	})
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}

// Validate checks the values that cannot be defaulted silently.
func (c *Config) Validate() error {
	if _, err := blocks.ParseTarget(c.DefaultTarget); err != nil {
		return fmt.Errorf("default_target: %w", err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}

// Target returns the configured default render target.
func (c *Config) Target() blocks.Target {
	t, err := blocks.ParseTarget(c.DefaultTarget)
	if err != nil {
		return blocks.Email
	}
	return t
}

// Location returns the zone countdown dates are interpreted in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SettingsFor returns the canvas defaults of target with the configured
// overrides applied.
func (c *Config) SettingsFor(target blocks.Target) core.CanvasSettings {
	if target == blocks.Email {
		return c.Email.WithDefaults(core.EmailDefaults())
	}
	return c.Web.WithDefaults(core.WebDefaults())
}

// RenderOptions returns render options reflecting the configuration.
func (c *Config) RenderOptions(preview bool) core.RenderOptions {
	return core.RenderOptions{
		PreviewMode: preview,
		Location:    c.Location(),
		Placeholder: core.StaticPlaceholder(c.VideoPlaceholder),
	}
}

// DBPath is the document store location.
func (c *Config) DBPath() string {
	return filepath.Join(c.StorageDir, "blockpress.db")
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template, err := c.generateConfigTemplate()
	if err != nil {
		return fmt.Errorf("generating config template: %w", err)
	}
	return os.WriteFile(configPath, []byte(template), 0644)
}

func (c *Config) generateConfigTemplate() (string, error) {
	storageDir := c.StorageDir
	if storageDir == "" {
		var err error
		storageDir, err = GetDefaultStorageDir()
		if err != nil {
			return "", fmt.Errorf("getting default storage directory: %w", err)
		}
	}

	return strings.Replace(configTemplate, "~/.local/share/blockpress", storageDir, 1), nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// GetDefaultStorageDir returns the default storage directory for databases
func GetDefaultStorageDir() (string, error) {
	// Use XDG_DATA_HOME if set, otherwise use ~/.local/share
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	dir := filepath.Join(dataDir, "blockpress")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating storage directory %s: %w", dir, err)
	}

	return dir, nil
}

// GetConfigDir returns the configuration directory for blockpress
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, "blockpress")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	return dir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
