package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/yiblet/lifesaver/internal/format"
)

const (
	DefaultHistoryLimit         = 500
	MaxHistoryLimit             = 5000
	DefaultMaxParseChars        = 5_000_000
	DefaultMaxPersistInputChars = 200_000
)

// Config represents the lifesaver configuration
type Config struct {
	HistoryLimit         int               `yaml:"history_limit"`
	HistoryLocation      string            `yaml:"history_location,omitempty"`
	DefaultMode          format.OutputMode `yaml:"default_mode"`
	MaxParseChars        int               `yaml:"max_parse_chars"`
	MaxPersistInputChars int               `yaml:"max_persist_input_chars"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		HistoryLimit:         DefaultHistoryLimit,
		DefaultMode:          format.Comma,
		MaxParseChars:        DefaultMaxParseChars,
		MaxPersistInputChars: DefaultMaxPersistInputChars,
	}
}

// ConfigManager manages configuration persistence
type ConfigManager struct {
	configPath string
}

// NewConfigManager creates a manager for ~/.config/lifesaver/config.yaml
func NewConfigManager() (*ConfigManager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".config", "lifesaver", "config.yaml")
	return &ConfigManager{configPath: configPath}, nil
}

// NewConfigManagerWithPath creates a config manager with custom config path
func NewConfigManagerWithPath(configPath string) *ConfigManager {
	return &ConfigManager{configPath: configPath}
}

// Load reads the configuration from file, or returns default if file doesn't exist.
// Keys missing from the file keep their default values.
func (cm *ConfigManager) Load() (*Config, error) {
	data, err := os.ReadFile(cm.configPath)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save writes the configuration to file
func (cm *ConfigManager) Save(config *Config) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	configDir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cm.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be greater than 0")
	}
	if c.HistoryLimit > MaxHistoryLimit {
		return fmt.Errorf("history_limit cannot exceed %d items", MaxHistoryLimit)
	}
	if !c.DefaultMode.Valid() {
		return fmt.Errorf("default_mode %d is not a known output mode", int(c.DefaultMode))
	}
	if c.MaxParseChars <= 0 {
		return fmt.Errorf("max_parse_chars must be greater than 0")
	}
	if c.MaxPersistInputChars <= 0 {
		return fmt.Errorf("max_persist_input_chars must be greater than 0")
	}
	return nil
}

// GetConfigPath returns the path to the config file
func (cm *ConfigManager) GetConfigPath() string {
	return cm.configPath
}

// Keys returns the configuration keys accepted by Get and Update, sorted.
func Keys() []string {
	return []string{
		"default-mode",
		"history-limit",
		"history-location",
		"max-parse-chars",
		"max-persist-input-chars",
	}
}

// Update modifies a specific configuration value
func (cm *ConfigManager) Update(key, value string) error {
	config, err := cm.Load()
	if err != nil {
		return err
	}

	switch key {
	case "history-limit":
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		config.HistoryLimit = n
	case "history-location":
		config.HistoryLocation = value
	case "default-mode":
		mode, err := format.ParseMode(value)
		if err != nil {
			return err
		}
		config.DefaultMode = mode
	case "max-parse-chars":
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		config.MaxParseChars = n
	case "max-persist-input-chars":
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		config.MaxPersistInputChars = n
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	return cm.Save(config)
}

// Get returns the value for a specific configuration key
func (cm *ConfigManager) Get(key string) (string, error) {
	values, err := cm.List()
	if err != nil {
		return "", err
	}

	value, ok := values[key]
	if !ok {
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
	return value, nil
}

// List returns all configuration keys and values
func (cm *ConfigManager) List() (map[string]string, error) {
	config, err := cm.Load()
	if err != nil {
		return nil, err
	}

	location := config.HistoryLocation
	if location == "" {
		location = "[default]"
	}

	return map[string]string{
		"history-limit":           strconv.Itoa(config.HistoryLimit),
		"history-location":        location,
		"default-mode":            config.DefaultMode.String(),
		"max-parse-chars":         strconv.Itoa(config.MaxParseChars),
		"max-persist-input-chars": strconv.Itoa(config.MaxPersistInputChars),
	}, nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}
	return n, nil
}
