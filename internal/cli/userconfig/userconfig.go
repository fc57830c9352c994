// Package userconfig stores the user's machine-local CLI preferences,
// separate from the per-project campushire.yaml.
package userconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configDirName  = "campushire"
	configFileName = "config.json"
)

// UserConfig represents the user's local configuration stored in
// ~/.config/campushire/config.json
type UserConfig struct {
	SelectedPortalURL string `json:"selected_portal_url"`
}

// GetConfigPath returns the path to the user config file, honoring the
// CAMPUSHIRE_CONFIG_HOME override used by tests.
func GetConfigPath() (string, error) {
	if dir := os.Getenv("CAMPUSHIRE_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", configDirName)
	return filepath.Join(configDir, configFileName), nil
}

// Load reads the user configuration file
func Load() (*UserConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	// If config doesn't exist, return empty config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &UserConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the user configuration to a file
func Save(cfg *UserConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}

	return nil
}

// SetSelectedPortal updates the selected portal URL and saves the config
func SetSelectedPortal(url string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	cfg.SelectedPortalURL = url
	return Save(cfg)
}

// GetSelectedPortal returns the selected portal URL, or empty string if
// not set
func GetSelectedPortal() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}

	return cfg.SelectedPortalURL, nil
}
