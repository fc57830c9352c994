// Package config loads the project-level CLI configuration: the portal
// deployments the CLI can talk to. The file is campushire.yaml, found by
// searching upward from the working directory, so a campus project checked
// out anywhere picks up its own portal list.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ConfigFileName = "campushire.yaml"

// EnvAPIURL overrides the portal base URL, bypassing the config file.
const EnvAPIURL = "CAMPUSHIRE_API_URL"

// Portal is one CampusHire deployment the CLI can authenticate against.
type Portal struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Config represents the CLI configuration file
type Config struct {
	Portals []Portal `yaml:"portals"`
}

// DefaultConfig returns a default configuration pointing at a local portal
func DefaultConfig() *Config {
	return &Config{
		Portals: []Portal{
			{
				Name: "local",
				URL:  "http://localhost:8000",
			},
		},
	}
}

// FindConfigFile searches for campushire.yaml in the current directory and
// its parents.
func FindConfigFile() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := currentDir
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%s not found in %s or any parent directory", ConfigFileName, currentDir)
}

// Load reads the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadFromCurrentDir loads config from the current directory or a parent.
// Dotenv files are loaded first so env overrides work either way.
func LoadFromCurrentDir() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	configPath, err := FindConfigFile()
	if err != nil {
		return nil, err
	}

	return Load(configPath)
}

// Save writes the configuration to a file
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetPortalByName returns a portal by its name
func (c *Config) GetPortalByName(name string) (*Portal, error) {
	for _, portal := range c.Portals {
		if portal.Name == name {
			return &portal, nil
		}
	}
	return nil, fmt.Errorf("portal '%s' not found in %s", name, ConfigFileName)
}

// GetDefaultPortal returns the first portal in the list
func (c *Config) GetDefaultPortal() (*Portal, error) {
	if len(c.Portals) == 0 {
		return nil, fmt.Errorf("no portals configured in %s", ConfigFileName)
	}
	return &c.Portals[0], nil
}
