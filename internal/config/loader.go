package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".crimetrends.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Unknown keys are rejected so typos do not pass silently.
func LoadConfigFile(path string) (*File, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	defer f.Close()

	var cf File
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cf.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .crimetrends.yaml in the current directory
// 3. Look for .crimetrends.yaml in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Load resolves the configuration file for cfg.ConfigFilePath and applies it.
// An explicitly given path that does not exist is an error; a missing
// default file is not. It returns the path that was applied, if any.
func Load(cfg *Config) (string, error) {
	path := FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if cfg.ConfigFilePath != "" {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, cfg.ConfigFilePath)
		}
		return "", nil
	}

	file, err := LoadConfigFile(path)
	if err != nil {
		return "", err
	}
	file.Apply(cfg)
	return path, nil
}
