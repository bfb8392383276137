package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration
type Config struct {
	DefaultDataset string `toml:"default_dataset"`
	ImageDir       string `toml:"image_dir"`
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetCacheDir returns the cache directory used for generated ANSI art
func GetCacheDir() string {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, "cardscope")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".cache", "cardscope")
}

// GetDatasetLibraryPath returns the path to the dataset library
func GetDatasetLibraryPath() string {
	return filepath.Join(GetXDGDataHome(), "cardscope", "datasets")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "cardscope", "config.toml")
}

// LoadConfig loads the config file
func LoadConfig() (*Config, error) {
	configPath := GetConfigFilePath()

	// Create default config if it doesn't exist
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig()
	}

	var config Config
	_, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		return nil, fmt.Errorf("error decoding config file: %v", err)
	}

	return &config, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig() (*Config, error) {
	configPath := GetConfigFilePath()
	configDir := filepath.Dir(configPath)

	// Ensure the config directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %v", err)
	}

	config := &Config{}

	// Create the file
	file, err := os.Create(configPath)
	if err != nil {
		return nil, fmt.Errorf("error creating config file: %v", err)
	}
	defer file.Close()

	// Encode the config to TOML
	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return nil, fmt.Errorf("error encoding config: %v", err)
	}

	return config, nil
}

// GetDatasetPath returns the path to a dataset file, either in the dataset
// library or a direct path
func GetDatasetPath(name string) (string, error) {
	// First, try to find the dataset in the dataset library
	libraryPath := GetDatasetLibraryPath()
	datasetPath := filepath.Join(libraryPath, name)

	if _, err := os.Stat(datasetPath); err == nil {
		return datasetPath, nil
	}

	// If not found in the library, treat as a direct path
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	return "", fmt.Errorf("dataset not found: %s", name)
}

// GetDefaultDataset returns the default dataset name from config
func GetDefaultDataset() (string, error) {
	config, err := LoadConfig()
	if err != nil {
		return "", err
	}
	if config.DefaultDataset == "" {
		return "", fmt.Errorf("no default dataset configured, run 'cardscope data set-default'")
	}

	return config.DefaultDataset, nil
}

// SetDefaultDataset sets the default dataset in the config
func SetDefaultDataset(name string) error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}

	// Update the default dataset
	config.DefaultDataset = name

	// Open the config file for writing
	configPath := GetConfigFilePath()
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error opening config file: %v", err)
	}
	defer file.Close()

	// Encode the updated config
	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %v", err)
	}

	return nil
}
