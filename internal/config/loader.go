package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"hlfnet/pkg/logging"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/hlfnet"
	projectConfigDir = ".hlfnet"
	configFileName   = "config.yaml"
	stateFileName    = "state.yaml"
)

// LoadConfig loads the configuration by layering default, user and project
// settings. A non-empty explicitPath is applied last.
func LoadConfig(explicitPath string) (Config, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional.
		logging.Warn("Config", "Could not determine user config path: %v", err)
	} else if err := overlayFile(&config, userConfigPath, false); err != nil {
		return Config{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		logging.Warn("Config", "Could not determine project config path: %v", err)
	} else if err := overlayFile(&config, projectConfigPath, false); err != nil {
		return Config{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
	}

	if explicitPath != "" {
		if err := overlayFile(&config, explicitPath, true); err != nil {
			return Config{}, fmt.Errorf("error loading config from %s: %w", explicitPath, err)
		}
	}

	if err := config.resolvePaths(); err != nil {
		return Config{}, err
	}
	return config, config.Validate()
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// overlayFile decodes filePath on top of config. yaml.v3 only assigns the keys
// present in the document, so absent keys keep the lower layer's value.
func overlayFile(config *Config, filePath string, required bool) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return err
	}
	logging.Debug("Config", "Applied configuration layer %s", filePath)
	return nil
}

// resolvePaths makes the compose and workspace directories absolute so that
// commands behave the same from any working directory.
func (c *Config) resolvePaths() error {
	wd, err := osGetwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}
	if c.Workspace.Dir == "" {
		c.Workspace.Dir = wd
	} else if !filepath.IsAbs(c.Workspace.Dir) {
		c.Workspace.Dir = filepath.Join(wd, c.Workspace.Dir)
	}
	if !filepath.IsAbs(c.Network.ComposeDir) {
		c.Network.ComposeDir = filepath.Join(c.Workspace.Dir, c.Network.ComposeDir)
	}
	return nil
}

// Validate rejects settings the orchestrator cannot work with.
func (c Config) Validate() error {
	if c.Network.Project == "" {
		return fmt.Errorf("network.project must not be empty")
	}
	if c.Network.ExpectedContainers <= 0 {
		return fmt.Errorf("network.expectedContainers must be positive, got %d", c.Network.ExpectedContainers)
	}
	if c.Network.SettleDelay < 0 {
		return fmt.Errorf("network.settleDelay must not be negative")
	}
	if c.Chaincode.Version == "" {
		return fmt.Errorf("chaincode.version must not be empty")
	}
	return nil
}

// StateDir is where hlfnet keeps per-workspace runtime state.
func (c Config) StateDir() string {
	return filepath.Join(c.Workspace.Dir, projectConfigDir)
}

// StatePath is the file the network state is persisted to.
func (c Config) StatePath() string {
	return filepath.Join(c.StateDir(), stateFileName)
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
