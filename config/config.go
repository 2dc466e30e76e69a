// Package config loads the ambient settings a terminal session reads at
// startup: which shell to run, the ENQ answerback string, the render
// theme, and the window resource name. It is plain encoding/json against a
// file under the user's config directory, matching the teacher's own
// config loading exactly rather than reaching for a config library.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds the terminal's session-independent configuration.
type Config struct {
	// Shell is the login shell to execute under the pseudoterminal. Empty
	// means auto-detect (/etc/passwd, then a hardcoded fallback list).
	Shell string `json:"shell"`

	// Answerback is returned verbatim in response to ENQ (0x05).
	Answerback string `json:"answerback"`

	// Theme names one of ThemeOptions' palette themes.
	Theme string `json:"theme"`

	// ResourceName sets the window's WM_CLASS / resource name, overridable
	// by the -name flag or RESOURCE_NAME environment variable.
	ResourceName string `json:"resource_name"`

	// AdditionalEnv is appended to the child shell's environment verbatim.
	AdditionalEnv map[string]string `json:"additional_env"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Theme:         "classic-green",
		ResourceName:  "vtcore",
		AdditionalEnv: make(map[string]string),
	}
}

// ConfigDir returns ~/.config/vtcore, creating it if necessary.
func ConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".vtcore"
	}
	dir := filepath.Join(homeDir, ".config", "vtcore")
	os.MkdirAll(dir, 0755)
	return dir
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// Load reads the configuration from disk, returning DefaultConfig if no
// file exists.
func Load() (*Config, error) {
	data, err := os.ReadFile(GetConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(GetConfigPath(), data, 0644)
}

// GetAvailableShells returns the login shells present on this system.
func GetAvailableShells() []string {
	candidates := []string{
		"/bin/bash", "/usr/bin/bash",
		"/bin/zsh", "/usr/bin/zsh",
		"/bin/fish", "/usr/bin/fish",
		"/bin/dash", "/usr/bin/dash",
		"/bin/ksh", "/usr/bin/ksh",
		"/bin/sh", "/usr/bin/sh",
	}

	seen := make(map[string]bool)
	var shells []string
	for _, shell := range candidates {
		if _, err := os.Stat(shell); err != nil {
			continue
		}
		base := filepath.Base(shell)
		if seen[base] {
			continue
		}
		seen[base] = true
		shells = append(shells, shell)
	}
	return shells
}
