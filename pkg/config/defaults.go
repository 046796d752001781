package config

import (
	"os"
	"path/filepath"
)

// defaultClaudeDirs returns the default Claude Code data directories.
//
// Searches in order:
// 1. ~/.config/claude/projects/ (new default)
// 2. ~/.claude/projects/ (legacy)
//
// Returns all directories that exist on the filesystem.
func defaultClaudeDirs() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir not available
		return []string{"."}
	}

	candidates := []string{
		filepath.Join(homeDir, ".config", "claude", "projects"),
		filepath.Join(homeDir, ".claude", "projects"),
	}

	var dirs []string
	for _, dir := range candidates {
		if _, err := os.Stat(dir); err == nil {
			dirs = append(dirs, dir)
		}
	}

	// If no directories found, return the new default path so the
	// tool still reports an empty result rather than failing.
	if len(dirs) == 0 {
		return []string{filepath.Join(homeDir, ".config", "claude", "projects")}
	}

	return dirs
}

// defaultPricingCachePath returns the default price-sheet cache path.
//
// Returns: ~/.config/ccusage/pricing.db.
func defaultPricingCachePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./pricing.db"
	}

	return filepath.Join(homeDir, ".config", "ccusage", "pricing.db")
}

// defaultConfigPath returns the default configuration file path.
//
// Returns: ~/.config/ccusage/config.yaml.
func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}

	return filepath.Join(homeDir, ".config", "ccusage", "config.yaml")
}
