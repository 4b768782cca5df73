// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"

	"github.com/pbardea/monkeydo/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice model.PartialConfig `toml:"practice"`
	WordList WordListConfig      `toml:"wordlist"`
	Log      LogConfig           `toml:"log"`
}

// WordListConfig locates the word list files.
type WordListConfig struct {
	Dir *string `toml:"dir"`
	URL *string `toml:"url"`
}

// LogConfig maps the [log] table.
type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	File       string `toml:"file"`
	MaxSize    int    `toml:"max-size"`
	MaxBackups int    `toml:"max-backups"`
	MaxAge     int    `toml:"max-age"`
	Compress   bool   `toml:"compress"`
}

// DefaultLogConfig returns the logging defaults.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:      "info",
		Format:     "json",
		File:       DefaultLogPath(),
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     28,
	}
}

// Merge overlays the set fields of c on base.
func (c LogConfig) Merge(base LogConfig) LogConfig {
	if c.Level != "" {
		base.Level = c.Level
	}
	if c.Format != "" {
		base.Format = c.Format
	}
	if c.File != "" {
		base.File = c.File
	}
	if c.MaxSize > 0 {
		base.MaxSize = c.MaxSize
	}
	if c.MaxBackups > 0 {
		base.MaxBackups = c.MaxBackups
	}
	if c.MaxAge > 0 {
		base.MaxAge = c.MaxAge
	}
	if c.Compress {
		base.Compress = true
	}
	return base
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.expandPaths(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

// expandPaths resolves a leading ~ in the path settings.
func (c *FileConfig) expandPaths() error {
	if c.WordList.Dir != nil {
		dir, err := homedir.Expand(*c.WordList.Dir)
		if err != nil {
			return fmt.Errorf("failed to expand wordlist dir: %w", err)
		}
		c.WordList.Dir = &dir
	}
	if c.Log.File != "" {
		file, err := homedir.Expand(c.Log.File)
		if err != nil {
			return fmt.Errorf("failed to expand log file: %w", err)
		}
		c.Log.File = file
	}
	return nil
}
