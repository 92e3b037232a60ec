// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/woozymasta/docc4llm"
)

// config holds file-based CLI settings; command flags override them.
type config struct {
	Format           string        `yaml:"format"`
	DefaultSyntax    string        `yaml:"default_syntax"`
	WrapWidth        int           `yaml:"wrap_width"`
	IncludeSeeAlso   bool          `yaml:"include_see_also"`
	IncludeTutorials bool          `yaml:"include_tutorials"`
	RelativePaths    bool          `yaml:"relative_paths"`
	LogLevel         string        `yaml:"log_level"`
	Resolve          resolveConfig `yaml:"resolve"`
	HTTP             httpConfig    `yaml:"http"`
}

// resolveConfig configures reference traversal for hosted archives.
type resolveConfig struct {
	MaxDepth      int    `yaml:"max_depth"`
	Prefix        string `yaml:"prefix"`
	AllReferences bool   `yaml:"all_references"`
	Concurrency   int    `yaml:"concurrency"`
}

// httpConfig configures the HTTP provider.
type httpConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	MaxBytes  int64         `yaml:"max_bytes"`
	UserAgent string        `yaml:"user_agent"`
}

// defaultConfig returns settings used without a config file.
func defaultConfig() *config {
	return &config{
		Format:        string(docc4llm.FormatPlain),
		DefaultSyntax: "swift",
		LogLevel:      "info",
		Resolve: resolveConfig{
			MaxDepth:    docc4llm.DefaultMaxDepth,
			Prefix:      docc4llm.DefaultPrefix,
			Concurrency: 1,
		},
		HTTP: httpConfig{
			Timeout:   30 * time.Second,
			MaxBytes:  32 << 20,
			UserAgent: "docc4llm/" + Version,
		},
	}
}

// loadConfig reads YAML config over defaults; empty path returns defaults.
func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}

	return cfg, nil
}

// validate checks merged settings.
func (c *config) validate() error {
	if _, err := docc4llm.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if c.WrapWidth < 0 {
		return fmt.Errorf("wrap_width must be >= 0")
	}
	if c.Resolve.MaxDepth < 0 {
		return fmt.Errorf("resolve.max_depth must be >= 0")
	}
	if c.Resolve.Concurrency < 1 {
		return fmt.Errorf("resolve.concurrency must be > 0")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be > 0")
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// renderOptions maps settings to renderer options.
func (c *config) renderOptions() docc4llm.Options {
	format, _ := docc4llm.ParseFormat(c.Format)
	return docc4llm.Options{
		Format:         format,
		DefaultSyntax:  c.DefaultSyntax,
		WrapWidth:      c.WrapWidth,
		IncludeSeeAlso: c.IncludeSeeAlso,
	}
}

// resolveOptions maps settings to resolver options.
func (c *config) resolveOptions(logger *slog.Logger) docc4llm.ResolveOptions {
	return docc4llm.ResolveOptions{
		MaxDepth:                  c.Resolve.MaxDepth,
		Prefix:                    c.Resolve.Prefix,
		RestrictToEntryReferences: !c.Resolve.AllReferences,
		Concurrency:               c.Resolve.Concurrency,
		Logger:                    logger,
	}
}

// httpProviderConfig maps settings to HTTP provider config.
func (c *config) httpProviderConfig() docc4llm.HTTPConfig {
	return docc4llm.HTTPConfig{
		Timeout:   c.HTTP.Timeout,
		MaxBytes:  c.HTTP.MaxBytes,
		UserAgent: c.HTTP.UserAgent,
	}
}

// parseLogLevel maps level name to slog level.
func parseLogLevel(name string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(name) == "" {
		return slog.LevelInfo, nil
	}

	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}

	return level, nil
}
