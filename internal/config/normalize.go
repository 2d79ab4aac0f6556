package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePack()
	c.normalizeThumbnail()
	if err := c.normalizeLedger(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.TempDir, err = expandPath(strings.TrimSpace(c.Paths.TempDir)); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePack() {
	c.Pack.Filter = strings.TrimSpace(c.Pack.Filter)
	c.Pack.Suffix = strings.TrimSpace(c.Pack.Suffix)
	if c.Pack.Suffix == "" {
		c.Pack.Suffix = DefaultSuffix
	}
}

func (c *Config) normalizeThumbnail() {
	c.Thumbnail.Renderer = strings.ToLower(strings.TrimSpace(c.Thumbnail.Renderer))
	if c.Thumbnail.Renderer == "" {
		c.Thumbnail.Renderer = defaultRenderer
	}
	c.Thumbnail.Resample = strings.ToLower(strings.TrimSpace(c.Thumbnail.Resample))
	if c.Thumbnail.Resample == "" {
		c.Thumbnail.Resample = defaultResample
	}
	c.Thumbnail.FFmpegBinary = strings.TrimSpace(c.Thumbnail.FFmpegBinary)
	if c.Thumbnail.FFmpegBinary == "" {
		c.Thumbnail.FFmpegBinary = defaultFFmpegBinary
	}
}

func (c *Config) normalizeLedger() error {
	var err error
	if c.Ledger.Path, err = expandPath(strings.TrimSpace(c.Ledger.Path)); err != nil {
		return fmt.Errorf("ledger.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
