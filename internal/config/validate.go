package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePack(); err != nil {
		return err
	}
	if err := c.validateThumbnail(); err != nil {
		return err
	}
	if err := c.validatePreflight(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePack() error {
	if c.Pack.Filter != "" {
		if _, err := filepath.Match(c.Pack.Filter, ""); err != nil {
			return fmt.Errorf("pack.filter: invalid pattern %q: %w", c.Pack.Filter, err)
		}
	}
	if strings.ContainsAny(c.Pack.Suffix, `/\`) {
		return fmt.Errorf("pack.suffix must not contain path separators (got %q)", c.Pack.Suffix)
	}
	return nil
}

func (c *Config) validateThumbnail() error {
	switch c.Thumbnail.Renderer {
	case "builtin", "ffmpeg":
	default:
		return fmt.Errorf("thumbnail.renderer must be builtin or ffmpeg (got %q)", c.Thumbnail.Renderer)
	}
	if c.Thumbnail.Width <= 0 || c.Thumbnail.Height <= 0 {
		return errors.New("thumbnail.width and thumbnail.height must be positive")
	}
	if c.Thumbnail.Quality < 1 || c.Thumbnail.Quality > 100 {
		return errors.New("thumbnail.quality must be between 1 and 100")
	}
	switch c.Thumbnail.Resample {
	case "catmullrom", "bilinear", "approx", "nearest":
	default:
		return fmt.Errorf("thumbnail.resample must be one of catmullrom, bilinear, approx, nearest (got %q)", c.Thumbnail.Resample)
	}
	return nil
}

func (c *Config) validatePreflight() error {
	if c.Preflight.MinFreeMiB < 0 {
		return errors.New("preflight.min_free_mib must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}
