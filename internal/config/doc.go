// Package config loads, normalizes, and validates rawpack configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// packer needs: where logs, the ledger, and temporary files live, how folders
// are filtered, and how thumbnails are rendered.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
