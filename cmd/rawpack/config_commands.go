package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"rawpack/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the rawpack configuration",
	}
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				switch _, err := os.Stat(target); {
				case err == nil:
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				case !errors.Is(err, fs.ErrNotExist):
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			// The sample must load with the same strict decoder pack runs use.
			cfg, _, _, err := config.Load(target)
			if err != nil {
				return fmt.Errorf("sample config at %s does not load: %w", target, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			describeConfig(out, cfg)
			fmt.Fprintln(out, "Command-line flags override the [pack] settings.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

// initTarget resolves the config init destination, defaulting to the
// per-user config path.
func initTarget(flagValue string) (string, error) {
	target := strings.TrimSpace(flagValue)
	if target == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return "", fmt.Errorf("determine default config path: %w", err)
		}
		return path, nil
	}
	path, err := config.ExpandPath(target)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return path, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and report the effective settings",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			describeConfig(out, cfg)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

// describeConfig prints one line per configuration section.
func describeConfig(out io.Writer, cfg *config.Config) {
	filter := cfg.Pack.Filter
	if filter == "" {
		filter = "(all files)"
	}
	fmt.Fprintf(out, "Pack: filter %s, recursive %s, suffix %s\n", filter, yesNo(cfg.Pack.Recursive), cfg.Pack.Suffix)
	fmt.Fprintf(out, "Renderer: %s (%dx%d, quality %d)\n", cfg.Thumbnail.Renderer, cfg.Thumbnail.Width, cfg.Thumbnail.Height, cfg.Thumbnail.Quality)
	fmt.Fprintf(out, "Ledger: %s\n", ledgerDescription(cfg))
	if cfg.Preflight.MinFreeMiB > 0 {
		fmt.Fprintf(out, "Free space warning below: %d MiB\n", cfg.Preflight.MinFreeMiB)
	} else {
		fmt.Fprintln(out, "Free space warning: off")
	}
	fmt.Fprintf(out, "Log file: %s\n", cfg.LogFile())
}

func ledgerDescription(cfg *config.Config) string {
	if !cfg.Ledger.Enabled {
		return "disabled"
	}
	return cfg.LedgerPath()
}
