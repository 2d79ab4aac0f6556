package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"rawpack/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogDir := filepath.Join(tempHome, ".local", "share", "rawpack", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if cfg.LedgerPath() != filepath.Join(tempHome, ".local", "share", "rawpack", "ledger.db") {
		t.Fatalf("unexpected ledger path: %q", cfg.LedgerPath())
	}
	if cfg.Pack.Suffix != ".jpg" {
		t.Fatalf("expected .jpg suffix, got %q", cfg.Pack.Suffix)
	}
	if cfg.Pack.Recursive {
		t.Fatal("expected recursion disabled by default")
	}
	if cfg.Thumbnail.Width != 640 || cfg.Thumbnail.Height != 480 {
		t.Fatalf("unexpected thumbnail box %dx%d", cfg.Thumbnail.Width, cfg.Thumbnail.Height)
	}
	if cfg.Thumbnail.Renderer != "builtin" {
		t.Fatalf("unexpected renderer %q", cfg.Thumbnail.Renderer)
	}
	if cfg.Paths.TempDir != "" {
		t.Fatalf("expected empty temp dir by default, got %q", cfg.Paths.TempDir)
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "rawpack.toml")
	content := strings.Join([]string{
		"[paths]",
		"log_dir = \"~/logs\"",
		"temp_dir = \"~/scratch\"",
		"[pack]",
		"filter = \"*.cr2\"",
		"recursive = true",
		"suffix = \" .jpeg \"",
		"[thumbnail]",
		"renderer = \"FFMPEG\"",
		"width = 320",
		"height = 240",
		"quality = 70",
		"[logging]",
		"format = \"JSON\"",
		"level = \"debug\"",
	}, "\n")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q to be used, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, "logs") {
		t.Fatalf("unexpected log dir %q", cfg.Paths.LogDir)
	}
	if cfg.Paths.TempDir != filepath.Join(tempHome, "scratch") {
		t.Fatalf("unexpected temp dir %q", cfg.Paths.TempDir)
	}
	if cfg.Pack.Filter != "*.cr2" || !cfg.Pack.Recursive {
		t.Fatalf("unexpected pack section %+v", cfg.Pack)
	}
	if cfg.Pack.Suffix != ".jpeg" {
		t.Fatalf("expected trimmed suffix, got %q", cfg.Pack.Suffix)
	}
	if cfg.Thumbnail.Renderer != "ffmpeg" {
		t.Fatalf("expected normalized renderer, got %q", cfg.Thumbnail.Renderer)
	}
	if cfg.Thumbnail.Width != 320 || cfg.Thumbnail.Height != 240 || cfg.Thumbnail.Quality != 70 {
		t.Fatalf("unexpected thumbnail section %+v", cfg.Thumbnail)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging section %+v", cfg.Logging)
	}
	if !cfg.Ledger.Enabled {
		t.Fatal("expected ledger default to survive partial config")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"renderer", func(c *config.Config) { c.Thumbnail.Renderer = "dcraw" }, "thumbnail.renderer"},
		{"width", func(c *config.Config) { c.Thumbnail.Width = 0 }, "thumbnail.width"},
		{"quality", func(c *config.Config) { c.Thumbnail.Quality = 101 }, "thumbnail.quality"},
		{"resample", func(c *config.Config) { c.Thumbnail.Resample = "lanczos" }, "thumbnail.resample"},
		{"filter", func(c *config.Config) { c.Pack.Filter = "[" }, "pack.filter"},
		{"suffix", func(c *config.Config) { c.Pack.Suffix = "/x.jpg" }, "pack.suffix"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"free", func(c *config.Config) { c.Preflight.MinFreeMiB = -1 }, "preflight.min_free_mib"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "rawpack.toml")
	if err := os.WriteFile(configPath, []byte("[pack]\nfliter = \"*.nef\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestSampleConfigParses(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}

	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("Load sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to be found")
	}
	if cfg.Thumbnail.Quality != config.Default().Thumbnail.Quality {
		t.Fatalf("sample quality drifted from defaults: %d", cfg.Thumbnail.Quality)
	}
}

func TestEnsureDirectoriesCreatesStateAndLogs(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.TempDir = filepath.Join(base, "tmp")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.StateDir, cfg.Paths.TempDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
