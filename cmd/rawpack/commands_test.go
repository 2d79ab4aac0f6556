package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"rawpack/internal/logging"
	"rawpack/internal/testsupport"
	"rawpack/internal/walker"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Config path: "+env.configPath)
	requireContains(t, out, "Renderer: builtin")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	requireContains(t, out, "Pack: filter (all files), recursive no, suffix .jpg")
	requireContains(t, out, "Free space warning below: 512 MiB")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config exists without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidateRejectsBadConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[thumbnail]\nquality = 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, env.configPath); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestVerifyCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteRAW(t, filepath.Join(env.sourceDir, "a.cr2"), 320, 240)
	if _, _, err := runCLI(t, []string{env.sourceDir, "--summary=false"}, env.configPath); err != nil {
		t.Fatalf("pack: %v", err)
	}
	packed := filepath.Join(env.sourceDir, "a.cr2.jpg")

	out, _, err := runCLI(t, []string{"verify", packed}, env.configPath)
	if err != nil {
		t.Fatalf("verify returned error: %v", err)
	}
	requireContains(t, out, "OK")
	requireContains(t, out, "a.cr2")
	requireContains(t, out, "jpeg 320x240")

	plain := filepath.Join(env.baseDir, "plain.jpg")
	testsupport.WriteBytes(t, plain, testsupport.JPEG(t, 16, 16))
	out, _, err = runCLI(t, []string{"verify", packed, plain}, env.configPath)
	if err == nil {
		t.Fatal("expected verify to fail for a plain jpeg")
	}
	requireContains(t, out, "FAIL")
	requireContains(t, err.Error(), "1 of 2")
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"check", env.sourceDir}, env.configPath)
	if err != nil {
		t.Fatalf("check returned error: %v", err)
	}
	requireContains(t, out, "Source folder")
	requireContains(t, out, "builtin")

	if _, _, err := runCLI(t, []string{"check", filepath.Join(env.baseDir, "missing")}, env.configPath); err == nil {
		t.Fatal("expected check to fail for a missing folder")
	}
}

func TestCheckCommandWarnsOnLowFreeSpace(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Preflight.MinFreeMiB = 1 << 40
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"check", env.sourceDir}, env.configPath)
	if err != nil {
		t.Fatalf("low free space should only warn: %v", err)
	}
	requireContains(t, out, "Output free space")
	requireContains(t, out, "WARN")
}

func TestRenderResultLine(t *testing.T) {
	cases := []struct {
		name     string
		result   walker.Result
		colorize bool
		want     string
	}{
		{"created", walker.Result{Outcome: walker.OutcomeCreated, Target: "/out/a.cr2.jpg"}, false, "created /out/a.cr2.jpg"},
		{"exists", walker.Result{Outcome: walker.OutcomeExists, Target: "/out/a.cr2.jpg"}, false, "exists  /out/a.cr2.jpg"},
		{"packaged copy", walker.Result{Outcome: walker.OutcomeExists, Source: "/in/a.cr2.jpg", Target: "/in/a.cr2.jpg"}, false, "exists  /in/a.cr2.jpg (packaged file)"},
		{"failed", walker.Result{Outcome: walker.OutcomeFailed, Source: "/in/b.cr2"}, false, "failed  /in/b.cr2: unknown error"},
		{"colour", walker.Result{Outcome: walker.OutcomeCreated, Target: "/o"}, true, ansiGreen + "created /o" + ansiReset},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := renderResultLine(tc.result, tc.colorize); got != tc.want {
				t.Fatalf("renderResultLine = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRenderSummaryKeepsCase(t *testing.T) {
	summary := walker.Summary{
		Results: []walker.Result{
			{Source: "/src/a.cr2", Outcome: walker.OutcomeCreated},
			{Source: "/src/b.cr2", Outcome: walker.OutcomeFailed},
		},
		Duration: 4 * time.Millisecond,
	}
	out := renderSummary(summary)
	requireContains(t, out, "Outcome")
	requireContains(t, out, "total")
	requireContains(t, out, "4ms")
	requireNotContains(t, out, "OUTCOME")
	requireNotContains(t, out, "4MS")
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(&testWriter{}) {
		t.Fatal("expected no colour for non-file writers")
	}
}

type testWriter struct{}

func (*testWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestLogLedgerCoverageWarnsOnGap(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithLedger(true))
	store := testsupport.MustOpenLedger(t, cfg)

	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	logLedgerCoverage(t.Context(), store, "run-empty", 0, logger)
	if buf.Len() != 0 {
		t.Fatalf("expected no warning for a matching count, got %q", buf.String())
	}
	logLedgerCoverage(t.Context(), store, "run-empty", 2, logger)
	requireContains(t, buf.String(), "ledger is missing entries")
	requireContains(t, buf.String(), "created=2")
}
