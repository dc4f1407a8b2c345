package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"obscuritext/internal/testsupport"
)

type cliTestEnv struct {
	baseDir     string
	inputPath   string
	outputDir   string
	archivePath string
}

// cliConfig holds the settings a test varies; everything else uses defaults.
type cliConfig struct {
	input        string
	mode         string
	salt         string
	caseSens     string
	combineAbove string
	combineBelow string
	archive      bool
}

func setupCLITestEnv(t *testing.T, header []string, rows ...[]string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)

	env := &cliTestEnv{
		baseDir:     base,
		inputPath:   filepath.Join(base, "input.csv"),
		outputDir:   filepath.Join(base, "out"),
		archivePath: filepath.Join(base, "archive.db"),
	}
	testsupport.WriteCSV(t, env.inputPath, header, rows...)
	return env
}

func (e *cliTestEnv) writeConfig(t *testing.T, name string, c cliConfig) string {
	t.Helper()
	input := c.input
	if input == "" {
		input = e.inputPath
	}
	mode := c.mode
	if mode == "" {
		mode = "shuffle"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[data]\nfile = %q\ncolumns = [\"text\"]\noutput_dir = %q\ninput_encoding = \"utf-8\"\n\n", input, e.outputDir)
	fmt.Fprintf(&b, "[processing]\nmode = %q\nseed = 7\nsalt = %q\n", mode, c.salt)
	if c.caseSens != "" {
		fmt.Fprintf(&b, "case_sensitive = %q\n", c.caseSens)
	}
	if c.combineAbove != "" {
		fmt.Fprintf(&b, "combine_above = %s\n", c.combineAbove)
	}
	if c.combineBelow != "" {
		fmt.Fprintf(&b, "combine_below = %s\n", c.combineBelow)
	}
	fmt.Fprintf(&b, "\n[export]\narchive = %t\narchive_path = %q\n\n[logging]\nlevel = \"error\"\n", c.archive, e.archivePath)

	path := filepath.Join(e.baseDir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
