package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"obscuritext/internal/mapping"
	"obscuritext/internal/pipeline"
	"obscuritext/internal/surrogate"
)

const shuffleRunName = "obscured_text_NoCase_NoStem_NoPunc_AboveNone_BelowNone_Seed7"

func TestRunCommandWritesOutputs(t *testing.T) {
	env := setupCLITestEnv(t, []string{"text"}, []string{"cat dog"}, []string{"dog"})
	configPath := env.writeConfig(t, "config.toml", cliConfig{})

	out, _, err := runCLI(t, []string{"run"}, configPath, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, shuffleRunName)
	dir := filepath.Join(env.outputDir, "obscured_input")
	requireContains(t, out, "Outputs written to "+dir)

	for _, name := range []string{shuffleRunName + ".csv", "mappings_" + shuffleRunName + ".csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}

	out, _, err = runCLI(t, []string{"mapping", "show", filepath.Join(dir, "mappings_"+shuffleRunName+".csv"), "--limit", "1"}, "", "")
	if err != nil {
		t.Fatalf("mapping show: %v", err)
	}
	requireContains(t, out, "Showing 1 of 2 words")
	requireContains(t, out, "cat")
}

func TestRunCommandFileFlagOverridesConfig(t *testing.T) {
	env := setupCLITestEnv(t, []string{"text"}, []string{"a"})
	other := filepath.Join(env.baseDir, "survey.csv")
	if err := os.WriteFile(other, []byte("text\nb c\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	configPath := env.writeConfig(t, "config.toml", cliConfig{})

	out, _, err := runCLI(t, []string{"run", "--file", other}, configPath, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, filepath.Join(env.outputDir, "obscured_survey"))
}

func TestRunCommandPromptsForAskThreshold(t *testing.T) {
	env := setupCLITestEnv(t, []string{"text"}, []string{"a a b"})
	configPath := env.writeConfig(t, "config.toml", cliConfig{combineAbove: `"ask"`})

	out, _, err := runCLI(t, []string{"run"}, configPath, "lots\n1\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Most frequent of 2 words")
	requireContains(t, out, `"lots" is not a whole number`)
	requireContains(t, out, "_Above1_BelowNone_")
}

func TestRunCommandPromptHitsEndOfInput(t *testing.T) {
	env := setupCLITestEnv(t, []string{"text"}, []string{"a"})
	configPath := env.writeConfig(t, "config.toml", cliConfig{combineBelow: `"ask"`})

	_, _, err := runCLI(t, []string{"run"}, configPath, "")
	if !errors.Is(err, errNoAnswer) {
		t.Fatalf("expected errNoAnswer, got %v", err)
	}
}

func TestRunCommandWithoutInputFails(t *testing.T) {
	env := setupCLITestEnv(t, []string{"text"}, []string{"a"})
	configPath := env.writeConfig(t, "config.toml", cliConfig{})
	if err := os.WriteFile(configPath, []byte("[logging]\nlevel = \"error\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, []string{"run", "--column", "text"}, configPath, "")
	if !errors.Is(err, pipeline.ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
}

func TestArchiveReplayRun(t *testing.T) {
	env := setupCLITestEnv(t, []string{"text"}, []string{"the the cat"})
	first := env.writeConfig(t, "first.toml", cliConfig{mode: "hash", salt: "s", combineBelow: "2", archive: true})
	if _, _, err := runCLI(t, []string{"run"}, first, ""); err != nil {
		t.Fatalf("first run: %v", err)
	}

	archive, err := mapping.OpenArchive(context.Background(), env.archivePath)
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	runs, err := archive.List(context.Background())
	archive.Close()
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected one archived run, got %+v (%v)", runs, err)
	}
	id := runs[0].ID

	out, _, err := runCLI(t, []string{"archive", "list"}, first, "")
	if err != nil {
		t.Fatalf("archive list: %v", err)
	}
	requireContains(t, out, id)

	out, _, err = runCLI(t, []string{"archive", "show", id}, first, "")
	if err != nil {
		t.Fatalf("archive show: %v", err)
	}
	requireContains(t, out, "Stop below: 1")
	requireContains(t, out, "combine_below")

	second := filepath.Join(env.baseDir, "second.csv")
	if err := os.WriteFile(second, []byte("text\ncat dog\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	replay := env.writeConfig(t, "replay.toml", cliConfig{input: second, mode: "hash", salt: "s"})
	if _, _, err := runCLI(t, []string{"run", "--replay-run", id}, replay, ""); err != nil {
		t.Fatalf("replay run: %v", err)
	}

	name := "obscured_text_NoCase_NoStem_NoPunc_AboveNone_BelowNone_Salts"
	file, err := os.Open(filepath.Join(env.outputDir, "obscured_second", "mappings_"+name+".csv"))
	if err != nil {
		t.Fatalf("open replay mapping: %v", err)
	}
	defer file.Close()
	rows, err := mapping.ReadCSV(file)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	want := surrogate.NewHasher("s", 0).Reserved().StopBelow.String()
	for _, row := range rows {
		if row.Word == "cat" && row.Surrogate != want {
			t.Fatalf("cat should be replayed into stop-below, got %q", row.Surrogate)
		}
		if row.Word == "dog" && row.Surrogate == want {
			t.Fatal("dog should keep its own digest")
		}
	}

	_, _, err = runCLI(t, []string{"run", "--replay-run", "missing"}, replay, "")
	if !errors.Is(err, mapping.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"3", "3", true},
		{"0", "0", true},
		{"None", "None", true},
		{"-1", "", false},
		{"2.5", "", false},
	}
	for _, tt := range tests {
		got, ok := parseAnswer(tt.input)
		if ok != tt.ok || (ok && got.String() != tt.want) {
			t.Fatalf("parseAnswer(%q) = %v, %v; want %s, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
