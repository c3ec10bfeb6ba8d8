package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadProjectConfigDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	rosterDir := filepath.Join(projectDir, ".roster")
	if err := os.MkdirAll(rosterDir, 0755); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, RosterProjectDir: rosterDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if c.Project.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", c.Project.Version)
	}
	if got, want := c.DataFilePath(), filepath.Join(rosterDir, "students.txt"); got != want {
		t.Fatalf("data file = %s, want %s", got, want)
	}
	if !c.Autoload() {
		t.Fatalf("expected autoload to default to true")
	}
	if c.Autosave() {
		t.Fatalf("expected autosave to default to false")
	}
	if c.JournalTail() != defaultJournalTail {
		t.Fatalf("journal tail = %d, want %d", c.JournalTail(), defaultJournalTail)
	}
}

func TestInitRosterDirWritesParsableDefaults(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitRosterDir(projectDir); err != nil {
		t.Fatalf("init roster dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, ".roster", "logs")); err != nil {
		t.Fatalf("expected logs dir: %v", err)
	}
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if !c.Autoload() || c.Autosave() {
		t.Fatalf("unexpected defaults autoload=%v autosave=%v", c.Autoload(), c.Autosave())
	}
	if got, want := c.JournalPath(), filepath.Join(projectDir, ".roster", "logs", "journal.log"); got != want {
		t.Fatalf("journal path = %s, want %s", got, want)
	}
}

func TestLoadProjectConfigParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	rosterDir := filepath.Join(projectDir, ".roster")
	if err := os.MkdirAll(rosterDir, 0755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
data:
  file: ../class/period-3.txt
  autoload: false
  autosave: true
journal:
  file: /var/tmp/roster.log
  tail: 3
`)
	if err := os.WriteFile(filepath.Join(rosterDir, "config.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, RosterProjectDir: rosterDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if got, want := c.DataFilePath(), filepath.Join(projectDir, "class", "period-3.txt"); got != want {
		t.Fatalf("data file = %s, want %s", got, want)
	}
	if c.Autoload() {
		t.Fatalf("expected autoload false")
	}
	if !c.Autosave() {
		t.Fatalf("expected autosave true")
	}
	if c.JournalPath() != "/var/tmp/roster.log" {
		t.Fatalf("journal path = %s", c.JournalPath())
	}
	if c.JournalTail() != 3 {
		t.Fatalf("journal tail = %d, want 3", c.JournalTail())
	}
}

func TestLoadProjectConfigValidation(t *testing.T) {
	projectDir := t.TempDir()
	rosterDir := filepath.Join(projectDir, ".roster")
	if err := os.MkdirAll(rosterDir, 0755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
journal:
  tail: -2
`)
	if err := os.WriteFile(filepath.Join(rosterDir, "config.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, RosterProjectDir: rosterDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err == nil {
		t.Fatalf("expected validation error but got none")
	}
}

func TestDataFileEnvOverride(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitRosterDir(projectDir); err != nil {
		t.Fatalf("init roster dir: %v", err)
	}
	t.Setenv(DataFileEnv, "exports/students.txt")
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if got, want := c.DataFilePath(), filepath.Join(projectDir, "exports", "students.txt"); got != want {
		t.Fatalf("data file = %s, want %s", got, want)
	}
}

func TestSetAutosavePersists(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitRosterDir(projectDir); err != nil {
		t.Fatalf("init roster dir: %v", err)
	}
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if err := c.SetAutosave(true); err != nil {
		t.Fatalf("set autosave: %v", err)
	}
	reloaded, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if !reloaded.Autosave() {
		t.Fatalf("expected autosave to persist")
	}
	if !reloaded.Autoload() {
		t.Fatalf("autoload should still default to true")
	}
}
