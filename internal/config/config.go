// internal/config/config.go
//
// This package handles configuration and the .roster directory structure.
// Every directory roster runs in gets a .roster/ folder holding the config
// file, the journal and (by default) the saved student list.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// RosterDir is the name of the directory we create in each working directory
	RosterDir = ".roster"

	// DataFileEnv overrides data.file when set.
	DataFileEnv = "ROSTER_DATA_FILE"

	defaultDataFile    = "students.txt"
	defaultJournalFile = "logs/journal.log"
	defaultJournalTail = 8
)

const defaultProjectConfigYAML = `# roster configuration
version: 1

# Flat file holding one student per line as id;name;score.
# Relative paths resolve against the .roster directory.
data:
  file: students.txt
  # Load the file when roster starts. A missing file starts an empty roster.
  autoload: true
  # Save back to the file when exiting through the menu.
  autosave: false

journal:
  file: logs/journal.log
  # Number of journal lines shown in the log panel.
  tail: 8
`

// DataConfig describes where the roster is persisted.
type DataConfig struct {
	File     string `yaml:"file"`
	Autoload *bool  `yaml:"autoload,omitempty"`
	Autosave bool   `yaml:"autosave"`
}

// JournalConfig describes the activity journal.
type JournalConfig struct {
	File string `yaml:"file"`
	Tail int    `yaml:"tail"`
}

// ProjectConfig models .roster/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	Data    DataConfig    `yaml:"data"`
	Journal JournalConfig `yaml:"journal"`
}

// Config holds the runtime configuration for roster.
type Config struct {
	// ProjectDir is the directory where the user ran `roster` from
	ProjectDir string

	// RosterProjectDir is ProjectDir/.roster
	RosterProjectDir string

	Project ProjectConfig

	// dataOverride is set from DataFileEnv and wins over Project.Data.File.
	dataOverride string
}

// InitRosterDir creates the .roster directory structure in the given directory.
//
// Structure created:
// .roster/
// ├── config.yaml
// └── logs/         <- journal.log
func InitRosterDir(projectDir string) error {
	rosterDir := filepath.Join(projectDir, RosterDir)
	if err := os.MkdirAll(filepath.Join(rosterDir, "logs"), 0o755); err != nil {
		return err
	}
	return ensureProjectConfig(filepath.Join(rosterDir, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:       projectDir,
		RosterProjectDir: filepath.Join(projectDir, RosterDir),
		Project:          defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	if override := strings.TrimSpace(os.Getenv(DataFileEnv)); override != "" {
		cfg.dataOverride = resolvePath(projectDir, override)
	}
	return cfg, nil
}

// ProjectConfigPath returns the on-disk location for the config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.RosterProjectDir, "config.yaml")
}

// DataFilePath returns the absolute path of the flat file.
func (c *Config) DataFilePath() string {
	if c.dataOverride != "" {
		return c.dataOverride
	}
	return resolvePath(c.RosterProjectDir, c.Project.Data.File)
}

// JournalPath returns the absolute path of the journal.
func (c *Config) JournalPath() string {
	return resolvePath(c.RosterProjectDir, c.Project.Journal.File)
}

// JournalTail is how many journal lines the log panel shows.
func (c *Config) JournalTail() int {
	return c.Project.Journal.Tail
}

// Autoload reports whether the data file is read on start.
func (c *Config) Autoload() bool {
	return c.Project.Data.Autoload == nil || *c.Project.Data.Autoload
}

// Autosave reports whether exit writes the data file.
func (c *Config) Autosave() bool {
	return c.Project.Data.Autosave
}

// SetAutosave updates the autosave preference and persists it back to
// .roster/config.yaml.
func (c *Config) SetAutosave(enabled bool) error {
	c.Project.Data.Autosave = enabled
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Data: DataConfig{
			File: defaultDataFile,
		},
		Journal: JournalConfig{
			File: defaultJournalFile,
			Tail: defaultJournalTail,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Data.File) == "" {
		pc.Data.File = defaultDataFile
	}
	if strings.TrimSpace(pc.Journal.File) == "" {
		pc.Journal.File = defaultJournalFile
	}
	if pc.Journal.Tail == 0 {
		pc.Journal.Tail = defaultJournalTail
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Data.File = strings.TrimSpace(pc.Data.File)
	pc.Journal.File = strings.TrimSpace(pc.Journal.File)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Data.File == "" {
		return fmt.Errorf("data.file is required")
	}
	if pc.Journal.Tail < 0 {
		return fmt.Errorf("journal.tail must be >= 0")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.RosterProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure roster dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
