// Package projectconfig provides the ProjectConfig struct and loader for
// .skillscore.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up from the skill directory.
const FileName = ".skillscore.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultFormat          = "text"
	DefaultMinGrade        = "C"
	DefaultWatchDebounceMs = 200
	DefaultSkillsDir       = "skills"

	maxWalkLevels = 10
)

// PathsConfig holds workspace layout settings.
type PathsConfig struct {
	// Skills is the subdirectory scanned for skill packages when a workspace
	// root is scored.
	Skills string `yaml:"skills,omitempty"`
}

// PublishConfig holds report upload settings.
type PublishConfig struct {
	// URL is an Azure Blob Storage container URL, optionally with a blob prefix.
	URL string `yaml:"url,omitempty"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .skillscore.yaml.
type ProjectConfig struct {
	// Rules is a rule table override. Relative paths resolve against Dir.
	Rules    string        `yaml:"rules,omitempty"`
	Format   string        `yaml:"format,omitempty"`
	Detailed *bool         `yaml:"detailed,omitempty"`
	MinGrade string        `yaml:"min_grade,omitempty"`
	Paths    PathsConfig   `yaml:"paths,omitempty"`
	Publish  PublishConfig `yaml:"publish,omitempty"`
	Watch    WatchConfig   `yaml:"watch,omitempty"`

	// Dir is the directory the config file was found in, empty when defaults are used.
	Dir string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Format:   DefaultFormat,
		Detailed: boolPtr(false),
		MinGrade: DefaultMinGrade,
		Paths: PathsConfig{
			Skills: DefaultSkillsDir,
		},
		Watch: WatchConfig{
			DebounceMs: DefaultWatchDebounceMs,
		},
	}
}

// RulesPath returns the rule table override path, or "" when none is set.
func (c *ProjectConfig) RulesPath() string {
	if c.Rules == "" || filepath.IsAbs(c.Rules) || c.Dir == "" {
		return c.Rules
	}
	return filepath.Join(c.Dir, c.Rules)
}

// Load finds .skillscore.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	mergeConfig(cfg, &fileCfg)
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .skillscore.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) (string, []byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for range maxWalkLevels {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Rules != "" {
		dst.Rules = src.Rules
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Detailed != nil {
		dst.Detailed = src.Detailed
	}
	if src.MinGrade != "" {
		dst.MinGrade = src.MinGrade
	}

	// Paths
	if src.Paths.Skills != "" {
		dst.Paths.Skills = src.Paths.Skills
	}

	// Publish
	if src.Publish.URL != "" {
		dst.Publish.URL = src.Publish.URL
	}

	// Watch
	if src.Watch.DebounceMs != 0 {
		dst.Watch.DebounceMs = src.Watch.DebounceMs
	}
}

func boolPtr(b bool) *bool {
	return &b
}
