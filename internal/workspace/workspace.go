// Package workspace detects whether a path is a single skill package or a
// workspace holding several of them.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spboyer/skillscore/internal/skill"
	"gopkg.in/yaml.v3"
)

// ContextType represents the type of workspace detected.
type ContextType int

const (
	ContextNone        ContextType = iota
	ContextSingleSkill             // the directory is (or is inside) one skill package
	ContextMultiSkill              // the directory contains several skill packages
)

// maxParentWalk is the maximum number of parent directories to walk up when searching.
const maxParentWalk = 10

// DetectOption configures workspace detection behavior.
type DetectOption func(*detectOptions)

type detectOptions struct {
	skillsDir  string // subdirectory name for skills (default "skills")
	parentWalk bool
}

func defaultDetectOptions() detectOptions {
	return detectOptions{skillsDir: "skills"}
}

// WithSkillsDir overrides the skills subdirectory name used during detection.
func WithSkillsDir(dir string) DetectOption {
	return func(o *detectOptions) {
		if dir != "" {
			o.skillsDir = dir
		}
	}
}

// WithParentWalk also searches up to ten parent directories for SKILL.md.
func WithParentWalk() DetectOption {
	return func(o *detectOptions) {
		o.parentWalk = true
	}
}

// SkillInfo holds information about a discovered skill.
type SkillInfo struct {
	Name string // name from SKILL.md frontmatter, or the directory name
	Dir  string // absolute path to the skill directory
}

// WorkspaceContext represents the detected workspace.
type WorkspaceContext struct {
	Type   ContextType
	Root   string      // workspace root directory
	Skills []SkillInfo // discovered skills, sorted by directory
}

// DetectContext analyzes dir to determine the workspace type:
//  1. dir contains SKILL.md → single-skill
//  2. with WithParentWalk, a parent contains SKILL.md → single-skill
//  3. dir/<skills> has children with SKILL.md → multi-skill
//  4. immediate children of dir contain SKILL.md → multi-skill
func DetectContext(dir string, opts ...DetectOption) (*WorkspaceContext, error) {
	o := defaultDetectOptions()
	for _, fn := range opts {
		fn(&o)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	if info, ok := tryParseSkill(absDir); ok {
		return single(absDir, info), nil
	}

	if o.parentWalk {
		current := absDir
		for range maxParentWalk {
			parent := filepath.Dir(current)
			if parent == current {
				break // reached filesystem root
			}
			current = parent
			if info, ok := tryParseSkill(current); ok {
				return single(current, info), nil
			}
		}
	}

	skillsDir := filepath.Join(absDir, o.skillsDir)
	if isDir(skillsDir) {
		if skills := scanForSkills(skillsDir); len(skills) > 0 {
			return &WorkspaceContext{Type: ContextMultiSkill, Root: absDir, Skills: skills}, nil
		}
	}

	if skills := scanForSkills(absDir); len(skills) > 0 {
		return &WorkspaceContext{Type: ContextMultiSkill, Root: absDir, Skills: skills}, nil
	}

	return &WorkspaceContext{Type: ContextNone, Root: absDir}, nil
}

func single(root string, info SkillInfo) *WorkspaceContext {
	return &WorkspaceContext{Type: ContextSingleSkill, Root: root, Skills: []SkillInfo{info}}
}

// FindSkill locates a named skill in the workspace.
func FindSkill(ctx *WorkspaceContext, name string) (*SkillInfo, error) {
	if ctx == nil {
		return nil, fmt.Errorf("skill %q not found: no workspace", name)
	}
	for i := range ctx.Skills {
		if ctx.Skills[i].Name == name || filepath.Base(ctx.Skills[i].Dir) == name {
			return &ctx.Skills[i], nil
		}
	}
	return nil, fmt.Errorf("skill %q not found in workspace", name)
}

// Dirs returns the directories of all discovered skills.
func (c *WorkspaceContext) Dirs() []string {
	dirs := make([]string, len(c.Skills))
	for i, s := range c.Skills {
		dirs[i] = s.Dir
	}
	return dirs
}

// tryParseSkill checks if dir contains SKILL.md and reads its name.
func tryParseSkill(dir string) (SkillInfo, bool) {
	skillPath := filepath.Join(dir, skill.PrimaryDocument)
	if !isFile(skillPath) {
		return SkillInfo{}, false
	}

	name, err := parseSkillName(skillPath)
	if err != nil || name == "" {
		// Fall back to directory name when frontmatter is missing/invalid
		name = filepath.Base(dir)
	}
	return SkillInfo{Name: name, Dir: dir}, true
}

// scanForSkills scans immediate child directories of parentDir for SKILL.md files.
func scanForSkills(parentDir string) []SkillInfo {
	entries, err := os.ReadDir(parentDir)
	if err != nil {
		return nil
	}

	var skills []SkillInfo
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		childDir := filepath.Join(parentDir, entry.Name())
		if info, ok := tryParseSkill(childDir); ok {
			skills = append(skills, info)
		}
	}
	return skills
}

// parseSkillName decodes the name field of the SKILL.md frontmatter.
func parseSkillName(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading skill file: %w", err)
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	fm := skill.ParseFrontmatter(content)
	if !fm.Closed {
		return "", nil
	}

	var meta struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal([]byte(fm.Block), &meta); err != nil {
		return "", fmt.Errorf("parsing SKILL.md frontmatter: %w", err)
	}
	return strings.TrimSpace(meta.Name), nil
}

// isFile returns true if path exists and is a regular file.
func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

// isDir returns true if path exists and is a directory.
func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
