// Package skill loads a skill package directory into an immutable snapshot.
package skill

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// PrimaryDocument is the well-known name of the instructional file.
	PrimaryDocument = "SKILL.md"
	// ReferencesDir is the optional subdirectory holding reference documents.
	ReferencesDir = "references"

	frontmatterDelimiter = "---\n"
	frontmatterClose     = "\n---\n"
)

// ErrNotFound is matched by errors.Is for every *NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a missing artifact directory or primary document.
type NotFoundError struct {
	Path   string
	Reason string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Frontmatter holds the raw YAML frontmatter block and the body after it.
type Frontmatter struct {
	Present bool
	Closed  bool
	Block   string
	Body    string
}

// Declares reports whether the block is delimited and contains every key.
// Keys are matched by substring, not by parsing, so "name:" also matches
// "display_name:".
func (f Frontmatter) Declares(keys ...string) bool {
	if !f.Present || !f.Closed {
		return false
	}
	for _, k := range keys {
		if !strings.Contains(f.Block, k) {
			return false
		}
	}
	return true
}

// SourceFile is a scanned file under the artifact directory.
type SourceFile struct {
	// Path is slash-separated and relative to the artifact directory.
	Path    string
	Content string
}

// Artifact is a read-only snapshot of a skill package.
type Artifact struct {
	Dir              string
	Name             string
	Content          string
	Frontmatter      Frontmatter
	HasReferencesDir bool
	References       []string
	Files            []SourceFile
}

// Lines returns the line count of the primary document, counting a trailing
// unterminated line.
func (a *Artifact) Lines() int {
	return CountLines(a.Content)
}

// FilesMatching returns the scanned files whose path matches any pattern.
func (a *Artifact) FilesMatching(patterns []string) []SourceFile {
	var out []SourceFile
	for _, f := range a.Files {
		if matchAny(patterns, f.Path) {
			out = append(out, f)
		}
	}
	return out
}

// CountLines counts lines the way a line reader does: "a\nb\n" and "a\nb" are both two lines.
func CountLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// ParseFrontmatter inspects the leading YAML block of content.
func ParseFrontmatter(content string) Frontmatter {
	fm := Frontmatter{Body: content}
	if !strings.HasPrefix(content, frontmatterDelimiter) {
		return fm
	}
	fm.Present = true

	end := strings.Index(content[len(frontmatterDelimiter):], frontmatterClose)
	if end < 0 {
		return fm
	}
	end += len(frontmatterDelimiter)
	fm.Closed = true
	fm.Block = content[len(frontmatterDelimiter):end]
	fm.Body = content[end+len(frontmatterClose):]
	return fm
}

// Load reads the skill package at dir. Files whose relative path matches one of
// patterns (doublestar syntax) are read into the snapshot; unreadable or
// non-UTF-8 optional files are skipped.
func Load(dir string, patterns []string) (*Artifact, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &NotFoundError{Path: dir, Reason: "skill directory not found"}
	} else if err != nil {
		return nil, fmt.Errorf("checking skill directory: %w", err)
	}
	if !info.IsDir() {
		return nil, &NotFoundError{Path: dir, Reason: "skill path is not a directory"}
	}

	primary := filepath.Join(dir, PrimaryDocument)
	data, err := os.ReadFile(primary)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &NotFoundError{Path: dir, Reason: PrimaryDocument + " not found"}
	} else if err != nil {
		return nil, fmt.Errorf("reading %s: %w", PrimaryDocument, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("reading %s: content is not valid UTF-8", PrimaryDocument)
	}
	content := normalizeNewlines(string(data))

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	a := &Artifact{
		Dir:         dir,
		Name:        filepath.Base(abs),
		Content:     content,
		Frontmatter: ParseFrontmatter(content),
	}

	a.HasReferencesDir, a.References = listReferences(filepath.Join(dir, ReferencesDir))

	files, err := scanFiles(dir, patterns)
	if err != nil {
		return nil, err
	}
	a.Files = files

	slog.Debug("Loaded skill artifact",
		"dir", dir,
		"lines", a.Lines(),
		"references", len(a.References),
		"files", len(a.Files))
	return a, nil
}

// listReferences returns whether refsDir is a directory and the *.md entries
// directly inside it.
func listReferences(refsDir string) (bool, []string) {
	info, err := os.Stat(refsDir)
	if err != nil || !info.IsDir() {
		return false, nil
	}
	entries, err := os.ReadDir(refsDir)
	if err != nil {
		slog.Debug("Skipping unreadable references directory", "dir", refsDir, "error", err)
		return true, nil
	}
	var refs []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		refs = append(refs, filepath.Join(refsDir, e.Name()))
	}
	sort.Strings(refs)
	return true, refs
}

func scanFiles(dir string, patterns []string) ([]SourceFile, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid file pattern %q", p)
		}
	}

	var files []SourceFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Debug("Skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !matchAny(patterns, rel) {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil || !utf8.Valid(data) {
			slog.Debug("Skipping unreadable file", "path", rel, "error", readErr)
			return nil
		}
		files = append(files, SourceFile{Path: rel, Content: normalizeNewlines(string(data))})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning skill directory: %w", err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
