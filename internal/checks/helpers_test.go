package checks

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spboyer/skillscore/internal/rules"
	"github.com/spboyer/skillscore/internal/skill"
	"github.com/stretchr/testify/require"
)

const goodFrontmatter = "---\nname: demo-skill\ndescription: Provides a guide. Use when working with demos.\n---\n"

// writeSkill creates a skill directory from a map of relative path to content
// and loads it with the default rule table's scan patterns.
func writeSkill(t *testing.T, files map[string]string) *skill.Artifact {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	art, err := skill.Load(dir, rules.Default().Patterns())
	require.NoError(t, err)
	return art
}

// artifact builds an in-memory artifact around a primary document.
func artifact(content string) *skill.Artifact {
	return &skill.Artifact{
		Name:        "demo",
		Content:     content,
		Frontmatter: skill.ParseFrontmatter(content),
	}
}

// numberedLines returns n distinct lines joined by newlines.
func numberedLines(n int, prefix string) string {
	var b strings.Builder
	for i := range n {
		b.WriteString(prefix)
		b.WriteString(" line ")
		b.WriteString(strings.Repeat("x", i%7))
		b.WriteString(string(rune('a' + i%26)))
		b.WriteString(strconv.Itoa(i))
		b.WriteString("\n")
	}
	return b.String()
}

// sectionedLines returns n distinct lines with a level-2 header every 100 lines.
func sectionedLines(n int) string {
	var b strings.Builder
	for i := range n {
		if i%100 == 0 {
			b.WriteString("## Section " + strconv.Itoa(i) + "\n")
			continue
		}
		b.WriteString("l" + strconv.Itoa(i) + "\n")
	}
	return b.String()
}
