package checks

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spboyer/skillscore/internal/rules"
	"github.com/spboyer/skillscore/internal/skill"
)

// StructureAnalyzer checks frontmatter, layout, progressive disclosure and
// reference file naming.
type StructureAnalyzer struct {
	Rules rules.Structure
}

var _ Analyzer = (*StructureAnalyzer)(nil)

func (*StructureAnalyzer) Name() string { return CategoryStructure }

func (a *StructureAnalyzer) Max() int { return a.Rules.Max }

func (a *StructureAnalyzer) Evaluate(art *skill.Artifact) CategoryResult {
	r := a.Rules
	t := newTally(a.Name(), r.Max)

	t.rule(art.Frontmatter.Declares(r.Frontmatter.Keys...), r.Frontmatter.Rule, nil)

	// SKILL.md is guaranteed by the loader; a references directory must not be empty.
	hasRefs := len(art.References) > 0
	t.rule(!art.HasReferencesDir || hasRefs, r.Organization, nil)

	lines := art.Lines()
	t.rule(lines < r.ProgressiveDisclosure.MaxLines || (art.HasReferencesDir && hasRefs), r.ProgressiveDisclosure.Rule, lines)

	t.rule(referencesNamedWell(art), r.ReferenceNaming, nil)

	return t.result()
}

// referencesNamedWell passes when there is no references directory or every
// reference stem is alphanumeric apart from hyphens and underscores.
func referencesNamedWell(art *skill.Artifact) bool {
	if !art.HasReferencesDir {
		return true
	}
	for _, ref := range art.References {
		base := filepath.Base(ref)
		if !validReferenceStem(strings.TrimSuffix(base, filepath.Ext(base))) {
			return false
		}
	}
	return true
}

func validReferenceStem(stem string) bool {
	stripped := strings.NewReplacer("-", "", "_", "").Replace(stem)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
