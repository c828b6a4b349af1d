package checks

import (
	"regexp"
	"strings"

	"github.com/spboyer/skillscore/internal/rules"
	"github.com/spboyer/skillscore/internal/skill"
)

// SecurityAnalyzer scans for secret-like literals and dangerous execution
// patterns, and looks for signs of input validation.
type SecurityAnalyzer struct {
	Rules rules.Security
}

var _ Analyzer = (*SecurityAnalyzer)(nil)

func (*SecurityAnalyzer) Name() string { return CategorySecurity }

func (a *SecurityAnalyzer) Max() int { return a.Rules.Max }

func (a *SecurityAnalyzer) Evaluate(art *skill.Artifact) CategoryResult {
	r := a.Rules
	t := newTally(a.Name(), r.Max)

	secretSources := []string{art.Content}
	for _, f := range art.FilesMatching(r.Secrets.Files) {
		if f.Path != skill.PrimaryDocument {
			secretSources = append(secretSources, f.Content)
		}
	}
	t.rule(!anyMatch(r.Secrets.Regexps(), secretSources), r.Secrets.Rule, nil)

	var scripts []string
	for _, f := range art.FilesMatching(r.DangerousPatterns.Files) {
		scripts = append(scripts, f.Content)
	}
	t.rule(!anyMatch(r.DangerousPatterns.Regexps(), scripts), r.DangerousPatterns.Rule, nil)

	t.rule(hasInputValidation(art, r.InputValidation), r.InputValidation.Rule, nil)

	return t.result()
}

func anyMatch(patterns []*regexp.Regexp, sources []string) bool {
	for _, src := range sources {
		for _, re := range patterns {
			if re.MatchString(src) {
				return true
			}
		}
	}
	return false
}

// hasInputValidation passes on validation vocabulary in the document or
// validation markers in any script. Presence only.
func hasInputValidation(art *skill.Artifact, r rules.InputValidation) bool {
	if containsAny(strings.ToLower(art.Content), r.DocumentKeywords) {
		return true
	}
	for _, f := range art.FilesMatching(r.Files) {
		if containsAny(f.Content, r.CodeKeywords) {
			return true
		}
	}
	return false
}
