package checks

import (
	"strings"

	"github.com/spboyer/skillscore/internal/rules"
	"github.com/spboyer/skillscore/internal/skill"
)

// ContentAnalyzer scores description completeness, trigger clarity, writing
// style and inline examples.
type ContentAnalyzer struct {
	Rules rules.Content
}

var _ Analyzer = (*ContentAnalyzer)(nil)

func (*ContentAnalyzer) Name() string { return CategoryContent }

func (a *ContentAnalyzer) Max() int { return a.Rules.Max }

func (a *ContentAnalyzer) Evaluate(art *skill.Artifact) CategoryResult {
	r := a.Rules
	t := newTally(a.Name(), r.Max)
	content := art.Content

	t.award(r.Description.Grade(float64(descriptionSignals(content, r.Description)), nil))

	trigger := strings.ToLower(prefix(content, r.Triggers.Window))
	t.rule(containsAny(trigger, r.Triggers.Keywords), r.Triggers.Rule, nil)

	style := writingStyleScore(content, r.WritingStyle)
	if style < r.WritingStyle.Points {
		t.award(style, r.WritingStyle.Message(style))
	} else {
		t.award(style, "")
	}

	hasCode := strings.Contains(content, "```")
	t.rule(hasCode && !examplesHeader.MatchString(content), r.InlineExamples, nil)

	return t.result()
}

// descriptionSignals counts how many of the WHAT and WHEN keyword classes
// appear in the leading window.
func descriptionSignals(content string, r rules.Description) int {
	window := strings.ToLower(prefix(content, r.Window))
	n := 0
	if containsAny(window, r.What) {
		n++
	}
	if containsAny(window, r.When) {
		n++
	}
	return n
}

func writingStyleScore(content string, r rules.WritingStyle) int {
	score := 0
	if strings.Contains(content, "```") || listMarkerPattern.MatchString(content) {
		score += r.StructurePoints
	}
	if strings.Contains(content, "|") {
		score += r.TablePoints
	}
	verbs := countAll(strings.ToLower(content), r.ActionVerbs)
	if points, _, ok := r.VerbTiers.Award(float64(verbs)); ok {
		score += points
	}
	if len(Headers(content)) >= r.MinSections {
		score += r.SectionPoints
	}
	return min(score, r.Points)
}
