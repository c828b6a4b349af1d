package checks

import (
	"strings"

	"github.com/spboyer/skillscore/internal/rules"
	"github.com/spboyer/skillscore/internal/skill"
	"github.com/spboyer/skillscore/internal/tokens"
)

// EfficiencyAnalyzer scores document length, estimated token cost and bloat.
type EfficiencyAnalyzer struct {
	Rules rules.Efficiency
}

var _ Analyzer = (*EfficiencyAnalyzer)(nil)

func (*EfficiencyAnalyzer) Name() string { return CategoryEfficiency }

func (a *EfficiencyAnalyzer) Max() int { return a.Rules.Max }

func (a *EfficiencyAnalyzer) Evaluate(art *skill.Artifact) CategoryResult {
	r := a.Rules
	t := newTally(a.Name(), r.Max)

	lines := art.Lines()
	t.award(r.LineCount.Grade(float64(lines), lines))

	estimate := tokens.NewEstimatingCounter(r.TokenEstimate.CharsPerToken).Count(art.Content)
	t.award(r.TokenEstimate.Grade(float64(estimate), estimate))

	t.rule(!IsBloated(art.Content, r.Bloat), r.Bloat.Rule, nil)

	return t.result()
}

// IsBloated reports an oversized level-2 section, or low line uniqueness in a
// document longer than MinLines.
func IsBloated(content string, r rules.Bloat) bool {
	for _, section := range strings.Split(content, "\n## ") {
		if len(strings.Split(section, "\n")) > r.MaxSectionLines {
			return true
		}
	}

	lines := strings.Split(content, "\n")
	if len(lines) <= r.MinLines {
		return false
	}
	distinct := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		distinct[l] = struct{}{}
	}
	return float64(len(distinct))/float64(len(lines)) < r.MinUniqueRatio
}
