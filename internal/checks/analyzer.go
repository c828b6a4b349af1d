// Package checks provides the Analyzer interface and the five scoring
// categories that evaluate a skill artifact against the rule table.
package checks

import (
	"github.com/spboyer/skillscore/internal/rules"
	"github.com/spboyer/skillscore/internal/skill"
)

// Category names in declaration order.
const (
	CategoryStructure  = "structure"
	CategoryContent    = "content"
	CategoryEfficiency = "efficiency"
	CategorySecurity   = "security"
	CategoryStyle      = "style"
)

// CategoryOrder returns the category names in declaration order.
func CategoryOrder() []string {
	return []string{CategoryStructure, CategoryContent, CategoryEfficiency, CategorySecurity, CategoryStyle}
}

// CategoryResult holds the outcome of one category.
type CategoryResult struct {
	// Name is the stable category identifier used in output and ordering.
	Name string
	// Score is the number of points awarded, between 0 and Max.
	Score int
	// Max is the category's fixed maximum.
	Max int
	// Issues lists one message per sub-check that did not award full points.
	Issues []string
}

// Percentage returns 100*Score/Max, or 0 when Max is 0.
func (r CategoryResult) Percentage() float64 {
	if r.Max == 0 {
		return 0
	}
	return 100 * float64(r.Score) / float64(r.Max)
}

// Analyzer scores one category. Implementations only read the artifact.
type Analyzer interface {
	Name() string
	Max() int
	Evaluate(*skill.Artifact) CategoryResult
}

// DefaultAnalyzers returns the five category analyzers in declaration order.
func DefaultAnalyzers(t *rules.Table) []Analyzer {
	return []Analyzer{
		&StructureAnalyzer{Rules: t.Structure},
		&ContentAnalyzer{Rules: t.Content},
		&EfficiencyAnalyzer{Rules: t.Efficiency},
		&SecurityAnalyzer{Rules: t.Security},
		&StyleAnalyzer{Rules: t.Style},
	}
}

// tally collects sub-check outcomes for one Evaluate call.
type tally struct {
	name   string
	max    int
	score  int
	issues []string
}

func newTally(name string, limit int) *tally {
	return &tally{name: name, max: limit}
}

// rule applies a binary sub-check.
func (t *tally) rule(passed bool, r rules.Rule, v any) {
	if passed {
		t.score += r.Points
		return
	}
	t.issues = append(t.issues, r.Message(v))
}

// award adds points and, when non-empty, an issue.
func (t *tally) award(points int, issue string) {
	t.score += points
	if issue != "" {
		t.issues = append(t.issues, issue)
	}
}

func (t *tally) result() CategoryResult {
	score := min(max(t.score, 0), t.max)
	return CategoryResult{
		Name:   t.name,
		Score:  score,
		Max:    t.max,
		Issues: append([]string(nil), t.issues...),
	}
}
