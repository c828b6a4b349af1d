package scoring

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spboyer/skillscore/internal/checks"
)

// OverallResult is the combined outcome of every category.
type OverallResult struct {
	Score      int
	Max        int
	Percentage float64
	Grade      Grade
	// Issues are prefixed with the capitalised category name, e.g.
	// "Structure: YAML frontmatter invalid or missing".
	Issues     []string
	Categories []checks.CategoryResult
}

// Passed reports whether the grade meets minimum.
func (r *OverallResult) Passed(minimum Grade) bool {
	return r.Grade.AtLeast(minimum)
}

var titleCaser = cases.Title(language.English)

// Aggregate sums category results into an OverallResult. Results are ordered
// by category declaration order first, so the input order does not matter.
// Unknown categories sort after the known ones by name.
func Aggregate(results []checks.CategoryResult) *OverallResult {
	ordered := slices.Clone(results)
	slices.SortStableFunc(ordered, func(a, b checks.CategoryResult) int {
		if ra, rb := categoryRank(a.Name), categoryRank(b.Name); ra != rb {
			return ra - rb
		}
		return strings.Compare(a.Name, b.Name)
	})

	out := &OverallResult{Categories: ordered}
	for _, c := range ordered {
		out.Score += c.Score
		out.Max += c.Max
		prefix := titleCaser.String(c.Name)
		for _, issue := range c.Issues {
			out.Issues = append(out.Issues, fmt.Sprintf("%s: %s", prefix, issue))
		}
	}
	if out.Max > 0 {
		out.Percentage = 100 * float64(out.Score) / float64(out.Max)
	}
	out.Grade = GradeFor(out.Percentage)
	return out
}

func categoryRank(name string) int {
	order := checks.CategoryOrder()
	if i := slices.Index(order, name); i >= 0 {
		return i
	}
	return len(order)
}
