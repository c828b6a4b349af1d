package reporting

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// StatusIcon returns the status marker for a category percentage.
func StatusIcon(percentage float64) string {
	switch {
	case percentage >= 80:
		return "✅"
	case percentage >= 60:
		return "⚠️"
	default:
		return "❌"
	}
}

// InterpretPercentage returns a plain-language label for a percentage (0-100).
func InterpretPercentage(percentage float64) string {
	switch {
	case percentage >= 90:
		return "Excellent (>=90%)"
	case percentage >= 80:
		return "Good (80-90%)"
	case percentage >= 70:
		return "Fair (70-80%)"
	case percentage >= 60:
		return "Needs Improvement (60-70%)"
	default:
		return "Poor (<60%)"
	}
}

// FormatSummary produces a short plain-language reading of a report, naming
// the weakest categories first.
func FormatSummary(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Overall: %d/%d - %s\n", r.Overall.Score, r.Overall.Max, InterpretPercentage(r.Overall.Percentage))

	weakest := weakCategories(r.Categories)
	if len(weakest) == 0 {
		b.WriteString("All categories scored full marks.\n")
		return b.String()
	}
	b.WriteString("Focus areas:\n")
	for _, c := range weakest {
		fmt.Fprintf(&b, "  %s %s: %d/%d, %d issue(s)\n", StatusIcon(c.Percentage), displayName(c.Name), c.Score, c.Max, len(c.Issues))
	}
	return b.String()
}

// weakCategories returns categories below full marks, lowest percentage first.
// Ties keep declaration order.
func weakCategories(cs Categories) []Category {
	var out []Category
	for _, c := range cs {
		if c.Score < c.Max {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b Category) int {
		return cmp.Compare(a.Percentage, b.Percentage)
	})
	return out
}
