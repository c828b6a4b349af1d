package reporting

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

func displayName(category string) string {
	return titleCaser.String(category)
}

// RenderMarkdown renders the report as a Markdown document.
func RenderMarkdown(r *Report) string {
	var b strings.Builder

	b.WriteString("# Skill Quality Report\n\n")
	fmt.Fprintf(&b, "**Skill:** %s\n", r.SkillName)
	fmt.Fprintf(&b, "**Path:** `%s`\n\n", r.SkillPath)

	b.WriteString("## Overall Score\n\n")
	fmt.Fprintf(&b, "- **Score:** %d/%d (%.1f%%)\n", r.Overall.Score, r.Overall.Max, r.Overall.Percentage)
	fmt.Fprintf(&b, "- **Grade:** %s\n\n", r.Overall.GradeLabel)

	b.WriteString("## Category Breakdown\n\n")
	b.WriteString("| Category | Score | Percentage | Status |\n")
	b.WriteString("|----------|-------|------------|--------|\n")
	for _, c := range r.Categories {
		fmt.Fprintf(&b, "| %s | %d/%d | %.1f%% | %s |\n",
			displayName(c.Name), c.Score, c.Max, c.Percentage, StatusIcon(c.Percentage))
	}
	b.WriteString("\n")

	if hasIssues(r.Categories) {
		b.WriteString("## Issues by Category\n\n")
		for _, c := range r.Categories {
			if len(c.Issues) == 0 {
				continue
			}
			fmt.Fprintf(&b, "### %s\n\n", displayName(c.Name))
			for _, issue := range c.Issues {
				fmt.Fprintf(&b, "- ⚠️ %s\n", issue)
			}
			b.WriteString("\n")
		}
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for i, issue := range r.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, issue)
		}
	}

	return b.String()
}

// WriteMarkdown writes RenderMarkdown output to w.
func WriteMarkdown(w io.Writer, r *Report) error {
	_, err := io.WriteString(w, RenderMarkdown(r))
	return err
}

func hasIssues(cs Categories) bool {
	for _, c := range cs {
		if len(c.Issues) > 0 {
			return true
		}
	}
	return false
}
