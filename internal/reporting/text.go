package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	textWidth     = 60
	categoryWidth = 12

	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
)

// TextOptions controls the human-readable renderer.
type TextOptions struct {
	// Detailed adds the per-category breakdown with issues.
	Detailed bool
	// Color wraps the grade in ANSI colour codes.
	Color bool
}

// WriteText writes the human-readable report.
func WriteText(w io.Writer, r *Report, opts TextOptions) {
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("═", textWidth)) //nolint:errcheck
	fmt.Fprintf(w, " SKILL QUALITY REPORT\n")                 //nolint:errcheck
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("═", textWidth)) //nolint:errcheck

	fmt.Fprintf(w, "Skill: %s\n", r.SkillName)                                                                //nolint:errcheck
	fmt.Fprintf(w, "Overall Score: %d/%d (%.1f%%)\n", r.Overall.Score, r.Overall.Max, r.Overall.Percentage) //nolint:errcheck
	fmt.Fprintf(w, "Grade: %s\n", colorGrade(r.Overall.GradeLabel, r.Overall.Percentage, opts.Color))        //nolint:errcheck

	if opts.Detailed {
		fmt.Fprintf(w, "\nCategory Breakdown:\n") //nolint:errcheck
		for _, c := range r.Categories {
			fmt.Fprintf(w, "\n  %s %2d/%2d (%5.1f%%)\n", padRight(displayName(c.Name), categoryWidth), c.Score, c.Max, c.Percentage) //nolint:errcheck
			for _, issue := range c.Issues {
				fmt.Fprintf(w, "    ⚠️  %s\n", issue) //nolint:errcheck
			}
		}
	}

	if len(r.Recommendations) > 0 {
		fmt.Fprintf(w, "\n%s\n", strings.Repeat("─", textWidth)) //nolint:errcheck
		fmt.Fprintf(w, "Recommendations:\n")                      //nolint:errcheck
		for i, issue := range r.Recommendations {
			fmt.Fprintf(w, "  %d. %s\n", i+1, issue) //nolint:errcheck
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("═", textWidth)) //nolint:errcheck
}

// WriteSummaryTable writes one row per report, for runs over several skills.
func WriteSummaryTable(w io.Writer, reports []*Report) {
	const maxNameWidth = 25
	const minNameWidth = 10
	const colScore = 9
	const colGrade = 6
	const colCategory = 11

	nameWidth := len("Skill")
	for _, r := range reports {
		if n := runewidth.StringWidth(r.SkillName); n > nameWidth {
			nameWidth = n
		}
	}
	nameWidth = min(max(nameWidth, minNameWidth), maxNameWidth)

	var names, header []string
	if len(reports) > 0 {
		for _, c := range reports[0].Categories {
			names = append(names, c.Name)
			header = append(header, padRight(displayName(c.Name), colCategory))
		}
	}
	totalWidth := nameWidth + colScore + colGrade + len(header)*colCategory + (2+len(header))*2

	fmt.Fprintf(w, "\n")                                      //nolint:errcheck
	fmt.Fprintf(w, "%s\n", strings.Repeat("═", totalWidth))   //nolint:errcheck
	fmt.Fprintf(w, " SCORE SUMMARY\n")                        //nolint:errcheck
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("═", totalWidth)) //nolint:errcheck

	cols := append([]string{padRight("Skill", nameWidth), padRight("Score", colScore), padRight("Grade", colGrade)}, header...)
	fmt.Fprintf(w, "%s\n", strings.TrimRight(strings.Join(cols, "  "), " ")) //nolint:errcheck
	fmt.Fprintf(w, "%s\n", strings.Repeat("─", totalWidth))                 //nolint:errcheck

	for _, r := range reports {
		row := []string{
			padRight(truncateName(r.SkillName, nameWidth), nameWidth),
			padRight(fmt.Sprintf("%d/%d", r.Overall.Score, r.Overall.Max), colScore),
			padRight(r.Overall.Grade, colGrade),
		}
		// Columns follow the first report; a category a report lacks shows as "-".
		for _, name := range names {
			c, ok := r.Categories.Get(name)
			if !ok {
				row = append(row, padRight("-", colCategory))
				continue
			}
			row = append(row, padRight(fmt.Sprintf("%s %d/%d", StatusIcon(c.Percentage), c.Score, c.Max), colCategory))
		}
		fmt.Fprintf(w, "%s\n", strings.TrimRight(strings.Join(row, "  "), " ")) //nolint:errcheck
	}
	fmt.Fprintf(w, "\n") //nolint:errcheck
}

func colorGrade(label string, percentage float64, color bool) string {
	if !color {
		return label
	}
	code := ansiRed
	switch {
	case percentage >= 80:
		code = ansiGreen
	case percentage >= 70:
		code = ansiYellow
	}
	return code + label + ansiReset
}

// truncateName shortens a name to maxLen runes, replacing the last rune with "…" if needed.
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
