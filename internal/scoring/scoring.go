// Package scoring combines category results into an overall score and grade.
package scoring

import (
	"fmt"
	"strings"
)

// Grade is the letter grade derived from the overall percentage. Grades are
// ordered, so GradeA > GradeF.
type Grade int

const (
	GradeF Grade = iota
	GradeD
	GradeC
	GradeB
	GradeA
)

// PassingGrade is the default minimum grade for a passing report.
const PassingGrade = GradeC

var gradeLetters = [...]string{"F", "D", "C", "B", "A"}

var gradeLabels = [...]string{
	"F (Poor)",
	"D (Needs Improvement)",
	"C (Fair)",
	"B (Good)",
	"A (Excellent)",
}

// gradeFloors are the minimum percentages for A, B, C and D.
var gradeFloors = []struct {
	grade Grade
	floor float64
}{
	{GradeA, 90},
	{GradeB, 80},
	{GradeC, 70},
	{GradeD, 60},
}

func (g Grade) valid() bool {
	return g >= GradeF && g <= GradeA
}

func (g Grade) String() string {
	if !g.valid() {
		return fmt.Sprintf("Grade(%d)", int(g))
	}
	return gradeLetters[g]
}

// Label returns the letter with its description, e.g. "B (Good)".
func (g Grade) Label() string {
	if !g.valid() {
		return g.String()
	}
	return gradeLabels[g]
}

// AtLeast returns true if g is at or above the target grade.
func (g Grade) AtLeast(target Grade) bool {
	return g >= target
}

// MarshalText implements encoding.TextMarshaler.
func (g Grade) MarshalText() ([]byte, error) {
	if !g.valid() {
		return nil, fmt.Errorf("invalid grade %d", int(g))
	}
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Grade) UnmarshalText(text []byte) error {
	parsed, err := ParseGrade(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// ParseGrade converts a flag or config value to a Grade.
func ParseGrade(s string) (Grade, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return GradeA, nil
	case "B":
		return GradeB, nil
	case "C":
		return GradeC, nil
	case "D":
		return GradeD, nil
	case "F":
		return GradeF, nil
	default:
		return GradeF, fmt.Errorf("invalid grade %q: must be A, B, C, D, or F", s)
	}
}

// GradeFor maps a percentage to a grade: A >= 90, B >= 80, C >= 70, D >= 60.
func GradeFor(percentage float64) Grade {
	for _, f := range gradeFloors {
		if percentage >= f.floor {
			return f.grade
		}
	}
	return GradeF
}
