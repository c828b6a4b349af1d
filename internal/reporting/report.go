// Package reporting renders a scored skill as JSON, Markdown, text, HTML or
// JUnit XML, and writes exports.
package reporting

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/spboyer/skillscore/internal/checks"
	"github.com/spboyer/skillscore/internal/scoring"
	"github.com/spboyer/skillscore/internal/skill"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	ErrorTypeNotFound   = "NotFound"
	ErrorTypeUnexpected = "UnexpectedError"

	helpNotFound   = "Ensure skill directory exists and contains SKILL.md"
	helpUnexpected = "Check skill structure and permissions"
)

// Report is the serialisable form of a scored skill.
type Report struct {
	Status          string     `json:"status"`
	SkillPath       string     `json:"skill_path"`
	SkillName       string     `json:"skill_name"`
	Overall         Overall    `json:"overall"`
	Categories      Categories `json:"categories"`
	Recommendations []string   `json:"recommendations"`
}

// Overall summarises the aggregate score.
type Overall struct {
	Score      int     `json:"score"`
	Max        int     `json:"max"`
	Percentage float64 `json:"percentage"`
	Grade      string  `json:"grade"`
	GradeLabel string  `json:"grade_label"`
}

// Category is one category's entry in a Report.
type Category struct {
	Name       string   `json:"-"`
	Score      int      `json:"score"`
	Max        int      `json:"max"`
	Percentage float64  `json:"percentage"`
	Issues     []string `json:"issues"`
}

// Categories serialises as a JSON object whose keys keep slice order.
type Categories []Category

func (cs Categories) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range cs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (cs *Categories) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("categories: expected object, got %v", tok)
	}
	var out Categories
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("categories: expected key, got %v", tok)
		}
		var c Category
		if err := dec.Decode(&c); err != nil {
			return fmt.Errorf("categories: decoding %q: %w", name, err)
		}
		c.Name = name
		out = append(out, c)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*cs = out
	return nil
}

// Get returns the named category.
func (cs Categories) Get(name string) (Category, bool) {
	for _, c := range cs {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// NewReport builds a Report from an aggregate result. Percentages are rounded
// to two decimals; issue lists are never null.
func NewReport(skillPath, skillName string, res *scoring.OverallResult) *Report {
	r := &Report{
		Status:    StatusSuccess,
		SkillPath: skillPath,
		SkillName: skillName,
		Overall: Overall{
			Score:      res.Score,
			Max:        res.Max,
			Percentage: round2(res.Percentage),
			Grade:      res.Grade.String(),
			GradeLabel: res.Grade.Label(),
		},
		Recommendations: nonNil(res.Issues),
	}
	for _, c := range res.Categories {
		r.Categories = append(r.Categories, newCategory(c))
	}
	return r
}

func newCategory(c checks.CategoryResult) Category {
	return Category{
		Name:       c.Name,
		Score:      c.Score,
		Max:        c.Max,
		Percentage: round2(c.Percentage()),
		Issues:     nonNil(c.Issues),
	}
}

// Passed reports whether the report's grade meets minimum.
func (r *Report) Passed(minimum scoring.Grade) bool {
	g, err := scoring.ParseGrade(r.Overall.Grade)
	if err != nil {
		return false
	}
	return g.AtLeast(minimum)
}

// ErrorReport is the JSON body emitted when a skill could not be scored.
type ErrorReport struct {
	Status    string `json:"status"`
	ErrorType string `json:"error_type"`
	Message   string `json:"message"`
	Help      string `json:"help"`
}

// NewErrorReport classifies err as NotFound or UnexpectedError.
func NewErrorReport(err error) *ErrorReport {
	r := &ErrorReport{
		Status:    StatusError,
		ErrorType: ErrorTypeUnexpected,
		Message:   err.Error(),
		Help:      helpUnexpected,
	}
	if errors.Is(err, skill.ErrNotFound) {
		r.ErrorType = ErrorTypeNotFound
		r.Help = helpNotFound
	}
	return r
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func nonNil(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
