// Package rules defines the versioned table of scoring rules. Every sub-check
// is a data record of points awarded and the issue reported when those points
// are withheld, so the heuristics can be audited and overridden without
// touching analyzer code.
package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spboyer/skillscore/internal/validation"
	"gopkg.in/yaml.v3"
)

// TotalPoints is the fixed sum of all category maxima.
const TotalPoints = 100

//go:embed default.yaml
var defaultYAML []byte

// Rule is a binary sub-check: Points when it passes, Issue when it does not.
type Rule struct {
	Points int    `mapstructure:"points" yaml:"points"`
	Issue  string `mapstructure:"issue" yaml:"issue"`
}

// Message renders the issue with {value} replaced by v.
func (r Rule) Message(v any) string {
	return formatIssue(r.Issue, v)
}

// Tier awards Points when a measured value is strictly above or below a bound.
// Issue, when set, is reported even though the tier matched.
type Tier struct {
	Above  *float64 `mapstructure:"above" yaml:"above,omitempty"`
	Below  *float64 `mapstructure:"below" yaml:"below,omitempty"`
	Points int      `mapstructure:"points" yaml:"points"`
	Issue  string   `mapstructure:"issue" yaml:"issue,omitempty"`
}

// Matches reports whether v crosses the tier's bound.
func (t Tier) Matches(v float64) bool {
	switch {
	case t.Above != nil:
		return v > *t.Above
	case t.Below != nil:
		return v < *t.Below
	default:
		return false
	}
}

// Tiers is evaluated in order; the first matching tier wins.
type Tiers []Tier

// Award returns the points and issue template of the first matching tier.
func (ts Tiers) Award(v float64) (int, string, bool) {
	for _, t := range ts {
		if t.Matches(v) {
			return t.Points, t.Issue, true
		}
	}
	return 0, "", false
}

// Graded is a sub-check scored by tiers over one measured value. Issue is
// reported when no tier matches.
type Graded struct {
	Rule  `mapstructure:",squash" yaml:",inline"`
	Tiers Tiers `mapstructure:"tiers" yaml:"tiers"`
}

// Grade scores v, returning the points and the rendered issue ("" for none).
func (g Graded) Grade(v float64, display any) (int, string) {
	points, issue, ok := g.Tiers.Award(v)
	if !ok {
		return 0, g.Message(display)
	}
	return points, formatIssue(issue, display)
}

// PatternRule fails when any pattern matches any file selected by Files.
type PatternRule struct {
	Rule     `mapstructure:",squash" yaml:",inline"`
	Files    []string `mapstructure:"files" yaml:"files"`
	Patterns []string `mapstructure:"patterns" yaml:"patterns"`

	compiled []*regexp.Regexp
}

// Regexps returns the compiled patterns.
func (p *PatternRule) Regexps() []*regexp.Regexp {
	return p.compiled
}

type Frontmatter struct {
	Rule `mapstructure:",squash" yaml:",inline"`
	Keys []string `mapstructure:"keys" yaml:"keys"`
}

type ProgressiveDisclosure struct {
	Rule     `mapstructure:",squash" yaml:",inline"`
	MaxLines int `mapstructure:"max_lines" yaml:"max_lines"`
}

type Structure struct {
	Max                   int                   `mapstructure:"max" yaml:"max"`
	Frontmatter           Frontmatter           `mapstructure:"frontmatter" yaml:"frontmatter"`
	Organization          Rule                  `mapstructure:"organization" yaml:"organization"`
	ProgressiveDisclosure ProgressiveDisclosure `mapstructure:"progressive_disclosure" yaml:"progressive_disclosure"`
	ReferenceNaming       Rule                  `mapstructure:"reference_naming" yaml:"reference_naming"`
}

type Description struct {
	Graded `mapstructure:",squash" yaml:",inline"`
	Window int      `mapstructure:"window" yaml:"window"`
	What   []string `mapstructure:"what" yaml:"what"`
	When   []string `mapstructure:"when" yaml:"when"`
}

type Triggers struct {
	Rule     `mapstructure:",squash" yaml:",inline"`
	Window   int      `mapstructure:"window" yaml:"window"`
	Keywords []string `mapstructure:"keywords" yaml:"keywords"`
}

type WritingStyle struct {
	Rule            `mapstructure:",squash" yaml:",inline"`
	StructurePoints int      `mapstructure:"structure_points" yaml:"structure_points"`
	TablePoints     int      `mapstructure:"table_points" yaml:"table_points"`
	ActionVerbs     []string `mapstructure:"action_verbs" yaml:"action_verbs"`
	VerbTiers       Tiers    `mapstructure:"verb_tiers" yaml:"verb_tiers"`
	SectionPoints   int      `mapstructure:"section_points" yaml:"section_points"`
	MinSections     int      `mapstructure:"min_sections" yaml:"min_sections"`
}

type Content struct {
	Max            int          `mapstructure:"max" yaml:"max"`
	Description    Description  `mapstructure:"description" yaml:"description"`
	Triggers       Triggers     `mapstructure:"triggers" yaml:"triggers"`
	WritingStyle   WritingStyle `mapstructure:"writing_style" yaml:"writing_style"`
	InlineExamples Rule         `mapstructure:"inline_examples" yaml:"inline_examples"`
}

type TokenEstimate struct {
	Graded        `mapstructure:",squash" yaml:",inline"`
	CharsPerToken int `mapstructure:"chars_per_token" yaml:"chars_per_token"`
}

type Bloat struct {
	Rule            `mapstructure:",squash" yaml:",inline"`
	MaxSectionLines int     `mapstructure:"max_section_lines" yaml:"max_section_lines"`
	MinLines        int     `mapstructure:"min_lines" yaml:"min_lines"`
	MinUniqueRatio  float64 `mapstructure:"min_unique_ratio" yaml:"min_unique_ratio"`
}

type Efficiency struct {
	Max           int           `mapstructure:"max" yaml:"max"`
	LineCount     Graded        `mapstructure:"line_count" yaml:"line_count"`
	TokenEstimate TokenEstimate `mapstructure:"token_estimate" yaml:"token_estimate"`
	Bloat         Bloat         `mapstructure:"bloat" yaml:"bloat"`
}

type InputValidation struct {
	Rule             `mapstructure:",squash" yaml:",inline"`
	Files            []string `mapstructure:"files" yaml:"files"`
	DocumentKeywords []string `mapstructure:"document_keywords" yaml:"document_keywords"`
	CodeKeywords     []string `mapstructure:"code_keywords" yaml:"code_keywords"`
}

type Security struct {
	Max               int             `mapstructure:"max" yaml:"max"`
	Secrets           PatternRule     `mapstructure:"secrets" yaml:"secrets"`
	DangerousPatterns PatternRule     `mapstructure:"dangerous_patterns" yaml:"dangerous_patterns"`
	InputValidation   InputValidation `mapstructure:"input_validation" yaml:"input_validation"`
}

type Imperative struct {
	Graded       `mapstructure:",squash" yaml:",inline"`
	LeadingWords int      `mapstructure:"leading_words" yaml:"leading_words"`
	Verbs        []string `mapstructure:"verbs" yaml:"verbs"`
}

type Headers struct {
	Rule     `mapstructure:",squash" yaml:",inline"`
	MinWords int     `mapstructure:"min_words" yaml:"min_words"`
	MinRatio float64 `mapstructure:"min_ratio" yaml:"min_ratio"`
}

type Style struct {
	Max            int        `mapstructure:"max" yaml:"max"`
	Imperative     Imperative `mapstructure:"imperative" yaml:"imperative"`
	SentenceLength Graded     `mapstructure:"sentence_length" yaml:"sentence_length"`
	Headers        Headers    `mapstructure:"headers" yaml:"headers"`
}

// Table is the complete rule set for all five categories.
type Table struct {
	Version    string     `mapstructure:"version" yaml:"version"`
	Structure  Structure  `mapstructure:"structure" yaml:"structure"`
	Content    Content    `mapstructure:"content" yaml:"content"`
	Efficiency Efficiency `mapstructure:"efficiency" yaml:"efficiency"`
	Security   Security   `mapstructure:"security" yaml:"security"`
	Style      Style      `mapstructure:"style" yaml:"style"`
}

// Default returns the embedded rule table. It panics if the embedded table is
// invalid, which only a broken build can cause.
func Default() *Table {
	t, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default rule table is invalid: %v", err))
	}
	return t
}

// DefaultYAML returns the embedded rule table source.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// LoadFile reads and validates a rule table from path.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule table: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading rule table %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a YAML rule table, validating it against the rules schema and
// then checking that patterns compile and points add up.
func Parse(data []byte) (*Table, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing rule table: %w", err)
	}
	if errs := validation.ValidateRules(doc); len(errs) > 0 {
		return nil, fmt.Errorf("rule table does not match schema:\n  %s", strings.Join(errs, "\n  "))
	}

	var t Table
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &t,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding rule table: %w", err)
	}
	if err := t.compile(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Patterns returns every file glob the security rules read, deduplicated in
// first-seen order.
func (t *Table) Patterns() []string {
	seen := map[string]bool{}
	var out []string
	for _, list := range [][]string{t.Security.Secrets.Files, t.Security.DangerousPatterns.Files, t.Security.InputValidation.Files} {
		for _, p := range list {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// Maxima returns each category's maximum keyed by category name.
func (t *Table) Maxima() map[string]int {
	return map[string]int{
		"structure":  t.Structure.Max,
		"content":    t.Content.Max,
		"efficiency": t.Efficiency.Max,
		"security":   t.Security.Max,
		"style":      t.Style.Max,
	}
}

func (t *Table) compile() error {
	var errs []error

	for _, pr := range []*PatternRule{&t.Security.Secrets, &t.Security.DangerousPatterns} {
		pr.compiled = pr.compiled[:0]
		for _, p := range pr.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				errs = append(errs, fmt.Errorf("pattern %q: %w", p, err))
				continue
			}
			pr.compiled = append(pr.compiled, re)
		}
	}
	for _, p := range t.Patterns() {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("invalid file glob %q", p))
		}
	}

	check := func(category string, limit int, parts ...int) {
		sum := 0
		for _, p := range parts {
			sum += p
		}
		if sum != limit {
			errs = append(errs, fmt.Errorf("%s: sub-check points sum to %d, max is %d", category, sum, limit))
		}
	}
	s, c, e, sec, st := t.Structure, t.Content, t.Efficiency, t.Security, t.Style
	check("structure", s.Max, s.Frontmatter.Points, s.Organization.Points, s.ProgressiveDisclosure.Points, s.ReferenceNaming.Points)
	check("content", c.Max, c.Description.Points, c.Triggers.Points, c.WritingStyle.Points, c.InlineExamples.Points)
	check("efficiency", e.Max, e.LineCount.Points, e.TokenEstimate.Points, e.Bloat.Points)
	check("security", sec.Max, sec.Secrets.Points, sec.DangerousPatterns.Points, sec.InputValidation.Points)
	check("style", st.Max, st.Imperative.Points, st.SentenceLength.Points, st.Headers.Points)

	for name, g := range map[string]Graded{
		"content.description":       c.Description.Graded,
		"efficiency.line_count":     e.LineCount,
		"efficiency.token_estimate": e.TokenEstimate.Graded,
		"style.imperative":          st.Imperative.Graded,
		"style.sentence_length":     st.SentenceLength,
	} {
		for _, tier := range g.Tiers {
			if tier.Points > g.Points {
				errs = append(errs, fmt.Errorf("%s: tier awards %d points, sub-check max is %d", name, tier.Points, g.Points))
			}
		}
	}

	total := s.Max + c.Max + e.Max + sec.Max + st.Max
	if total != TotalPoints {
		errs = append(errs, fmt.Errorf("category maxima sum to %d, must be %d", total, TotalPoints))
	}
	return errors.Join(errs...)
}

func formatIssue(template string, v any) string {
	if template == "" || !strings.Contains(template, "{value}") {
		return template
	}
	var s string
	switch x := v.(type) {
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	default:
		s = fmt.Sprint(x)
	}
	return strings.ReplaceAll(template, "{value}", s)
}
