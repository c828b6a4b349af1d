package checks

import (
	"strings"
	"unicode"

	"github.com/spboyer/skillscore/internal/rules"
	"github.com/spboyer/skillscore/internal/skill"
)

// StyleAnalyzer scores imperative voice, sentence length and header descriptiveness.
type StyleAnalyzer struct {
	Rules rules.Style
}

var _ Analyzer = (*StyleAnalyzer)(nil)

func (*StyleAnalyzer) Name() string { return CategoryStyle }

func (a *StyleAnalyzer) Max() int { return a.Rules.Max }

func (a *StyleAnalyzer) Evaluate(art *skill.Artifact) CategoryResult {
	r := a.Rules
	t := newTally(a.Name(), r.Max)

	ratio := ImperativeRatio(art.Content, r.Imperative)
	t.award(r.Imperative.Grade(ratio, ratio))

	avg := AverageSentenceLength(art.Content)
	t.award(r.SentenceLength.Grade(avg, avg))

	t.rule(headersDescriptive(Headers(art.Content), r.Headers), r.Headers.Rule, nil)

	return t.result()
}

// ImperativeRatio returns the share of LineSentences whose leading words start
// with an imperative verb.
func ImperativeRatio(content string, r rules.Imperative) float64 {
	sentences := LineSentences(content)
	if len(sentences) == 0 {
		return 0
	}
	imperative := 0
	for _, s := range sentences {
		clean := stripMarkdown(s)
		if clean == "" {
			continue
		}
		words := strings.Fields(strings.ToLower(clean))
		if len(words) > r.LeadingWords {
			words = words[:r.LeadingWords]
		}
		if startsWithVerb(words, r.Verbs) {
			imperative++
		}
	}
	return float64(imperative) / float64(len(sentences))
}

func startsWithVerb(words, verbs []string) bool {
	for _, w := range words {
		for _, v := range verbs {
			if strings.HasPrefix(w, v) {
				return true
			}
		}
	}
	return false
}

// AverageSentenceLength returns the mean word count of ProseSentences.
func AverageSentenceLength(content string) float64 {
	sentences := ProseSentences(content)
	if len(sentences) == 0 {
		return 0
	}
	words := 0
	for _, s := range sentences {
		words += len(strings.Fields(s))
	}
	return float64(words) / float64(len(sentences))
}

func headersDescriptive(headers []string, r rules.Headers) bool {
	if len(headers) == 0 {
		return false
	}
	descriptive := 0
	for _, h := range headers {
		if isDescriptiveHeader(strings.TrimSpace(h), r.MinWords) {
			descriptive++
		}
	}
	return float64(descriptive)/float64(len(headers)) >= r.MinRatio
}

// isDescriptiveHeader accepts headers with at least minWords words, or an
// uppercase letter after the first character, a hyphen or an underscore.
func isDescriptiveHeader(h string, minWords int) bool {
	if len(strings.Fields(h)) >= minWords {
		return true
	}
	if strings.ContainsAny(h, "-_") {
		return true
	}
	for i, r := range []rune(h) {
		if i > 0 && unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
