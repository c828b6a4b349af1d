package checks

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spboyer/skillscore/internal/skill"
)

// minSentenceRunes is the length a fragment must exceed to count as a sentence.
const minSentenceRunes = 10

var (
	codeFencePattern     = regexp.MustCompile("(?s)```.*?```")
	h2Pattern            = regexp.MustCompile(`(?m)^##\s+(.+)$`)
	examplesHeader       = regexp.MustCompile(`(?m)^##\s+Examples?\s*$`)
	listMarkerPattern    = regexp.MustCompile(`(?m)^[\-\*]\s`)
	lineSentenceBreak    = regexp.MustCompile(`[.!?]\n`)
	proseSentenceBreak   = regexp.MustCompile(`[.!?]\s+`)
	boldPattern          = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicPattern        = regexp.MustCompile(`\*([^*]+)\*`)
	inlineCodePattern    = regexp.MustCompile("`([^`]+)`")
	linkPattern          = regexp.MustCompile(`\[([^\]]+)\]\([^\)]+\)`)
	leadingBulletPattern = regexp.MustCompile(`^[\-\*\+]\s+`)
)

// LineSentences segments the document into line-terminated sentences: the
// frontmatter and fenced code are removed, then text is split wherever
// terminal punctuation is immediately followed by a newline. This suits
// list-heavy instructional text.
func LineSentences(content string) []string {
	body := skill.ParseFrontmatter(content).Body
	body = codeFencePattern.ReplaceAllString(body, "")
	return keepSentences(lineSentenceBreak.Split(body, -1))
}

// ProseSentences segments the document on terminal punctuation followed by
// any whitespace, after removing fenced code only. It measures prose rhythm
// and deliberately differs from LineSentences.
func ProseSentences(content string) []string {
	body := codeFencePattern.ReplaceAllString(content, "")
	return keepSentences(proseSentenceBreak.Split(body, -1))
}

func keepSentences(parts []string) []string {
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) > minSentenceRunes {
			out = append(out, p)
		}
	}
	return out
}

// stripMarkdown removes emphasis, inline code, links and a leading list marker.
func stripMarkdown(s string) string {
	s = boldPattern.ReplaceAllString(s, "$1")
	s = italicPattern.ReplaceAllString(s, "$1")
	s = inlineCodePattern.ReplaceAllString(s, "$1")
	s = linkPattern.ReplaceAllString(s, "$1")
	s = leadingBulletPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Headers returns the text of every level-2 header.
func Headers(content string) []string {
	matches := h2Pattern.FindAllStringSubmatch(content, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// prefix returns the first n characters of s.
func prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func countAll(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		n += strings.Count(text, t)
	}
	return n
}
