package tokens

import "unicode/utf8"

// DefaultCharsPerToken is the character-to-token ratio used when none is configured.
const DefaultCharsPerToken = 4

// Counter counts tokens in text.
type Counter interface {
	Count(text string) int
}

// EstimatingCounter approximates token count as characters divided by
// CharsPerToken, rounded down.
type EstimatingCounter struct {
	CharsPerToken int
}

func NewEstimatingCounter(charsPerToken int) *EstimatingCounter {
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	return &EstimatingCounter{CharsPerToken: charsPerToken}
}

func (c *EstimatingCounter) Count(text string) int {
	return utf8.RuneCountInString(text) / c.CharsPerToken
}
