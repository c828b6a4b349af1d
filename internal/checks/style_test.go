package checks

import (
	"strings"
	"testing"

	"github.com/spboyer/skillscore/internal/rules"
	"github.com/stretchr/testify/assert"
)

func TestImperativeRatio(t *testing.T) {
	r := rules.Default().Style.Imperative
	tests := []struct {
		name    string
		content string
		want    float64
	}{
		{"no sentences", "", 0},
		{"two of three", "Use the tool.\nRun it now please.\nThe sky is blue today.\n", 2.0 / 3},
		{"verb within first three words", "Then always run the tests.\n", 1},
		{"verb after third word", "The tests should run daily.\n", 0},
		{"markdown stripped", "- **Validate** the `input` file.\n", 1},
		{"frontmatter ignored", "---\nname: Use this skill.\n---\nThe weather is nice.\n", 0},
		{"prefix match", "Updates happen nightly here.\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ImperativeRatio(tt.content, r), 1e-9)
		})
	}
}

func TestAverageSentenceLength(t *testing.T) {
	assert.InDelta(t, 5.0, AverageSentenceLength("One two three four five. Six seven eight nine ten."), 1e-9)
	assert.Zero(t, AverageSentenceLength("Hi there. Okay."))
	assert.Zero(t, AverageSentenceLength("```\nThis code block is long enough to count.\n```"))
}

func TestIsDescriptiveHeader(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"Getting Started Quickly", true},
		{"Setup-Steps", true},
		{"env_vars", true},
		{"API", true},
		{"Usage", false},
		{"notes", false},
		{"Two Words", true},
		{"two words", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, isDescriptiveHeader(tt.header, 3))
		})
	}
}

func TestStyleAnalyzer(t *testing.T) {
	a := &StyleAnalyzer{Rules: rules.Default().Style}

	t.Run("full marks", func(t *testing.T) {
		doc := "## Getting Started Quickly\nRun the installer first.\nUse the default config.\n## Setup-Steps\nCheck the output files.\n"
		res := a.Evaluate(artifact(doc))
		assert.Equal(t, 15, res.Score)
		assert.Empty(t, res.Issues)
	})

	t.Run("partial imperative", func(t *testing.T) {
		doc := "Run the installer first.\nThe config is optional.\nThe output is stored.\nUse the defaults here.\nThe end is near now.\n## Getting Started Quickly\n"
		res := a.Evaluate(artifact(doc))
		assert.Equal(t, 13, res.Score)
		assert.Equal(t, []string{"More imperative voice recommended"}, res.Issues)
	})

	t.Run("no headers and passive", func(t *testing.T) {
		res := a.Evaluate(artifact("The tool is used by people.\n"))
		assert.Equal(t, 5, res.Score)
		assert.Equal(t, []string{"Not using imperative voice", "Headers not descriptive enough"}, res.Issues)
	})

	t.Run("verbose sentences", func(t *testing.T) {
		long := strings.Repeat("word ", 60) + "end."
		res := a.Evaluate(artifact("Run " + long + "\nUse " + long + "\n## Getting Started Quickly\n"))
		assert.Equal(t, []string{"Sentences too verbose"}, res.Issues)
		assert.Equal(t, 10, res.Score)
	})

	t.Run("wordy sentences", func(t *testing.T) {
		medium := strings.Repeat("word ", 35) + "end."
		res := a.Evaluate(artifact("Run " + medium + "\nUse " + medium + "\n## Getting Started Quickly\n"))
		assert.Equal(t, []string{"Sentences could be more concise"}, res.Issues)
		assert.Equal(t, 13, res.Score)
	})
}
