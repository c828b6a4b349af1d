package reporting

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/spboyer/skillscore/internal/checks"
	"github.com/spboyer/skillscore/internal/scoring"
	"github.com/spboyer/skillscore/internal/skill"
	"github.com/spboyer/skillscore/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResult() *scoring.OverallResult {
	return scoring.Aggregate([]checks.CategoryResult{
		{Name: checks.CategoryStructure, Score: 15, Max: 20, Issues: []string{"YAML frontmatter invalid or missing"}},
		{Name: checks.CategoryContent, Score: 20, Max: 30, Issues: []string{"Trigger conditions unclear", "Examples missing or in separate section"}},
		{Name: checks.CategoryEfficiency, Score: 20, Max: 20},
		{Name: checks.CategorySecurity, Score: 10, Max: 15, Issues: []string{"Input validation missing or weak"}},
		{Name: checks.CategoryStyle, Score: 13, Max: 15, Issues: []string{"Sentences could be more concise"}},
	})
}

func newTestReport() *Report {
	return NewReport("/skills/pdf-tools", "pdf-tools", newTestResult())
}

func TestNewReport(t *testing.T) {
	r := newTestReport()

	assert.Equal(t, StatusSuccess, r.Status)
	assert.Equal(t, "pdf-tools", r.SkillName)
	assert.Equal(t, 78, r.Overall.Score)
	assert.Equal(t, 100, r.Overall.Max)
	assert.InDelta(t, 78.0, r.Overall.Percentage, 1e-9)
	assert.Equal(t, "C", r.Overall.Grade)
	assert.Equal(t, "C (Fair)", r.Overall.GradeLabel)
	assert.Len(t, r.Recommendations, 5)
	assert.Equal(t, "Structure: YAML frontmatter invalid or missing", r.Recommendations[0])

	style, ok := r.Categories.Get(checks.CategoryStyle)
	require.True(t, ok)
	assert.InDelta(t, 86.67, style.Percentage, 1e-9)

	eff, ok := r.Categories.Get(checks.CategoryEfficiency)
	require.True(t, ok)
	assert.NotNil(t, eff.Issues)
	assert.Empty(t, eff.Issues)

	assert.True(t, r.Passed(scoring.GradeC))
	assert.False(t, r.Passed(scoring.GradeB))
}

func TestReport_JSONShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, newTestReport()))

	assert.Empty(t, validation.ValidateReportBytes(buf.Bytes()))

	out := buf.String()
	// categories keep declaration order
	var last int
	for _, name := range checks.CategoryOrder() {
		idx := bytes.Index(buf.Bytes(), []byte(fmt.Sprintf("%q: {", name)))
		require.Greater(t, idx, last, "category %s out of order", name)
		last = idx
	}
	assert.Contains(t, out, `"percentage": 86.67`)
	assert.Contains(t, out, `"issues": []`)
	assert.Contains(t, out, `"grade": "C"`)
	assert.Contains(t, out, `"grade_label": "C (Fair)"`)
}

func TestReport_JSONRoundTrip(t *testing.T) {
	want := newTestReport()
	data, err := json.Marshal(want)
	require.NoError(t, err)

	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, want, &got)
}

func TestCategories_UnmarshalRejectsNonObject(t *testing.T) {
	var cs Categories
	require.Error(t, json.Unmarshal([]byte(`[1,2]`), &cs))
}

func TestNewReport_EmptyRecommendationsAreArray(t *testing.T) {
	res := scoring.Aggregate([]checks.CategoryResult{{Name: checks.CategoryStyle, Score: 15, Max: 15}})
	data, err := json.Marshal(NewReport("p", "n", res))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"recommendations":[]`)
}

func TestNewErrorReport(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType string
		wantHelp string
	}{
		{
			name:     "not found",
			err:      &skill.NotFoundError{Path: "/x", Reason: "SKILL.md not found"},
			wantType: ErrorTypeNotFound,
			wantHelp: "Ensure skill directory exists and contains SKILL.md",
		},
		{
			name:     "wrapped not found",
			err:      fmt.Errorf("loading: %w", &skill.NotFoundError{Path: "/x", Reason: "skill directory not found"}),
			wantType: ErrorTypeNotFound,
			wantHelp: "Ensure skill directory exists and contains SKILL.md",
		},
		{
			name:     "unexpected",
			err:      errors.New("reading SKILL.md: permission denied"),
			wantType: ErrorTypeUnexpected,
			wantHelp: "Check skill structure and permissions",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewErrorReport(tt.err)
			assert.Equal(t, StatusError, r.Status)
			assert.Equal(t, tt.wantType, r.ErrorType)
			assert.Equal(t, tt.wantHelp, r.Help)
			assert.Equal(t, tt.err.Error(), r.Message)

			var buf bytes.Buffer
			require.NoError(t, WriteJSON(&buf, r))
			assert.Empty(t, validation.ValidateReportBytes(buf.Bytes()))
		})
	}
}
