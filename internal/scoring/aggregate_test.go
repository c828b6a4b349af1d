package scoring

import (
	"slices"
	"testing"

	"github.com/spboyer/skillscore/internal/checks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryByName(t *testing.T, res *OverallResult, name string) checks.CategoryResult {
	t.Helper()
	i := slices.IndexFunc(res.Categories, func(c checks.CategoryResult) bool { return c.Name == name })
	require.GreaterOrEqual(t, i, 0, "no %s category", name)
	return res.Categories[i]
}

func sampleResults() []checks.CategoryResult {
	return []checks.CategoryResult{
		{Name: checks.CategoryStructure, Score: 15, Max: 20, Issues: []string{"YAML frontmatter invalid or missing"}},
		{Name: checks.CategoryContent, Score: 30, Max: 30},
		{Name: checks.CategoryEfficiency, Score: 15, Max: 20, Issues: []string{"SKILL.md longer than ideal (612 lines)"}},
		{Name: checks.CategorySecurity, Score: 10, Max: 15, Issues: []string{"Hardcoded secrets detected"}},
		{Name: checks.CategoryStyle, Score: 15, Max: 15},
	}
}

func TestAggregate(t *testing.T) {
	res := Aggregate(sampleResults())

	assert.Equal(t, 85, res.Score)
	assert.Equal(t, 100, res.Max)
	assert.InDelta(t, 85.0, res.Percentage, 1e-9)
	assert.Equal(t, GradeB, res.Grade)
	assert.Equal(t, []string{
		"Structure: YAML frontmatter invalid or missing",
		"Efficiency: SKILL.md longer than ideal (612 lines)",
		"Security: Hardcoded secrets detected",
	}, res.Issues)
	require.Len(t, res.Categories, 5)

	assert.Equal(t, 10, categoryByName(t, res, checks.CategorySecurity).Score)
}

func TestAggregate_OrderIndependent(t *testing.T) {
	in := sampleResults()
	reversed := make([]checks.CategoryResult, 0, len(in))
	for i := len(in) - 1; i >= 0; i-- {
		reversed = append(reversed, in[i])
	}
	shuffled := []checks.CategoryResult{in[3], in[0], in[4], in[2], in[1]}

	want := Aggregate(in)
	assert.Equal(t, want, Aggregate(reversed))
	assert.Equal(t, want, Aggregate(shuffled))

	var names []string
	for _, c := range want.Categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, checks.CategoryOrder(), names)
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	in := []checks.CategoryResult{
		{Name: checks.CategoryStyle, Score: 1, Max: 15},
		{Name: checks.CategoryStructure, Score: 1, Max: 20},
	}
	Aggregate(in)
	assert.Equal(t, checks.CategoryStyle, in[0].Name)
}

func TestAggregate_UnknownCategoriesSortLast(t *testing.T) {
	res := Aggregate([]checks.CategoryResult{
		{Name: "zeta", Score: 1, Max: 1},
		{Name: "alpha", Score: 1, Max: 1, Issues: []string{"odd"}},
		{Name: checks.CategoryStyle, Score: 1, Max: 1},
	})
	var names []string
	for _, c := range res.Categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{checks.CategoryStyle, "alpha", "zeta"}, names)
	assert.Equal(t, []string{"Alpha: odd"}, res.Issues)
}

func TestAggregate_Empty(t *testing.T) {
	res := Aggregate(nil)
	assert.Zero(t, res.Score)
	assert.Zero(t, res.Percentage)
	assert.Equal(t, GradeF, res.Grade)
	assert.Empty(t, res.Issues)
}

func TestAggregate_GradeBoundaries(t *testing.T) {
	tests := []struct {
		score int
		grade Grade
		pass  bool
	}{
		{100, GradeA, true},
		{90, GradeA, true},
		{89, GradeB, true},
		{80, GradeB, true},
		{70, GradeC, true},
		{69, GradeD, false},
		{60, GradeD, false},
		{59, GradeF, false},
	}
	for _, tt := range tests {
		res := Aggregate([]checks.CategoryResult{{Name: checks.CategoryContent, Score: tt.score, Max: 100}})
		assert.Equal(t, tt.grade, res.Grade, "score %d", tt.score)
		assert.Equal(t, tt.pass, res.Passed(PassingGrade), "score %d", tt.score)
	}
}
