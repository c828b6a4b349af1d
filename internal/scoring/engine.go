package scoring

//go:generate go tool mockgen -destination analyzer_mock_test.go -package scoring github.com/spboyer/skillscore/internal/checks Analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/spboyer/skillscore/internal/checks"
	"github.com/spboyer/skillscore/internal/rules"
	"github.com/spboyer/skillscore/internal/skill"
)

// Engine runs a set of analyzers against an artifact.
type Engine struct {
	Analyzers []checks.Analyzer
}

// NewEngine returns an engine with the default analyzers configured from t.
func NewEngine(t *rules.Table) *Engine {
	return &Engine{Analyzers: checks.DefaultAnalyzers(t)}
}

// Score evaluates every analyzer concurrently and aggregates the results.
// Each analyzer writes only its own slot, and Aggregate restores declaration
// order, so the result does not depend on scheduling.
func (e *Engine) Score(ctx context.Context, art *skill.Artifact) (*OverallResult, error) {
	if art == nil {
		return nil, fmt.Errorf("scoring: artifact is nil")
	}
	results := make([]checks.CategoryResult, len(e.Analyzers))

	g, ctx := errgroup.WithContext(ctx)
	for i, a := range e.Analyzers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := a.Evaluate(art)
			if res.Name != a.Name() {
				return fmt.Errorf("analyzer %q returned result for %q", a.Name(), res.Name)
			}
			if res.Score < 0 || res.Score > res.Max {
				return fmt.Errorf("analyzer %q scored %d outside 0..%d", a.Name(), res.Score, res.Max)
			}
			results[i] = res
			slog.Debug("Scored category", "category", res.Name, "score", res.Score, "max", res.Max, "issues", len(res.Issues))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overall := Aggregate(results)
	slog.Debug("Scored skill", "skill", art.Name, "score", overall.Score, "grade", overall.Grade)
	return overall, nil
}

// ScoreDir loads the skill at dir with the table's scan patterns and scores it.
func ScoreDir(ctx context.Context, dir string, t *rules.Table) (*OverallResult, *skill.Artifact, error) {
	art, err := skill.Load(dir, t.Patterns())
	if err != nil {
		return nil, nil, err
	}
	res, err := NewEngine(t).Score(ctx, art)
	if err != nil {
		return nil, art, err
	}
	return res, art, nil
}
