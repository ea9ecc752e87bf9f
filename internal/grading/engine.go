package grading

import (
	"context"

	"github.com/shopspring/decimal"
)

// Result is the outcome of grading a single question response.
type Result struct {
	AutoPoints  decimal.Decimal // points awarded automatically
	MaxPoints   decimal.Decimal // the question's max points
	NeedsManual bool            // true if grader review is required
}

// Strategy grades a single question.
type Strategy interface {
	Grade(ctx context.Context, q Q, response Response) (Result, error)
}

// Grader routes by question type to the correct Strategy.
type Grader interface {
	Grade(ctx context.Context, q Q, response Response) (Result, error)
}

type defaultGrader struct {
	strategies map[QuestionType]Strategy
}

func (g *defaultGrader) Grade(ctx context.Context, q Q, response Response) (Result, error) {
	s, ok := g.strategies[q.Type]
	if !ok {
		// descriptive, coding, and anything unknown: zero auto points,
		// a human grader owns the score.
		return Result{MaxPoints: q.Points, NeedsManual: true}, nil
	}
	return s.Grade(ctx, q, response)
}

// NewDefaultGrader installs the built-in auto-scoring strategies.
// Only objective types get one; manual types fall through to the
// needs-manual result above.
func NewDefaultGrader() Grader {
	return &defaultGrader{
		strategies: map[QuestionType]Strategy{
			TypeMCQ:         mcqStrategy{},
			TypeMultipleMCQ: mcqMultiStrategy{},
		},
	}
}

// --- Strategies ---

type mcqStrategy struct{}

// Grade awards full points when the submitted option ID matches the
// option flagged correct, compared as strings. A collection payload is
// malformed for a single-choice question and scores zero.
func (mcqStrategy) Grade(_ context.Context, q Q, response Response) (Result, error) {
	res := Result{MaxPoints: q.Points}
	if response.Many {
		return res, nil
	}
	for _, opt := range q.Options {
		if opt.IsCorrect && opt.ID == response.Single {
			res.AutoPoints = q.Points
			return res, nil
		}
	}
	return res, nil
}

type mcqMultiStrategy struct{}

// Grade awards full points only on exact set equality between the
// submitted IDs and the correct-answer IDs. Subsets and supersets score
// zero; there is no partial credit. A single scalar submission counts
// as a one-element set.
func (mcqMultiStrategy) Grade(_ context.Context, q Q, response Response) (Result, error) {
	res := Result{MaxPoints: q.Points}
	correct := toSet(q.CorrectAnswers)
	if len(correct) == 0 {
		// authoring bug, never award points for it
		return res, nil
	}
	if setEqual(correct, toSet(response.Values())) {
		res.AutoPoints = q.Points
	}
	return res, nil
}

func toSet(arr []string) map[string]struct{} {
	m := make(map[string]struct{}, len(arr))
	for _, s := range arr {
		m[s] = struct{}{}
	}
	return m
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
