package grading_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/examgrid/examgrid-server/internal/grading"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestGradeMCQ(t *testing.T) {
	q := grading.Q{
		Type:   grading.TypeMCQ,
		Points: dec("60"),
		Options: []grading.Option{
			{ID: "opt-1", Text: "wrong"},
			{ID: "opt-2", Text: "right", IsCorrect: true},
			{ID: "opt-3", Text: "wrong"},
		},
	}
	g := grading.NewDefaultGrader()

	tests := []struct {
		name string
		resp grading.Response
		want string
	}{
		{name: "correct option", resp: grading.SingleResponse("opt-2"), want: "60"},
		{name: "wrong option", resp: grading.SingleResponse("opt-1"), want: "0"},
		{name: "unknown option", resp: grading.SingleResponse("nope"), want: "0"},
		{name: "empty response", resp: grading.Response{}, want: "0"},
		{name: "collection payload is malformed for mcq", resp: grading.MultiResponse("opt-2"), want: "0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := g.Grade(context.Background(), q, tc.resp)
			if err != nil {
				t.Fatalf("Grade: %v", err)
			}
			if !res.AutoPoints.Equal(dec(tc.want)) {
				t.Fatalf("AutoPoints = %s, want %s", res.AutoPoints, tc.want)
			}
			if res.NeedsManual {
				t.Fatal("mcq must not need manual grading")
			}
		})
	}
}

func TestGradeMCQNumericIDs(t *testing.T) {
	// Submission channels sometimes send option IDs as numbers; the
	// comparison stays a string compare either way.
	q := grading.Q{
		Type:    grading.TypeMCQ,
		Points:  dec("5"),
		Options: []grading.Option{{ID: "2", IsCorrect: true}, {ID: "3"}},
	}
	res, err := grading.NewDefaultGrader().Grade(context.Background(), q, grading.SingleResponse("2"))
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if !res.AutoPoints.Equal(dec("5")) {
		t.Fatalf("AutoPoints = %s, want 5", res.AutoPoints)
	}
}

func TestGradeMultipleMCQ(t *testing.T) {
	q := grading.Q{
		Type:           grading.TypeMultipleMCQ,
		Points:         dec("4"),
		CorrectAnswers: []string{"a", "d"},
	}
	g := grading.NewDefaultGrader()

	tests := []struct {
		name string
		resp grading.Response
		want string
	}{
		{name: "exact set any order", resp: grading.MultiResponse("d", "a"), want: "4"},
		{name: "strict subset", resp: grading.MultiResponse("a"), want: "0"},
		{name: "strict superset", resp: grading.MultiResponse("a", "d", "b"), want: "0"},
		{name: "disjoint", resp: grading.MultiResponse("b", "c"), want: "0"},
		{name: "empty", resp: grading.MultiResponse(), want: "0"},
		{name: "duplicates collapse to the set", resp: grading.MultiResponse("a", "a", "d"), want: "4"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := g.Grade(context.Background(), q, tc.resp)
			if err != nil {
				t.Fatalf("Grade: %v", err)
			}
			if !res.AutoPoints.Equal(dec(tc.want)) {
				t.Fatalf("AutoPoints = %s, want %s", res.AutoPoints, tc.want)
			}
		})
	}
}

func TestGradeMultipleMCQScalarSubmission(t *testing.T) {
	// A lone scalar counts as a one-element set.
	q := grading.Q{
		Type:           grading.TypeMultipleMCQ,
		Points:         dec("2"),
		CorrectAnswers: []string{"x"},
	}
	res, err := grading.NewDefaultGrader().Grade(context.Background(), q, grading.SingleResponse("x"))
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if !res.AutoPoints.Equal(dec("2")) {
		t.Fatalf("AutoPoints = %s, want 2", res.AutoPoints)
	}
}

func TestGradeMultipleMCQNoCorrectAnswers(t *testing.T) {
	q := grading.Q{Type: grading.TypeMultipleMCQ, Points: dec("3")}
	res, err := grading.NewDefaultGrader().Grade(context.Background(), q, grading.MultiResponse())
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if !res.AutoPoints.IsZero() {
		t.Fatalf("AutoPoints = %s, want 0", res.AutoPoints)
	}
}

func TestGradeManualTypes(t *testing.T) {
	g := grading.NewDefaultGrader()
	for _, typ := range []grading.QuestionType{grading.TypeDescriptive, grading.TypeCoding} {
		q := grading.Q{Type: typ, Points: dec("10")}
		res, err := g.Grade(context.Background(), q, grading.SingleResponse("some long answer"))
		if err != nil {
			t.Fatalf("Grade(%s): %v", typ, err)
		}
		if !res.NeedsManual {
			t.Fatalf("%s must need manual grading", typ)
		}
		if !res.AutoPoints.IsZero() {
			t.Fatalf("%s AutoPoints = %s, want 0", typ, res.AutoPoints)
		}
	}
}
