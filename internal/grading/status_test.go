package grading_test

import (
	"testing"

	"github.com/examgrid/examgrid-server/internal/grading"
)

func TestResolveStatus(t *testing.T) {
	tests := []struct {
		name    string
		answers []grading.AnswerState
		want    grading.Status
	}{
		{name: "no answers", answers: nil, want: grading.StatusFullyGraded},
		{
			name: "only auto-graded answers",
			answers: []grading.AnswerState{
				{Type: grading.TypeMCQ, Graded: true},
				{Type: grading.TypeMultipleMCQ, Graded: true},
			},
			want: grading.StatusFullyGraded,
		},
		{
			name: "one manual answer ungraded",
			answers: []grading.AnswerState{
				{Type: grading.TypeDescriptive},
			},
			want: grading.StatusPending,
		},
		{
			name: "one manual answer graded",
			answers: []grading.AnswerState{
				{Type: grading.TypeDescriptive, Graded: true},
			},
			want: grading.StatusFullyGraded,
		},
		{
			name: "two manual answers, one graded",
			answers: []grading.AnswerState{
				{Type: grading.TypeDescriptive, Graded: true},
				{Type: grading.TypeCoding},
			},
			want: grading.StatusPartiallyGraded,
		},
		{
			name: "mixed exam, manual part ungraded",
			answers: []grading.AnswerState{
				{Type: grading.TypeMCQ, Graded: true},
				{Type: grading.TypeDescriptive},
			},
			want: grading.StatusPending,
		},
		{
			name: "mixed exam, ungraded auto answer does not count",
			answers: []grading.AnswerState{
				{Type: grading.TypeMCQ},
				{Type: grading.TypeCoding, Graded: true},
			},
			want: grading.StatusFullyGraded,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := grading.ResolveStatus(tc.answers); got != tc.want {
				t.Fatalf("ResolveStatus = %s, want %s", got, tc.want)
			}
		})
	}
}
