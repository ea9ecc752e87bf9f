package coderunner_test

import (
	"context"
	"testing"

	"github.com/examgrid/examgrid-server/internal/coderunner"
)

func TestUnconfiguredRunner(t *testing.T) {
	cases := []coderunner.TestCase{
		{ID: "t1", Input: "1 2", ExpectedOutput: "3"},
		{ID: "t2", Input: "5 5", ExpectedOutput: "10"},
	}
	results, err := coderunner.Unconfigured{}.Run(context.Background(), "print(sum(map(int, input().split())))", "python", cases)
	if err != nil {
		t.Fatalf("Run must not fail on missing configuration: %v", err)
	}
	if len(results) != len(cases) {
		t.Fatalf("got %d results, want one per test case (%d)", len(results), len(cases))
	}
	for i, res := range results {
		if res.TestCase.ID != cases[i].ID {
			t.Fatalf("result %d for case %q, want %q", i, res.TestCase.ID, cases[i].ID)
		}
		if res.Passed {
			t.Fatalf("result %d passed without a backend", i)
		}
		if res.ActualOutput != "" {
			t.Fatalf("result %d output = %q, want empty", i, res.ActualOutput)
		}
		if res.Error == "" {
			t.Fatalf("result %d must report the unconfigured backend", i)
		}
	}
}

func TestUnconfiguredRunnerNoCases(t *testing.T) {
	results, err := coderunner.Unconfigured{}.Run(context.Background(), "", "go", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results, want 0", len(results))
	}
}
