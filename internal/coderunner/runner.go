// Package coderunner defines the contract for executing submitted code
// against test cases. The execution backend itself is external; this
// package ships only the interface and a stub that reports an
// unconfigured backend per test case.
package coderunner

import "context"

type TestCase struct {
	ID             string `json:"id,omitempty"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

type TestResult struct {
	TestCase     TestCase `json:"test_case"`
	Passed       bool     `json:"passed"`
	ActualOutput string   `json:"actual_output"`
	Error        string   `json:"error,omitempty"`
}

// Runner executes code against test cases. Implementations must return
// exactly one TestResult per input test case, in order, and must report
// configuration problems inside each result rather than failing the
// whole call.
type Runner interface {
	Run(ctx context.Context, code, language string, cases []TestCase) ([]TestResult, error)
}

// Unconfigured is the stub Runner used until a real execution backend
// is wired in. Every test case fails with a fixed error message.
type Unconfigured struct{}

func (Unconfigured) Run(_ context.Context, _, _ string, cases []TestCase) ([]TestResult, error) {
	out := make([]TestResult, 0, len(cases))
	for _, tc := range cases {
		out = append(out, TestResult{
			TestCase:     tc,
			Passed:       false,
			ActualOutput: "",
			Error:        "Code execution service not configured",
		})
	}
	return out, nil
}
