package http

import (
	"encoding/json"
	"net/http"

	"github.com/examgrid/examgrid-server/internal/coderunner"
)

type runCodeReq struct {
	Code      string                `json:"code"`
	Language  string                `json:"language"`
	TestCases []coderunner.TestCase `json:"test_cases"`
}

// POST /code/run — execute submitted code against test cases. With the
// stub runner every case comes back failed with a "not configured"
// error, which the exam UI surfaces per test case.
func RunCodeHandler(runner coderunner.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req runCodeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		results, err := runner.Run(r.Context(), req.Code, req.Language, req.TestCases)
		if err != nil {
			http.Error(w, "run: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(results)
	}
}
