package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/examgrid/examgrid-server/internal/exam"
)

type applyGradesReq struct {
	// question_id -> awarded points for descriptive/coding answers
	Scores map[string]decimal.Decimal `json:"scores"`
}

// GET /attempts/{attemptID}/answers — the grader's view: answers with
// their questions' prompts and current scores.
func GetAttemptAnswersHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attemptID := strings.TrimSpace(chi.URLParam(r, "attemptID"))
		if attemptID == "" {
			http.Error(w, "attemptID required", http.StatusBadRequest)
			return
		}
		answers, err := store.ListAnswers(r.Context(), attemptID)
		if err != nil {
			http.Error(w, "answers: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(answers)
	}
}

// POST /attempts/{attemptID}/grades — record manual scores for
// descriptive/coding answers, then re-evaluate the attempt. Objective
// answers are rejected: their scores belong to the auto-grader.
func ApplyGradesHandler(store exam.Store, evaluator *exam.Evaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attemptID := strings.TrimSpace(chi.URLParam(r, "attemptID"))
		if attemptID == "" {
			http.Error(w, "attemptID required", http.StatusBadRequest)
			return
		}
		var req applyGradesReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		a, err := store.GetAttempt(r.Context(), attemptID)
		if err != nil {
			if errors.Is(err, exam.ErrAttemptNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		ex, err := store.GetExamFull(r.Context(), a.ExamID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		byID := map[string]exam.Question{}
		for _, q := range ex.Questions {
			byID[q.ID] = q
		}
		for qid, points := range req.Scores {
			q, ok := byID[qid]
			if !ok {
				http.Error(w, "unknown question: "+qid, http.StatusBadRequest)
				return
			}
			if !q.Type.ManualGraded() {
				http.Error(w, "question "+qid+" is auto-graded", http.StatusBadRequest)
				return
			}
			if points.IsNegative() || points.GreaterThan(q.Points) {
				http.Error(w, "score for "+qid+" out of range", http.StatusBadRequest)
				return
			}
			score := decimal.NullDecimal{Decimal: points, Valid: true}
			if err := store.SaveAnswerScore(r.Context(), attemptID, qid, score); err != nil {
				http.Error(w, "save score: "+err.Error(), http.StatusInternalServerError)
				return
			}
		}
		res, err := evaluator.Evaluate(r.Context(), attemptID)
		if err != nil {
			http.Error(w, "evaluate: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}
