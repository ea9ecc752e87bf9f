package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/examgrid/examgrid-server/internal/auth/middleware"
	"github.com/examgrid/examgrid-server/internal/exam"
	"github.com/examgrid/examgrid-server/internal/grading"
	"github.com/examgrid/examgrid-server/internal/rbac"
)

// POST /exams/{examID}/attempts — eligibility gate, then create. The
// unique (exam,user) index backs the gate up under concurrent starts.
func CreateAttemptHandler(store exam.Store, gate *exam.EligibilityGate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := chi.URLParam(r, "examID")
		ex, err := store.GetExamFull(r.Context(), examID)
		if err != nil {
			if errors.Is(err, exam.ErrExamNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		user, err := requestUser(r, store)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		ok, reason, err := gate.Check(r.Context(), user, ex)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, reason, http.StatusForbidden)
			return
		}
		a, err := store.CreateAttempt(r.Context(), examID, user.ID)
		if err != nil {
			if errors.Is(err, exam.ErrAlreadyAttempted) {
				// lost the race after the gate's check
				http.Error(w, exam.ReasonAlreadyAttempted, http.StatusConflict)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(a)
	}
}

// GET /attempts/{attemptID}
func GetAttemptHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownAttempt(w, r, store)
		if !ok {
			return
		}
		_ = json.NewEncoder(w).Encode(a)
	}
}

// POST /attempts/{attemptID}/answers  { "questionID": <payload>, ... }
// Accepted while the attempt is in progress and the universal deadline
// has not passed.
func SaveAnswersHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownAttempt(w, r, store)
		if !ok {
			return
		}
		if a.Status == exam.AttemptSubmitted {
			http.Error(w, exam.ErrAttemptSubmitted.Error(), http.StatusConflict)
			return
		}
		ex, err := store.GetExamFull(r.Context(), a.ExamID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if exam.RemainingSeconds(ex, nowUTC()) == 0 {
			http.Error(w, exam.ReasonEnded, http.StatusForbidden)
			return
		}
		var values map[string]grading.Response
		if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.SaveAnswers(r.Context(), a.ID, values); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /attempts/{attemptID}/submit — mark submitted and evaluate.
func SubmitAttemptHandler(store exam.Store, evaluator *exam.Evaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownAttempt(w, r, store)
		if !ok {
			return
		}
		if _, err := store.SubmitAttempt(r.Context(), a.ID, nowUTC()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		res, err := evaluator.Evaluate(r.Context(), a.ID)
		if err != nil {
			http.Error(w, "evaluate: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

// GET /attempts/{attemptID}/time — seconds until the shared deadline.
func TimeRemainingHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownAttempt(w, r, store)
		if !ok {
			return
		}
		ex, err := store.GetExamFull(r.Context(), a.ExamID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"end_time":          exam.AttemptEndTime(ex),
			"remaining_seconds": exam.RemainingSeconds(ex, nowUTC()),
		})
	}
}

// ownAttempt loads the attempt and enforces owner-or-staff access.
func ownAttempt(w http.ResponseWriter, r *http.Request, store exam.Store) (exam.Attempt, bool) {
	id := chi.URLParam(r, "attemptID")
	a, err := store.GetAttempt(r.Context(), id)
	if err != nil {
		if errors.Is(err, exam.ErrAttemptNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return exam.Attempt{}, false
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return exam.Attempt{}, false
	}
	sub := authmw.SubjectFromContext(r.Context())
	role := rbac.RoleFromContext(r.Context())
	if a.UserID != sub && !rbac.Has(role, "attempt:view-all") {
		http.Error(w, "forbidden", http.StatusForbidden)
		return exam.Attempt{}, false
	}
	return a, true
}
