package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authmw "github.com/examgrid/examgrid-server/internal/auth/middleware"
	"github.com/examgrid/examgrid-server/internal/exam"
	"github.com/examgrid/examgrid-server/internal/rbac"
)

// POST /exams — create or update an exam definition (staff).
func PutExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e exam.Exam
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := e.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.PutExam(r.Context(), e); err != nil {
			http.Error(w, "save exam: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": e.ID})
	}
}

// GET /exams/{examID} — student-safe view (answer keys stripped).
// Staff with exam:create get the full definition back.
func GetExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "examID")
		role := rbac.RoleFromContext(r.Context())
		var (
			e   exam.Exam
			err error
		)
		if rbac.Has(role, "exam:create") {
			e, err = store.GetExamFull(r.Context(), id)
		} else {
			e, err = store.GetExam(r.Context(), id)
		}
		if err != nil {
			if errors.Is(err, exam.ErrExamNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(e)
	}
}

// GET /exams/{examID}/eligibility — the gate's verdict for the caller,
// without creating anything.
func GetEligibilityHandler(store exam.Store, gate *exam.EligibilityGate) http.HandlerFunc {
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
		_ = json.NewEncoder(w).Encode(map[string]any{"eligible": ok, "reason": reason})
	}
}

// requestUser resolves the authenticated user, preferring the users
// table and falling back to token claims for dev tokens without a row.
func requestUser(r *http.Request, store exam.Store) (exam.User, error) {
	sub := authmw.SubjectFromContext(r.Context())
	if sub == "" {
		return exam.User{}, errors.New("unauthorized")
	}
	u, err := store.GetUser(r.Context(), sub)
	if errors.Is(err, exam.ErrUserNotFound) {
		return exam.User{
			ID:         sub,
			Role:       rbac.RoleFromContext(r.Context()),
			Department: authmw.DepartmentFromContext(r.Context()),
		}, nil
	}
	if err != nil {
		return exam.User{}, err
	}
	return u, nil
}

func nowUTC() time.Time { return time.Now().UTC() }
