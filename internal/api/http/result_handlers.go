package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/examgrid/examgrid-server/internal/auth/middleware"
	"github.com/examgrid/examgrid-server/internal/exam"
	"github.com/examgrid/examgrid-server/internal/rbac"
)

// GET /attempts/{attemptID}/result
func GetResultHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attemptID := chi.URLParam(r, "attemptID")
		res, err := store.GetResult(r.Context(), attemptID)
		if err != nil {
			if errors.Is(err, exam.ErrResultNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		sub := authmw.SubjectFromContext(r.Context())
		role := rbac.RoleFromContext(r.Context())
		if res.UserID != sub && !rbac.Has(role, "result:view-all") {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

// GET /exams/{examID}/results — staff listing.
func ListExamResultsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := chi.URLParam(r, "examID")
		out, err := store.ListResults(r.Context(), examID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}
