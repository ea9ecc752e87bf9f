package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/examgrid/examgrid-server/internal/api/http"
	auth "github.com/examgrid/examgrid-server/internal/auth/middleware"
	"github.com/examgrid/examgrid-server/internal/bootstrap"
	"github.com/examgrid/examgrid-server/internal/coderunner"
	"github.com/examgrid/examgrid-server/internal/config"
	"github.com/examgrid/examgrid-server/internal/db"
	"github.com/examgrid/examgrid-server/internal/exam"
	"github.com/examgrid/examgrid-server/internal/grading"
	"github.com/examgrid/examgrid-server/internal/rbac"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	// Explicit deployment-time seeding, not an import side effect.
	created, err := bootstrap.EnsureDefaultAdmin(ctx, dbh, cfg.AdminUser, cfg.AdminPass, cfg.AdminRole)
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	if created {
		log.Printf("default admin %q created", cfg.AdminUser)
	}

	store := exam.NewSQLStore(dbh, cfg.DBDriver)
	gate := exam.NewEligibilityGate(store)
	evaluator := exam.NewEvaluator(store, grading.NewDefaultGrader())
	runner := coderunner.Unconfigured{}

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, true))

		pr.With(rbac.Require("exam:create")).
			Post("/exams", api.PutExamHandler(store))
		pr.With(rbac.Require("exam:view")).
			Get("/exams/{examID}", api.GetExamHandler(store))
		pr.With(rbac.Require("attempt:create")).
			Get("/exams/{examID}/eligibility", api.GetEligibilityHandler(store, gate))
		pr.With(rbac.Require("result:view-all")).
			Get("/exams/{examID}/results", api.ListExamResultsHandler(store))

		// Student flow
		pr.With(rbac.Require("attempt:create")).
			Post("/exams/{examID}/attempts", api.CreateAttemptHandler(store, gate))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}", api.GetAttemptHandler(store))
		pr.With(rbac.Require("attempt:save")).
			Post("/attempts/{attemptID}/answers", api.SaveAnswersHandler(store))
		pr.With(rbac.Require("attempt:submit")).
			Post("/attempts/{attemptID}/submit", api.SubmitAttemptHandler(store, evaluator))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}/time", api.TimeRemainingHandler(store))
		pr.With(rbac.RequireAny("result:view-own", "result:view-all")).
			Get("/attempts/{attemptID}/result", api.GetResultHandler(store))

		// Manual grading (staff)
		pr.With(rbac.Require("attempt:grade")).
			Get("/attempts/{attemptID}/answers", api.GetAttemptAnswersHandler(store))
		pr.With(rbac.Require("attempt:grade")).
			Post("/attempts/{attemptID}/grades", api.ApplyGradesHandler(store, evaluator))

		// Code execution (stub backend until one is configured)
		pr.With(rbac.Require("attempt:save")).
			Post("/code/run", api.RunCodeHandler(runner))

		// Users (staff/admin)
		pr.With(rbac.Require("users:bulk_upsert")).
			Post("/users/bulk", api.BulkUpsertUsersHandler(dbh))
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
		pr.With(rbac.Require("user:change_password")).
			Post("/users/change-password", api.ChangePasswordHandler(dbh))
	})

	log.Printf("examgrid listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal(err)
	}
}
