package exam

import (
	"context"
	"testing"
	"time"
)

func newTestGate(store Store, now time.Time) *EligibilityGate {
	g := NewEligibilityGate(store)
	g.now = func() time.Time { return now }
	return g
}

func TestEligibilityGate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	base := Exam{
		ID:           "exam-1",
		Title:        "Midterm",
		IsPublished:  true,
		StartTime:    now.Add(-time.Hour),
		EndTime:      now.Add(time.Hour),
		TotalMarks:   dec("100"),
		PassingMarks: dec("40"),
	}
	user := User{ID: "student-1", Department: "cse"}

	tests := []struct {
		name       string
		mutate     func(*Exam)
		user       User
		attempted  bool
		wantOK     bool
		wantReason string
	}{
		{
			name:       "eligible",
			user:       user,
			wantOK:     true,
			wantReason: ReasonEligible,
		},
		{
			name:       "unpublished wins over everything else",
			mutate:     func(e *Exam) { e.IsPublished = false; e.StartTime = now.Add(time.Hour) },
			user:       user,
			attempted:  true,
			wantReason: ReasonNotPublished,
		},
		{
			name:       "not started",
			mutate:     func(e *Exam) { e.StartTime = now.Add(time.Minute) },
			user:       user,
			wantReason: ReasonNotStarted,
		},
		{
			name:       "ended",
			mutate:     func(e *Exam) { e.StartTime = now.Add(-2 * time.Hour); e.EndTime = now.Add(-time.Hour) },
			user:       user,
			wantReason: ReasonEnded,
		},
		{
			name:       "department not allowed",
			mutate:     func(e *Exam) { e.AllowedDepartments = []string{"ece", "mech"} },
			user:       user,
			wantReason: ReasonDepartment,
		},
		{
			name:       "department allowed",
			mutate:     func(e *Exam) { e.AllowedDepartments = []string{"cse", "ece"} },
			user:       user,
			wantOK:     true,
			wantReason: ReasonEligible,
		},
		{
			name:       "empty department list is unrestricted",
			user:       User{ID: "student-2", Department: ""},
			wantOK:     true,
			wantReason: ReasonEligible,
		},
		{
			name:       "already attempted",
			user:       user,
			attempted:  true,
			wantReason: ReasonAlreadyAttempted,
		},
		{
			name:       "schedule failure wins over prior attempt",
			mutate:     func(e *Exam) { e.StartTime = now.Add(time.Minute) },
			user:       user,
			attempted:  true,
			wantReason: ReasonNotStarted,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store := NewInMemoryStore()
			ex := base
			if tc.mutate != nil {
				tc.mutate(&ex)
			}
			if err := store.PutExam(ctx, ex); err != nil {
				t.Fatal(err)
			}
			if tc.attempted {
				if _, err := store.CreateAttempt(ctx, ex.ID, tc.user.ID); err != nil {
					t.Fatal(err)
				}
			}

			ok, reason, err := newTestGate(store, now).Check(ctx, tc.user, ex)
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if ok != tc.wantOK {
				t.Fatalf("eligible = %v, want %v", ok, tc.wantOK)
			}
			if reason != tc.wantReason {
				t.Fatalf("reason = %q, want %q", reason, tc.wantReason)
			}
		})
	}
}

func TestEligibilityBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ex := Exam{
		ID:          "exam-1",
		IsPublished: true,
		StartTime:   now, // starts exactly now
		EndTime:     now, // and ends exactly now
	}
	store := NewInMemoryStore()
	if err := store.PutExam(context.Background(), ex); err != nil {
		t.Fatal(err)
	}
	ok, reason, err := newTestGate(store, now).Check(context.Background(), User{ID: "u1"}, ex)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("start and end boundaries are inclusive, got %q", reason)
	}
}
