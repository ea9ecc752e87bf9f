package exam

import (
	"context"
	"fmt"
	"time"
)

// Eligibility reason strings are user-facing; keep the order of checks
// stable so scheduling problems surface before department or
// prior-attempt ones.
const (
	ReasonNotPublished     = "Exam is not published yet"
	ReasonNotStarted       = "Exam has not started yet"
	ReasonEnded            = "Exam has ended"
	ReasonDepartment       = "You are not allowed to attempt this exam"
	ReasonAlreadyAttempted = "You have already attempted this exam"
	ReasonEligible         = "Eligible to attempt"
)

// EligibilityGate decides, at attempt-creation time, whether a user may
// start an exam. Single-shot precondition check; the store's uniqueness
// constraint remains the authoritative guard for concurrent starts.
type EligibilityGate struct {
	store Store
	now   func() time.Time
}

func NewEligibilityGate(store Store) *EligibilityGate {
	return &EligibilityGate{store: store, now: time.Now}
}

// Check short-circuits on the first failing rule and returns its
// user-facing reason. Ineligibility is an expected outcome, not an
// error; the error return is for persistence failures only.
func (g *EligibilityGate) Check(ctx context.Context, user User, ex Exam) (bool, string, error) {
	now := g.now()

	if !ex.IsPublished {
		return false, ReasonNotPublished, nil
	}
	if now.Before(ex.StartTime) {
		return false, ReasonNotStarted, nil
	}
	if now.After(ex.EndTime) {
		return false, ReasonEnded, nil
	}
	if len(ex.AllowedDepartments) > 0 && !contains(ex.AllowedDepartments, user.Department) {
		return false, ReasonDepartment, nil
	}
	attempted, err := g.store.HasAttempted(ctx, ex.ID, user.ID)
	if err != nil {
		return false, "", fmt.Errorf("check prior attempt: %w", err)
	}
	if attempted {
		return false, ReasonAlreadyAttempted, nil
	}
	return true, ReasonEligible, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
