package rbac_test

import (
	"testing"

	"github.com/examgrid/examgrid-server/internal/rbac"
)

func TestCheckerHas(t *testing.T) {
	c := rbac.NewChecker(map[string][]string{
		"student": {"exam:view", "attempt:create"},
		"staff":   {"exam:*", "attempt:grade"},
		"admin":   {"*"},
	})

	tests := []struct {
		role, perm string
		want       bool
	}{
		{"student", "exam:view", true},
		{"student", "exam:create", false},
		{"student", "attempt:grade", false},
		{"staff", "exam:create", true},
		{"staff", "exam:view", true},
		{"staff", "users:list", false},
		{"admin", "anything:at-all", true},
		{"unknown-role", "exam:view", false},
		{"", "exam:view", false},
	}
	for _, tc := range tests {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}

	if !c.Any("student", "attempt:view-all", "exam:view") {
		t.Error("Any must pass when one permission matches")
	}
	if c.Any("student", "attempt:view-all", "users:list") {
		t.Error("Any must fail when none match")
	}
}
