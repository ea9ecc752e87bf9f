package rbac

import (
	"context"
	"strings"
)

// Checker answers "may role do perm" for a fixed policy. Permission
// lists are compiled once into exact sets and prefix patterns, so Has
// is a map lookup on the hot path.
type Checker struct {
	exact    map[string]map[string]struct{} // role -> perm set
	prefixes map[string][]string            // role -> trailing-wildcard prefixes
}

func NewChecker(rp map[string][]string) *Checker {
	if rp == nil {
		rp = RolePermissions
	}
	c := &Checker{
		exact:    make(map[string]map[string]struct{}, len(rp)),
		prefixes: make(map[string][]string, len(rp)),
	}
	for role, perms := range rp {
		set := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			if strings.HasSuffix(p, "*") {
				// "" is the compiled form of the catch-all "*"
				c.prefixes[role] = append(c.prefixes[role], strings.TrimSuffix(p, "*"))
				continue
			}
			set[p] = struct{}{}
		}
		c.exact[role] = set
	}
	return c
}

func (c *Checker) Has(role, perm string) bool {
	if _, ok := c.exact[role][perm]; ok {
		return true
	}
	for _, pfx := range c.prefixes[role] {
		if strings.HasPrefix(perm, pfx) {
			return true
		}
	}
	return false
}

func (c *Checker) Any(role string, perms ...string) bool {
	for _, p := range perms {
		if c.Has(role, p) {
			return true
		}
	}
	return false
}

// ---- role in context ----

type ctxKey struct{}

var ctxKeyRole = ctxKey{}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, ctxKeyRole, role)
}

func RoleFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeyRole); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
