package auth

import "context"

type ctxKey string

const (
	ctxKeySub  ctxKey = "sub"
	ctxKeyDept ctxKey = "department"
)

func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, ctxKeySub, sub)
}

func SubjectFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeySub); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func WithDepartment(ctx context.Context, dept string) context.Context {
	return context.WithValue(ctx, ctxKeyDept, dept)
}

func DepartmentFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeyDept); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
