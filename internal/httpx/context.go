package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	subjectKey   contextKey = "subject"
	roleKey      contextKey = "role"
	requestIDKey contextKey = "requestID"
	infoKey      contextKey = "requestInfo"
)

// requestInfo is filled in by inner handlers and read back by the access log
// once the request completes.
type requestInfo struct {
	subject string
}

func withRequestInfo(r *http.Request) (*http.Request, *requestInfo) {
	info := &requestInfo{}
	return r.WithContext(context.WithValue(r.Context(), infoKey, info)), info
}

// SubjectFrom returns the authenticated subject (admin email) from the request context.
func SubjectFrom(r *http.Request) string {
	if v, ok := r.Context().Value(subjectKey).(string); ok {
		return v
	}
	return ""
}

// RoleFrom returns the authenticated role from the request context.
func RoleFrom(r *http.Request) string {
	if v, ok := r.Context().Value(roleKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithSubject returns a new context carrying the subject and role.
// The subject is also recorded for the access log.
func ContextWithSubject(ctx context.Context, subject, role string) context.Context {
	if info, ok := ctx.Value(infoKey).(*requestInfo); ok {
		info.subject = subject
	}
	ctx = context.WithValue(ctx, subjectKey, subject)
	return context.WithValue(ctx, roleKey, role)
}

// RequestIDFrom returns the request id set by RequestIDMiddleware.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
