package testutil

import (
	"net/http"
	"time"

	"caseflow/pkg/requestcontext"
)

// WithActor adds an authenticated actor and role to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithActor(req *http.Request, actor, role string) *http.Request {
	ctx := requestcontext.WithActor(req.Context(), actor, role)
	return req.WithContext(ctx)
}

// WithRequestTime pins the request-scoped time, as the request-time
// middleware would.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	ctx := requestcontext.WithTime(req.Context(), t)
	return req.WithContext(ctx)
}
