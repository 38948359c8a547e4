package auth

import (
	"context"
	"net/http"
)

type (
	subjectKey struct{}
	peerKey    struct{}
)

func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, subjectKey{}, sub)
}

// SubjectFromContext returns the token subject set by JWTMiddleware.
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey{}).(string)
	return s
}

// CapturePeer records the socket's remote address before any proxy-header
// middleware rewrites r.RemoteAddr. It must run ahead of middleware.RealIP.
func CapturePeer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), peerKey{}, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func peerFromContext(ctx context.Context) string {
	s, _ := ctx.Value(peerKey{}).(string)
	return s
}
