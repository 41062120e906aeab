package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store"
)

type contextKey string

// userContextKey carries the authenticated user through the request context.
const userContextKey contextKey = "authenticated_user"

// sessionCookie is the name of the cookie issued at login. The token it
// holds only lives in the in-memory session table, so every session dies
// with the process.
const sessionCookie = "ft_session"

// withAuth resolves the session cookie into the authenticated user and
// injects it into the request context. Requests without a live session are
// rejected with 401 before any handler runs.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			UnauthorizedError("authentication required").Write(w)
			return
		}

		sess, ok := s.sessions.Lookup(cookie.Value)
		if !ok {
			UnauthorizedError("authentication required").Write(w)
			return
		}

		user, err := s.store.GetUser(r.Context(), sess.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// The session outlived its user. Drop it.
				s.sessions.Destroy(cookie.Value)
				UnauthorizedError("authentication required").Write(w)
				return
			}
			InternalError(r, err).Write(w)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFrom returns the user withAuth placed in the context. Handlers behind
// withAuth can rely on a populated user.
func userFrom(ctx context.Context) core.User {
	u, _ := ctx.Value(userContextKey).(core.User)
	return u
}

// rateLimitMutations throttles writes per client IP. Reads pass through
// untouched so dashboards polling lists never starve a user's writes.
func (s *Server) rateLimitMutations(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, nil)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPatch, http.MethodDelete:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// logSuspicious records scanner-shaped requests and keeps serving them.
// Blocking would tip the scanner off; the log line and the counter are what
// an operator acts on.
func (s *Server) logSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Suspicious request detected",
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r),
				"user_agent", r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}
