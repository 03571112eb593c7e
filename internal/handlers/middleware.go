package handlers

import (
	"bufio"
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"mindbridge/internal/models"
	"mindbridge/internal/security"
	"mindbridge/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	UserContextKey    ContextKey = "user"
	SessionContextKey ContextKey = "session"
)

// authInfo records how a request was authenticated
type authInfo struct {
	sessionID string
	bearer    bool
}

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	csrf        *security.CSRFGenerator
	limiter     *security.RateLimiter
	gameLimiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, csrf *security.CSRFGenerator, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		authService: authService,
		csrf:        csrf,
		limiter:     limiter,
	}
}

// authenticate resolves the bearer token or session cookie of r. A bearer
// token takes precedence over the cookie.
func (m *Middleware) authenticate(w http.ResponseWriter, r *http.Request) (*models.User, authInfo, bool) {
	var info authInfo
	if token := security.BearerToken(r); token != "" {
		sessionID, err := m.authService.SessionFromToken(token)
		if err != nil {
			return nil, info, false
		}
		info = authInfo{sessionID: sessionID, bearer: true}
	} else {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			return nil, info, false
		}
		info = authInfo{sessionID: cookie.Value}
	}

	user, err := m.authService.CurrentUser(info.sessionID)
	if err != nil {
		if !info.bearer {
			http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
		}
		return nil, info, false
	}
	return user, info, true
}

func withAuth(r *http.Request, user *models.User, info authInfo) *http.Request {
	ctx := context.WithValue(r.Context(), UserContextKey, user)
	ctx = context.WithValue(ctx, SessionContextKey, info)
	return r.WithContext(ctx)
}

// RequireAuth is middleware that requires a valid session
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, info, ok := m.authenticate(w, r)
		if !ok {
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}
		next(w, withAuth(r, user, info))
	}
}

// OptionalAuth attaches the user when the request is authenticated and
// lets anonymous requests through.
func (m *Middleware) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if user, info, ok := m.authenticate(w, r); ok {
			r = withAuth(r, user, info)
		}
		next(w, r)
	}
}

// WithGameLimiter sets the budget for starting game sessions, which is
// kept apart from the auth budget
func (m *Middleware) WithGameLimiter(limiter *security.RateLimiter) *Middleware {
	m.gameLimiter = limiter
	return m
}

// RateLimit rejects clients that exceed the auth limiter's budget
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return rateLimit(m.limiter, next)
}

// GameRateLimit rejects clients that start sessions faster than the game limiter allows
func (m *Middleware) GameRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return rateLimit(m.gameLimiter, next)
}

func rateLimit(limiter *security.RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if limiter != nil && !limiter.Allow(security.GetClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			respondWithError(w, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

// CSRFProtect requires the CSRF header on requests authenticated by
// cookie. Bearer-token and anonymous requests pass through.
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, ok := r.Context().Value(SessionContextKey).(authInfo)
		if ok && !info.bearer {
			if !m.csrf.ValidateToken(info.sessionID, r.Header.Get(security.CSRFHeader)) {
				respondWithError(w, http.StatusForbidden, ErrInvalidCSRFToken, "", nil)
				return
			}
		}
		next(w, r)
	}
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack exposes the underlying connection for WebSocket upgrades
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	s.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// Unwrap lets http.ResponseController reach the underlying writer
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		// Call next handler
		next.ServeHTTP(rec, r)

		// Log request
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

func sessionFromContext(ctx context.Context) (authInfo, bool) {
	info, ok := ctx.Value(SessionContextKey).(authInfo)
	return info, ok
}
