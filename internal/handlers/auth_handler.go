package handlers

import (
	"errors"
	"net/http"
	"time"

	"mindbridge/internal/models"
	"mindbridge/internal/security"
	"mindbridge/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService          *service.AuthService
	csrf                 *security.CSRFGenerator
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, csrf *security.CSRFGenerator, oauthProviders map[string]OAuthProvider, oauthRedirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		csrf:                 csrf,
		oauthProviders:       oauthProviders,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
	}
}

type authResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token,omitempty"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
	CSRFToken string       `json:"csrfToken,omitempty"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp creates an account and signs it in
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req service.SignUpInput
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.authService.SignUp(r.Context(), req)
	if err != nil {
		if respondWithValidationError(w, err) {
			return
		}
		if errors.Is(err, service.ErrEmailTaken) {
			respondWithError(w, http.StatusConflict, "An account with this email already exists", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error signing up", err)
		return
	}

	h.respondWithSession(w, r, http.StatusCreated, res)
}

// SignIn authenticates with email and password
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.authService.SignIn(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error signing in", err)
		return
	}

	h.respondWithSession(w, r, http.StatusOK, res)
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, r *http.Request, status int, res *service.AuthResult) {
	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, res.Session.ID, res.Session.ExpiresAt))

	csrfToken, err := h.csrf.GenerateToken(res.Session.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error generating CSRF token", err)
		return
	}

	expiresAt := res.Session.ExpiresAt
	respondWithJSON(w, status, authResponse{
		User:      res.User,
		Token:     res.Token,
		ExpiresAt: &expiresAt,
		CSRFToken: csrfToken,
	})
}

// SignOut ends the current session. It succeeds for anonymous requests.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if info, ok := sessionFromContext(r.Context()); ok {
		if err := h.authService.SignOut(info.sessionID); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error signing out", err)
			return
		}
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	w.WriteHeader(http.StatusNoContent)
}

// Me reports the signed-in user, or a null user for anonymous requests
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithJSON(w, http.StatusOK, authResponse{})
		return
	}

	resp := authResponse{User: user}
	if info, ok := sessionFromContext(r.Context()); ok && !info.bearer {
		token, err := h.csrf.GenerateToken(info.sessionID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error generating CSRF token", err)
			return
		}
		resp.CSRFToken = token
	}
	respondWithJSON(w, http.StatusOK, resp)
}
