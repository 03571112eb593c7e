package handlers

const (
	SessionCookieName = "session_id"
	GuestCookieName   = "guest_id"

	ErrInvalidJSON         = "Invalid JSON body"
	ErrUnauthorized        = "Unauthorized"
	ErrNotFound            = "Not found"
	ErrInternalServerError = "Internal server error"
	ErrTooManyRequests     = "Too many requests"
	ErrInvalidCSRFToken    = "Invalid CSRF token"
)
