package handlers

import "net/http"

// Router groups the handlers served by the API
type Router struct {
	Middleware *Middleware
	Auth       *AuthHandler
	Games      *GameHandler
	Events     *EventsHandler
	Results    *ResultsHandler
	Health     *HealthHandler
	StaticPath string
}

// Handler registers every route and wraps the mux with request logging
func (rt *Router) Handler() http.Handler {
	mw := rt.Middleware
	mux := http.NewServeMux()

	// Static files (pre-generated prompt audio)
	if rt.StaticPath != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(rt.StaticPath))))
	}

	mux.HandleFunc("GET /healthz", rt.Health.Healthz)

	// Auth routes
	mux.HandleFunc("POST /api/auth/signup", mw.RateLimit(rt.Auth.SignUp))
	mux.HandleFunc("POST /api/auth/signin", mw.RateLimit(rt.Auth.SignIn))
	mux.HandleFunc("POST /api/auth/signout", mw.OptionalAuth(mw.CSRFProtect(rt.Auth.SignOut)))
	mux.HandleFunc("GET /api/auth/me", mw.OptionalAuth(rt.Auth.Me))
	mux.HandleFunc("GET /auth/{provider}/start", mw.RateLimit(rt.Auth.StartOAuth))
	mux.HandleFunc("GET /auth/{provider}/callback", rt.Auth.OAuthCallback)

	// Catalog
	mux.HandleFunc("GET /api/games", rt.Games.ListGames)
	mux.HandleFunc("GET /api/games/{type}", rt.Games.GetGame)

	// Live session; anonymous players are tracked by a guest cookie
	mux.HandleFunc("POST /api/games/{type}/session", mw.GameRateLimit(mw.OptionalAuth(mw.CSRFProtect(rt.Games.StartSession))))
	mux.HandleFunc("GET /api/session", mw.OptionalAuth(rt.Games.GetSession))
	mux.HandleFunc("POST /api/session/answer", mw.OptionalAuth(mw.CSRFProtect(rt.Games.Answer)))
	mux.HandleFunc("POST /api/session/difficulty", mw.OptionalAuth(mw.CSRFProtect(rt.Games.SetDifficulty)))
	mux.HandleFunc("POST /api/session/mode", mw.OptionalAuth(mw.CSRFProtect(rt.Games.SetMode)))
	mux.HandleFunc("POST /api/session/reset", mw.OptionalAuth(mw.CSRFProtect(rt.Games.Reset)))
	mux.HandleFunc("DELETE /api/session", mw.OptionalAuth(mw.CSRFProtect(rt.Games.EndSession)))
	mux.HandleFunc("GET /api/session/events", mw.OptionalAuth(rt.Events.Stream))

	// Results and adaptive difficulty
	mux.HandleFunc("GET /api/results", mw.RequireAuth(rt.Results.ListResults))
	mux.HandleFunc("GET /api/recommendation", mw.RequireAuth(rt.Results.Recommendation))
	mux.HandleFunc("POST /api/get-next-level", rt.Results.NextLevel)

	// Unknown routes get the generic JSON not-found
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { notFound(w) })

	return Logging(mux)
}
