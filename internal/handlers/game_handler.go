package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"mindbridge/internal/audio"
	"mindbridge/internal/catalog"
	"mindbridge/internal/game"
	"mindbridge/internal/models"
	"mindbridge/internal/security"
	"mindbridge/internal/service"
)

// guestCookieTTL keeps anonymous players on the same session for a day
const guestCookieTTL = 24 * time.Hour

// GameHandler serves the game catalog and the participant's live session
type GameHandler struct {
	games *service.GameService
	tts   *audio.TTSService
}

// NewGameHandler creates a new game handler. tts may be nil when spoken
// prompts are disabled.
func NewGameHandler(games *service.GameService, tts *audio.TTSService) *GameHandler {
	return &GameHandler{games: games, tts: tts}
}

type levelInfo struct {
	Difficulty catalog.Difficulty `json:"difficulty"`
	catalog.Level
}

type gameSummary struct {
	Type         catalog.GameType `json:"type"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Difficulties []levelInfo      `json:"difficulties"`
}

type gameDetail struct {
	gameSummary
	FeedbackDelayMs int64            `json:"feedbackDelayMs"`
	Prompts         []catalog.Prompt `json:"prompts,omitempty"`
	// Audio maps prompt IDs to pre-generated speech
	Audio map[string]string `json:"audio,omitempty"`
}

func summarize(g *catalog.Game) gameSummary {
	s := gameSummary{Type: g.Type, Title: g.Title, Description: g.Description}
	for _, d := range catalog.Difficulties {
		if lvl, err := g.Level(d); err == nil {
			s.Difficulties = append(s.Difficulties, levelInfo{Difficulty: d, Level: lvl})
		}
	}
	return s
}

// ListGames returns the catalog
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	all := catalog.All()
	out := make([]gameSummary, 0, len(all))
	for _, g := range all {
		out = append(out, summarize(g))
	}
	respondWithJSON(w, http.StatusOK, out)
}

// GetGame returns one game with its prompts
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	g, err := catalog.Lookup(catalog.GameType(r.PathValue("type")))
	if err != nil {
		notFound(w)
		return
	}
	detail := gameDetail{
		gameSummary:     summarize(g),
		FeedbackDelayMs: g.FeedbackDelay.Milliseconds(),
		Prompts:         g.Prompts,
	}
	for _, p := range g.Prompts {
		if url, ok := h.tts.PromptAudioURL(p); ok {
			if detail.Audio == nil {
				detail.Audio = make(map[string]string)
			}
			detail.Audio[p.ID] = url
		}
	}
	respondWithJSON(w, http.StatusOK, detail)
}

// ownerKey identifies who owns a game session: the signed-in user, or an
// anonymous player tracked by a guest cookie. With create set, a missing
// guest cookie is issued.
func ownerKey(w http.ResponseWriter, r *http.Request, create bool) (string, models.Participant, bool) {
	if user := GetUserFromContext(r.Context()); user != nil {
		return "user:" + strconv.FormatInt(user.ID, 10), models.ParticipantFromUser(user), true
	}

	if cookie, err := r.Cookie(GuestCookieName); err == nil && cookie.Value != "" {
		return "guest:" + cookie.Value, models.ParticipantFromUser(nil), true
	}
	if !create {
		return "", models.Participant{}, false
	}

	guestID := security.GenerateSessionID()
	http.SetCookie(w, guestCookie(r, guestID))
	return "guest:" + guestID, models.ParticipantFromUser(nil), true
}

func guestCookie(r *http.Request, value string) *http.Cookie {
	c := security.CreateSessionCookie(r, GuestCookieName, value, time.Now().Add(guestCookieTTL))
	c.MaxAge = int(guestCookieTTL.Seconds())
	return c
}

func (h *GameHandler) currentSession(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	owner, _, ok := ownerKey(w, r, false)
	if !ok {
		writeGameError(w, service.ErrNoActiveSession)
		return nil, false
	}
	sess, err := h.games.Get(owner)
	if err != nil {
		writeGameError(w, err)
		return nil, false
	}
	return sess, true
}

func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveSession):
		respondWithError(w, http.StatusNotFound, "No active game session", "", nil)
	case errors.Is(err, catalog.ErrUnknownGame):
		notFound(w)
	case errors.Is(err, game.ErrInputDisabled), errors.Is(err, game.ErrSessionOver):
		respondWithError(w, http.StatusConflict, err.Error(), "", nil)
	default:
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	}
}

type startRequest struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
}

// StartSession starts a session of the game in the path, replacing the
// caller's previous session.
func (h *GameHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	req := startRequest{Mode: string(game.Practice), Difficulty: string(catalog.Easy)}
	if !decodeJSON(w, r, &req) {
		return
	}

	owner, participant, _ := ownerKey(w, r, true)
	sess, err := h.games.Start(owner, service.StartInput{
		Game:        catalog.GameType(r.PathValue("type")),
		Mode:        req.Mode,
		Difficulty:  req.Difficulty,
		Participant: participant,
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, sess.Snapshot())
}

// GetSession returns the caller's session state
func (h *GameHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, sess.Snapshot())
}

type answerRequest struct {
	Choice string `json:"choice"`
}

type answerResponse struct {
	Outcome game.Outcome  `json:"outcome"`
	State   game.Snapshot `json:"state"`
}

// Answer scores a choice against the current prompt
func (h *GameHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Choice == "" {
		respondWithError(w, http.StatusBadRequest, "choice is required", "", nil)
		return
	}

	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	out, err := sess.SelectAnswer(req.Choice)
	if err != nil {
		writeGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, answerResponse{Outcome: out, State: sess.Snapshot()})
}

// SetDifficulty changes the difficulty and restarts the session
func (h *GameHandler) SetDifficulty(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := catalog.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeGameError(w, err)
		return
	}

	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	if err := sess.SetDifficulty(d); err != nil {
		writeGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sess.Snapshot())
}

// SetMode switches between practice and quiz and restarts the session
func (h *GameHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	if err := sess.SetMode(game.Mode(req.Mode)); err != nil {
		writeGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sess.Snapshot())
}

// Reset restarts the session with the same settings
func (h *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	if err := sess.Reset(); err != nil {
		writeGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sess.Snapshot())
}

// EndSession closes the caller's session
func (h *GameHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	owner, _, ok := ownerKey(w, r, false)
	if !ok {
		writeGameError(w, service.ErrNoActiveSession)
		return
	}
	if err := h.games.End(owner); err != nil {
		writeGameError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
