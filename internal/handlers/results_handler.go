package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"mindbridge/internal/catalog"
	"mindbridge/internal/models"
	"mindbridge/internal/repository"
	"mindbridge/internal/service"
)

// maxResultLimit caps the page size clients may request
const maxResultLimit = 200

// ResultsHandler serves stored results and difficulty recommendations
type ResultsHandler struct {
	results   *service.ResultService
	recommend *service.RecommendService
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(results *service.ResultService, recommend *service.RecommendService) *ResultsHandler {
	return &ResultsHandler{results: results, recommend: recommend}
}

// ListResults returns the signed-in participant's results, newest first.
// An optional game query parameter filters by game type.
func (h *ResultsHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	limit := repository.DefaultResultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer", "", nil)
			return
		}
		limit = min(n, maxResultLimit)
	}

	gameName := ""
	if t := r.URL.Query().Get("game"); t != "" {
		g, err := catalog.Lookup(catalog.GameType(t))
		if err != nil {
			notFound(w)
			return
		}
		gameName = g.Title
	}

	results, err := h.results.ListResults(r.Context(), user.Email, gameName, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error listing results", err)
		return
	}
	if results == nil {
		results = []models.ResultRecord{}
	}
	respondWithJSON(w, http.StatusOK, results)
}

// Recommendation suggests the next difficulty from the participant's history
func (h *ResultsHandler) Recommendation(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	gameType := catalog.GameType(r.URL.Query().Get("game"))
	if gameType == "" {
		respondWithError(w, http.StatusBadRequest, "game is required", "", nil)
		return
	}

	rec, err := h.recommend.ForParticipant(r.Context(), user.Email, gameType)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownGame) {
			notFound(w)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error building recommendation", err)
		return
	}
	respondWithJSON(w, http.StatusOK, rec)
}

// NextLevel scores explicit learner features
func (h *ResultsHandler) NextLevel(w http.ResponseWriter, r *http.Request) {
	var f service.Features
	if !decodeJSON(w, r, &f) {
		return
	}

	rec, err := h.recommend.NextLevel(f)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}
	respondWithJSON(w, http.StatusOK, rec)
}
