package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"mindbridge/internal/validation"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondWithJSON(w, status, errorResponse{Error: userMsg})
}

// respondWithValidationError reports err to the client when it is a
// validation failure and returns false otherwise.
func respondWithValidationError(w http.ResponseWriter, err error) bool {
	var verr validation.Error
	if !errors.As(err, &verr) {
		return false
	}
	respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
	return true
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst unchanged.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return false
	}
	return true
}

func notFound(w http.ResponseWriter) {
	respondWithError(w, http.StatusNotFound, ErrNotFound, "", nil)
}
