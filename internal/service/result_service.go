package service

import (
	"context"
	"log"

	"mindbridge/internal/models"
	"mindbridge/internal/resultstore"
)

// ResultService persists quiz results and notifies participants
type ResultService struct {
	store        resultstore.Store
	emailService *EmailService
}

// NewResultService creates a result service; emailService may be nil
func NewResultService(store resultstore.Store, emailService *EmailService) *ResultService {
	return &ResultService{store: store, emailService: emailService}
}

// SaveResult stores rec and, for signed-in participants, emails a summary.
// Email failures are logged and do not fail the save.
func (s *ResultService) SaveResult(ctx context.Context, rec models.ResultRecord) (string, error) {
	id, err := s.store.SaveResult(ctx, rec)
	if err != nil {
		return "", err
	}

	if rec.ParticipantEmail != models.GuestEmail && s.emailService.IsEnabled() {
		if err := s.emailService.SendQuizSummaryEmail(ctx, rec); err != nil {
			log.Printf("Warning: failed to send quiz summary to %s: %v", rec.ParticipantEmail, err)
		}
	}
	return id, nil
}

// ListResults returns a participant's results, newest first
func (s *ResultService) ListResults(ctx context.Context, email, game string, limit int) ([]models.ResultRecord, error) {
	return s.store.ListResults(ctx, email, game, limit)
}
