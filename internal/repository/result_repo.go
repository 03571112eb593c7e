package repository

import (
	"context"
	"fmt"
	"strconv"

	"mindbridge/internal/database"
	"mindbridge/internal/models"
)

// DefaultResultLimit caps result listings when no limit is given
const DefaultResultLimit = 50

// ResultRepository stores quiz results in the games table
type ResultRepository struct {
	db database.DBTX
}

// NewResultRepository creates a result repository on a connection or transaction
func NewResultRepository(db database.DBTX) *ResultRepository {
	return &ResultRepository{db: db}
}

// SaveResult appends a result row and returns its ID
func (r *ResultRepository) SaveResult(ctx context.Context, rec models.ResultRecord) (string, error) {
	query := `
		INSERT INTO games (user_id, name, email, age, game, level, score, time_taken, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	var userID interface{}
	if rec.UserID != 0 {
		userID = rec.UserID
	}
	id, err := r.db.ExecReturningIDContext(ctx, query,
		userID,
		rec.ParticipantName,
		rec.ParticipantEmail,
		rec.ParticipantAge,
		rec.GameName,
		rec.Difficulty,
		rec.Score,
		rec.TimeTaken,
		rec.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save result: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// ListResults returns a participant's results, newest first. An empty game
// matches every game.
func (r *ResultRepository) ListResults(ctx context.Context, email, game string, limit int) ([]models.ResultRecord, error) {
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	query := `
		SELECT id, COALESCE(user_id, 0), name, email, age, game, level, score, time_taken, created_at
		FROM games
		WHERE email = ? AND (? = '' OR game = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, email, game, game, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []models.ResultRecord
	for rows.Next() {
		var (
			rec models.ResultRecord
			id  int64
		)
		if err := rows.Scan(
			&id,
			&rec.UserID,
			&rec.ParticipantName,
			&rec.ParticipantEmail,
			&rec.ParticipantAge,
			&rec.GameName,
			&rec.Difficulty,
			&rec.Score,
			&rec.TimeTaken,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		rec.ID = strconv.FormatInt(id, 10)
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}

	return results, nil
}

// AllResults returns every stored result in insertion order
func (r *ResultRepository) AllResults(ctx context.Context) ([]models.ResultRecord, error) {
	query := `
		SELECT id, COALESCE(user_id, 0), name, email, age, game, level, score, time_taken, created_at
		FROM games
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []models.ResultRecord
	for rows.Next() {
		var (
			rec models.ResultRecord
			id  int64
		)
		if err := rows.Scan(&id, &rec.UserID, &rec.ParticipantName, &rec.ParticipantEmail, &rec.ParticipantAge,
			&rec.GameName, &rec.Difficulty, &rec.Score, &rec.TimeTaken, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		rec.ID = strconv.FormatInt(id, 10)
		results = append(results, rec)
	}
	return results, rows.Err()
}
