package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"mindbridge/internal/database"
	"mindbridge/internal/models"
	"mindbridge/internal/repository"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string                `json:"version"`
	ExportedAt   time.Time             `json:"exported_at"`
	DatabaseType string                `json:"database_type"`
	Users        []UserBackup          `json:"users"`
	Results      []models.ResultRecord `json:"results"`
}

// UserBackup represents a user record for backup
type UserBackup struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	Name          string    `json:"name"`
	Age           int       `json:"age"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ImportStats counts what an import wrote
type ImportStats struct {
	Users        int
	SkippedUsers int
	Results      int
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(ctx, file); err != nil {
		return err
	}
	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter writes a JSON backup of users and results to w
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:      BackupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.Dialect.MigrationsSubdir(),
	}

	if err := s.exportUsers(ctx, backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}

	results, err := repository.NewResultRepository(s.db).AllResults(ctx)
	if err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}
	backup.Results = results

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported: %d users, %d results", len(backup.Users), len(backup.Results))
	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string) (ImportStats, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return ImportStats{}, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	log.Printf("Starting database import from %s...", inputPath)
	return s.ImportFromReader(ctx, file)
}

// ImportFromReader restores users and results from a JSON backup in a
// single transaction. Users whose email already exists are kept as they
// are and their results are attached to the existing account.
func (s *BackupService) ImportFromReader(ctx context.Context, reader io.Reader) (ImportStats, error) {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return ImportStats{}, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return ImportStats{}, fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportStats{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var stats ImportStats
	userIDs, err := importUsers(ctx, tx, backup.Users, &stats)
	if err != nil {
		return ImportStats{}, fmt.Errorf("failed to import users: %w", err)
	}

	results := repository.NewResultRepository(tx)
	for _, rec := range backup.Results {
		if rec.UserID != 0 {
			rec.UserID = userIDs[rec.UserID]
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = backup.ExportedAt
		}
		if _, err := results.SaveResult(ctx, rec); err != nil {
			return ImportStats{}, fmt.Errorf("failed to import results: %w", err)
		}
		stats.Results++
	}

	if err := tx.Commit(); err != nil {
		return ImportStats{}, fmt.Errorf("failed to commit import: %w", err)
	}

	log.Printf("Database import completed: %d users (%d existing), %d results",
		stats.Users, stats.SkippedUsers, stats.Results)
	return stats, nil
}

func (s *BackupService) exportUsers(ctx context.Context, backup *BackupData) error {
	query := `SELECT id, email, password_hash, name, age, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''),
		created_at, updated_at FROM users ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Age, &u.OAuthProvider, &u.OAuthSubject,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

// importUsers inserts users and returns a map from backup IDs to IDs in
// the target database.
func importUsers(ctx context.Context, tx database.DBTX, users []UserBackup, stats *ImportStats) (map[int64]int64, error) {
	ids := make(map[int64]int64, len(users))
	for _, u := range users {
		var existingID int64
		err := tx.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?", u.Email).Scan(&existingID)
		switch {
		case err == nil:
			ids[u.ID] = existingID
			stats.SkippedUsers++
			continue
		case !errors.Is(err, sql.ErrNoRows):
			return nil, err
		}

		query := `INSERT INTO users (email, password_hash, name, age, oauth_provider, oauth_subject, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
		newID, err := tx.ExecReturningIDContext(ctx, query, u.Email, u.PasswordHash, u.Name, u.Age,
			nullIfEmpty(u.OAuthProvider), nullIfEmpty(u.OAuthSubject), u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return nil, err
		}
		ids[u.ID] = newID
		stats.Users++
	}
	return ids, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
