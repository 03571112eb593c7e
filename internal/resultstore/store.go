package resultstore

import (
	"context"
	"fmt"

	"mindbridge/internal/config"
	"mindbridge/internal/database"
	"mindbridge/internal/models"
	"mindbridge/internal/repository"
)

// Store persists and lists completed quiz results
type Store interface {
	SaveResult(ctx context.Context, rec models.ResultRecord) (string, error)
	ListResults(ctx context.Context, email, game string, limit int) ([]models.ResultRecord, error)
	Close(ctx context.Context) error
}

type sqlStore struct {
	*repository.ResultRepository
}

func (sqlStore) Close(context.Context) error { return nil }

// NewSQLStore wraps the games table of the relational database
func NewSQLStore(db *database.DB) Store {
	return sqlStore{repository.NewResultRepository(db)}
}

// Open selects the backend named by cfg.ResultStore
func Open(ctx context.Context, cfg *config.Config, db *database.DB) (Store, error) {
	switch cfg.ResultStore {
	case "", "sql":
		return NewSQLStore(db), nil
	case "mongo", "mongodb":
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unsupported result store: %s", cfg.ResultStore)
	}
}
