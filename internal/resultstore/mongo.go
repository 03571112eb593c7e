package resultstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindbridge/internal/models"
	"mindbridge/internal/repository"
)

// CollectionName is the append-only collection holding one document per completed quiz
const CollectionName = "games"

// MongoStore keeps results in a MongoDB collection
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to uri and uses the games collection of database
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	coll := client.Database(database).Collection(CollectionName)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "Email", Value: 1}, {Key: "Game", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create results index: %w", err)
	}

	return &MongoStore{client: client, collection: coll}, nil
}

// SaveResult inserts rec and returns the generated ObjectID in hex
func (s *MongoStore) SaveResult(ctx context.Context, rec models.ResultRecord) (string, error) {
	res, err := s.collection.InsertOne(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("failed to insert result: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

// resultDocument is a stored result with its document ID
type resultDocument struct {
	ID                  primitive.ObjectID `bson:"_id"`
	models.ResultRecord `bson:",inline"`
}

// ListResults returns a participant's results, newest first
func (s *MongoStore) ListResults(ctx context.Context, email, game string, limit int) ([]models.ResultRecord, error) {
	if limit <= 0 {
		limit = repository.DefaultResultLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, resultFilter(email, game), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.ResultRecord
	for cursor.Next(ctx) {
		var doc resultDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode result: %w", err)
		}
		rec := doc.ResultRecord
		rec.ID = doc.ID.Hex()
		results = append(results, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}
	return results, nil
}

func resultFilter(email, game string) bson.D {
	filter := bson.D{{Key: "Email", Value: email}}
	if game != "" {
		filter = append(filter, bson.E{Key: "Game", Value: game})
	}
	return filter
}

// Close disconnects the client
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
