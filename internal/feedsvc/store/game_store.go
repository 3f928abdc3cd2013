package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gameshelf/gameshelf-services/internal/feedsvc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type GameStore struct {
	games *mongo.Collection
}

func NewGameStore(db *mongo.Database) *GameStore {
	return &GameStore{games: db.Collection("games")}
}

// Insert persists a new game. The id and createdAt are assigned here so
// the returned record is exactly what later reads will see.
func (s *GameStore) Insert(ctx context.Context, game *models.Game) (*models.Game, error) {
	if game.ID.IsZero() {
		game.ID = primitive.NewObjectID()
	}
	if game.CreatedAt.IsZero() {
		game.CreatedAt = time.Now().UTC()
	}

	_, err := s.games.InsertOne(ctx, game)
	if err != nil {
		return nil, fmt.Errorf("failed to insert game: %w", err)
	}

	return game, nil
}

// FindPage returns one feed page, newest first. The _id sort key keeps
// the order stable when two games share a createdAt.
func (s *GameStore) FindPage(ctx context.Context, skip, limit int64) ([]models.Game, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.games.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed page: %w", err)
	}
	defer cursor.Close(ctx)

	games := []models.Game{}
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("failed to decode feed page: %w", err)
	}

	return games, nil
}

// Count returns the total number of games, independent of any page query.
func (s *GameStore) Count(ctx context.Context) (int64, error) {
	total, err := s.games.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return total, nil
}

func (s *GameStore) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Game, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := s.games.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by user: %w", err)
	}
	defer cursor.Close(ctx)

	games := []models.Game{}
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("failed to decode games by user: %w", err)
	}

	return games, nil
}

func (s *GameStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	game := &models.Game{}
	err := s.games.FindOne(ctx, bson.M{"_id": id}).Decode(game)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // game not found
		}
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}

	return game, nil
}

// Delete removes one game and reports how many documents went away, so a
// concurrent delete racing on the same id surfaces as zero.
func (s *GameStore) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.games.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("failed to delete game: %w", err)
	}
	return res.DeletedCount, nil
}
