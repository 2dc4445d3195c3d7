package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spartan/fitness-tracker/internal/domain"
	"spartan/fitness-tracker/internal/repository"
)

const challengeCompletionCollectionName = "user_challenge_completions"

// mongoChallengeCompletionRepository implements repository.ChallengeCompletionRepository
type mongoChallengeCompletionRepository struct {
	collection *mongo.Collection
}

// NewMongoChallengeCompletionRepository creates a new challenge completion repository.
func NewMongoChallengeCompletionRepository(db *mongo.Database) repository.ChallengeCompletionRepository {
	return &mongoChallengeCompletionRepository{
		collection: db.Collection(challengeCompletionCollectionName),
	}
}

// Create appends a challenge completion. CompletedAt defaults to now.
func (r *mongoChallengeCompletionRepository) Create(ctx context.Context, completion *domain.ChallengeCompletion) (string, error) {
	if completion.UserID == "" || completion.ChallengeID == "" {
		return "", errors.New("challenge completion requires userId and challengeId")
	}

	completion.ID = uuid.NewString()
	if completion.CompletedAt.IsZero() {
		completion.CompletedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, completion); err != nil {
		return "", err
	}
	return completion.ID, nil
}

// ListByUser returns the user's challenge completions, most recent first.
func (r *mongoChallengeCompletionRepository) ListByUser(ctx context.Context, userID string) ([]domain.ChallengeCompletion, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	completions := []domain.ChallengeCompletion{}
	if err = cursor.All(ctx, &completions); err != nil {
		return nil, err
	}
	return completions, nil
}

func challengeCompletionIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "completedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "challengeId", Value: 1}},
			Options: options.Index(),
		},
	}
}
