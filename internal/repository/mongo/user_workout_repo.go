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

const userWorkoutCollectionName = "user_workouts"

// mongoUserWorkoutRepository implements repository.UserWorkoutRepository
type mongoUserWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoUserWorkoutRepository creates a new completion repository.
func NewMongoUserWorkoutRepository(db *mongo.Database) repository.UserWorkoutRepository {
	return &mongoUserWorkoutRepository{
		collection: db.Collection(userWorkoutCollectionName),
	}
}

// Create appends a workout completion. CompletedAt defaults to now.
func (r *mongoUserWorkoutRepository) Create(ctx context.Context, completion *domain.UserWorkout) (string, error) {
	if completion.UserID == "" || completion.WorkoutID == "" {
		return "", errors.New("completion requires userId and workoutId")
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

// ListByUser returns the user's completions, most recent first.
func (r *mongoUserWorkoutRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.UserWorkout, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	completions := []domain.UserWorkout{}
	if err = cursor.All(ctx, &completions); err != nil {
		return nil, err
	}
	return completions, nil
}

func userWorkoutIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "completedAt", Value: -1}},
			Options: options.Index(),
		},
	}
}
