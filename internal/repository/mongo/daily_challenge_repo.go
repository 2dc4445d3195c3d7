package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spartan/fitness-tracker/internal/domain"
	"spartan/fitness-tracker/internal/repository"
)

const dailyChallengeCollectionName = "daily_challenges"

// mongoDailyChallengeRepository implements repository.DailyChallengeRepository
type mongoDailyChallengeRepository struct {
	collection *mongo.Collection
}

// NewMongoDailyChallengeRepository creates a new DailyChallenge repository.
func NewMongoDailyChallengeRepository(db *mongo.Database) repository.DailyChallengeRepository {
	return &mongoDailyChallengeRepository{
		collection: db.Collection(dailyChallengeCollectionName),
	}
}

// GetByDate returns the challenge published for date (YYYY-MM-DD).
func (r *mongoDailyChallengeRepository) GetByDate(ctx context.Context, date string) (*domain.DailyChallenge, error) {
	return r.findOne(ctx, bson.M{"challengeDate": date})
}

// GetByID retrieves a challenge by id.
func (r *mongoDailyChallengeRepository) GetByID(ctx context.Context, id string) (*domain.DailyChallenge, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoDailyChallengeRepository) findOne(ctx context.Context, filter bson.M) (*domain.DailyChallenge, error) {
	var challenge domain.DailyChallenge
	if err := r.collection.FindOne(ctx, filter).Decode(&challenge); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

// Upsert replaces or inserts a challenge by id. Used by catalog seeding.
func (r *mongoDailyChallengeRepository) Upsert(ctx context.Context, challenge *domain.DailyChallenge) error {
	if challenge.ID == "" || challenge.ChallengeDate == "" {
		return errors.New("daily challenge requires id and challengeDate")
	}
	if challenge.CreatedAt.IsZero() {
		challenge.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": challenge.ID}, challenge, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// another challenge already owns this date
		return repository.ErrDuplicate
	}
	return err
}

func dailyChallengeIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			// At most one challenge per calendar day
			Keys:    bson.D{{Key: "challengeDate", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
}
