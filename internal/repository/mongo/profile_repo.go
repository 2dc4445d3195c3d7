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

const profileCollectionName = "profiles"

// mongoProfileRepository implements repository.ProfileRepository
type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new Profile repository backed by MongoDB.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

// Create inserts the profile of a new user.
func (r *mongoProfileRepository) Create(ctx context.Context, profile *domain.Profile) (string, error) {
	if profile.UserID == "" {
		return "", errors.New("profile user ID is required")
	}
	if profile.RankLevel < 1 {
		profile.RankLevel = 1
	}

	profile.ID = uuid.NewString()
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, profile); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrDuplicate
		}
		return "", err
	}
	return profile.ID, nil
}

// GetByUserID retrieves the profile owned by userID.
func (r *mongoProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Update applies the non-nil fields of update and returns the stored profile.
func (r *mongoProfileRepository) Update(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.Profile, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.DisplayName != nil {
		set["displayName"] = *update.DisplayName
	}
	if update.CurrentStreak != nil {
		set["currentStreak"] = *update.CurrentStreak
	}
	if update.TotalWorkouts != nil {
		set["totalWorkouts"] = *update.TotalWorkouts
	}
	if update.RankLevel != nil {
		set["rankLevel"] = *update.RankLevel
	}
	if update.ExperiencePoints != nil {
		set["experiencePoints"] = *update.ExperiencePoints
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var profile domain.Profile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"userId": userID}, bson.M{"$set": set}, opts).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func profileIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			// One profile per user
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
}
