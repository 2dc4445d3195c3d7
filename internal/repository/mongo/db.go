package mongo

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI and
// verifies it with a ping against the primary.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// The initial connection can succeed while the server is unresponsive.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection. Failures are logged,
// not fatal: the service works without them, only slower.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	ensure := []struct {
		collection string
		indexes    []mongo.IndexModel
	}{
		{userCollectionName, userIndexes()},
		{profileCollectionName, profileIndexes()},
		{workoutCollectionName, workoutIndexes()},
		{userWorkoutCollectionName, userWorkoutIndexes()},
		{dailyChallengeCollectionName, dailyChallengeIndexes()},
		{challengeCompletionCollectionName, challengeCompletionIndexes()},
	}

	for _, e := range ensure {
		if _, err := db.Collection(e.collection).Indexes().CreateMany(ctx, e.indexes); err != nil {
			log.WithError(err).Warnf("failed to create indexes for collection %s", e.collection)
		}
	}
}
