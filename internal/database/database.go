// internal/database/database.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names. users is owned by the account service and never written here.
const (
	usersCollection         = "users"
	videosCollection        = "videos"
	commentsCollection      = "comments"
	likesCollection         = "likes"
	dislikesCollection      = "dislikes"
	subscriptionsCollection = "subscriptions"
	tweetsCollection        = "tweets"
	playlistsCollection     = "playlists"
)

type MongoDB struct {
	Client        *mongo.Client
	Users         *mongo.Collection
	Videos        *mongo.Collection
	Comments      *mongo.Collection
	Likes         *mongo.Collection
	Dislikes      *mongo.Collection
	Subscriptions *mongo.Collection
	Tweets        *mongo.Collection
	Playlists     *mongo.Collection
}

func NewMongoDB(ctx context.Context, uri, dbName string) (*MongoDB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info().Str("database", dbName).Msg("connected to MongoDB")

	db := client.Database(dbName)
	return &MongoDB{
		Client:        client,
		Users:         db.Collection(usersCollection),
		Videos:        db.Collection(videosCollection),
		Comments:      db.Collection(commentsCollection),
		Likes:         db.Collection(likesCollection),
		Dislikes:      db.Collection(dislikesCollection),
		Subscriptions: db.Collection(subscriptionsCollection),
		Tweets:        db.Collection(tweetsCollection),
		Playlists:     db.Collection(playlistsCollection),
	}, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// EnsureIndexes creates every index the repositories rely on. The unique
// relation indexes are what keep toggles correct under concurrent requests.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"videos", m.EnsureVideoIndexes},
		{"comments", m.EnsureCommentIndexes},
		{"relations", m.EnsureRelationIndexes},
		{"tweets", m.EnsureTweetIndexes},
		{"playlists", m.EnsurePlaylistIndexes},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return err
		}
		log.Debug().Str("collection", step.name).Msg("indexes ensured")
	}
	return nil
}
