package database

import (
	"context"
	"errors"
	"fmt"

	"videotube/internal/models"
	"videotube/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) SaveTweet(ctx context.Context, tweet *models.Tweet) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := m.Tweets.ReplaceOne(ctx, bson.M{"_id": tweet.ID}, tweet, opts); err != nil {
		return fmt.Errorf("failed to save tweet: %w", err)
	}
	return nil
}

func (m *MongoDB) GetTweet(ctx context.Context, id primitive.ObjectID) (*models.Tweet, error) {
	var tweet models.Tweet
	err := m.Tweets.FindOne(ctx, bson.M{"_id": id}).Decode(&tweet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NewAppError(utils.ErrNotFound, "Tweet not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tweet: %w", err)
	}
	return &tweet, nil
}

func (m *MongoDB) DeleteTweet(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.Tweets.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete tweet: %w", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Tweet not found")
	}
	return nil
}

// GetUserTweets returns a user's tweets, newest first
func (m *MongoDB) GetUserTweets(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Tweet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := m.Tweets.Find(ctx, bson.M{"owner": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get user tweets: %w", err)
	}
	defer cursor.Close(ctx)

	tweets := make([]*models.Tweet, 0)
	if err := cursor.All(ctx, &tweets); err != nil {
		return nil, fmt.Errorf("failed to decode tweets: %w", err)
	}
	return tweets, nil
}

func (m *MongoDB) EnsureTweetIndexes(ctx context.Context) error {
	_, err := m.Tweets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "owner", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create tweet indexes: %w", err)
	}
	return nil
}
