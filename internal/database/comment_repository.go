package database

import (
	"context"
	"errors"
	"fmt"

	"videotube/internal/models"
	"videotube/internal/utils"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveComment creates or updates a comment in MongoDB
func (m *MongoDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	opts := options.Replace().SetUpsert(true)
	result, err := m.Comments.ReplaceOne(ctx, bson.M{"_id": comment.ID}, comment, opts)
	if err != nil {
		log.Error().Err(err).Str("commentId", comment.ID.Hex()).Msg("error saving comment")
		return fmt.Errorf("failed to save comment: %w", err)
	}

	log.Debug().
		Str("commentId", comment.ID.Hex()).
		Int64("matched", result.MatchedCount).
		Int64("modified", result.ModifiedCount).
		Int64("upserted", result.UpsertedCount).
		Msg("saved comment")
	return nil
}

// GetComment retrieves a comment by ID
func (m *MongoDB) GetComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	err := m.Comments.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NewAppError(utils.ErrNotFound, "Comment not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &comment, nil
}

func (m *MongoDB) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.Comments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Comment not found")
	}
	return nil
}

// GetVideoComments returns one page of a video's top-level comments with
// their reply threads.
func (m *MongoDB) GetVideoComments(ctx context.Context, videoID primitive.ObjectID, page models.Page) ([]*models.CommentView, error) {
	cursor, err := m.Comments.Aggregate(ctx, commentThreadPipeline(videoID, page))
	if err != nil {
		return nil, fmt.Errorf("failed to get video comments: %w", err)
	}
	defer cursor.Close(ctx)

	views := make([]*models.CommentView, 0)
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	for _, v := range views {
		if v.Replies == nil {
			v.Replies = []*models.ReplyView{}
		}
	}
	return views, nil
}

// EnsureCommentIndexes creates required indexes for the comments collection
func (m *MongoDB) EnsureCommentIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "video", Value: 1},
				{Key: "parent", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "parent", Value: 1},
				{Key: "createdAt", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "owner", Value: 1}},
		},
	}

	if _, err := m.Comments.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create comment indexes: %w", err)
	}
	return nil
}
