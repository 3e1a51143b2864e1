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

// SaveVideo creates or replaces a video document
func (m *MongoDB) SaveVideo(ctx context.Context, video *models.Video) error {
	opts := options.Replace().SetUpsert(true)
	result, err := m.Videos.ReplaceOne(ctx, bson.M{"_id": video.ID}, video, opts)
	if err != nil {
		return fmt.Errorf("failed to save video: %w", err)
	}

	log.Debug().
		Str("videoId", video.ID.Hex()).
		Int64("matched", result.MatchedCount).
		Int64("upserted", result.UpsertedCount).
		Msg("saved video")
	return nil
}

// GetVideo retrieves a video by ID
func (m *MongoDB) GetVideo(ctx context.Context, id primitive.ObjectID) (*models.Video, error) {
	var video models.Video
	err := m.Videos.FindOne(ctx, bson.M{"_id": id}).Decode(&video)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NewAppError(utils.ErrNotFound, "Video not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return &video, nil
}

func (m *MongoDB) DeleteVideo(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.Videos.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Video not found")
	}
	return nil
}

// GetVideoDetail returns a video with like and dislike counts and the
// owner's channel profile.
func (m *MongoDB) GetVideoDetail(ctx context.Context, id primitive.ObjectID) (*models.VideoDetailView, error) {
	cursor, err := m.Videos.Aggregate(ctx, videoDetailPipeline(id))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate video: %w", err)
	}
	defer cursor.Close(ctx)

	var views []*models.VideoDetailView
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("failed to decode video: %w", err)
	}
	if len(views) == 0 {
		return nil, utils.NewNotFoundError("Video not found")
	}
	return views[0], nil
}

// ListVideos filters, sorts and paginates videos, joining each with its
// owner and like count.
func (m *MongoDB) ListVideos(ctx context.Context, query models.VideoQuery) ([]*models.VideoSummaryView, error) {
	cursor, err := m.Videos.Aggregate(ctx, videoListPipeline(query))
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer cursor.Close(ctx)

	views := make([]*models.VideoSummaryView, 0)
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("failed to decode videos: %w", err)
	}
	return views, nil
}

// EnsureVideoIndexes creates required indexes for the videos collection
func (m *MongoDB) EnsureVideoIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "owner", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	}

	if _, err := m.Videos.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create video indexes: %w", err)
	}
	return nil
}
