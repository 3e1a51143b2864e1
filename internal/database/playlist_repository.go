package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"videotube/internal/models"
	"videotube/internal/utils"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) SavePlaylist(ctx context.Context, playlist *models.Playlist) error {
	if playlist.Videos == nil {
		playlist.Videos = []primitive.ObjectID{}
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := m.Playlists.ReplaceOne(ctx, bson.M{"_id": playlist.ID}, playlist, opts); err != nil {
		return fmt.Errorf("failed to save playlist: %w", err)
	}
	return nil
}

func (m *MongoDB) GetPlaylist(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error) {
	var playlist models.Playlist
	err := m.Playlists.FindOne(ctx, bson.M{"_id": id}).Decode(&playlist)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NewAppError(utils.ErrNotFound, "Playlist not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}
	return &playlist, nil
}

func (m *MongoDB) DeletePlaylist(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.Playlists.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Playlist not found")
	}
	return nil
}

func (m *MongoDB) GetUserPlaylists(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Playlist, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := m.Playlists.Find(ctx, bson.M{"owner": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get user playlists: %w", err)
	}
	defer cursor.Close(ctx)

	playlists := make([]*models.Playlist, 0)
	if err := cursor.All(ctx, &playlists); err != nil {
		return nil, fmt.Errorf("failed to decode playlists: %w", err)
	}
	return playlists, nil
}

// PushPlaylistVideo appends videoID to the playlist, duplicates allowed
func (m *MongoDB) PushPlaylistVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (*models.Playlist, error) {
	return m.updatePlaylistVideos(ctx, playlistID, bson.M{
		"$push": bson.M{"videos": videoID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

// PullPlaylistVideo removes every occurrence of videoID from the playlist
func (m *MongoDB) PullPlaylistVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (*models.Playlist, error) {
	return m.updatePlaylistVideos(ctx, playlistID, bson.M{
		"$pull": bson.M{"videos": videoID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (m *MongoDB) updatePlaylistVideos(ctx context.Context, playlistID primitive.ObjectID, update bson.M) (*models.Playlist, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var playlist models.Playlist
	err := m.Playlists.FindOneAndUpdate(ctx, bson.M{"_id": playlistID}, update, opts).Decode(&playlist)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NewAppError(utils.ErrNotFound, "Playlist not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update playlist videos: %w", err)
	}

	log.Debug().Str("playlistId", playlistID.Hex()).Int("videos", len(playlist.Videos)).Msg("updated playlist videos")
	return &playlist, nil
}

func (m *MongoDB) EnsurePlaylistIndexes(ctx context.Context) error {
	_, err := m.Playlists.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create playlist indexes: %w", err)
	}
	return nil
}
