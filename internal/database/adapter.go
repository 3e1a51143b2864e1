package database

import (
	"context"

	"videotube/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DBAdapter is the storage surface the actors depend on. MongoDB is the
// production implementation; MemoryDB backs DB_TYPE=memory and the tests.
type DBAdapter interface {
	Close(ctx context.Context) error

	// User methods (users are managed elsewhere and only read here)
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	// Video methods
	SaveVideo(ctx context.Context, video *models.Video) error
	GetVideo(ctx context.Context, id primitive.ObjectID) (*models.Video, error)
	DeleteVideo(ctx context.Context, id primitive.ObjectID) error
	GetVideoDetail(ctx context.Context, id primitive.ObjectID) (*models.VideoDetailView, error)
	ListVideos(ctx context.Context, query models.VideoQuery) ([]*models.VideoSummaryView, error)

	// Comment methods
	SaveComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
	GetVideoComments(ctx context.Context, videoID primitive.ObjectID, page models.Page) ([]*models.CommentView, error)

	// Relation methods (likes, dislikes, subscriptions)
	ToggleRelation(ctx context.Context, rel models.Relation) (models.ToggleState, error)
	GetRelatedVideos(ctx context.Context, kind models.RelationKind, userID primitive.ObjectID) ([]*models.RelatedVideoView, error)
	GetChannelSubscribers(ctx context.Context, channelID primitive.ObjectID) ([]*models.SubscriberView, error)
	GetSubscribedChannels(ctx context.Context, subscriberID primitive.ObjectID) ([]*models.SubscribedChannelView, error)

	// Tweet methods
	SaveTweet(ctx context.Context, tweet *models.Tweet) error
	GetTweet(ctx context.Context, id primitive.ObjectID) (*models.Tweet, error)
	DeleteTweet(ctx context.Context, id primitive.ObjectID) error
	GetUserTweets(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Tweet, error)

	// Playlist methods
	SavePlaylist(ctx context.Context, playlist *models.Playlist) error
	GetPlaylist(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error)
	DeletePlaylist(ctx context.Context, id primitive.ObjectID) error
	GetUserPlaylists(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Playlist, error)
	PushPlaylistVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (*models.Playlist, error)
	PullPlaylistVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (*models.Playlist, error)
}

var (
	_ DBAdapter = (*MongoDB)(nil)
	_ DBAdapter = (*MemoryDB)(nil)
)
