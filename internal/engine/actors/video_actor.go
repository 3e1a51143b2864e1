package actors

import (
	stdctx "context"
	"strings"

	"videotube/internal/models"
	"videotube/internal/storage"
	"videotube/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message types for VideoActor
type (
	GetVideoMsg struct {
		VideoID primitive.ObjectID
	}

	// ListVideosMsg carries the raw listing query; an empty OwnerID lists
	// every owner and an empty Query skips the text filter.
	ListVideosMsg struct {
		Page     models.Page
		Query    string
		SortBy   string
		SortType string
		OwnerID  *primitive.ObjectID
	}

	PublishVideoMsg struct {
		UserID      primitive.ObjectID
		Title       string
		Description string
		IsPublished bool
		VideoFile   *storage.Upload
		Thumbnail   *storage.Upload
	}

	// UpdateVideoMsg replaces title and description; a non-nil Thumbnail
	// also replaces the thumbnail.
	UpdateVideoMsg struct {
		VideoID     primitive.ObjectID
		UserID      primitive.ObjectID
		Title       string
		Description string
		Thumbnail   *storage.Upload
	}

	DeleteVideoMsg struct {
		VideoID primitive.ObjectID
		UserID  primitive.ObjectID
	}

	TogglePublishMsg struct {
		VideoID primitive.ObjectID
		UserID  primitive.ObjectID
	}
)

type VideoActor struct {
	Deps
	media storage.MediaStore
}

func NewVideoActor(deps Deps, media storage.MediaStore) actor.Actor {
	return &VideoActor{Deps: deps, media: media}
}

func (a *VideoActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Debug().Str("pid", context.Self().String()).Msg("VideoActor started")

	case *GetVideoMsg:
		a.run(context, "get_video", func(ctx stdctx.Context) (interface{}, error) {
			if err := utils.RequireID(msg.VideoID, "video"); err != nil {
				return nil, err
			}
			return a.DB.GetVideoDetail(ctx, msg.VideoID)
		})

	case *ListVideosMsg:
		a.run(context, "list_videos", func(ctx stdctx.Context) (interface{}, error) {
			return a.handleListVideos(ctx, msg)
		})

	case *PublishVideoMsg:
		a.run(context, "publish_video", func(ctx stdctx.Context) (interface{}, error) {
			return a.handlePublishVideo(ctx, msg)
		})

	case *UpdateVideoMsg:
		a.run(context, "update_video", func(ctx stdctx.Context) (interface{}, error) {
			return a.handleUpdateVideo(ctx, msg)
		})

	case *DeleteVideoMsg:
		a.run(context, "delete_video", func(ctx stdctx.Context) (interface{}, error) {
			video, err := a.ownedVideo(ctx, msg.VideoID, msg.UserID, "delete this video")
			if err != nil {
				return nil, err
			}
			if err := a.DB.DeleteVideo(ctx, video.ID); err != nil {
				return nil, err
			}
			return video, nil
		})

	case *TogglePublishMsg:
		a.run(context, "toggle_publish", func(ctx stdctx.Context) (interface{}, error) {
			video, err := a.ownedVideo(ctx, msg.VideoID, msg.UserID, "change this video")
			if err != nil {
				return nil, err
			}
			video.IsPublished = !video.IsPublished
			video.UpdatedAt = now()
			if err := a.DB.SaveVideo(ctx, video); err != nil {
				return nil, err
			}
			return video, nil
		})

	case *actor.Stopping, *actor.Stopped, *actor.Restarting:
	default:
		log.Warn().Str("type", typeName(msg)).Msg("VideoActor: unknown message")
	}
}

func (a *VideoActor) handleListVideos(ctx stdctx.Context, msg *ListVideosMsg) ([]*models.VideoSummaryView, error) {
	sort, ok := models.NewVideoSort(msg.SortBy, msg.SortType)
	if !ok {
		log.Debug().Str("sortBy", msg.SortBy).Msg("unsupported sortBy, using default sort")
	}

	query := models.VideoQuery{
		Filter: models.VideoFilter{OwnerID: msg.OwnerID, Search: strings.TrimSpace(msg.Query)},
		Sort:   sort,
		Page:   msg.Page.Normalize(),
	}
	return a.DB.ListVideos(ctx, query)
}

func (a *VideoActor) handlePublishVideo(ctx stdctx.Context, msg *PublishVideoMsg) (*models.Video, error) {
	if err := utils.RequireActor(msg.UserID); err != nil {
		return nil, err
	}
	title, err := utils.RequireText(msg.Title, "Title")
	if err != nil {
		return nil, err
	}
	description, err := utils.RequireText(msg.Description, "Description")
	if err != nil {
		return nil, err
	}
	if msg.VideoFile == nil {
		return nil, utils.NewValidationError("Video file is required")
	}
	if msg.Thumbnail == nil {
		return nil, utils.NewValidationError("Thumbnail is required")
	}
	if a.media == nil {
		return nil, utils.NewStorageError("Media storage is not configured", nil)
	}

	videoAsset, err := a.media.UploadVideo(ctx, msg.VideoFile)
	if err != nil {
		return nil, utils.NewStorageError("Failed to upload video file", err)
	}
	thumbAsset, err := a.media.UploadImage(ctx, msg.Thumbnail)
	if err != nil {
		a.discard(videoAsset)
		return nil, utils.NewStorageError("Failed to upload thumbnail", err)
	}

	createdAt := now()
	video := &models.Video{
		ID:          primitive.NewObjectID(),
		VideoFile:   videoAsset.URL,
		Thumbnail:   thumbAsset.URL,
		Title:       title,
		Description: description,
		Duration:    videoAsset.Duration,
		IsPublished: msg.IsPublished,
		OwnerID:     msg.UserID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if err := a.DB.SaveVideo(ctx, video); err != nil {
		a.discard(videoAsset, thumbAsset)
		return nil, err
	}

	log.Info().Str("videoId", video.ID.Hex()).Str("owner", msg.UserID.Hex()).Msg("video published")
	return video, nil
}

// discard removes assets of a publish that did not complete. It runs on a
// fresh context since the request context may be what failed.
func (a *VideoActor) discard(assets ...*storage.MediaAsset) {
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultOperationTimeout
	}
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), timeout)
	defer cancel()
	for _, asset := range assets {
		if err := a.media.Remove(ctx, asset); err != nil {
			log.Error().Err(err).Str("object", asset.Object).Msg("failed to remove orphaned upload")
		}
	}
}

func (a *VideoActor) handleUpdateVideo(ctx stdctx.Context, msg *UpdateVideoMsg) (*models.Video, error) {
	title, err := utils.RequireText(msg.Title, "Title")
	if err != nil {
		return nil, err
	}
	description, err := utils.RequireText(msg.Description, "Description")
	if err != nil {
		return nil, err
	}

	video, err := a.ownedVideo(ctx, msg.VideoID, msg.UserID, "update this video")
	if err != nil {
		return nil, err
	}

	if msg.Thumbnail != nil {
		if a.media == nil {
			return nil, utils.NewStorageError("Media storage is not configured", nil)
		}
		asset, err := a.media.UploadImage(ctx, msg.Thumbnail)
		if err != nil {
			return nil, utils.NewStorageError("Failed to upload thumbnail", err)
		}
		video.Thumbnail = asset.URL
	}

	video.Title = title
	video.Description = description
	video.UpdatedAt = now()
	if err := a.DB.SaveVideo(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// ownedVideo loads a video and checks that userID owns it.
func (a *VideoActor) ownedVideo(ctx stdctx.Context, videoID, userID primitive.ObjectID, action string) (*models.Video, error) {
	if err := utils.RequireActor(userID); err != nil {
		return nil, err
	}
	if err := utils.RequireID(videoID, "video"); err != nil {
		return nil, err
	}
	video, err := a.DB.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := utils.RequireOwner(video.OwnerID, userID, action); err != nil {
		return nil, err
	}
	return video, nil
}
