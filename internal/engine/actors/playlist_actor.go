package actors

import (
	stdctx "context"

	"videotube/internal/models"
	"videotube/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message types for PlaylistActor
type (
	CreatePlaylistMsg struct {
		UserID      primitive.ObjectID
		Name        string
		Description string
	}

	GetUserPlaylistsMsg struct {
		OwnerID primitive.ObjectID
	}

	GetPlaylistMsg struct {
		PlaylistID primitive.ObjectID
	}

	UpdatePlaylistMsg struct {
		PlaylistID  primitive.ObjectID
		UserID      primitive.ObjectID
		Name        string
		Description string
	}

	DeletePlaylistMsg struct {
		PlaylistID primitive.ObjectID
		UserID     primitive.ObjectID
	}

	AddPlaylistVideoMsg struct {
		PlaylistID primitive.ObjectID
		VideoID    primitive.ObjectID
		UserID     primitive.ObjectID
	}

	RemovePlaylistVideoMsg struct {
		PlaylistID primitive.ObjectID
		VideoID    primitive.ObjectID
		UserID     primitive.ObjectID
	}
)

type PlaylistActor struct {
	Deps
}

func NewPlaylistActor(deps Deps) actor.Actor {
	return &PlaylistActor{Deps: deps}
}

func (a *PlaylistActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Debug().Str("pid", context.Self().String()).Msg("PlaylistActor started")

	case *CreatePlaylistMsg:
		a.run(context, "create_playlist", func(ctx stdctx.Context) (interface{}, error) {
			return a.handleCreatePlaylist(ctx, msg)
		})

	case *GetUserPlaylistsMsg:
		a.run(context, "get_user_playlists", func(ctx stdctx.Context) (interface{}, error) {
			if err := utils.RequireID(msg.OwnerID, "user"); err != nil {
				return nil, err
			}
			return a.DB.GetUserPlaylists(ctx, msg.OwnerID)
		})

	case *GetPlaylistMsg:
		a.run(context, "get_playlist", func(ctx stdctx.Context) (interface{}, error) {
			if err := utils.RequireID(msg.PlaylistID, "playlist"); err != nil {
				return nil, err
			}
			return a.DB.GetPlaylist(ctx, msg.PlaylistID)
		})

	case *UpdatePlaylistMsg:
		a.run(context, "update_playlist", func(ctx stdctx.Context) (interface{}, error) {
			return a.handleUpdatePlaylist(ctx, msg)
		})

	case *DeletePlaylistMsg:
		a.run(context, "delete_playlist", func(ctx stdctx.Context) (interface{}, error) {
			playlist, err := a.ownedPlaylist(ctx, msg.PlaylistID, msg.UserID, "delete this playlist")
			if err != nil {
				return nil, err
			}
			if err := a.DB.DeletePlaylist(ctx, playlist.ID); err != nil {
				return nil, err
			}
			return playlist, nil
		})

	case *AddPlaylistVideoMsg:
		a.run(context, "add_playlist_video", func(ctx stdctx.Context) (interface{}, error) {
			if err := a.checkPlaylistVideo(ctx, msg.PlaylistID, msg.VideoID, msg.UserID); err != nil {
				return nil, err
			}
			if _, err := a.DB.GetVideo(ctx, msg.VideoID); err != nil {
				return nil, err
			}
			return a.DB.PushPlaylistVideo(ctx, msg.PlaylistID, msg.VideoID)
		})

	case *RemovePlaylistVideoMsg:
		a.run(context, "remove_playlist_video", func(ctx stdctx.Context) (interface{}, error) {
			if err := a.checkPlaylistVideo(ctx, msg.PlaylistID, msg.VideoID, msg.UserID); err != nil {
				return nil, err
			}
			return a.DB.PullPlaylistVideo(ctx, msg.PlaylistID, msg.VideoID)
		})

	case *actor.Stopping, *actor.Stopped, *actor.Restarting:
	default:
		log.Warn().Str("type", typeName(msg)).Msg("PlaylistActor: unknown message")
	}
}

func (a *PlaylistActor) handleCreatePlaylist(ctx stdctx.Context, msg *CreatePlaylistMsg) (*models.Playlist, error) {
	if err := utils.RequireActor(msg.UserID); err != nil {
		return nil, err
	}
	name, err := utils.RequireText(msg.Name, "Name")
	if err != nil {
		return nil, err
	}
	description, err := utils.RequireText(msg.Description, "Description")
	if err != nil {
		return nil, err
	}

	createdAt := now()
	playlist := &models.Playlist{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		Videos:      []primitive.ObjectID{},
		OwnerID:     msg.UserID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if err := a.DB.SavePlaylist(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (a *PlaylistActor) handleUpdatePlaylist(ctx stdctx.Context, msg *UpdatePlaylistMsg) (*models.Playlist, error) {
	name, err := utils.RequireText(msg.Name, "Name")
	if err != nil {
		return nil, err
	}
	description, err := utils.RequireText(msg.Description, "Description")
	if err != nil {
		return nil, err
	}

	playlist, err := a.ownedPlaylist(ctx, msg.PlaylistID, msg.UserID, "update this playlist")
	if err != nil {
		return nil, err
	}
	playlist.Name = name
	playlist.Description = description
	playlist.UpdatedAt = now()
	if err := a.DB.SavePlaylist(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// checkPlaylistVideo verifies the video id and ownership of the playlist.
// Removal skips the video lookup so ids of deleted videos can still be pulled.
func (a *PlaylistActor) checkPlaylistVideo(ctx stdctx.Context, playlistID, videoID, userID primitive.ObjectID) error {
	if err := utils.RequireID(videoID, "video"); err != nil {
		return err
	}
	_, err := a.ownedPlaylist(ctx, playlistID, userID, "modify this playlist")
	return err
}

func (a *PlaylistActor) ownedPlaylist(ctx stdctx.Context, playlistID, userID primitive.ObjectID, action string) (*models.Playlist, error) {
	if err := utils.RequireActor(userID); err != nil {
		return nil, err
	}
	if err := utils.RequireID(playlistID, "playlist"); err != nil {
		return nil, err
	}
	playlist, err := a.DB.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if err := utils.RequireOwner(playlist.OwnerID, userID, action); err != nil {
		return nil, err
	}
	return playlist, nil
}
