package handlers

import (
	"net/http"

	"videotube/internal/engine/actors"
	"videotube/internal/middleware"
)

// PlaylistRequest is the body of playlist create and update.
type PlaylistRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=5000"`
}

func (s *Server) HandleCreatePlaylist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUser(r)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		var req PlaylistRequest
		if err := s.decodeBody(r, &req); err != nil {
			middleware.WriteError(w, err)
			return
		}

		s.reply(w, s.Engine.GetPlaylistActor(), &actors.CreatePlaylistMsg{
			UserID:      userID,
			Name:        req.Name,
			Description: req.Description,
		}, http.StatusOK, "Playlist created successfully")
	}
}

func (s *Server) HandleGetUserPlaylists() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := pathID(r, "userId", "user")
		if err != nil {
			middleware.WriteError(w, err)
			return
		}

		s.reply(w, s.Engine.GetPlaylistActor(), &actors.GetUserPlaylistsMsg{
			OwnerID: ownerID,
		}, http.StatusOK, "User playlists fetched successfully")
	}
}

func (s *Server) HandleGetPlaylist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playlistID, err := pathID(r, "playlistId", "playlist")
		if err != nil {
			middleware.WriteError(w, err)
			return
		}

		s.reply(w, s.Engine.GetPlaylistActor(), &actors.GetPlaylistMsg{
			PlaylistID: playlistID,
		}, http.StatusOK, "Playlist fetched successfully")
	}
}

func (s *Server) HandleUpdatePlaylist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUser(r)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		playlistID, err := pathID(r, "playlistId", "playlist")
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		var req PlaylistRequest
		if err := s.decodeBody(r, &req); err != nil {
			middleware.WriteError(w, err)
			return
		}

		s.reply(w, s.Engine.GetPlaylistActor(), &actors.UpdatePlaylistMsg{
			PlaylistID:  playlistID,
			UserID:      userID,
			Name:        req.Name,
			Description: req.Description,
		}, http.StatusOK, "Playlist updated successfully")
	}
}

func (s *Server) HandleDeletePlaylist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUser(r)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		playlistID, err := pathID(r, "playlistId", "playlist")
		if err != nil {
			middleware.WriteError(w, err)
			return
		}

		s.reply(w, s.Engine.GetPlaylistActor(), &actors.DeletePlaylistMsg{
			PlaylistID: playlistID,
			UserID:     userID,
		}, http.StatusOK, "Playlist deleted successfully")
	}
}

// HandlePlaylistVideo adds or removes the video in the path from the playlist.
func (s *Server) HandlePlaylistVideo(remove bool) http.HandlerFunc {
	message := "Video added to playlist successfully"
	if remove {
		message = "Video removed from playlist successfully"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUser(r)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		videoID, err := pathID(r, "videoId", "video")
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		playlistID, err := pathID(r, "playlistId", "playlist")
		if err != nil {
			middleware.WriteError(w, err)
			return
		}

		var msg interface{} = &actors.AddPlaylistVideoMsg{PlaylistID: playlistID, VideoID: videoID, UserID: userID}
		if remove {
			msg = &actors.RemovePlaylistVideoMsg{PlaylistID: playlistID, VideoID: videoID, UserID: userID}
		}
		s.reply(w, s.Engine.GetPlaylistActor(), msg, http.StatusOK, message)
	}
}
