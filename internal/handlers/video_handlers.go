package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"videotube/internal/engine/actors"
	"videotube/internal/middleware"
	"videotube/internal/models"
	"videotube/internal/storage"
	"videotube/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VideoForm holds the text fields of publish and update.
type VideoForm struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=5000"`
}

// ListVideosQuery is the query string of the video listing. SortBy is
// checked by the video actor; any SortType other than asc sorts descending.
type ListVideosQuery struct {
	Query    string `validate:"max=200"`
	SortBy   string
	SortType string
}

// HandleListVideos lists videos with optional owner filter, text search and sort
func (s *Server) HandleListVideos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query := ListVideosQuery{
			Query:    strings.TrimSpace(q.Get("query")),
			SortBy:   strings.TrimSpace(q.Get("sortBy")),
			SortType: strings.TrimSpace(q.Get("sortType")),
		}
		if err := s.validateStruct(&query); err != nil {
			middleware.WriteError(w, err)
			return
		}

		var ownerID *primitive.ObjectID
		if raw := q.Get("userId"); raw != "" {
			id, err := utils.ParseObjectID(raw, "user")
			if err != nil {
				middleware.WriteError(w, err)
				return
			}
			ownerID = &id
		}

		s.reply(w, s.Engine.GetVideoActor(), &actors.ListVideosMsg{
			Page:     pageFromQuery(r),
			Query:    query.Query,
			SortBy:   query.SortBy,
			SortType: query.SortType,
			OwnerID:  ownerID,
		}, http.StatusOK, "Videos fetched successfully")
	}
}

func (s *Server) HandleGetVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID, err := pathID(r, "videoId", "video")
		if err != nil {
			middleware.WriteError(w, err)
			return
		}

		s.reply(w, s.Engine.GetVideoActor(), &actors.GetVideoMsg{VideoID: videoID},
			http.StatusOK, "Video fetched successfully")
	}
}

// HandlePublishVideo accepts a multipart upload of the video and its thumbnail
func (s *Server) HandlePublishVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUser(r)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		if !isMultipart(r) {
			middleware.WriteError(w, utils.NewValidationError("Expected a multipart/form-data body"))
			return
		}
		if err := s.parseMultipart(w, r); err != nil {
			middleware.WriteError(w, err)
			return
		}

		form := VideoForm{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
		}
		if err := s.validateStruct(&form); err != nil {
			cleanupUploads(r)
			middleware.WriteError(w, err)
			return
		}

		isPublished := true
		if raw := strings.TrimSpace(r.FormValue("isPublished")); raw != "" {
			isPublished, err = strconv.ParseBool(raw)
			if err != nil {
				cleanupUploads(r)
				middleware.WriteError(w, utils.NewValidationError("isPublished must be true or false"))
				return
			}
		}

		videoFile, err := spoolFile(r, "videoFile")
		if err != nil {
			cleanupUploads(r)
			middleware.WriteError(w, err)
			return
		}
		thumbnail, err := spoolFile(r, "thumbnail")
		if err != nil {
			cleanupUploads(r, videoFile)
			middleware.WriteError(w, err)
			return
		}
		defer cleanupUploads(r, videoFile, thumbnail)

		result, err := s.askWithin(s.Engine.GetVideoActor(), &actors.PublishVideoMsg{
			UserID:      userID,
			Title:       form.Title,
			Description: form.Description,
			IsPublished: isPublished,
			VideoFile:   videoFile,
			Thumbnail:   thumbnail,
		}, s.UploadTimeout)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		middleware.WriteSuccess(w, http.StatusOK, result, "Video published successfully")
	}
}

// HandleUpdateVideo replaces title and description, and the thumbnail when
// a multipart body carries one.
func (s *Server) HandleUpdateVideo() http.HandlerFunc {
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

		var form VideoForm
		var thumbnail *storage.Upload
		if isMultipart(r) {
			if err := s.parseMultipart(w, r); err != nil {
				middleware.WriteError(w, err)
				return
			}
			form = VideoForm{Title: r.FormValue("title"), Description: r.FormValue("description")}
			if err := s.validateStruct(&form); err != nil {
				cleanupUploads(r)
				middleware.WriteError(w, err)
				return
			}
			if thumbnail, err = spoolFile(r, "thumbnail"); err != nil {
				cleanupUploads(r)
				middleware.WriteError(w, err)
				return
			}
			defer cleanupUploads(r, thumbnail)
		} else if err := s.decodeBody(r, &form); err != nil {
			middleware.WriteError(w, err)
			return
		}

		result, err := s.askWithin(s.Engine.GetVideoActor(), &actors.UpdateVideoMsg{
			VideoID:     videoID,
			UserID:      userID,
			Title:       form.Title,
			Description: form.Description,
			Thumbnail:   thumbnail,
		}, s.UploadTimeout)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		middleware.WriteSuccess(w, http.StatusOK, result, "Video updated successfully")
	}
}

func (s *Server) HandleDeleteVideo() http.HandlerFunc {
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

		s.reply(w, s.Engine.GetVideoActor(), &actors.DeleteVideoMsg{
			VideoID: videoID,
			UserID:  userID,
		}, http.StatusOK, "Video deleted successfully")
	}
}

func (s *Server) HandleTogglePublish() http.HandlerFunc {
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

		result, err := s.ask(s.Engine.GetVideoActor(), &actors.TogglePublishMsg{
			VideoID: videoID,
			UserID:  userID,
		})
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		video := result.(*models.Video)
		middleware.WriteSuccess(w, http.StatusOK, video,
			"Publish status toggled successfully. New status: "+video.PublishStatus())
	}
}
