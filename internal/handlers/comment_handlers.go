package handlers

import (
	"net/http"

	"videotube/internal/engine/actors"
	"videotube/internal/middleware"
)

// ContentRequest is the body of comment and tweet writes.
type ContentRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// HandleGetVideoComments lists top-level comments of a video with their replies
func (s *Server) HandleGetVideoComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID, err := pathID(r, "videoId", "video")
		if err != nil {
			middleware.WriteError(w, err)
			return
		}

		s.reply(w, s.Engine.GetCommentActor(), &actors.GetVideoCommentsMsg{
			VideoID: videoID,
			Page:    pageFromQuery(r),
		}, http.StatusOK, "Video comments fetched successfully")
	}
}

// HandleAddComment adds a top-level comment to a video
func (s *Server) HandleAddComment() http.HandlerFunc {
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
		var req ContentRequest
		if err := s.decodeBody(r, &req); err != nil {
			middleware.WriteError(w, err)
			return
		}

		s.reply(w, s.Engine.GetCommentActor(), &actors.AddCommentMsg{
			VideoID: videoID,
			UserID:  userID,
			Content: req.Content,
		}, http.StatusOK, "Comment added successfully")
	}
}

// HandleReplyComment answers an existing comment on the same video
func (s *Server) HandleReplyComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUser(r)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		commentID, err := pathID(r, "commentId", "comment")
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		var req ContentRequest
		if err := s.decodeBody(r, &req); err != nil {
			middleware.WriteError(w, err)
			return
		}

		s.reply(w, s.Engine.GetCommentActor(), &actors.ReplyCommentMsg{
			CommentID: commentID,
			UserID:    userID,
			Content:   req.Content,
		}, http.StatusOK, "Reply added successfully")
	}
}

func (s *Server) HandleUpdateComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUser(r)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		commentID, err := pathID(r, "commentId", "comment")
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		var req ContentRequest
		if err := s.decodeBody(r, &req); err != nil {
			middleware.WriteError(w, err)
			return
		}

		s.reply(w, s.Engine.GetCommentActor(), &actors.UpdateCommentMsg{
			CommentID: commentID,
			UserID:    userID,
			Content:   req.Content,
		}, http.StatusOK, "Comment updated successfully")
	}
}

func (s *Server) HandleDeleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUser(r)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		commentID, err := pathID(r, "commentId", "comment")
		if err != nil {
			middleware.WriteError(w, err)
			return
		}

		s.reply(w, s.Engine.GetCommentActor(), &actors.DeleteCommentMsg{
			CommentID: commentID,
			UserID:    userID,
		}, http.StatusOK, "Comment deleted successfully")
	}
}
