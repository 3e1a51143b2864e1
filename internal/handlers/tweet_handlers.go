package handlers

import (
	"net/http"

	"videotube/internal/engine/actors"
	"videotube/internal/middleware"
)

func (s *Server) HandleCreateTweet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUser(r)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		var req ContentRequest
		if err := s.decodeBody(r, &req); err != nil {
			middleware.WriteError(w, err)
			return
		}

		s.reply(w, s.Engine.GetTweetActor(), &actors.CreateTweetMsg{
			UserID:  userID,
			Content: req.Content,
		}, http.StatusCreated, "Tweet created successfully")
	}
}

// HandleGetUserTweets lists a user's tweets, newest first
func (s *Server) HandleGetUserTweets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := pathID(r, "userId", "user")
		if err != nil {
			middleware.WriteError(w, err)
			return
		}

		s.reply(w, s.Engine.GetTweetActor(), &actors.GetUserTweetsMsg{
			OwnerID: ownerID,
		}, http.StatusOK, "User tweets fetched successfully")
	}
}

func (s *Server) HandleUpdateTweet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUser(r)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		tweetID, err := pathID(r, "tweetId", "tweet")
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		var req ContentRequest
		if err := s.decodeBody(r, &req); err != nil {
			middleware.WriteError(w, err)
			return
		}

		s.reply(w, s.Engine.GetTweetActor(), &actors.UpdateTweetMsg{
			TweetID: tweetID,
			UserID:  userID,
			Content: req.Content,
		}, http.StatusOK, "Tweet updated successfully")
	}
}

func (s *Server) HandleDeleteTweet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUser(r)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		tweetID, err := pathID(r, "tweetId", "tweet")
		if err != nil {
			middleware.WriteError(w, err)
			return
		}

		s.reply(w, s.Engine.GetTweetActor(), &actors.DeleteTweetMsg{
			TweetID: tweetID,
			UserID:  userID,
		}, http.StatusOK, "Tweet deleted successfully")
	}
}
