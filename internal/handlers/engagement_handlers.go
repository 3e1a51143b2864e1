package handlers

import (
	"net/http"

	"videotube/internal/engine/actors"
	"videotube/internal/middleware"
	"videotube/internal/models"
)

// HandleToggle toggles kind on the target named by the param path segment.
// Likes, dislikes and subscriptions share this handler.
func (s *Server) HandleToggle(kind models.RelationKind, target models.TargetKind, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUser(r)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		targetID, err := pathID(r, param, string(target))
		if err != nil {
			middleware.WriteError(w, err)
			return
		}

		result, err := s.ask(s.Engine.GetEngagementActor(), &actors.ToggleMsg{
			Kind:       kind,
			TargetKind: target,
			TargetID:   targetID,
			UserID:     userID,
		})
		if err != nil {
			middleware.WriteError(w, err)
			return
		}

		toggled := result.(*models.ToggleResult)
		middleware.WriteSuccess(w, http.StatusOK, toggled, models.ToggleMessage(kind, target, toggled.State))
	}
}

// HandleRelatedVideos lists the videos the caller liked or disliked
func (s *Server) HandleRelatedVideos(kind models.RelationKind) http.HandlerFunc {
	message := "Liked videos fetched successfully"
	if kind == models.DislikeRelation {
		message = "Disliked videos fetched successfully"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUser(r)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}

		s.reply(w, s.Engine.GetEngagementActor(), &actors.GetRelatedVideosMsg{
			Kind:   kind,
			UserID: userID,
		}, http.StatusOK, message)
	}
}

func (s *Server) HandleChannelSubscribers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channelID, err := pathID(r, "channelId", "channel")
		if err != nil {
			middleware.WriteError(w, err)
			return
		}

		s.reply(w, s.Engine.GetEngagementActor(), &actors.GetChannelSubscribersMsg{
			ChannelID: channelID,
		}, http.StatusOK, "Channel subscribers fetched successfully")
	}
}

func (s *Server) HandleSubscribedChannels() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subscriberID, err := pathID(r, "subscriberId", "subscriber")
		if err != nil {
			middleware.WriteError(w, err)
			return
		}

		s.reply(w, s.Engine.GetEngagementActor(), &actors.GetSubscribedChannelsMsg{
			SubscriberID: subscriberID,
		}, http.StatusOK, "Subscribed channels fetched successfully")
	}
}
