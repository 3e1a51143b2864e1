package actors

import (
	stdctx "context"

	"videotube/internal/models"
	"videotube/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message types for EngagementActor
type (
	// ToggleMsg flips one like, dislike or subscription of UserID on the target.
	ToggleMsg struct {
		Kind       models.RelationKind
		TargetKind models.TargetKind
		TargetID   primitive.ObjectID
		UserID     primitive.ObjectID
	}

	GetRelatedVideosMsg struct {
		Kind   models.RelationKind
		UserID primitive.ObjectID
	}

	GetChannelSubscribersMsg struct {
		ChannelID primitive.ObjectID
	}

	GetSubscribedChannelsMsg struct {
		SubscriberID primitive.ObjectID
	}
)

// EngagementActor owns likes, dislikes and subscriptions. All three share
// one toggle implementation; only the target lookup differs.
type EngagementActor struct {
	Deps
}

func NewEngagementActor(deps Deps) actor.Actor {
	return &EngagementActor{Deps: deps}
}

func (a *EngagementActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Debug().Str("pid", context.Self().String()).Msg("EngagementActor started")

	case *ToggleMsg:
		a.run(context, "toggle_"+string(msg.Kind), func(ctx stdctx.Context) (interface{}, error) {
			return a.handleToggle(ctx, msg)
		})

	case *GetRelatedVideosMsg:
		a.run(context, "get_"+string(msg.Kind)+"d_videos", func(ctx stdctx.Context) (interface{}, error) {
			if err := utils.RequireActor(msg.UserID); err != nil {
				return nil, err
			}
			return a.DB.GetRelatedVideos(ctx, msg.Kind, msg.UserID)
		})

	case *GetChannelSubscribersMsg:
		a.run(context, "get_channel_subscribers", func(ctx stdctx.Context) (interface{}, error) {
			if err := utils.RequireID(msg.ChannelID, "channel"); err != nil {
				return nil, err
			}
			return a.DB.GetChannelSubscribers(ctx, msg.ChannelID)
		})

	case *GetSubscribedChannelsMsg:
		a.run(context, "get_subscribed_channels", func(ctx stdctx.Context) (interface{}, error) {
			if err := utils.RequireID(msg.SubscriberID, "subscriber"); err != nil {
				return nil, err
			}
			return a.DB.GetSubscribedChannels(ctx, msg.SubscriberID)
		})

	case *actor.Stopping, *actor.Stopped, *actor.Restarting:
	default:
		log.Warn().Str("type", typeName(msg)).Msg("EngagementActor: unknown message")
	}
}

// handleToggle validates the request, confirms the target exists and then
// toggles the relation.
func (a *EngagementActor) handleToggle(ctx stdctx.Context, msg *ToggleMsg) (*models.ToggleResult, error) {
	if err := utils.RequireActor(msg.UserID); err != nil {
		return nil, err
	}
	rel := models.Relation{
		Kind:       msg.Kind,
		ActorID:    msg.UserID,
		TargetKind: msg.TargetKind,
		TargetID:   msg.TargetID,
	}
	if !rel.Valid() {
		return nil, utils.NewValidationError("Cannot " + string(msg.Kind) + " a " + string(msg.TargetKind))
	}
	if err := utils.RequireID(msg.TargetID, string(msg.TargetKind)); err != nil {
		return nil, err
	}
	if err := a.ensureTarget(ctx, msg.TargetKind, msg.TargetID); err != nil {
		return nil, err
	}

	state, err := a.DB.ToggleRelation(ctx, rel)
	if err != nil {
		return nil, err
	}
	if a.Metrics != nil {
		a.Metrics.RecordToggle(string(msg.Kind), string(msg.TargetKind), string(state))
	}
	return &models.ToggleResult{State: state}, nil
}

func (a *EngagementActor) ensureTarget(ctx stdctx.Context, kind models.TargetKind, id primitive.ObjectID) error {
	var err error
	switch kind {
	case models.VideoTarget:
		_, err = a.DB.GetVideo(ctx, id)
	case models.CommentTarget:
		_, err = a.DB.GetComment(ctx, id)
	case models.TweetTarget:
		_, err = a.DB.GetTweet(ctx, id)
	case models.ChannelTarget:
		_, err = a.DB.GetUser(ctx, id)
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			return utils.NewNotFoundError("Channel not found")
		}
	default:
		return utils.NewValidationError("Unsupported target: " + string(kind))
	}
	return err
}
